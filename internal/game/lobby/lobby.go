package lobby

import (
	"slices"
	"time"

	"github.com/palemoky/rps-cards/internal/apperrors"
	"github.com/palemoky/rps-cards/internal/game/card"
)

const (
	// MaxParticipants 每个房间的玩家数
	MaxParticipants = 2
	// MaxChatHistory 房间保留的聊天记录条数
	MaxChatHistory = 50
)

// Participant 房间中的玩家
type Participant struct {
	ConnectionID string
	Hand         []card.Value
	Pending      *card.Value // 本轮已出但尚未结算的牌，结算前仍留在 Hand 中
}

// ChatEntry 房间聊天记录
type ChatEntry struct {
	Username string
	Text     string
	Time     time.Time
}

// Lobby 一局两人对战
type Lobby struct {
	Name         string
	Participants []*Participant
	Deck         card.Deck
	Phase        Phase
	ActiveTurn   int
	HandSize     int
	Messages     []ChatEntry
	CreatedAt    time.Time

	// TurnSeq 每次轮次变化加一，用于识别过期的超时计时器
	TurnSeq uint64
	// ResolvedRounds 已结算的轮数
	ResolvedRounds int
}

// New 创建房间，创建者坐 0 号位
func New(name, creatorID string, handSize int) *Lobby {
	return &Lobby{
		Name:         name,
		Participants: []*Participant{{ConnectionID: creatorID}},
		Deck:         card.GenerateDeck(handSize),
		Phase:        PhaseWaiting,
		HandSize:     handSize,
		CreatedAt:    time.Now(),
	}
}

// Seat 返回玩家的座位号，不在房间中返回 -1
func (l *Lobby) Seat(connectionID string) int {
	return slices.IndexFunc(l.Participants, func(p *Participant) bool {
		return p.ConnectionID == connectionID
	})
}

// Has 玩家是否在房间中
func (l *Lobby) Has(connectionID string) bool {
	return l.Seat(connectionID) >= 0
}

// Host 房主连接 ID
func (l *Lobby) Host() string {
	if len(l.Participants) == 0 {
		return ""
	}
	return l.Participants[0].ConnectionID
}

// Opponent 返回对手，不在房间或对手未加入时返回 nil
func (l *Lobby) Opponent(connectionID string) *Participant {
	seat := l.Seat(connectionID)
	if seat < 0 || len(l.Participants) < MaxParticipants {
		return nil
	}
	return l.Participants[1-seat]
}

// ConnectionIDs 按座位顺序返回所有玩家的连接 ID
func (l *Lobby) ConnectionIDs() []string {
	ids := make([]string, len(l.Participants))
	for i, p := range l.Participants {
		ids[i] = p.ConnectionID
	}
	return ids
}

// CardsInPlay 双方手牌总数
func (l *Lobby) CardsInPlay() int {
	total := 0
	for _, p := range l.Participants {
		total += len(p.Hand)
	}
	return total
}

// Join 第二位玩家加入，发牌并开始对局
func (l *Lobby) Join(connectionID string) error {
	if l.Has(connectionID) {
		return apperrors.ErrAlreadyInLobby
	}
	if len(l.Participants) >= MaxParticipants || l.Phase != PhaseWaiting {
		return apperrors.ErrLobbyFull
	}

	l.Participants = append(l.Participants, &Participant{ConnectionID: connectionID})

	first, second := l.Deck.Split(l.HandSize)
	l.Participants[0].Hand = first
	l.Participants[1].Hand = second
	l.Phase = PhasePlaying
	l.ActiveTurn = 0
	l.TurnSeq++

	return nil
}

// AddMessage 追加聊天记录
func (l *Lobby) AddMessage(username, text string) ChatEntry {
	entry := ChatEntry{Username: username, Text: text, Time: time.Now()}
	l.Messages = append(l.Messages, entry)
	if over := len(l.Messages) - MaxChatHistory; over > 0 {
		l.Messages = slices.Delete(l.Messages, 0, over)
	}
	return entry
}
