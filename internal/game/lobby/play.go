package lobby

import (
	"github.com/palemoky/rps-cards/internal/apperrors"
	"github.com/palemoky/rps-cards/internal/game/card"
)

// Round 一轮结算结果
type Round struct {
	CardA      card.Value   // 0 号位的牌
	CardB      card.Value   // 1 号位的牌
	Winner     card.Outcome // Resolve(本次出牌, 对手已出的牌)
	WinnerSeat int          // -1 平局
	HandA      []card.Value
	HandB      []card.Value
}

// PlayResult 一次出牌的结果
type PlayResult struct {
	Seat       int
	Round      *Round // 未触发结算时为 nil
	MatchOver  bool
	ActiveTurn int
}

// Play 出一张牌
//
// 只有当前回合玩家可以出牌，且牌必须在手中；否则返回错误且状态不变。
// 出牌后记为待结算，牌在结算时才从手牌中移除，因此未结算时双方手牌数不变；
// 若对手已有待结算的牌则立即结算，双方各移除一张并清空待结算牌。
// 无论是否结算，回合都交给另一位玩家。
func (l *Lobby) Play(connectionID string, value card.Value) (*PlayResult, error) {
	if l.Phase != PhasePlaying {
		return nil, apperrors.ErrGameNotStarted
	}

	seat := l.Seat(connectionID)
	if seat < 0 {
		return nil, apperrors.ErrNotInLobby
	}
	if seat != l.ActiveTurn {
		return nil, apperrors.ErrNotYourTurn
	}
	if !value.Valid() {
		return nil, apperrors.ErrInvalidCard
	}

	player := l.Participants[seat]
	opponent := l.Participants[1-seat]

	// 同一玩家不会同时有两张待结算的牌
	if player.Pending != nil {
		return nil, apperrors.ErrNotYourTurn
	}

	if !card.Contains(player.Hand, value) {
		return nil, apperrors.ErrCardNotInHand
	}
	committed := value
	player.Pending = &committed

	result := &PlayResult{Seat: seat}

	if opponent.Pending != nil {
		result.Round = l.resolve(seat)
		if len(l.Participants[0].Hand) == 0 && len(l.Participants[1].Hand) == 0 {
			l.Phase = PhaseFinished
			result.MatchOver = true
		}
	}

	l.ActiveTurn = 1 - l.ActiveTurn
	l.TurnSeq++
	result.ActiveTurn = l.ActiveTurn

	return result, nil
}

// resolve 结算本轮，seat 为触发结算的玩家
func (l *Lobby) resolve(seat int) *Round {
	player := l.Participants[seat]
	opponent := l.Participants[1-seat]
	a, b := l.Participants[0], l.Participants[1]

	outcome := card.Resolve(*player.Pending, *opponent.Pending)

	a.Hand, _ = card.RemoveOne(a.Hand, *a.Pending)
	b.Hand, _ = card.RemoveOne(b.Hand, *b.Pending)

	winnerSeat := -1
	switch outcome {
	case card.FirstWins:
		winnerSeat = seat
	case card.SecondWins:
		winnerSeat = 1 - seat
	}

	round := &Round{
		CardA:      *a.Pending,
		CardB:      *b.Pending,
		Winner:     outcome,
		WinnerSeat: winnerSeat,
		HandA:      append([]card.Value{}, a.Hand...),
		HandB:      append([]card.Value{}, b.Hand...),
	}

	a.Pending = nil
	b.Pending = nil
	l.ResolvedRounds++

	return round
}

// ActiveParticipant 当前回合玩家
func (l *Lobby) ActiveParticipant() *Participant {
	if l.Phase != PhasePlaying || l.ActiveTurn >= len(l.Participants) {
		return nil
	}
	return l.Participants[l.ActiveTurn]
}
