package client

import (
	"github.com/palemoky/rps-cards/internal/game/card"
	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
)

// MatchState 客户端视角的对局状态，由服务端消息驱动
type MatchState struct {
	LobbyName    string
	Seat         int
	Hand         []card.Value
	OpponentHand []card.Value
	ActiveTurn   int
	OpponentName string

	// 已出但尚未结算的牌
	Pending *card.Value

	Rounds       []protocol.RoundResultPayload
	Wins         int
	Losses       int
	Started      bool
	Over         bool
	OpponentLeft bool
}

// NewMatchState creates an empty match state
func NewMatchState() *MatchState {
	return &MatchState{}
}

// Reset clears all match state
func (s *MatchState) Reset() {
	*s = MatchState{}
}

// MyTurn 是否轮到自己出牌
func (s *MatchState) MyTurn() bool {
	return s.Started && !s.Over && !s.OpponentLeft && s.ActiveTurn == s.Seat && s.Pending == nil
}

// Playable 当前可以出的牌（手牌中去掉一张待结算的牌）
func (s *MatchState) Playable() []card.Value {
	if s.Pending == nil {
		return s.Hand
	}
	hand, _ := card.RemoveOne(s.Hand, *s.Pending)
	return hand
}

// MarkPlayed 记录自己刚出的牌
func (s *MatchState) MarkPlayed(v card.Value) {
	s.Pending = &v
}

// Apply 用一条服务端消息更新状态，返回消息是否与对局相关
func (s *MatchState) Apply(msg *protocol.Message) bool {
	switch msg.Type {
	case protocol.MsgGameStart:
		p, err := codec.ParsePayload[protocol.GameStartPayload](msg)
		if err != nil {
			return false
		}
		s.Reset()
		s.LobbyName = p.LobbyName
		s.Seat = p.Seat
		s.Hand = p.OwnHand
		s.OpponentHand = p.OpponentHand
		s.ActiveTurn = p.ActiveTurn
		s.OpponentName = p.OpponentUsername
		s.Started = true

	case protocol.MsgTurnChanged:
		p, err := codec.ParsePayload[protocol.TurnChangedPayload](msg)
		if err != nil {
			return false
		}
		s.ActiveTurn = p.ActiveTurn

	case protocol.MsgRoundResult:
		p, err := codec.ParsePayload[protocol.RoundResultPayload](msg)
		if err != nil {
			return false
		}
		if s.Seat == 0 {
			s.Hand, s.OpponentHand = p.HandA, p.HandB
		} else {
			s.Hand, s.OpponentHand = p.HandB, p.HandA
		}
		switch p.WinnerSeat {
		case s.Seat:
			s.Wins++
		case 1 - s.Seat:
			s.Losses++
		}
		s.Pending = nil
		s.Rounds = append(s.Rounds, *p)

	case protocol.MsgMatchOver:
		s.Over = true

	case protocol.MsgOpponentDisconnected:
		s.OpponentLeft = true

	default:
		return false
	}
	return true
}
