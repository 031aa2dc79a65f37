package handler

import (
	"log"

	"github.com/palemoky/rps-cards/internal/apperrors"
	"github.com/palemoky/rps-cards/internal/game/card"
	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
	"github.com/palemoky/rps-cards/internal/types"
)

// handlePlayCard 处理出牌
func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.PlayCardPayload](msg)
	if err != nil {
		return err
	}
	return h.playCard(payload.LobbyName, client.GetID(), payload.Card)
}

// playCard 出牌并推送结果，出牌超时的自动出牌也走这里
func (h *Handler) playCard(lobbyName, connectionID string, value card.Value) error {
	l := h.registry.Get(lobbyName)
	if l == nil {
		return apperrors.ErrLobbyNotFound
	}

	result, err := l.Play(connectionID, value)
	if err != nil {
		return err
	}

	ids := l.ConnectionIDs()

	if round := result.Round; round != nil {
		h.dispatcher.SendToSet(ids, codec.MustNewMessage(protocol.MsgRoundResult, protocol.RoundResultPayload{
			CardA:      round.CardA,
			CardB:      round.CardB,
			Winner:     round.Winner,
			WinnerSeat: round.WinnerSeat,
			HandA:      round.HandA,
			HandB:      round.HandB,
		}))
		h.metrics.RoundResolved(round.Winner.String())
		log.Printf("⚔️ 房间 %s 第 %d 轮: %s vs %s -> %s (剩余 %s | %s)",
			l.Name, l.ResolvedRounds, round.CardA, round.CardB, round.Winner,
			card.FormatHand(round.HandA), card.FormatHand(round.HandB))
	}

	turnChanged := codec.MustNewMessage(protocol.MsgTurnChanged, protocol.TurnChangedPayload{
		ActiveTurn: result.ActiveTurn,
	})

	if result.MatchOver {
		h.dispatcher.SendToSet(ids, codec.MustNewMessage(protocol.MsgMatchOver, nil))
		// 对局结束后仍照常推送轮次变化
		h.dispatcher.SendToSet(ids, turnChanged)
		log.Printf("🏁 房间 %s 对局结束，共 %d 轮", l.Name, l.ResolvedRounds)
		h.removeLobby(l, "completed")
		h.broadcastLobbyList()
		return nil
	}

	h.dispatcher.SendToSet(ids, turnChanged)
	h.armTurnTimer(l)
	h.mirror.save(l.ToLobbyData(h.directory.Name))
	return nil
}
