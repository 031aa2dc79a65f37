package handler

import (
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/palemoky/rps-cards/internal/game/lobby"
	"github.com/palemoky/rps-cards/internal/protocol"
)

// armTurnTimer 为当前回合重新计时，未配置超时时不做任何事
func (h *Handler) armTurnTimer(l *lobby.Lobby) {
	if h.turnTimeout <= 0 {
		return
	}
	h.stopTurnTimer(l.Name)

	seq := l.TurnSeq
	h.timers[l.Name] = time.AfterFunc(h.turnTimeout, func() {
		h.onTurnTimeout(l, seq)
	})
}

func (h *Handler) stopTurnTimer(name string) {
	if t, ok := h.timers[name]; ok {
		t.Stop()
		delete(h.timers, name)
	}
}

// onTurnTimeout 回合超时：当前玩家自动打出手牌中的第一张
//
// 计时器触发时房间可能已被删除、重建或轮次已变化，此时忽略。
func (h *Handler) onTurnTimeout(l *lobby.Lobby, seq uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.registry.Get(l.Name) != l || l.TurnSeq != seq {
		return
	}
	delete(h.timers, l.Name)

	active := l.ActiveParticipant()
	if active == nil || len(active.Hand) == 0 {
		return
	}

	span := h.startSpan("turn_timeout", active.ConnectionID, attribute.String("rps.lobby", l.Name))
	value := active.Hand[0]
	log.Printf("⏰ 房间 %s 座位 %d 出牌超时，自动打出 %s", l.Name, l.ActiveTurn, value)
	h.metrics.TurnTimedOut()

	err := h.playCard(l.Name, active.ConnectionID, value)
	endSpan(span, err)
	if err != nil {
		h.drop(active.ConnectionID, protocol.MsgPlayCard, err)
	}
}
