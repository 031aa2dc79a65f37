package handler

import (
	"log"

	"github.com/palemoky/rps-cards/internal/game/lobby"
	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
)

// HandleDisconnect 处理断线：清除昵称，通知对手并删除所在房间
func (h *Handler) HandleDisconnect(connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	span := h.startSpan("disconnect", connectionID)
	defer endSpan(span, nil)

	h.directory.Remove(connectionID)
	if h.chatLimiter != nil {
		h.chatLimiter.RemoveClient(connectionID)
	}

	l := h.registry.FindByConn(connectionID)
	if l == nil {
		return
	}

	if opponent := l.Opponent(connectionID); opponent != nil {
		h.dispatcher.SendTo(opponent.ConnectionID, codec.MustNewMessage(protocol.MsgOpponentDisconnected, nil))
	}

	end := ""
	if l.Phase == lobby.PhasePlaying {
		end = "disconnected"
	}
	log.Printf("🔌 连接 %s 断开，房间 %s 已解散", connectionID, l.Name)
	h.removeLobby(l, end)
	h.broadcastLobbyList()
}
