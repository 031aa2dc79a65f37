package handler

import (
	"log"
	"strings"
	"unicode/utf8"

	"github.com/palemoky/rps-cards/internal/apperrors"
	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
	"github.com/palemoky/rps-cards/internal/types"
)

// maxChatLength 单条聊天消息最大长度（字符）
const maxChatLength = 200

// handleChat 处理房间聊天
func (h *Handler) handleChat(client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.ChatRequestPayload](msg)
	if err != nil {
		return err
	}

	id := client.GetID()
	username, ok := h.directory.Lookup(id)
	if !ok {
		return apperrors.ErrNoIdentity
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		return apperrors.ErrInvalidMessage
	}
	if utf8.RuneCountInString(text) > maxChatLength {
		text = string([]rune(text)[:maxChatLength])
	}

	l := h.registry.Get(payload.LobbyName)
	if l == nil {
		return apperrors.ErrLobbyNotFound
	}
	if !l.Has(id) {
		return apperrors.ErrNotInLobby
	}

	// 聊天限流检查
	if h.chatLimiter != nil {
		if allowed, reason := h.chatLimiter.AllowChat(id); !allowed {
			log.Printf("💬 连接 %s 聊天被限流: %s", id, reason)
			return apperrors.ErrRateLimited
		}
	}

	entry := l.AddMessage(username, text)
	h.dispatcher.SendToSet(l.ConnectionIDs(), codec.MustNewMessage(protocol.MsgChat, protocol.ChatMessage{
		Username: entry.Username,
		Text:     entry.Text,
		Time:     entry.Time.Unix(),
	}))
	return nil
}
