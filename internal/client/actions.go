package client

import (
	"github.com/palemoky/rps-cards/internal/game/card"
	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
)

// --- 便捷方法 ---

// AnnounceIdentity 设置昵称
func (c *Client) AnnounceIdentity(displayName string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgIdentityAnnounce, protocol.IdentityAnnouncePayload{
		DisplayName: displayName,
	}))
}

// CreateLobby 创建房间
func (c *Client) CreateLobby(name string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgCreateLobby, protocol.CreateLobbyPayload{
		LobbyName: name,
	}))
}

// JoinLobby 加入房间
func (c *Client) JoinLobby(name string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgJoinLobby, protocol.JoinLobbyPayload{
		LobbyName: name,
	}))
}

// GetLobbyList 请求房间列表
func (c *Client) GetLobbyList() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetLobbyList, nil))
}

// PlayCard 出牌
func (c *Client) PlayCard(lobbyName string, value card.Value) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPlayCard, protocol.PlayCardPayload{
		LobbyName: lobbyName,
		Card:      value,
	}))
}

// Chat 发送房间聊天
func (c *Client) Chat(lobbyName, text string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgChat, protocol.ChatRequestPayload{
		LobbyName: lobbyName,
		Text:      text,
	}))
}
