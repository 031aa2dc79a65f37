package types

import (
	"context"

	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/server/storage"
)

// Dispatcher 定义消息投递接口（用于打破循环依赖）
type Dispatcher interface {
	// SendTo 投递给单个连接，连接不存在时忽略
	SendTo(connectionID string, msg *protocol.Message)
	// SendToSet 投递给一组连接
	SendToSet(connectionIDs []string, msg *protocol.Message)
	// Broadcast 投递给所有连接
	Broadcast(msg *protocol.Message)
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	SendMessage(msg *protocol.Message)
	Close()
}

// ChatLimiter 聊天速率限制器接口
type ChatLimiter interface {
	AllowChat(clientID string) (allowed bool, reason string)
	RemoveClient(clientID string)
}

// LobbyStore 房间快照存储接口
type LobbyStore interface {
	SaveLobby(ctx context.Context, data *storage.LobbyData) error
	DeleteLobby(ctx context.Context, name string) error
}
