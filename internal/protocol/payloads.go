package protocol

import (
	"encoding/json"
	"errors"

	"github.com/palemoky/rps-cards/internal/game/card"
)

// ErrMissingCard 出牌请求缺少牌面
var ErrMissingCard = errors.New("出牌请求缺少牌面")

// --- 客户端请求 Payloads ---

// IdentityAnnouncePayload 设置昵称
type IdentityAnnouncePayload struct {
	DisplayName string `json:"displayName"`
}

// CreateLobbyPayload 创建房间请求
type CreateLobbyPayload struct {
	LobbyName string `json:"lobbyName"`
}

// JoinLobbyPayload 加入房间请求
type JoinLobbyPayload struct {
	LobbyName string `json:"lobbyName"`
}

// PlayCardPayload 出牌请求
type PlayCardPayload struct {
	LobbyName string     `json:"lobbyName"`
	Card      card.Value `json:"card"`
}

// UnmarshalJSON 缺少 card 字段或为 null 时返回 ErrMissingCard，避免零值被当作石头
func (p *PlayCardPayload) UnmarshalJSON(data []byte) error {
	var raw struct {
		LobbyName string      `json:"lobbyName"`
		Card      *card.Value `json:"card"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Card == nil {
		return ErrMissingCard
	}
	p.LobbyName = raw.LobbyName
	p.Card = *raw.Card
	return nil
}

// ChatRequestPayload 房间聊天请求
type ChatRequestPayload struct {
	LobbyName string `json:"lobbyName"`
	Text      string `json:"text"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

// LobbySummary 房间列表项
type LobbySummary struct {
	Name string `json:"name"`
	Host string `json:"host,omitempty"` // 房主昵称
}

// LobbyListPayload 房间列表
type LobbyListPayload struct {
	Lobbies []LobbySummary `json:"lobbies"`
}

// LobbyCreatedPayload 房间创建成功
type LobbyCreatedPayload struct {
	LobbyName string `json:"lobbyName"`
}

// GameStartPayload 游戏开始通知（每位玩家单独定制）
type GameStartPayload struct {
	LobbyName        string        `json:"lobbyName"`
	Seat             int           `json:"seat"` // 自己的座位号 0/1
	OwnHand          []card.Value  `json:"ownHand"`
	OpponentHand     []card.Value  `json:"opponentHand"`
	ActiveTurn       int           `json:"activeTurn"`
	OpponentUsername string        `json:"opponentUsername,omitempty"`
	Messages         []ChatMessage `json:"messages,omitempty"`
}

// TurnChangedPayload 轮次变化
type TurnChangedPayload struct {
	ActiveTurn int `json:"activeTurn"`
}

// RoundResultPayload 本轮结果，A 为 0 号位，B 为 1 号位
type RoundResultPayload struct {
	CardA      card.Value   `json:"cardA"`
	CardB      card.Value   `json:"cardB"`
	Winner     card.Outcome `json:"winner"`     // 以触发结算的出牌为先手
	WinnerSeat int          `json:"winnerSeat"` // -1 平局
	HandA      []card.Value `json:"handA"`
	HandB      []card.Value `json:"handB"`
}

// ChatMessage 聊天消息
type ChatMessage struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	Time     int64  `json:"time,omitempty"`
}
