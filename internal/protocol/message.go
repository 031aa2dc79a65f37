package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgIdentityAnnounce MessageType = "identity_announce" // 设置昵称

	// 房间操作
	MsgCreateLobby  MessageType = "create_lobby"   // 创建房间
	MsgJoinLobby    MessageType = "join_lobby"     // 加入房间
	MsgGetLobbyList MessageType = "get_lobby_list" // 获取房间列表

	// 游戏操作
	MsgPlayCard MessageType = "play_card" // 出牌

	// 聊天
	MsgChat MessageType = "chat" // 聊天消息（双向）
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功，下发连接 ID

	// 房间相关
	MsgLobbyListUpdate MessageType = "lobby_list_update" // 房间列表更新
	MsgLobbyCreated    MessageType = "lobby_created"     // 房间创建成功

	// 游戏流程
	MsgGameStart            MessageType = "game_start"            // 游戏开始
	MsgTurnChanged          MessageType = "turn_changed"          // 轮到下一位
	MsgRoundResult          MessageType = "round_result"          // 本轮结果
	MsgMatchOver            MessageType = "match_over"            // 整局结束
	MsgOpponentDisconnected MessageType = "opponent_disconnected" // 对手断开
)
