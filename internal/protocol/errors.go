package protocol

// 错误码（仅用于服务端日志与监控，协议中不下发错误）
const (
	ErrCodeUnknown       = 1000
	ErrCodeInvalidMsg    = 1001
	ErrCodeRateLimit     = 1002 // 速率限制
	ErrCodeNoIdentity    = 1003 // 尚未设置昵称
	ErrCodeMaintenance   = 1004 // 服务器维护中
	ErrCodeLobbyNotFound = 2001
	ErrCodeLobbyFull     = 2002
	ErrCodeNotInLobby    = 2003
	ErrCodeLobbyExists   = 2004 // 房间名已存在
	ErrCodeAlreadyInGame = 2005 // 已在其他房间
	ErrCodeGameNotStart  = 3001
	ErrCodeNotYourTurn   = 3002
	ErrCodeCardNotInHand = 3003
	ErrCodeInvalidCard   = 3004
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:       "未知错误",
	ErrCodeInvalidMsg:    "无效的消息格式",
	ErrCodeRateLimit:     "请求过于频繁",
	ErrCodeNoIdentity:    "尚未设置昵称",
	ErrCodeMaintenance:   "服务器维护中，暂停创建和加入房间",
	ErrCodeLobbyNotFound: "房间不存在",
	ErrCodeLobbyFull:     "房间已满",
	ErrCodeNotInLobby:    "您不在房间中",
	ErrCodeLobbyExists:   "房间名已存在",
	ErrCodeAlreadyInGame: "您已在其他房间中",
	ErrCodeGameNotStart:  "游戏尚未开始",
	ErrCodeNotYourTurn:   "还没轮到您",
	ErrCodeCardNotInHand: "手牌中没有这张牌",
	ErrCodeInvalidCard:   "无效的牌",
}

// ErrorReasons 错误码对应的监控标签
var ErrorReasons = map[int]string{
	ErrCodeUnknown:       "unknown",
	ErrCodeInvalidMsg:    "invalid_message",
	ErrCodeRateLimit:     "rate_limit",
	ErrCodeNoIdentity:    "no_identity",
	ErrCodeMaintenance:   "maintenance",
	ErrCodeLobbyNotFound: "lobby_not_found",
	ErrCodeLobbyFull:     "lobby_full",
	ErrCodeNotInLobby:    "not_in_lobby",
	ErrCodeLobbyExists:   "lobby_exists",
	ErrCodeAlreadyInGame: "already_in_lobby",
	ErrCodeGameNotStart:  "game_not_started",
	ErrCodeNotYourTurn:   "not_your_turn",
	ErrCodeCardNotInHand: "card_not_in_hand",
	ErrCodeInvalidCard:   "invalid_card",
}
