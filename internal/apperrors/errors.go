package apperrors

import (
	"github.com/palemoky/rps-cards/internal/protocol"
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Reason 监控标签
func (e *GameError) Reason() string {
	if reason, ok := protocol.ErrorReasons[e.Code]; ok {
		return reason
	}
	return protocol.ErrorReasons[protocol.ErrCodeUnknown]
}

func newError(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrInvalidMessage = newError(protocol.ErrCodeInvalidMsg)
	ErrRateLimited    = newError(protocol.ErrCodeRateLimit)
	ErrNoIdentity     = newError(protocol.ErrCodeNoIdentity)
	ErrMaintenance    = newError(protocol.ErrCodeMaintenance)
	ErrLobbyNotFound  = newError(protocol.ErrCodeLobbyNotFound)
	ErrLobbyFull      = newError(protocol.ErrCodeLobbyFull)
	ErrNotInLobby     = newError(protocol.ErrCodeNotInLobby)
	ErrLobbyExists    = newError(protocol.ErrCodeLobbyExists)
	ErrAlreadyInLobby = newError(protocol.ErrCodeAlreadyInGame)
	ErrGameNotStarted = newError(protocol.ErrCodeGameNotStart)
	ErrNotYourTurn    = newError(protocol.ErrCodeNotYourTurn)
	ErrCardNotInHand  = newError(protocol.ErrCodeCardNotInHand)
	ErrInvalidCard    = newError(protocol.ErrCodeInvalidCard)
)
