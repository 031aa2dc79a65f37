package handler

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/palemoky/rps-cards/internal/apperrors"
	"github.com/palemoky/rps-cards/internal/game/lobby"
	"github.com/palemoky/rps-cards/internal/logger"
	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
	"github.com/palemoky/rps-cards/internal/server/metrics"
	"github.com/palemoky/rps-cards/internal/server/session"
	"github.com/palemoky/rps-cards/internal/types"
)

// Deps 处理器依赖
type Deps struct {
	Dispatcher  types.Dispatcher
	Registry    *lobby.Registry
	Directory   *session.Directory
	Store       types.LobbyStore // 可选，房间快照镜像
	Metrics     *metrics.Metrics
	ChatLimiter types.ChatLimiter
	TurnTimeout time.Duration // 0 表示不限时

	// TracerProvider 为空时使用全局 provider
	TracerProvider trace.TracerProvider
}

// Handler 协调器：串行处理所有入站事件
//
// 所有事件（消息、断线、出牌超时）都在 mu 下处理完毕后才处理下一个，
// 一个事件产生的状态变化和出站消息对其他事件来说是原子的。
type Handler struct {
	dispatcher  types.Dispatcher
	registry    *lobby.Registry
	directory   *session.Directory
	metrics     *metrics.Metrics
	chatLimiter types.ChatLimiter
	turnTimeout time.Duration
	tracer      trace.Tracer

	handlers map[protocol.MessageType]handlerFunc
	timers   map[string]*time.Timer
	mirror   *mirror

	maintenance bool
	closed      bool
	mu          sync.Mutex
}

// handlerFunc 统一的处理器函数签名，返回错误表示事件被丢弃
type handlerFunc func(client types.ClientInterface, msg *protocol.Message) error

// NewHandler 创建处理器
func NewHandler(deps Deps) *Handler {
	registry := deps.Registry
	if registry == nil {
		registry = lobby.NewRegistry(0)
	}
	directory := deps.Directory
	if directory == nil {
		directory = session.NewDirectory()
	}

	tp := deps.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	h := &Handler{
		dispatcher:  deps.Dispatcher,
		registry:    registry,
		directory:   directory,
		metrics:     deps.Metrics,
		chatLimiter: deps.ChatLimiter,
		turnTimeout: deps.TurnTimeout,
		tracer:      tp.Tracer(tracerName),
		timers:      make(map[string]*time.Timer),
	}
	if deps.Store != nil {
		h.mirror = newMirror(deps.Store)
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgIdentityAnnounce: h.handleIdentity,

		// 房间操作
		protocol.MsgCreateLobby:  h.handleCreateLobby,
		protocol.MsgJoinLobby:    h.handleJoinLobby,
		protocol.MsgGetLobbyList: func(c types.ClientInterface, _ *protocol.Message) error { return h.handleGetLobbyList(c) },

		// 游戏操作
		protocol.MsgPlayCard: h.handlePlayCard,
		protocol.MsgChat:     h.handleChat,
	}
}

// Registry 房间注册表
func (h *Handler) Registry() *lobby.Registry {
	return h.registry
}

// Directory 连接目录
func (h *Handler) Directory() *session.Directory {
	return h.directory
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	handler, ok := h.handlers[msg.Type]
	if !ok {
		log.Printf("⚠️  未知消息类型: '%s' (连接 %s, payload %d bytes)", msg.Type, client.GetID(), len(msg.Payload))
		h.metrics.EventDropped("unknown", apperrors.ErrInvalidMessage.Reason())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	span := h.startSpan(string(msg.Type), client.GetID())
	err := handler(client, msg)
	endSpan(span, err)
	if err != nil {
		h.drop(client.GetID(), msg.Type, err)
		return
	}
	h.metrics.EventHandled(string(msg.Type))
}

// Drop 记录在传输层被丢弃的消息（无法解码、限流）
func (h *Handler) Drop(connectionID string, msgType protocol.MessageType, err error) {
	if _, ok := h.handlers[msgType]; !ok {
		msgType = "unknown"
	}
	h.drop(connectionID, msgType, err)
}

// drop 丢弃事件：只记录日志和指标，不向客户端回复错误
func (h *Handler) drop(connectionID string, msgType protocol.MessageType, err error) {
	reason := apperrors.ErrInvalidMessage.Reason()
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		reason = gameErr.Reason()
	}
	logger.LogError("🚮 丢弃 %s (连接 %s): %v", msgType, connectionID, err)
	h.metrics.EventDropped(string(msgType), reason)
}

// parse 解析 payload，失败时返回 ErrInvalidMessage
func parse[T any](msg *protocol.Message) (*T, error) {
	payload, err := codec.ParsePayload[T](msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidMessage, err)
	}
	return payload, nil
}

// EnterMaintenance 进入维护模式：不再接受创建和加入房间，进行中的对局不受影响
func (h *Handler) EnterMaintenance() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maintenance = true
	log.Println("🔧 进入维护模式：停止创建和加入房间")
}

// ActiveGames 进行中的对局数量
func (h *Handler) ActiveGames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.ActiveGamesCount()
}

// Close 停止所有计时器并等待快照队列写完
func (h *Handler) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for name, t := range h.timers {
		t.Stop()
		delete(h.timers, name)
	}
	m := h.mirror
	h.mirror = nil
	h.mu.Unlock()

	m.close()
}
