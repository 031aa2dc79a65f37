package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/rps-cards/internal/config"
	"github.com/palemoky/rps-cards/internal/game/lobby"
	"github.com/palemoky/rps-cards/internal/server/handler"
	"github.com/palemoky/rps-cards/internal/server/metrics"
	"github.com/palemoky/rps-cards/internal/server/storage"
)

// Server WebSocket 服务器
type Server struct {
	config  *config.Config
	store   *storage.RedisStore
	handler *handler.Handler

	metrics      *metrics.Metrics
	promRegistry *prometheus.Registry

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 安全组件
	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter
	chatLimiter    *ChatRateLimiter

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	upgrader   websocket.Upgrader
	httpServer *http.Server

	// 维护模式
	maintenance atomic.Bool
}

// NewServer 创建服务器实例，配置了 Redis 时连接并清空上一进程留下的房间快照
func NewServer(cfg *config.Config) (*Server, error) {
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	store := storage.NewRedisStore(rdb)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}
	if err := store.Clear(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("清空房间快照失败: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		config:       cfg,
		store:        store,
		metrics:      metrics.New(reg),
		promRegistry: reg,
		clients:      make(map[string]*Client),
		// 初始化安全组件
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  NewOriginChecker(cfg.Server.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		chatLimiter: NewChatRateLimiter(
			cfg.Security.ChatLimit.MaxPerSecond,
			cfg.Security.ChatLimit.MaxPerMinute,
			cfg.Security.ChatLimit.CooldownDuration(),
		),
		// 初始化连接控制
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		// 来源在升级前由 originChecker 校验
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	deps := handler.Deps{
		Dispatcher:  s,
		Registry:    lobby.NewRegistry(cfg.Game.HandSize),
		Metrics:     s.metrics,
		ChatLimiter: s.chatLimiter,
		TurnTimeout: cfg.Game.TurnTimeoutDuration(),
	}
	// 未启用时不传，避免 nil 指针装进接口
	if store.Enabled() {
		deps.Store = store
	}
	s.handler = handler.NewHandler(deps)

	log.Printf("🔒 安全配置: 连接限制=%d/s, 消息限制=%d/s, 聊天限制=%d/s, 最大连接数=%d",
		cfg.Security.RateLimit.MaxPerSecond, cfg.Security.MessageLimit.MaxPerSecond, cfg.Security.ChatLimit.MaxPerSecond, cfg.Server.MaxConnections)
	if store.Enabled() {
		log.Printf("🗄️ 房间快照镜像到 Redis %s", cfg.Redis.Addr)
	}

	return s, nil
}

// Router 返回服务器的 HTTP 路由
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Get("/lobbies/{name}", s.handleLobbySnapshot)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{
		Registry: s.promRegistry,
	}))

	return r
}

// Handler 返回协调器
func (s *Server) Handler() *handler.Handler {
	return s.handler
}
