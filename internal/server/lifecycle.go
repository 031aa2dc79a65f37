package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"runtime"
	"time"
)

const (
	statsInterval         = 30 * time.Second
	limiterCleanupPeriod  = time.Minute
	shutdownCheckInterval = time.Second
)

// Start 启动服务器，阻塞直到 ctx 取消或监听失败
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Server.Addr()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go s.monitorStats(ctx)
	go s.cleanupLimiters(ctx)

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats(ctx context.Context) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		log.Printf("📊 [监控] 在线: %d | 对局: %d | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
			s.GetOnlineCount(),
			s.handler.ActiveGames(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// cleanupLimiters 定期清理过期的限流记录
func (s *Server) cleanupLimiters(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.rateLimiter.Cleanup()
		}
	}
}

// EnterMaintenanceMode 进入维护模式：拒绝新连接，停止创建和加入房间
func (s *Server) EnterMaintenanceMode() {
	if s.maintenance.Swap(true) {
		return
	}
	s.handler.EnterMaintenance()
	log.Println("🔧 进入维护模式：停止新连接和房间创建")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	return s.maintenance.Load()
}

// Shutdown 优雅关闭：等待进行中的对局结束（或 ctx 到期）后关闭所有连接
func (s *Server) Shutdown(ctx context.Context) error {
	// 1. 进入维护模式
	s.EnterMaintenanceMode()

	// 2. 等待对局结束
	ticker := time.NewTicker(shutdownCheckInterval)
	defer ticker.Stop()

wait:
	for {
		activeGames := s.handler.ActiveGames()
		if activeGames == 0 {
			log.Println("✅ 所有对局已结束")
			break
		}
		log.Printf("⏳ 等待 %d 个对局结束...", activeGames)
		select {
		case <-ctx.Done():
			log.Printf("⚠️ 超时，仍有 %d 个对局进行中，强制关闭", s.handler.ActiveGames())
			break wait
		case <-ticker.C:
		}
	}

	// 3. 停止接受 HTTP 请求
	var err error
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		err = s.httpServer.Shutdown(shutdownCtx)
		cancel()
	}

	// 4. 关闭所有客户端连接
	s.clientsMu.RLock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.RUnlock()

	// 5. 停止计时器，写完快照队列后关闭 Redis
	s.handler.Close()
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}

	log.Println("服务器已关闭")
	return err
}
