package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// 获取真实客户端IP
	clientIP := GetClientIP(r)

	// 维护模式检查（最优先）
	if s.IsMaintenanceMode() {
		log.Printf("🔧 维护模式，拒绝新连接: %s", clientIP)
		http.Error(w, "Server is under maintenance, please try again later",
			http.StatusServiceUnavailable)
		return
	}

	// 连接数限制检查，信号量在连接断开时释放
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.Printf("🚫 达到最大连接数限制 (%d), IP: %s", s.maxConnections, clientIP)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}
	accepted := false
	defer func() {
		if !accepted {
			<-s.semaphore
		}
	}()

	// 来源验证
	if !s.originChecker.Check(r) {
		log.Printf("🚫 来源验证失败: %s (IP: %s)", r.Header.Get("Origin"), clientIP)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	// 速率限制检查，封禁中的 IP 不再计数
	if s.rateLimiter.IsBanned(clientIP) {
		log.Printf("🚫 IP %s 封禁中，拒绝连接", clientIP)
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}
	if !s.rateLimiter.Allow(clientIP) {
		log.Printf("🚫 IP %s 请求过于频繁", clientIP)
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	frameCodec := codec.ByName(r.URL.Query().Get("codec"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}
	accepted = true

	client := NewClient(s, conn, frameCodec)
	client.IP = clientIP
	s.registerClient(client)
	s.metrics.ConnectionOpened()

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		ConnectionID: client.ID,
	}))

	log.Printf("✅ 连接 %s 已建立 (IP: %s, 编码: %s)", client.ID, clientIP, frameCodec.Name())

	// 启动客户端读写协程
	go client.WritePump()
	go client.ReadPump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleLobbySnapshot 返回 Redis 中镜像的房间快照，未启用 Redis 或房间不存在时返回 404
func (s *Server) handleLobbySnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil || !s.store.Enabled() {
		http.Error(w, "Snapshots disabled", http.StatusNotFound)
		return
	}

	name := chi.URLParam(r, "name")
	data, err := s.store.LoadLobby(r.Context(), name)
	if err != nil {
		log.Printf("⚠️ 读取房间 %s 快照失败: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.Error(w, "Lobby not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("⚠️ 写入房间 %s 快照失败: %v", name, err)
	}
}

// handleDisconnect 连接断开：先注销连接，再交给协调器清理房间
func (s *Server) handleDisconnect(client *Client) {
	if !s.unregisterClient(client) {
		return
	}
	<-s.semaphore
	s.metrics.ConnectionClosed()
	s.messageLimiter.RemoveClient(client.ID)

	s.handler.HandleDisconnect(client.ID)
	client.Close()
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端，返回客户端此前是否在线
func (s *Server) unregisterClient(client *Client) bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; !ok {
		return false
	}
	delete(s.clients, client.ID)
	log.Printf("❌ 连接 %s 已断开", client.ID)
	return true
}
