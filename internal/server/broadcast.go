package server

import "github.com/palemoky/rps-cards/internal/protocol"

// GetOnlineCount 获取在线连接数（按需调用）
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// SendTo 投递给单个连接，连接已断开时忽略
func (s *Server) SendTo(connectionID string, msg *protocol.Message) {
	s.clientsMu.RLock()
	client := s.clients[connectionID]
	s.clientsMu.RUnlock()

	if client != nil {
		client.SendMessage(msg)
	}
}

// SendToSet 投递给一组连接
func (s *Server) SendToSet(connectionIDs []string, msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, id := range connectionIDs {
		if client, ok := s.clients[id]; ok {
			client.SendMessage(msg)
		}
	}
}

// Broadcast 广播消息给所有客户端
func (s *Server) Broadcast(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		client.SendMessage(msg)
	}
}
