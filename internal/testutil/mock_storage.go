//go:build !production

package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/rps-cards/internal/server/storage"
)

// MockLobbyStore 房间快照存储 mock
type MockLobbyStore struct {
	mock.Mock
}

func (m *MockLobbyStore) SaveLobby(ctx context.Context, data *storage.LobbyData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockLobbyStore) DeleteLobby(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MemoryLobbyStore 内存中的房间快照存储
type MemoryLobbyStore struct {
	mu      sync.Mutex
	lobbies map[string]*storage.LobbyData
	saves   int
}

// NewMemoryLobbyStore 创建内存存储
func NewMemoryLobbyStore() *MemoryLobbyStore {
	return &MemoryLobbyStore{lobbies: make(map[string]*storage.LobbyData)}
}

func (s *MemoryLobbyStore) SaveLobby(_ context.Context, data *storage.LobbyData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[data.Name] = data
	s.saves++
	return nil
}

func (s *MemoryLobbyStore) DeleteLobby(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, name)
	return nil
}

// Get 返回快照，不存在时为 nil
func (s *MemoryLobbyStore) Get(name string) *storage.LobbyData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lobbies[name]
}

// Saves 保存次数
func (s *MemoryLobbyStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
