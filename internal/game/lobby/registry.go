package lobby

import (
	"log"
	"slices"
	"strings"
	"sync"

	"github.com/palemoky/rps-cards/internal/apperrors"
	"github.com/palemoky/rps-cards/internal/game/card"
)

// Summary 房间列表项（由房间与昵称目录即时计算）
type Summary struct {
	Name string
	Host string
}

// Registry 房间注册表：房间名 -> 房间
type Registry struct {
	handSize int
	lobbies  map[string]*Lobby
	order    []string // 按创建顺序，保证房间列表稳定
	mu       sync.RWMutex
}

// NewRegistry 创建注册表
func NewRegistry(handSize int) *Registry {
	if handSize <= 0 {
		handSize = card.DefaultHandSize
	}
	return &Registry{
		handSize: handSize,
		lobbies:  make(map[string]*Lobby),
	}
}

// HandSize 每位玩家的手牌数
func (r *Registry) HandSize() int {
	return r.handSize
}

// normalizeName 所有按房间名的查找都使用同样的规整方式
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

// Create 创建房间，房间名已存在时返回 ErrLobbyExists
func (r *Registry) Create(name, creatorID string) (*Lobby, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, apperrors.ErrInvalidMessage
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lobbies[name]; exists {
		return nil, apperrors.ErrLobbyExists
	}

	l := New(name, creatorID, r.handSize)
	r.lobbies[name] = l
	r.order = append(r.order, name)

	log.Printf("🏠 房间 %s 已创建 (房主 %s)", name, creatorID)
	return l, nil
}

// Join 加入房间，第二位玩家加入后开始对局
func (r *Registry) Join(name, connectionID string) (*Lobby, error) {
	name = normalizeName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	l, exists := r.lobbies[name]
	if !exists {
		return nil, apperrors.ErrLobbyNotFound
	}
	if err := l.Join(connectionID); err != nil {
		return nil, err
	}

	log.Printf("👤 玩家 %s 加入房间 %s，对局开始", connectionID, name)
	return l, nil
}

// Get 获取房间
func (r *Registry) Get(name string) *Lobby {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lobbies[normalizeName(name)]
}

// Delete 删除房间，返回是否存在
func (r *Registry) Delete(name string) bool {
	name = normalizeName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lobbies[name]; !exists {
		return false
	}
	delete(r.lobbies, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })

	log.Printf("🧹 房间 %s 已删除", name)
	return true
}

// FindByConn 查找玩家所在的房间
func (r *Registry) FindByConn(connectionID string) *Lobby {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if l := r.lobbies[name]; l.Has(connectionID) {
			return l
		}
	}
	return nil
}

// Len 房间数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lobbies)
}

// Summaries 按创建顺序生成房间列表，nameOf 用于查询房主昵称
func (r *Registry) Summaries(nameOf func(connectionID string) string) []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]Summary, 0, len(r.order))
	for _, name := range r.order {
		l := r.lobbies[name]
		host := ""
		if nameOf != nil {
			host = nameOf(l.Host())
		}
		summaries = append(summaries, Summary{Name: name, Host: host})
	}
	return summaries
}

// ActiveGamesCount 进行中的对局数量
func (r *Registry) ActiveGamesCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, l := range r.lobbies {
		if l.Phase == PhasePlaying {
			count++
		}
	}
	return count
}
