//go:build !production

package lobby

import "github.com/palemoky/rps-cards/internal/game/card"

// NewStartedForTest 创建已开局的房间，手牌由调用方指定
func NewStartedForTest(name, first, second string, handA, handB []card.Value) *Lobby {
	deck := append(append(card.Deck{}, handA...), handB...)
	l := &Lobby{
		Name:     name,
		Deck:     deck,
		Phase:    PhaseWaiting,
		HandSize: len(handA),
		Participants: []*Participant{
			{ConnectionID: first},
		},
	}
	_ = l.Join(second)
	return l
}

// AddForTest 直接放入注册表
func (r *Registry) AddForTest(l *Lobby) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lobbies[l.Name] = l
	r.order = append(r.order, l.Name)
}
