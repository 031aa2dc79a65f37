package lobby

import (
	"github.com/palemoky/rps-cards/internal/server/storage"
)

// ToLobbyData 将 Lobby 转换为可序列化的快照，nameOf 用于查询昵称
func (l *Lobby) ToLobbyData(nameOf func(connectionID string) string) *storage.LobbyData {
	data := &storage.LobbyData{
		Name:           l.Name,
		Phase:          l.Phase.String(),
		Participants:   make([]storage.ParticipantData, 0, len(l.Participants)),
		ActiveTurn:     l.ActiveTurn,
		ResolvedRounds: l.ResolvedRounds,
		CreatedAt:      l.CreatedAt.Unix(),
	}

	for seat, p := range l.Participants {
		hand := make([]string, len(p.Hand))
		for i, c := range p.Hand {
			hand[i] = c.String()
		}
		name := ""
		if nameOf != nil {
			name = nameOf(p.ConnectionID)
		}
		data.Participants = append(data.Participants, storage.ParticipantData{
			ConnectionID: p.ConnectionID,
			DisplayName:  name,
			Seat:         seat,
			Hand:         hand,
			HasPending:   p.Pending != nil,
		})
	}

	return data
}
