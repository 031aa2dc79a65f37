package handler

import (
	"log"

	"github.com/palemoky/rps-cards/internal/apperrors"
	"github.com/palemoky/rps-cards/internal/game/lobby"
	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
	"github.com/palemoky/rps-cards/internal/types"
)

// handleIdentity 处理昵称登记
func (h *Handler) handleIdentity(client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.IdentityAnnouncePayload](msg)
	if err != nil {
		return err
	}

	name, ok := h.directory.Register(client.GetID(), payload.DisplayName)
	if !ok {
		return apperrors.ErrInvalidMessage
	}

	log.Printf("🪪 连接 %s 的昵称为 %s", client.GetID(), name)
	h.broadcastLobbyList()
	return nil
}

// handleCreateLobby 处理创建房间
func (h *Handler) handleCreateLobby(client types.ClientInterface, msg *protocol.Message) error {
	if h.maintenance {
		return apperrors.ErrMaintenance
	}

	payload, err := parse[protocol.CreateLobbyPayload](msg)
	if err != nil {
		return err
	}

	id := client.GetID()
	if h.registry.FindByConn(id) != nil {
		return apperrors.ErrAlreadyInLobby
	}

	l, err := h.registry.Create(payload.LobbyName, id)
	if err != nil {
		return err
	}

	h.dispatcher.SendTo(id, codec.MustNewMessage(protocol.MsgLobbyCreated, protocol.LobbyCreatedPayload{
		LobbyName: l.Name,
	}))
	h.mirror.save(l.ToLobbyData(h.directory.Name))
	h.broadcastLobbyList()
	return nil
}

// handleJoinLobby 处理加入房间，第二位玩家加入后开局
func (h *Handler) handleJoinLobby(client types.ClientInterface, msg *protocol.Message) error {
	if h.maintenance {
		return apperrors.ErrMaintenance
	}

	payload, err := parse[protocol.JoinLobbyPayload](msg)
	if err != nil {
		return err
	}

	id := client.GetID()
	if h.registry.FindByConn(id) != nil {
		return apperrors.ErrAlreadyInLobby
	}

	l, err := h.registry.Join(payload.LobbyName, id)
	if err != nil {
		return err
	}

	h.sendGameStart(l)
	h.armTurnTimer(l)
	h.mirror.save(l.ToLobbyData(h.directory.Name))
	h.broadcastLobbyList()
	return nil
}

// handleGetLobbyList 单独回复当前房间列表
func (h *Handler) handleGetLobbyList(client types.ClientInterface) error {
	h.dispatcher.SendTo(client.GetID(), h.lobbyListMessage())
	return nil
}

// sendGameStart 向两位玩家分别发送各自视角的开局信息
func (h *Handler) sendGameStart(l *lobby.Lobby) {
	history := make([]protocol.ChatMessage, len(l.Messages))
	for i, m := range l.Messages {
		history[i] = protocol.ChatMessage{Username: m.Username, Text: m.Text, Time: m.Time.Unix()}
	}

	for seat, p := range l.Participants {
		opponent := l.Participants[1-seat]
		h.dispatcher.SendTo(p.ConnectionID, codec.MustNewMessage(protocol.MsgGameStart, protocol.GameStartPayload{
			LobbyName:        l.Name,
			Seat:             seat,
			OwnHand:          p.Hand,
			OpponentHand:     opponent.Hand,
			ActiveTurn:       l.ActiveTurn,
			OpponentUsername: h.directory.Name(opponent.ConnectionID),
			Messages:         history,
		}))
	}
}

// lobbyListMessage 生成房间列表消息
func (h *Handler) lobbyListMessage() *protocol.Message {
	summaries := h.registry.Summaries(h.directory.Name)
	lobbies := make([]protocol.LobbySummary, len(summaries))
	for i, s := range summaries {
		lobbies[i] = protocol.LobbySummary{Name: s.Name, Host: s.Host}
	}
	return codec.MustNewMessage(protocol.MsgLobbyListUpdate, protocol.LobbyListPayload{Lobbies: lobbies})
}

// broadcastLobbyList 向所有连接推送房间列表
func (h *Handler) broadcastLobbyList() {
	h.metrics.SetLobbies(h.registry.Len(), h.registry.ActiveGamesCount())
	h.dispatcher.Broadcast(h.lobbyListMessage())
}

// removeLobby 删除房间及其计时器和快照，end 非空时记录对局结束方式
func (h *Handler) removeLobby(l *lobby.Lobby, end string) {
	h.stopTurnTimer(l.Name)
	if !h.registry.Delete(l.Name) {
		return
	}
	h.mirror.remove(l.Name)
	if end != "" {
		h.metrics.MatchEnded(end)
	}
}
