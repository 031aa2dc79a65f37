package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/rps-cards/internal/client"
	"github.com/palemoky/rps-cards/internal/config"
	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
	"github.com/palemoky/rps-cards/internal/server/storage"
)

const waitTimeout = 2 * time.Second

type testServer struct {
	s  *Server
	ts *httptest.Server
}

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	s, err := NewServer(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_ = s.Shutdown(ctx)
		ts.Close()
	})

	return &testServer{s: s, ts: ts}
}

func (ts *testServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ts.ts.URL, "http") + "/ws"
}

func (ts *testServer) connect(t *testing.T, c codec.Codec) *client.Client {
	t.Helper()

	cl := client.NewClient(ts.wsURL(), c)
	require.NoError(t, cl.Connect())
	t.Cleanup(cl.Close)

	_, err := cl.WaitFor(protocol.MsgConnected, waitTimeout)
	require.NoError(t, err)
	require.NotEmpty(t, cl.ID())
	return cl
}

func waitApply(t *testing.T, cl *client.Client, state *client.MatchState, msgType protocol.MessageType) {
	t.Helper()

	msg, err := cl.WaitFor(msgType, waitTimeout)
	require.NoError(t, err)
	require.True(t, state.Apply(msg))
}

// startMatch connects two players over different codecs and starts lobby "A"
func startMatch(t *testing.T, ts *testServer) ([2]*client.Client, [2]*client.MatchState) {
	t.Helper()

	alice := ts.connect(t, codec.JSON)
	bob := ts.connect(t, codec.Proto)

	require.NoError(t, alice.AnnounceIdentity("Alice"))
	require.NoError(t, alice.CreateLobby("A"))
	_, err := alice.WaitFor(protocol.MsgLobbyCreated, waitTimeout)
	require.NoError(t, err)

	require.NoError(t, bob.JoinLobby("A"))

	aliceState, bobState := client.NewMatchState(), client.NewMatchState()
	waitApply(t, alice, aliceState, protocol.MsgGameStart)
	waitApply(t, bob, bobState, protocol.MsgGameStart)

	clients := [2]*client.Client{}
	states := [2]*client.MatchState{}
	clients[aliceState.Seat], states[aliceState.Seat] = alice, aliceState
	clients[bobState.Seat], states[bobState.Seat] = bob, bobState
	return clients, states
}

func TestServer_HealthAndMetrics(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)
	ts.connect(t, codec.JSON)

	resp, err := http.Get(ts.ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, err = http.Get(ts.ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "rps_connections 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServer_FullMatch(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Game.HandSize = 2
		cfg.Redis.Addr = mr.Addr()
	})

	clients, states := startMatch(t, ts)
	assert.Contains(t, []string{states[0].OpponentName, states[1].OpponentName}, "Alice")
	assert.Eventually(t, func() bool { return mr.Exists("lobby:A") }, waitTimeout, 10*time.Millisecond)

	for round := 1; round <= 2; round++ {
		first := states[0].ActiveTurn
		second := 1 - first

		v := states[first].Hand[0]
		require.NoError(t, clients[first].PlayCard("A", v))
		states[first].MarkPlayed(v)
		for seat := range 2 {
			waitApply(t, clients[seat], states[seat], protocol.MsgTurnChanged)
		}
		require.True(t, states[second].MyTurn())

		v = states[second].Hand[0]
		require.NoError(t, clients[second].PlayCard("A", v))
		states[second].MarkPlayed(v)
		for seat := range 2 {
			waitApply(t, clients[seat], states[seat], protocol.MsgRoundResult)
		}
		assert.Len(t, states[0].Hand, 2-round)
		assert.Len(t, states[1].Hand, 2-round)
		assert.Equal(t, states[0].Wins, states[1].Losses)

		if round < 2 {
			for seat := range 2 {
				waitApply(t, clients[seat], states[seat], protocol.MsgTurnChanged)
			}
		}
	}

	for seat := range 2 {
		waitApply(t, clients[seat], states[seat], protocol.MsgMatchOver)
		assert.True(t, states[seat].Over)
		assert.Len(t, states[seat].Rounds, 2)
		// the final turn change still follows match over
		waitApply(t, clients[seat], states[seat], protocol.MsgTurnChanged)
	}

	assert.Eventually(t, func() bool { return !mr.Exists("lobby:A") }, waitTimeout, 10*time.Millisecond)
	assert.Zero(t, ts.s.Handler().ActiveGames())
}

func TestServer_OpponentDisconnected(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	clients, states := startMatch(t, ts)
	require.Equal(t, 1, ts.s.Handler().ActiveGames())

	clients[1].Close()

	waitApply(t, clients[0], states[0], protocol.MsgOpponentDisconnected)
	assert.True(t, states[0].OpponentLeft)
	assert.Eventually(t, func() bool { return ts.s.Handler().ActiveGames() == 0 }, waitTimeout, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return ts.s.GetOnlineCount() == 1 }, waitTimeout, 10*time.Millisecond)
}

func TestServer_LobbyListAndChat(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	alice := ts.connect(t, codec.JSON)
	bob := ts.connect(t, codec.JSON)

	require.NoError(t, alice.AnnounceIdentity("Alice"))
	require.NoError(t, alice.CreateLobby("A"))

	msg, err := bob.WaitFor(protocol.MsgLobbyListUpdate, waitTimeout)
	require.NoError(t, err)
	list, err := codec.ParsePayload[protocol.LobbyListPayload](msg)
	require.NoError(t, err)
	for len(list.Lobbies) == 0 {
		msg, err = bob.WaitFor(protocol.MsgLobbyListUpdate, waitTimeout)
		require.NoError(t, err)
		list, err = codec.ParsePayload[protocol.LobbyListPayload](msg)
		require.NoError(t, err)
	}
	require.Len(t, list.Lobbies, 1)
	assert.Equal(t, "A", list.Lobbies[0].Name)
	assert.Equal(t, "Alice", list.Lobbies[0].Host)

	require.NoError(t, alice.Chat("A", "hello"))
	msg, err = alice.WaitFor(protocol.MsgChat, waitTimeout)
	require.NoError(t, err)
	chat, err := codec.ParsePayload[protocol.ChatMessage](msg)
	require.NoError(t, err)
	assert.Equal(t, "Alice", chat.Username)
	assert.Equal(t, "hello", chat.Text)
}

func TestServer_MaintenanceRejectsConnections(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	ts.s.EnterMaintenanceMode()
	assert.True(t, ts.s.IsMaintenanceMode())

	conn, resp, err := websocket.DefaultDialer.Dial(ts.wsURL(), nil)
	if conn != nil {
		_ = conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_MaxConnections(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.MaxConnections = 1
	})

	first := ts.connect(t, codec.JSON)

	conn, resp, err := websocket.DefaultDialer.Dial(ts.wsURL(), nil)
	if conn != nil {
		_ = conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// slot is released on disconnect
	first.Close()
	assert.Eventually(t, func() bool { return ts.s.GetOnlineCount() == 0 }, waitTimeout, 10*time.Millisecond)
	ts.connect(t, codec.JSON)
}

func TestServer_OriginRejected(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.AllowedOrigins = []string{"https://rps.example"}
	})

	header := http.Header{"Origin": []string{"https://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(ts.wsURL(), header)
	if conn != nil {
		_ = conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNewServer_RedisUnavailable(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := NewServer(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis 连接失败")
}

func TestNewServer_ClearsStaleSnapshots(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("lobby:stale", "{}"))
	_, err := mr.ZAdd("lobby:index", 1, "stale")
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()

	s, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	assert.False(t, mr.Exists("lobby:stale"))
	assert.False(t, mr.Exists("lobby:index"))
}

func TestServer_BannedIPRejected(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Security.RateLimit.MaxPerSecond = 1
		cfg.Security.RateLimit.BanDuration = 60
	})

	ts.connect(t, codec.JSON)

	for range 2 {
		conn, resp, err := websocket.DefaultDialer.Dial(ts.wsURL(), nil)
		if conn != nil {
			_ = conn.Close()
		}
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	}
	assert.True(t, ts.s.rateLimiter.IsBanned("127.0.0.1"))
}

func TestServer_LobbySnapshot(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Redis.Addr = mr.Addr()
	})

	startMatch(t, ts)

	var snapshot storage.LobbyData
	assert.Eventually(t, func() bool {
		resp, err := http.Get(ts.ts.URL + "/lobbies/A")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false
		}
		return json.NewDecoder(resp.Body).Decode(&snapshot) == nil && snapshot.Phase == "playing"
	}, waitTimeout, 10*time.Millisecond)

	assert.Equal(t, "A", snapshot.Name)
	require.Len(t, snapshot.Participants, 2)
	assert.Contains(t, []string{snapshot.Participants[0].DisplayName, snapshot.Participants[1].DisplayName}, "Alice")

	resp, err := http.Get(ts.ts.URL + "/lobbies/missing")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_LobbySnapshot_WithoutRedis(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.ts.URL + "/lobbies/A")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
