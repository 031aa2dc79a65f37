package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
)

// newEchoServer sends connected, then echoes every frame back using the negotiated codec
func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := codec.ByName(r.URL.Query().Get("codec"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		frameType := websocket.TextMessage
		if c.Binary() {
			frameType = websocket.BinaryMessage
		}
		hello, _ := c.Encode(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{ConnectionID: "conn-1"}))
		if err := conn.WriteMessage(frameType, hello); err != nil {
			return
		}

		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClient_ConnectAndEcho(t *testing.T) {
	t.Parallel()

	for _, c := range []codec.Codec{codec.JSON, codec.Proto} {
		t.Run(c.Name(), func(t *testing.T) {
			t.Parallel()
			srv := newEchoServer(t)

			cl := NewClient(wsURL(srv), c)
			require.NoError(t, cl.Connect())
			defer cl.Close()

			_, err := cl.WaitFor(protocol.MsgConnected, 2*time.Second)
			require.NoError(t, err)
			assert.Equal(t, "conn-1", cl.ID())
			assert.True(t, cl.IsConnected())

			require.NoError(t, cl.CreateLobby("A"))
			msg, err := cl.WaitFor(protocol.MsgCreateLobby, 2*time.Second)
			require.NoError(t, err)

			payload, err := codec.ParsePayload[protocol.CreateLobbyPayload](msg)
			require.NoError(t, err)
			assert.Equal(t, "A", payload.LobbyName)
		})
	}
}

func TestClient_CloseStopsReceive(t *testing.T) {
	t.Parallel()
	srv := newEchoServer(t)

	cl := NewClient(wsURL(srv), nil)
	require.NoError(t, cl.Connect())
	_, err := cl.WaitFor(protocol.MsgConnected, 2*time.Second)
	require.NoError(t, err)

	cl.Close()
	cl.Close()

	assert.False(t, cl.IsConnected())
	assert.ErrorIs(t, cl.SendMessage(codec.MustNewMessage(protocol.MsgGetLobbyList, nil)), ErrClosed)
	_, err = cl.Receive()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClient_ReceiveTimeout(t *testing.T) {
	t.Parallel()
	srv := newEchoServer(t)

	cl := NewClient(wsURL(srv), nil)
	require.NoError(t, cl.Connect())
	defer cl.Close()

	_, err := cl.WaitFor(protocol.MsgGameStart, 100*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_ConnectFails(t *testing.T) {
	t.Parallel()

	cl := NewClient("ws://127.0.0.1:1/ws", nil)
	assert.Error(t, cl.Connect())
}
