package client

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	bufferSize = 256
)

var (
	ErrClosed         = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
	ErrTimeout        = errors.New("receive timeout")
)

// Client WebSocket 客户端
type Client struct {
	ServerURL string
	Codec     codec.Codec

	conn    *websocket.Conn
	send    chan []byte
	receive chan *protocol.Message
	done    chan struct{}

	// ConnectionID 服务端在 connected 消息中下发的连接 ID
	ConnectionID string

	// 回调
	OnMessage func(*protocol.Message)
	OnError   func(error)
	OnClose   func()

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建客户端，c 为 nil 时使用 JSON 编解码
func NewClient(serverURL string, c codec.Codec) *Client {
	if c == nil {
		c = codec.JSON
	}
	return &Client{
		ServerURL: serverURL,
		Codec:     c,
		send:      make(chan []byte, bufferSize),
		receive:   make(chan *protocol.Message, bufferSize),
		done:      make(chan struct{}),
	}
}

// Connect 连接服务器，非 JSON 编解码通过 codec 查询参数协商
func (c *Client) Connect() error {
	target, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	if c.Codec.Name() != codec.JSON.Name() {
		q := target.Query()
		q.Set("codec", c.Codec.Name())
		target.RawQuery = q.Encode()
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(target.String(), nil)
	if err != nil {
		return err
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()

	return nil
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	data, err := c.Codec.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Receive 接收消息（阻塞）
func (c *Client) Receive() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-c.done:
		return nil, ErrClosed
	}
}

// ReceiveWithTimeout 带超时接收消息
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-time.After(timeout):
		return nil, ErrTimeout
	case <-c.done:
		return nil, ErrClosed
	}
}

// WaitFor 丢弃其他消息直到收到指定类型的消息
func (c *Client) WaitFor(msgType protocol.MessageType, timeout time.Duration) (*protocol.Message, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w waiting for %s", ErrTimeout, msgType)
		}
		msg, err := c.ReceiveWithTimeout(remaining)
		if err != nil {
			return nil, fmt.Errorf("waiting for %s: %w", msgType, err)
		}
		if msg.Type == msgType {
			return msg, nil
		}
	}
}

// ID 返回服务端下发的连接 ID，尚未收到 connected 时为空
func (c *Client) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ConnectionID
}

// Done 连接关闭时关闭的通道
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close 关闭连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}
