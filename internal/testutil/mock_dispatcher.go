//go:build !production

package testutil

import (
	"slices"
	"sync"

	"github.com/palemoky/rps-cards/internal/protocol"
)

// RecordingDispatcher 实现 types.Dispatcher，按连接记录投递的消息
type RecordingDispatcher struct {
	mu        sync.Mutex
	connected []string
	inbox     map[string][]*protocol.Message
}

// NewRecordingDispatcher 创建记录投递的 Dispatcher，ids 为已连接的连接 ID
func NewRecordingDispatcher(ids ...string) *RecordingDispatcher {
	d := &RecordingDispatcher{inbox: make(map[string][]*protocol.Message)}
	for _, id := range ids {
		d.Connect(id)
	}
	return d
}

// Connect 登记连接，之后的广播会投递给它
func (d *RecordingDispatcher) Connect(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !slices.Contains(d.connected, id) {
		d.connected = append(d.connected, id)
	}
}

// Disconnect 注销连接
func (d *RecordingDispatcher) Disconnect(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = slices.DeleteFunc(d.connected, func(c string) bool { return c == id })
}

func (d *RecordingDispatcher) SendTo(id string, msg *protocol.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if slices.Contains(d.connected, id) {
		d.inbox[id] = append(d.inbox[id], msg)
	}
}

func (d *RecordingDispatcher) SendToSet(ids []string, msg *protocol.Message) {
	for _, id := range ids {
		d.SendTo(id, msg)
	}
}

func (d *RecordingDispatcher) Broadcast(msg *protocol.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range d.connected {
		d.inbox[id] = append(d.inbox[id], msg)
	}
}

// Messages 返回投递给 id 的全部消息
func (d *RecordingDispatcher) Messages(id string) []*protocol.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*protocol.Message(nil), d.inbox[id]...)
}

// Types 返回投递给 id 的消息类型序列
func (d *RecordingDispatcher) Types(id string) []protocol.MessageType {
	msgs := d.Messages(id)
	types := make([]protocol.MessageType, len(msgs))
	for i, m := range msgs {
		types[i] = m.Type
	}
	return types
}

// Last 返回投递给 id 的最后一条指定类型消息，不存在时为 nil
func (d *RecordingDispatcher) Last(id string, msgType protocol.MessageType) *protocol.Message {
	msgs := d.Messages(id)
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == msgType {
			return msgs[i]
		}
	}
	return nil
}

// Count 投递给 id 的指定类型消息数量
func (d *RecordingDispatcher) Count(id string, msgType protocol.MessageType) int {
	n := 0
	for _, m := range d.Messages(id) {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

// Reset 清空所有记录
func (d *RecordingDispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inbox = make(map[string][]*protocol.Message)
}
