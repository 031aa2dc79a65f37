package handler

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/rps-cards/internal/server/storage"
	"github.com/palemoky/rps-cards/internal/types"
)

const (
	mirrorQueueSize = 256
	mirrorTimeout   = 2 * time.Second
)

// mirrorOp 快照写入操作，data 为 nil 表示删除
type mirrorOp struct {
	name string
	data *storage.LobbyData
}

// mirror 按顺序把房间快照异步写入存储，不阻塞事件处理
type mirror struct {
	store types.LobbyStore
	ops   chan mirrorOp
	done  chan struct{}
}

func newMirror(store types.LobbyStore) *mirror {
	m := &mirror{
		store: store,
		ops:   make(chan mirrorOp, mirrorQueueSize),
		done:  make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *mirror) run() {
	defer close(m.done)

	for op := range m.ops {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		var err error
		if op.data == nil {
			err = m.store.DeleteLobby(ctx, op.name)
		} else {
			err = m.store.SaveLobby(ctx, op.data)
		}
		cancel()
		if err != nil {
			log.Printf("⚠️ 房间 %s 快照写入失败: %v", op.name, err)
		}
	}
}

func (m *mirror) enqueue(op mirrorOp) {
	if m == nil {
		return
	}
	select {
	case m.ops <- op:
	default:
		log.Printf("⚠️ 快照队列已满，丢弃房间 %s 的快照", op.name)
	}
}

func (m *mirror) save(data *storage.LobbyData) {
	if m == nil || data == nil {
		return
	}
	m.enqueue(mirrorOp{name: data.Name, data: data})
}

func (m *mirror) remove(name string) {
	m.enqueue(mirrorOp{name: name})
}

// close 等待队列中的写入完成
func (m *mirror) close() {
	if m == nil {
		return
	}
	close(m.ops)
	<-m.done
}
