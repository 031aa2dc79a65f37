package session

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// MaxDisplayNameLength 昵称最大长度（字符）
const MaxDisplayNameLength = 32

// Directory 连接目录：连接 ID -> 昵称，只用于房间列表展示
type Directory struct {
	names map[string]string
	mu    sync.RWMutex
}

// NewDirectory 创建连接目录
func NewDirectory() *Directory {
	return &Directory{
		names: make(map[string]string),
	}
}

// NormalizeName 去除首尾空白并截断，结果为空表示昵称无效
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= MaxDisplayNameLength {
		return name
	}
	return string([]rune(name)[:MaxDisplayNameLength])
}

// Register 记录（或更新）连接的昵称，返回规范化后的昵称
func (d *Directory) Register(connectionID, displayName string) (string, bool) {
	name := NormalizeName(displayName)
	if name == "" {
		return "", false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.names[connectionID] = name
	return name, true
}

// Name 查询昵称，未登记时返回空字符串
func (d *Directory) Name(connectionID string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.names[connectionID]
}

// Lookup 查询昵称及是否已登记
func (d *Directory) Lookup(connectionID string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.names[connectionID]
	return name, ok
}

// Remove 删除连接记录
func (d *Directory) Remove(connectionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.names, connectionID)
}

// Len 已登记的连接数
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.names)
}
