package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	lobbyKeyPrefix = "lobby:"
	lobbyIndexKey  = "lobby:index"

	// 房间快照过期时间
	lobbyExpiration = 2 * time.Hour
)

// LobbyData 房间快照（用于 Redis 序列化，仅供外部观察，启动时不会读回）
type LobbyData struct {
	Name           string            `json:"name"`
	Phase          string            `json:"phase"`
	Participants   []ParticipantData `json:"participants"`
	ActiveTurn     int               `json:"active_turn"`
	ResolvedRounds int               `json:"resolved_rounds"`
	CreatedAt      int64             `json:"created_at"`
}

// ParticipantData 玩家快照
type ParticipantData struct {
	ConnectionID string   `json:"connection_id"`
	DisplayName  string   `json:"display_name"`
	Seat         int      `json:"seat"`
	Hand         []string `json:"hand"`
	HasPending   bool     `json:"has_pending"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储，client 为 nil 时所有操作为空操作
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Enabled 是否配置了 Redis
func (rs *RedisStore) Enabled() bool {
	return rs != nil && rs.client != nil
}

// SaveLobby 保存房间快照
func (rs *RedisStore) SaveLobby(ctx context.Context, data *LobbyData) error {
	if !rs.Enabled() || data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化房间数据失败: %w", err)
	}

	pipe := rs.client.TxPipeline()
	pipe.Set(ctx, lobbyKeyPrefix+data.Name, jsonData, lobbyExpiration)
	pipe.ZAdd(ctx, lobbyIndexKey, redis.Z{Score: float64(data.CreatedAt), Member: data.Name})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("保存房间 %s 失败: %w", data.Name, err)
	}
	return nil
}

// LoadLobby 加载房间快照，不存在时返回 nil
func (rs *RedisStore) LoadLobby(ctx context.Context, name string) (*LobbyData, error) {
	if !rs.Enabled() {
		return nil, nil
	}

	data, err := rs.client.Get(ctx, lobbyKeyPrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 房间不存在
		}
		return nil, err
	}

	var lobbyData LobbyData
	if err := json.Unmarshal(data, &lobbyData); err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}

	return &lobbyData, nil
}

// DeleteLobby 删除房间快照
func (rs *RedisStore) DeleteLobby(ctx context.Context, name string) error {
	if !rs.Enabled() {
		return nil
	}

	pipe := rs.client.TxPipeline()
	pipe.Del(ctx, lobbyKeyPrefix+name)
	pipe.ZRem(ctx, lobbyIndexKey, name)
	_, err := pipe.Exec(ctx)
	return err
}

// ListLobbyNames 按创建时间返回所有房间名
func (rs *RedisStore) ListLobbyNames(ctx context.Context) ([]string, error) {
	if !rs.Enabled() {
		return nil, nil
	}
	return rs.client.ZRange(ctx, lobbyIndexKey, 0, -1).Result()
}

// Clear 清空所有房间快照（服务启动时调用，上一进程的房间已失效）
func (rs *RedisStore) Clear(ctx context.Context) error {
	names, err := rs.ListLobbyNames(ctx)
	if err != nil || len(names) == 0 {
		return err
	}

	keys := make([]string, 0, len(names)+1)
	for _, name := range names {
		keys = append(keys, lobbyKeyPrefix+name)
	}
	keys = append(keys, lobbyIndexKey)
	return rs.client.Del(ctx, keys...).Err()
}

// Ping 检查连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	if !rs.Enabled() {
		return nil
	}
	return rs.client.Ping(ctx).Err()
}

// Close 关闭连接
func (rs *RedisStore) Close() error {
	if !rs.Enabled() {
		return nil
	}
	return rs.client.Close()
}
