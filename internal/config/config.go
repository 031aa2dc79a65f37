package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/palemoky/rps-cards/internal/game/card"
)

const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 3000
	defaultMaxConnections = 1000
	defaultConnPerSecond  = 10
	defaultConnPerMinute  = 60
	defaultBanDuration    = 60
	defaultMessageRate    = 20
	defaultChatPerSecond  = 1
	defaultChatPerMinute  = 30
	defaultChatCooldown   = 5
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	MaxConnections int      `yaml:"max_connections"`
	AllowedOrigins []string `yaml:"allowed_origins"` // 空表示不校验 Origin
}

// Addr 返回监听地址
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig Redis 配置，Addr 为空时不启用快照镜像
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled 是否配置了 Redis
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// GameConfig 游戏配置
type GameConfig struct {
	HandSize    int `yaml:"hand_size"`    // 每位玩家手牌数
	TurnTimeout int `yaml:"turn_timeout"` // 出牌超时（秒），0 表示不限时
}

// TurnTimeoutDuration 返回出牌超时时长
func (c *GameConfig) TurnTimeoutDuration() time.Duration {
	return time.Duration(c.TurnTimeout) * time.Second
}

// SecurityConfig 限流配置
type SecurityConfig struct {
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit MessageLimitConfig `yaml:"message_limit"`
	ChatLimit    ChatLimitConfig    `yaml:"chat_limit"`
}

// RateLimitConfig 单 IP 建立连接的限流
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 封禁时长（秒）
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// MessageLimitConfig 单连接消息限流
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// ChatLimitConfig 聊天限流
type ChatLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	Cooldown     int `yaml:"cooldown"` // 触发限流后的冷却时间（秒）
}

// CooldownDuration 返回冷却时长
func (c *ChatLimitConfig) CooldownDuration() time.Duration {
	return time.Duration(c.Cooldown) * time.Second
}

// LogConfig 日志配置，File 为空时输出到 stderr
type LogConfig struct {
	File string `yaml:"file"`
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault 文件不存在时返回默认配置
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.MaxConnections == 0 {
		c.Server.MaxConnections = defaultMaxConnections
	}
	if c.Game.HandSize == 0 {
		c.Game.HandSize = card.DefaultHandSize
	}
	if c.Security.RateLimit.MaxPerSecond == 0 {
		c.Security.RateLimit.MaxPerSecond = defaultConnPerSecond
	}
	if c.Security.RateLimit.MaxPerMinute == 0 {
		c.Security.RateLimit.MaxPerMinute = defaultConnPerMinute
	}
	if c.Security.RateLimit.BanDuration == 0 {
		c.Security.RateLimit.BanDuration = defaultBanDuration
	}
	if c.Security.MessageLimit.MaxPerSecond == 0 {
		c.Security.MessageLimit.MaxPerSecond = defaultMessageRate
	}
	if c.Security.ChatLimit.MaxPerSecond == 0 {
		c.Security.ChatLimit.MaxPerSecond = defaultChatPerSecond
	}
	if c.Security.ChatLimit.MaxPerMinute == 0 {
		c.Security.ChatLimit.MaxPerMinute = defaultChatPerMinute
	}
	if c.Security.ChatLimit.Cooldown == 0 {
		c.Security.ChatLimit.Cooldown = defaultChatCooldown
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Server.Port)
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("invalid max_connections: %d", c.Server.MaxConnections)
	}
	if c.Game.HandSize < 1 {
		return fmt.Errorf("invalid hand_size: %d", c.Game.HandSize)
	}
	if c.Game.TurnTimeout < 0 {
		return fmt.Errorf("invalid turn_timeout: %d", c.Game.TurnTimeout)
	}
	if c.Security.MessageLimit.MaxPerSecond < 0 {
		return fmt.Errorf("invalid message_limit.max_per_second: %d", c.Security.MessageLimit.MaxPerSecond)
	}
	return nil
}
