package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lankashop/storefront/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisStore 基于 Redis 的键值存储实现
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 创建 Redis 键值存储。cfg 未启用时返回 (nil, nil)，
// 由调用方决定降级策略（如改用 MemoryStore）。
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "ls"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{client: client, prefix: prefix}, nil
}

// Client 返回底层 Redis 客户端（限流中间件复用）
func (s *RedisStore) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.client
}

// Prefix 返回键前缀
func (s *RedisStore) Prefix() string {
	if s == nil {
		return ""
	}
	return s.prefix
}

// GetJSON 读取 JSON 值
func (s *RedisStore) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := s.client.Get(ctx, s.buildKey(key)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("%w: key %s: %v", ErrMalformed, key, err)
	}
	return true, nil
}

// SetJSON 写入 JSON 值
func (s *RedisStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.buildKey(key), payload, ttl).Err()
}

// Remove 删除键
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.buildKey(key)).Err()
}

func (s *RedisStore) buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return s.prefix
	}
	return fmt.Sprintf("%s:%s", s.prefix, trimmed)
}
