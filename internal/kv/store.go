package kv

import (
	"context"
	"errors"
	"time"
)

// ErrMalformed 表示存储中的 JSON 无法解析。
// 调用方应将其视为缓存缺失而非致命错误。
var ErrMalformed = errors.New("kv: malformed stored value")

// Store 持久化键值存储接口（购物车镜像、目录缓存）
type Store interface {
	// GetJSON 读取键并反序列化到 dest，键不存在时返回 (false, nil)，
	// 存储内容损坏时返回 (false, ErrMalformed)。
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	// SetJSON 序列化 value 并写入键，ttl 为 0 表示不过期。
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Remove 删除键，键不存在不视为错误。
	Remove(ctx context.Context, key string) error
}

// IsMalformed 判断错误是否为存储内容损坏
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}
