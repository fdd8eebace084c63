package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	payload  []byte
	expireAt time.Time // 零值表示不过期
}

// MemoryStore 进程内键值存储实现。
// Redis 未启用时的降级路径，也用于测试。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
}

// NewMemoryStore 创建进程内键值存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memoryEntry)}
}

// GetJSON 读取 JSON 值
func (s *MemoryStore) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	s.mu.RLock()
	entry, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !entry.expireAt.IsZero() && time.Now().After(entry.expireAt) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, fmt.Errorf("%w: key %s: %v", ErrMalformed, key, err)
	}
	return true, nil
}

// SetJSON 写入 JSON 值
func (s *MemoryStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expireAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.data[key] = entry
	s.mu.Unlock()
	return nil
}

// Remove 删除键
func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// SetRaw 直接写入原始字节（测试用，可构造损坏内容）
func (s *MemoryStore) SetRaw(key string, payload []byte) {
	s.mu.Lock()
	s.data[key] = memoryEntry{payload: payload}
	s.mu.Unlock()
}
