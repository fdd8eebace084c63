package cart

import (
	"context"
	"sync"

	"github.com/lankashop/storefront/internal/kv"
)

// Manager 按会话管理购物车，同一会话返回同一个 Store。
type Manager struct {
	mu     sync.Mutex
	kv     kv.Store
	stores map[string]*Store
	closed bool
}

// NewManager 创建购物车管理器
func NewManager(store kv.Store) *Manager {
	return &Manager{
		kv:     store,
		stores: make(map[string]*Store),
	}
}

// Get 获取会话购物车，不存在时创建并从 KV 恢复。
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if store, ok := m.stores[sessionID]; ok {
		return store
	}
	store := NewStore(ctx, sessionID, m.kv)
	if !m.closed {
		m.stores[sessionID] = store
	}
	return store
}

// Merge 把一个会话的购物车并入另一个会话，源购物车随后清空。
// 用于登录时把游客购物车并入账号购物车。
func (m *Manager) Merge(ctx context.Context, fromID, toID string) {
	if fromID == "" || toID == "" || fromID == toID {
		return
	}
	from := m.Get(ctx, fromID)
	lines := from.Items()
	if len(lines) == 0 {
		return
	}
	m.Get(ctx, toID).MergeLines(lines)
	from.Clear()
}

// Close 关闭全部购物车，等待落盘协程退出。
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	stores := make([]*Store, 0, len(m.stores))
	for _, store := range m.stores {
		stores = append(stores, store)
	}
	m.stores = make(map[string]*Store)
	m.mu.Unlock()

	for _, store := range stores {
		store.Close()
	}
}
