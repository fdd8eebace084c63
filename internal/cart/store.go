package cart

import (
	"context"
	"sync"
	"time"

	"github.com/lankashop/storefront/internal/constants"
	"github.com/lankashop/storefront/internal/kv"
	"github.com/lankashop/storefront/internal/logger"
	"github.com/lankashop/storefront/internal/models"

	"github.com/shopspring/decimal"
)

const persistTimeout = 3 * time.Second

// Line 购物车行，同一商品只保留一行
type Line struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	ImageURL  string       `json:"image_url"`
	Quantity  int          `json:"quantity"`
}

// Subtotal 行小计
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Decimal.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store 单个会话的购物车。
// 读写都在内存里完成，落盘走独立协程串行写入 KV，
// 持久化失败只记日志，不影响购物车本身。
type Store struct {
	mu        sync.Mutex
	sessionID string
	kv        kv.Store
	lines     []Line
	subs      map[uint64]func([]Line)
	nextSub   uint64
	notify    chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closed    bool
}

// NewStore 创建并恢复购物车。
// KV 中的历史数据损坏时按空车处理，不报错。
func NewStore(ctx context.Context, sessionID string, store kv.Store) *Store {
	s := &Store{
		sessionID: sessionID,
		kv:        store,
		subs:      make(map[uint64]func([]Line)),
		notify:    make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	s.restore(ctx)
	go s.persistLoop()
	return s
}

func (s *Store) key() string {
	return constants.KVKeyCartPrefix + ":" + s.sessionID
}

func (s *Store) restore(ctx context.Context) {
	if s.kv == nil {
		return
	}
	var lines []Line
	found, err := s.kv.GetJSON(ctx, s.key(), &lines)
	if err != nil {
		if kv.IsMalformed(err) {
			logger.Warnw("cart_restore_malformed", "session_id", s.sessionID)
		} else {
			logger.Warnw("cart_restore_failed", "session_id", s.sessionID, "error", err)
		}
		return
	}
	if found {
		s.lines = lines
	}
}

// persistLoop 串行消费落盘信号，保证同一会话的写入不乱序。
func (s *Store) persistLoop() {
	defer close(s.done)
	for {
		select {
		case <-s.notify:
			s.persist()
		case <-s.stop:
			select {
			case <-s.notify:
				s.persist()
			default:
			}
			return
		}
	}
}

func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	snapshot := s.Items()
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if len(snapshot) == 0 {
		err = s.kv.Remove(ctx, s.key())
	} else {
		err = s.kv.SetJSON(ctx, s.key(), snapshot, 0)
	}
	if err != nil {
		logger.Warnw("cart_persist_failed", "session_id", s.sessionID, "error", err)
	}
}

// markDirty 发出落盘信号，信号可合并，落盘时取最新快照。
func (s *Store) markDirty() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Store) snapshotLocked() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) publish(snapshot []Line, subs []func([]Line)) {
	for _, fn := range subs {
		fn(snapshot)
	}
}

func (s *Store) subsLocked() []func([]Line) {
	if len(s.subs) == 0 {
		return nil
	}
	out := make([]func([]Line), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

// AddItem 加入商品，已存在时累加数量，新商品追加到末尾。
func (s *Store) AddItem(product *models.Product, quantity int) {
	if product == nil {
		return
	}
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	updated := false
	for i := range s.lines {
		if s.lines[i].ProductID == product.ID {
			s.lines[i].Quantity += quantity
			updated = true
			break
		}
	}
	if !updated {
		s.lines = append(s.lines, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  quantity,
		})
	}
	snapshot := s.snapshotLocked()
	subs := s.subsLocked()
	s.mu.Unlock()

	s.markDirty()
	s.publish(snapshot, subs)
}

// UpdateQuantity 按增量调整商品数量，调整后小于等于 0 时移除该行。
// 商品不在购物车时不做任何事。
func (s *Store) UpdateQuantity(productID uint, delta int) {
	s.mu.Lock()
	changed := false
	for i := range s.lines {
		if s.lines[i].ProductID != productID {
			continue
		}
		s.lines[i].Quantity += delta
		if s.lines[i].Quantity <= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		}
		changed = true
		break
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	subs := s.subsLocked()
	s.mu.Unlock()

	s.markDirty()
	s.publish(snapshot, subs)
}

// RemoveItem 移除商品，不在购物车时不做任何事。
func (s *Store) RemoveItem(productID uint) {
	s.mu.Lock()
	removed := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	subs := s.subsLocked()
	s.mu.Unlock()

	s.markDirty()
	s.publish(snapshot, subs)
}

// MergeLines 并入另一购物车的行，同商品累加数量。
func (s *Store) MergeLines(lines []Line) {
	if len(lines) == 0 {
		return
	}
	s.mu.Lock()
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		merged := false
		for i := range s.lines {
			if s.lines[i].ProductID == line.ProductID {
				s.lines[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			s.lines = append(s.lines, line)
		}
	}
	snapshot := s.snapshotLocked()
	subs := s.subsLocked()
	s.mu.Unlock()

	s.markDirty()
	s.publish(snapshot, subs)
}

// Clear 清空购物车
func (s *Store) Clear() {
	s.mu.Lock()
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return
	}
	s.lines = nil
	snapshot := s.snapshotLocked()
	subs := s.subsLocked()
	s.mu.Unlock()

	s.markDirty()
	s.publish(snapshot, subs)
}

// Items 当前购物车快照，按加入顺序排列
func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Total 购物车总金额
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Count 购物车商品件数（数量求和）
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Subscribe 注册变更回调，返回取消函数。
// 注册时先以当前快照同步调用一次，之后每次变更再以最新快照调用。
func (s *Store) Subscribe(fn func([]Line)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	fn(snapshot)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close 停止落盘协程，未写出的快照会在退出前补写一次。
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.stop)
	<-s.done
}
