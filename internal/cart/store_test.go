package cart

import (
	"context"
	"testing"

	"github.com/lankashop/storefront/internal/kv"
	"github.com/lankashop/storefront/internal/models"
)

func testProduct(id uint, name string, price float64) *models.Product {
	return &models.Product{
		ID:    id,
		Name:  name,
		Price: models.NewMoneyFromFloat(price),
	}
}

func TestStoreAddItemIncrementsExistingLine(t *testing.T) {
	store := NewStore(context.Background(), "s1", nil)
	defer store.Close()

	store.AddItem(testProduct(1, "Headphones", 89.99), 1)
	store.AddItem(testProduct(2, "Keyboard", 120), 2)
	store.AddItem(testProduct(1, "Headphones", 89.99), 3)

	items := store.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].ProductID != 1 || items[0].Quantity != 4 {
		t.Fatalf("expected first line product 1 qty 4, got product %d qty %d", items[0].ProductID, items[0].Quantity)
	}
	if items[1].ProductID != 2 || items[1].Quantity != 2 {
		t.Fatalf("expected second line product 2 qty 2, got product %d qty %d", items[1].ProductID, items[1].Quantity)
	}
	if store.Count() != 6 {
		t.Fatalf("expected count 6, got %d", store.Count())
	}
}

func TestStoreTotal(t *testing.T) {
	store := NewStore(context.Background(), "s1", nil)
	defer store.Close()

	store.AddItem(testProduct(1, "Headphones", 89.99), 2)
	store.AddItem(testProduct(2, "Mouse", 65.50), 1)

	if got := store.Total().StringFixed(2); got != "245.48" {
		t.Fatalf("expected total 245.48, got %s", got)
	}
}

func TestStoreUpdateQuantityAppliesDelta(t *testing.T) {
	store := NewStore(context.Background(), "s1", nil)
	defer store.Close()

	store.AddItem(testProduct(1, "Headphones", 89.99), 2)
	store.AddItem(testProduct(2, "Keyboard", 120), 1)

	store.UpdateQuantity(1, 1)
	if items := store.Items(); items[0].Quantity != 3 {
		t.Fatalf("expected qty 3 after +1, got %d", items[0].Quantity)
	}

	store.UpdateQuantity(1, -2)
	if items := store.Items(); items[0].Quantity != 1 {
		t.Fatalf("expected qty 1 after -2, got %d", items[0].Quantity)
	}

	// 减到 0 整行移除
	store.UpdateQuantity(1, -1)
	items := store.Items()
	if len(items) != 1 || items[0].ProductID != 2 {
		t.Fatalf("expected only product 2 to remain, got %+v", items)
	}

	store.UpdateQuantity(2, -3)
	if items := store.Items(); len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestStoreRemoveAbsentProductIsNoop(t *testing.T) {
	store := NewStore(context.Background(), "s1", nil)
	defer store.Close()

	store.AddItem(testProduct(1, "Headphones", 89.99), 1)
	store.RemoveItem(99)

	if items := store.Items(); len(items) != 1 {
		t.Fatalf("expected cart untouched, got %+v", items)
	}
}

func TestStorePersistRoundTrip(t *testing.T) {
	mem := kv.NewMemoryStore()
	ctx := context.Background()

	store := NewStore(ctx, "s1", mem)
	store.AddItem(testProduct(1, "Headphones", 89.99), 2)
	store.AddItem(testProduct(2, "Keyboard", 120), 1)
	store.Close()

	restored := NewStore(ctx, "s1", mem)
	defer restored.Close()

	items := restored.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 restored lines, got %d", len(items))
	}
	if items[0].ProductID != 1 || items[0].Quantity != 2 {
		t.Fatalf("unexpected first restored line: %+v", items[0])
	}
	if got := restored.Total().StringFixed(2); got != "299.98" {
		t.Fatalf("expected restored total 299.98, got %s", got)
	}
}

func TestStoreMalformedPayloadStartsEmpty(t *testing.T) {
	mem := kv.NewMemoryStore()
	mem.SetRaw("cart:s1", []byte("{not json"))

	store := NewStore(context.Background(), "s1", mem)
	defer store.Close()

	if items := store.Items(); len(items) != 0 {
		t.Fatalf("expected empty cart for malformed payload, got %+v", items)
	}
}

func TestStoreSubscribeAndCancel(t *testing.T) {
	store := NewStore(context.Background(), "s1", nil)
	defer store.Close()

	store.AddItem(testProduct(1, "Headphones", 89.99), 1)

	var calls int
	var lastCount int
	cancel := store.Subscribe(func(lines []Line) {
		calls++
		lastCount = len(lines)
	})

	// 注册时立即收到当前快照
	if calls != 1 || lastCount != 1 {
		t.Fatalf("expected immediate call with 1 line, got calls=%d lines=%d", calls, lastCount)
	}

	store.AddItem(testProduct(2, "Keyboard", 120), 1)
	if calls != 2 || lastCount != 2 {
		t.Fatalf("expected 2 calls with 2 lines, got calls=%d lines=%d", calls, lastCount)
	}

	cancel()
	store.Clear()
	if calls != 2 {
		t.Fatalf("expected no calls after cancel, got %d", calls)
	}
}

func TestManagerMergeGuestCartIntoUserCart(t *testing.T) {
	manager := NewManager(kv.NewMemoryStore())
	defer manager.Close()

	ctx := context.Background()
	guest := manager.Get(ctx, "guest-1")
	guest.AddItem(testProduct(1, "Headphones", 89.99), 2)
	guest.AddItem(testProduct(2, "Keyboard", 120), 1)

	user := manager.Get(ctx, "u7")
	user.AddItem(testProduct(1, "Headphones", 89.99), 1)

	manager.Merge(ctx, "guest-1", "u7")

	items := user.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 merged lines, got %+v", items)
	}
	if items[0].ProductID != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected product 1 qty 3 after merge, got %+v", items[0])
	}
	if items[1].ProductID != 2 || items[1].Quantity != 1 {
		t.Fatalf("expected product 2 qty 1 after merge, got %+v", items[1])
	}
	if guest.Count() != 0 {
		t.Fatalf("expected guest cart cleared, got %d items", guest.Count())
	}

	// 再 merge 一次是幂等空操作
	manager.Merge(ctx, "guest-1", "u7")
	if user.Count() != 4 {
		t.Fatalf("expected count unchanged after empty merge, got %d", user.Count())
	}
}

func TestManagerReturnsSameStorePerSession(t *testing.T) {
	manager := NewManager(kv.NewMemoryStore())
	defer manager.Close()

	ctx := context.Background()
	first := manager.Get(ctx, "s1")
	second := manager.Get(ctx, "s1")
	other := manager.Get(ctx, "s2")

	if first != second {
		t.Fatalf("expected same store for same session")
	}
	if first == other {
		t.Fatalf("expected distinct stores for distinct sessions")
	}
}
