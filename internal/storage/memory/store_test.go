package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/discount"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

func newTestStore() *Store {
	return New(product.DefaultCatalog())
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestStore())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "prod_001", list[0].ID)
	assert.Equal(t, "prod_005", list[4].ID)

	p, err := repo.GetByID(ctx, "prod_002")
	require.NoError(t, err)
	assert.Equal(t, "MacBook Air M3", p.Name)
	assert.True(t, decimal.NewFromInt(1299).Equal(p.Price))
	assert.Equal(t, 15, p.Stock)

	_, err = repo.GetByID(ctx, "prod_999")
	require.ErrorIs(t, err, product.ErrNotFound)

	// Returned values are copies.
	list[0].Name = "changed"
	p.Stock = 0
	again, err := repo.GetByID(ctx, "prod_001")
	require.NoError(t, err)
	assert.Equal(t, "iPhone 15 Pro", again.Name)
	again2, err := repo.GetByID(ctx, "prod_002")
	require.NoError(t, err)
	assert.Equal(t, 15, again2.Stock)
}

func TestCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(newTestStore())

	c := &cart.Cart{ID: "cart_1", Items: []cart.Item{}}
	require.NoError(t, repo.Create(ctx, c))
	require.Error(t, repo.Create(ctx, c), "duplicate id must fail")

	got, err := repo.Get(ctx, "cart_1")
	require.NoError(t, err)
	got.Items = append(got.Items, cart.Item{ProductID: "prod_001", Quantity: 1})

	unchanged, err := repo.Get(ctx, "cart_1")
	require.NoError(t, err)
	assert.Empty(t, unchanged.Items, "mutating a copy must not leak into the store")

	require.NoError(t, repo.Save(ctx, got))
	saved, err := repo.Get(ctx, "cart_1")
	require.NoError(t, err)
	assert.Len(t, saved.Items, 1)

	existed, err := repo.Delete(ctx, "cart_1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(ctx, "cart_1")
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = repo.Get(ctx, "cart_1")
	require.ErrorIs(t, err, cart.ErrNotFound)
	require.ErrorIs(t, repo.Save(ctx, got), cart.ErrNotFound)
}

func TestDiscountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDiscountRepository(newTestStore())
	usedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return usedAt }

	require.NoError(t, repo.Issue(ctx, discount.Generate(3, usedAt)))
	require.NoError(t, repo.Issue(ctx, discount.Generate(6, usedAt)))
	require.ErrorIs(t, repo.Issue(ctx, discount.Generate(3, usedAt)), discount.ErrCodeExists)

	c, err := repo.Lookup(ctx, "SAVE10_003")
	require.NoError(t, err)
	assert.False(t, c.Used)

	_, err = repo.Lookup(ctx, "NOPE")
	require.ErrorIs(t, err, discount.ErrNotFound)

	used, err := repo.MarkUsed(ctx, "SAVE10_003")
	require.NoError(t, err)
	assert.True(t, used.Used)
	require.NotNil(t, used.UsedAt)
	assert.Equal(t, usedAt, *used.UsedAt)

	_, err = repo.MarkUsed(ctx, "NOPE")
	require.ErrorIs(t, err, discount.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "SAVE10_003", all[0].Code)
	assert.Equal(t, "SAVE10_006", all[1].Code)

	unused, err := repo.ListUnused(ctx)
	require.NoError(t, err)
	require.Len(t, unused, 1)
	assert.Equal(t, "SAVE10_006", unused[0].Code)
}

func TestOrderRepository_SequentialNumbers(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestStore())

	for i := 1; i <= 5; i++ {
		o := &order.Order{ID: "order_" + strconv.Itoa(i)}
		require.NoError(t, repo.Record(ctx, o))
		assert.Equal(t, i, o.Number)
		assert.False(t, o.CreatedAt.IsZero())
	}

	n, err := repo.Counter(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.Error(t, repo.Record(ctx, &order.Order{ID: "order_2"}), "duplicate id must fail")
	n, err = repo.Counter(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n, "failed record must not advance the counter")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, o := range list {
		assert.Equal(t, i+1, o.Number)
	}
}

func TestOrderRepository_ConcurrentRecordIsGapless(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestStore())

	const workers = 50
	numbers := make([]int, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := &order.Order{ID: "order_" + strconv.Itoa(i)}
			if err := repo.Record(ctx, o); err == nil {
				numbers[i] = o.Number
			}
		}()
	}
	wg.Wait()

	sort.Ints(numbers)
	for i, n := range numbers {
		assert.Equal(t, i+1, n)
	}
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	carts := NewCartRepository(s)
	orders := NewOrderRepository(s)
	codes := NewDiscountRepository(s)
	products := NewProductRepository(s)

	require.NoError(t, carts.Create(ctx, &cart.Cart{ID: "cart_1"}))
	require.NoError(t, orders.Record(ctx, &order.Order{ID: "order_1"}))
	require.NoError(t, codes.Issue(ctx, discount.Generate(1, time.Now())))

	require.NoError(t, s.Reset(ctx))

	_, err := carts.Get(ctx, "cart_1")
	require.ErrorIs(t, err, cart.ErrNotFound)

	list, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := orders.Counter(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := codes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	catalog, err := products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 5, "reset keeps the catalog")

	o := &order.Order{ID: "order_1"}
	require.NoError(t, orders.Record(ctx, o), "ids are reusable after reset")
	assert.Equal(t, 1, o.Number)
}

func TestStore_WithinTxSerializes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithinTx(ctx, func(context.Context) error {
				mu.Lock()
				active++
				maxSeen = max(maxSeen, active)
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestStore_WithinTxCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := newTestStore().WithinTx(ctx, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
