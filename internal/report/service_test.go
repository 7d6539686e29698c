package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	v1 "github.com/marcelobragadossantos/api-realtime/internal/api/v1"
	"github.com/marcelobragadossantos/api-realtime/internal/cache"
	"github.com/marcelobragadossantos/api-realtime/internal/core/storage"
	"github.com/marcelobragadossantos/api-realtime/internal/core/window"
	"github.com/marcelobragadossantos/api-realtime/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testPrefix = "vendas_realtime"

var fixedNow = time.Date(2024, 3, 15, 14, 30, 0, 0, window.Location)

// spyStore counts aggregation queries so tests can assert at-most-one database
// round-trip per distinct window per TTL.
type spyStore struct {
	items []v1.VendaItem
	err   error
	calls int
}

func (s *spyStore) QuerySales(_ context.Context, _ window.Window) ([]v1.VendaItem, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]v1.VendaItem(nil), s.items...), nil
}

// failingCache simulates a completely unreachable cache backend.
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingCache) SetEx(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (failingCache) DeleteMatching(context.Context, string) (int64, error) {
	return 0, errors.New("connection refused")
}

func storeItems() []v1.VendaItem {
	return []v1.VendaItem{
		{
			Codigo:          "001",
			Loja:            "Loja Centro",
			Regiao:          "Sudeste",
			TotalVendas:     12,
			TotalQuantidade: decimal.NewFromInt(40),
			VendaTotal:      decimal.NewFromInt(120),
			CustoTotal:      decimal.NewFromInt(30),
		},
		{
			Codigo:      "002",
			Loja:        "Loja Norte",
			TotalVendas: 5,
		},
	}
}

func newTestService(t *testing.T, store storage.SalesStore) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr, client := testutil.NewMiniredisClient(t)
	svc := NewService(store, cache.NewRedisStore(client), nil, testPrefix, 300*time.Second)
	svc.nowFn = func() time.Time { return fixedNow }
	return svc, mr
}

func dayWindow() window.Window {
	return window.DayWindow(time.Date(2024, 3, 15, 0, 0, 0, 0, window.Location))
}

func TestResolve_ReadThroughIsIdempotent(t *testing.T) {
	store := &spyStore{items: storeItems()}
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, dayWindow())
	require.NoError(t, err)
	require.Equal(t, v1.FonteDatabase, first.Fonte)
	require.Equal(t, 2, first.TotalRegistros)

	second, err := svc.Resolve(ctx, dayWindow())
	require.NoError(t, err)
	require.Equal(t, v1.FonteCache, second.Fonte)
	require.Equal(t, first.Vendas, second.Vendas)
	require.Equal(t, 1, store.calls, "second call within TTL must not hit the database")
}

func TestResolve_TTLExpiryForcesFreshQuery(t *testing.T) {
	store := &spyStore{items: storeItems()}
	svc, mr := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, dayWindow())
	require.NoError(t, err)

	mr.FastForward(301 * time.Second)

	rep, err := svc.Resolve(ctx, dayWindow())
	require.NoError(t, err)
	require.Equal(t, v1.FonteDatabase, rep.Fonte)
	require.Equal(t, 2, store.calls)
}

func TestResolve_CMVDerivedOnDatabasePath(t *testing.T) {
	store := &spyStore{items: storeItems()}
	svc, _ := newTestService(t, store)

	rep, err := svc.Resolve(context.Background(), dayWindow())
	require.NoError(t, err)

	// custo 30 / venda 120 = 25%.
	require.Equal(t, "25", rep.Vendas[0].CMV.String())
	// Zero revenue never faults, CMV stays zero.
	require.True(t, rep.Vendas[1].CMV.IsZero())
}

func TestResolve_CacheUnavailableDegradesToDatabase(t *testing.T) {
	store := &spyStore{items: storeItems()}
	svc := NewService(store, failingCache{}, nil, testPrefix, 300*time.Second)
	svc.nowFn = func() time.Time { return fixedNow }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rep, err := svc.Resolve(ctx, dayWindow())
		require.NoError(t, err)
		require.Equal(t, v1.FonteDatabase, rep.Fonte)
	}
	require.Equal(t, 3, store.calls)
}

func TestResolve_CorruptEntryTreatedAsMiss(t *testing.T) {
	store := &spyStore{items: storeItems()}
	svc, mr := newTestService(t, store)

	key := dayWindow().Key(testPrefix)
	require.NoError(t, mr.Set(key, "{not json"))

	rep, err := svc.Resolve(context.Background(), dayWindow())
	require.NoError(t, err)
	require.Equal(t, v1.FonteDatabase, rep.Fonte)
	require.Equal(t, 1, store.calls)
}

func TestResolve_StoreFailurePropagates(t *testing.T) {
	store := &spyStore{err: fmt.Errorf("%w: connection reset", storage.ErrQueryFailed)}
	svc, mr := newTestService(t, store)

	_, err := svc.Resolve(context.Background(), dayWindow())
	require.ErrorIs(t, err, storage.ErrQueryFailed)

	// Nothing was written through on the failure path.
	require.Empty(t, mr.Keys())
}

func TestResolve_EmptyResultIsCached(t *testing.T) {
	store := &spyStore{}
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, dayWindow())
	require.NoError(t, err)
	require.NotNil(t, first.Vendas)
	require.Zero(t, first.TotalRegistros)

	second, err := svc.Resolve(ctx, dayWindow())
	require.NoError(t, err)
	require.Equal(t, v1.FonteCache, second.Fonte)
	require.Equal(t, 1, store.calls)
}

func TestIsCached(t *testing.T) {
	store := &spyStore{items: storeItems()}
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	require.False(t, svc.IsCached(ctx, dayWindow()))

	_, err := svc.Resolve(ctx, dayWindow())
	require.NoError(t, err)
	require.True(t, svc.IsCached(ctx, dayWindow()))
}

func TestClearCache_RemovesOnlyPrefixedKeys(t *testing.T) {
	store := &spyStore{items: storeItems()}
	svc, mr := newTestService(t, store)
	ctx := context.Background()

	base := time.Date(2024, 3, 10, 0, 0, 0, 0, window.Location)
	for i := 0; i < 3; i++ {
		_, err := svc.Resolve(ctx, window.DayWindow(base.AddDate(0, 0, i)))
		require.NoError(t, err)
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	removed, err := svc.ClearCache(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), removed)

	require.True(t, mr.Exists("other:key"))
	require.False(t, svc.IsCached(ctx, window.DayWindow(base)))
}
