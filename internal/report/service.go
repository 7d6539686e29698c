// Package report implements the window cache: canonical key derivation,
// read-through against the sales store and write-through with a fixed TTL.
package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	v1 "github.com/marcelobragadossantos/api-realtime/internal/api/v1"
	"github.com/marcelobragadossantos/api-realtime/internal/cache"
	"github.com/marcelobragadossantos/api-realtime/internal/core/storage"
	"github.com/marcelobragadossantos/api-realtime/internal/core/window"
)

// Dispatcher hands off a fire-and-forget month prewarm. Implementations must
// not block on the prewarm work itself; an enqueue failure never fails the
// triggering request.
type Dispatcher interface {
	DispatchMonthPrewarm(ref time.Time) error
}

// Service owns the read-through protocol between the cache and the sales
// store. The cache is best-effort: every cache failure degrades to a database
// round-trip, while database failures propagate to the caller untouched.
type Service struct {
	store      storage.SalesStore
	cache      cache.Store
	dispatcher Dispatcher
	keyPrefix  string
	ttl        time.Duration
	nowFn      func() time.Time
}

// NewService creates the report service. dispatcher may be nil when the month
// prewarm is disabled.
func NewService(store storage.SalesStore, cacheStore cache.Store, dispatcher Dispatcher, keyPrefix string, ttl time.Duration) *Service {
	return &Service{
		store:      store,
		cache:      cacheStore,
		dispatcher: dispatcher,
		keyPrefix:  keyPrefix,
		ttl:        ttl,
		nowFn: func() time.Time {
			return time.Now().In(window.Location)
		},
	}
}

// Resolve serves one window: cache hit returns the stored report verbatim with
// fonte=cache; a miss aggregates from the database, writes through with the
// configured TTL and returns fonte=database.
func (s *Service) Resolve(ctx context.Context, w window.Window) (*v1.VendasReport, error) {
	key := w.Key(s.keyPrefix)

	if cached := s.fromCache(ctx, key); cached != nil {
		CacheHits.Inc()
		cached.Fonte = v1.FonteCache
		return cached, nil
	}

	items, err := s.store.QuerySales(ctx, w)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []v1.VendaItem{}
	}
	for i := range items {
		items[i].CMV = v1.ComputeCMV(items[i].CustoTotal, items[i].VendaTotal)
	}

	rep := &v1.VendasReport{
		DataConsulta:   s.nowFn(),
		PeriodoInicio:  w.FormatStart(),
		PeriodoFim:     w.FormatEnd(),
		TotalRegistros: len(items),
		Fonte:          v1.FonteDatabase,
		Vendas:         items,
	}

	s.toCache(ctx, key, rep)
	return rep, nil
}

// IsCached reports whether a window already has a live cache entry. Used by
// the prewarm handler to skip months that are already populated.
func (s *Service) IsCached(ctx context.Context, w window.Window) bool {
	data, err := s.cache.Get(ctx, w.Key(s.keyPrefix))
	return err == nil && data != nil
}

// ClearCache removes every report entry under the configured key prefix and
// returns the number of keys removed.
func (s *Service) ClearCache(ctx context.Context) (int64, error) {
	return s.cache.DeleteMatching(ctx, s.keyPrefix+":*")
}

// fromCache attempts a cache read. Any failure (unreachable backend, corrupt
// payload) counts as a miss and is never propagated.
func (s *Service) fromCache(ctx context.Context, key string) *v1.VendasReport {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("[Report] Cache read failed, falling back to database", "key", key, "error", err)
		CacheMisses.WithLabelValues("error").Inc()
		return nil
	}
	if data == nil {
		CacheMisses.WithLabelValues("absent").Inc()
		return nil
	}

	var rep v1.VendasReport
	if err := json.Unmarshal(data, &rep); err != nil {
		slog.Warn("[Report] Corrupt cache entry treated as miss", "key", key, "error", err)
		CacheMisses.WithLabelValues("decode").Inc()
		return nil
	}
	return &rep
}

// toCache writes through. A failed write is logged and swallowed; the
// response never depends on cache write success.
func (s *Service) toCache(ctx context.Context, key string, rep *v1.VendasReport) {
	data, err := json.Marshal(rep)
	if err != nil {
		slog.Error("[Report] Failed to encode report for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.SetEx(ctx, key, data, s.ttl); err != nil {
		slog.Warn("[Report] Cache write failed", "key", key, "error", err)
	}
}
