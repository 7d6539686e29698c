package storage

import (
	"context"
	"errors"

	v1 "github.com/marcelobragadossantos/api-realtime/internal/api/v1"
	"github.com/marcelobragadossantos/api-realtime/internal/core/window"
)

var (
	// ErrStoreUnavailable is returned when a database connection cannot be acquired.
	ErrStoreUnavailable = errors.New("sales store unavailable")

	// ErrQueryFailed is returned when the aggregation query fails to execute.
	ErrQueryFailed = errors.New("sales query failed")
)

// SalesStore is the source-of-truth aggregation boundary. Implementations
// return rows ordered by descending revenue and never return NULL-derived
// numeric values (missing values are coerced to zero).
type SalesStore interface {
	QuerySales(ctx context.Context, w window.Window) ([]v1.VendaItem, error)
}
