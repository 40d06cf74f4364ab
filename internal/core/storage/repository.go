package storage

import (
	"context"

	v1 "github.com/aevon-lab/order-insights/internal/api/v1"
)

// OrderSource supplies the order records a pipeline run aggregates.
// Implementations return records in a stable order; views rely on it for
// first-encountered tie-breaking.
type OrderSource interface {
	LoadOrders(ctx context.Context) ([]v1.OrderRecord, error)

	// Close releases any resources held by the source.
	Close() error
}
