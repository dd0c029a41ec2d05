package queries

import (
	"context"
	"log/slog"

	"clubops/internal/domain/waitlist"
)

type InventoryReadStore interface {
	Snapshot(ctx context.Context) (*waitlist.InventorySnapshot, error)
}

// InventoryCache is a short-TTL cache in front of the snapshot aggregation.
// Misses and cache errors fall through to the read store.
type InventoryCache interface {
	Get(ctx context.Context) (*waitlist.InventorySnapshot, bool)
	Set(ctx context.Context, snap *waitlist.InventorySnapshot)
	Invalidate(ctx context.Context)
}

type InventoryQueries interface {
	Snapshot(ctx context.Context) (*waitlist.InventorySnapshot, error)
	Refresh(ctx context.Context) (*waitlist.InventorySnapshot, error)
	// Invalidate drops the cached snapshot; the next Snapshot re-aggregates
	// from the store.
	Invalidate(ctx context.Context)
}

type inventoryQueriesImpl struct {
	store  InventoryReadStore
	cache  InventoryCache
	logger *slog.Logger
}

func NewInventoryQueries(store InventoryReadStore, cache InventoryCache, logger *slog.Logger) InventoryQueries {
	return &inventoryQueriesImpl{store: store, cache: cache, logger: logger}
}

func (q *inventoryQueriesImpl) Snapshot(ctx context.Context) (*waitlist.InventorySnapshot, error) {
	if snap, ok := q.cache.Get(ctx); ok {
		return snap, nil
	}
	return q.Refresh(ctx)
}

// Refresh bypasses the cache, repopulating it from the authoritative store.
func (q *inventoryQueriesImpl) Refresh(ctx context.Context) (*waitlist.InventorySnapshot, error) {
	snap, err := q.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	q.cache.Set(ctx, snap)
	return snap, nil
}

func (q *inventoryQueriesImpl) Invalidate(ctx context.Context) {
	q.cache.Invalidate(ctx)
}
