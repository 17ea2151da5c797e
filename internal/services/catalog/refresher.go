package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/internal/domain"
	"github.com/unwraplabs/tyrion/internal/events"
)

// SnapshotStore persists catalog snapshots for last-known-good reads and
// trend history.
type SnapshotStore interface {
	Save(snapshot []domain.PoolRecord) error
	Latest() ([]domain.PoolRecord, bool, error)
	History(index uint64) ([][]domain.PoolRecord, error)
}

// Refresher periodically pulls the catalog from its source, keeps a
// cached copy, persists a snapshot and publishes a refresh event.
// When the source is down the cached copy keeps serving.
type Refresher struct {
	source      Source
	store       SnapshotStore
	broadcaster *events.CatalogBroadcaster
	interval    time.Duration
	logger      *zap.Logger

	mu     sync.RWMutex
	cached []domain.PoolRecord
}

func NewRefresher(source Source, store SnapshotStore, broadcaster *events.CatalogBroadcaster, interval time.Duration, logger *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Refresher{
		source:      source,
		store:       store,
		broadcaster: broadcaster,
		interval:    interval,
		logger:      logger,
	}
}

// Run executes the refresh loop until ctx is cancelled. The first fetch
// happens immediately; a failure there falls back to the stored snapshot.
func (r *Refresher) Run(ctx context.Context) error {
	if err := r.refresh(ctx); err != nil {
		r.logger.Warn("initial catalog fetch failed, trying stored snapshot", zap.Error(err))
		if err := r.restore(); err != nil {
			r.logger.Warn("no stored catalog snapshot available", zap.Error(err))
		}
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("starting catalog refresh loop", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("context done, stopping catalog refresh loop")
			return ctx.Err()
		case <-ticker.C:
			if err := r.refresh(ctx); err != nil {
				r.logger.Error("catalog refresh failed, keeping previous catalog", zap.Error(err))
			}
		}
	}
}

// Pools returns the cached catalog, falling back to a direct source
// fetch when the cache is still empty.
func (r *Refresher) Pools(ctx context.Context) ([]domain.PoolRecord, error) {
	r.mu.RLock()
	cached := r.cached
	r.mu.RUnlock()

	if cached != nil {
		out := make([]domain.PoolRecord, len(cached))
		copy(out, cached)
		return out, nil
	}

	records, err := r.source.Pools(ctx)
	if err != nil {
		return nil, err
	}
	r.setCached(records)
	return records, nil
}

// ApyTrend returns the smoothed APY of one pool and asset computed over
// the stored snapshot history.
func (r *Refresher) ApyTrend(key domain.PoolKey, asset string, period int) (float64, error) {
	if r.store == nil {
		return 0, errors.New("no snapshot store configured")
	}
	snapshots, err := r.store.History(0)
	if err != nil {
		return 0, errors.Wrap(err, "load snapshot history")
	}
	return SmoothedApy(ApySeries(snapshots, key, asset), period)
}

func (r *Refresher) refresh(ctx context.Context) error {
	records, err := r.source.Pools(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch catalog")
	}

	r.setCached(records)

	if r.store != nil {
		if err := r.store.Save(records); err != nil {
			r.logger.Error("failed to persist catalog snapshot", zap.Error(err))
		}
	}

	if r.broadcaster != nil {
		r.broadcaster.Publish(events.CatalogRefresh{
			Timestamp: time.Now(),
			Source:    "refresh",
			Pools:     len(records),
			TopApy:    topApy(records),
		})
	}

	r.logger.Debug("catalog refreshed", zap.Int("pools", len(records)))

	return nil
}

func (r *Refresher) restore() error {
	if r.store == nil {
		return errors.New("no snapshot store configured")
	}
	snapshot, ok, err := r.store.Latest()
	if err != nil {
		return errors.Wrap(err, "read latest snapshot")
	}
	if !ok {
		return errors.New("snapshot store is empty")
	}
	r.setCached(snapshot)
	r.logger.Info("catalog restored from stored snapshot", zap.Int("pools", len(snapshot)))
	return nil
}

func (r *Refresher) setCached(records []domain.PoolRecord) {
	r.mu.Lock()
	r.cached = records
	r.mu.Unlock()
}

func topApy(records []domain.PoolRecord) string {
	best := 0.0
	for _, record := range records {
		if record.APY > best {
			best = record.APY
		}
	}
	if best == 0 {
		return ""
	}
	return fmt.Sprintf("%.4f", best)
}
