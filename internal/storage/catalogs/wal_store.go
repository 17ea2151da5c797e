// Package catalogs persists pool catalog snapshots in a write-ahead log.
// Snapshots back the last-known-good catalog when the upstream API is
// down and provide the history APY trend stats are computed from.
package catalogs

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/unwraplabs/tyrion/internal/domain"
)

const (
	DefaultDir   = "./wal/catalogs"
	segmentLimit = 100
	maxSegments  = 10

	snapshotKeyPrefix = "catalog_snapshot_"
)

// Snapshot is one stored catalog with the time it was taken.
type Snapshot struct {
	Timestamp time.Time           `json:"ts"`
	Records   []domain.PoolRecord `json:"records"`
}

// WALStore persists catalog snapshots in a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed snapshot store.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "catalog_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init catalog WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends a snapshot of the catalog.
func (s *WALStore) Save(records []domain.PoolRecord) error {
	if s == nil || s.wal == nil {
		return errors.New("catalog store is not initialized")
	}

	payload, err := json.Marshal(Snapshot{Timestamp: time.Now(), Records: records})
	if err != nil {
		return errors.Wrap(err, "marshal catalog snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, snapshotKeyPrefix, payload)
}

// Latest returns the most recent snapshot if one exists.
func (s *WALStore) Latest() ([]domain.PoolRecord, bool, error) {
	if s == nil || s.wal == nil {
		return nil, false, errors.New("catalog store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	for idx := current; idx >= 1; idx-- {
		_, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}
		var snapshot Snapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, false, errors.Wrap(err, "decode catalog snapshot")
		}
		return snapshot.Records, true, nil
	}

	return nil, false, nil
}

// History returns all stored snapshots written after the provided WAL
// index, oldest first.
func (s *WALStore) History(index uint64) ([][]domain.PoolRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("catalog store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	history := make([][]domain.PoolRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		_, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}
		var snapshot Snapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, errors.Wrap(err, "decode catalog snapshot")
		}
		history = append(history, snapshot.Records)
	}

	return history, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("catalog store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
