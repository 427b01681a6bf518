package status

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"dropzone/internal/model"
)

var (
	ErrUnknownRecord     = errors.New("unknown tracking record")
	ErrDuplicateRecord   = errors.New("tracking record already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Store is the shared view of every transfer's progress. Each record has a
// single writer, the worker that created it; readers get copies.
type Store interface {
	Create(rec model.TrackingRecord) error
	Update(id string, next model.Status, opts ...UpdateOption) error
	Get(id string) (model.TrackingRecord, bool)
	Snapshot() []model.TrackingRecord
}

type UpdateOption func(*model.TrackingRecord)

func WithTargetFolder(path string) UpdateOption {
	return func(r *model.TrackingRecord) {
		r.TargetFolder = path
	}
}

func WithArchiveFolder(path string) UpdateOption {
	return func(r *model.TrackingRecord) {
		r.ArchiveFolder = path
	}
}

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]model.TrackingRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]model.TrackingRecord),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(rec model.TrackingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.TrackingID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRecord, rec.TrackingID)
	}

	now := s.now()
	if rec.StartedAt.IsZero() {
		rec.StartedAt = now
	}
	rec.UpdatedAt = now
	s.records[rec.TrackingID] = rec
	return nil
}

func (s *MemoryStore) Update(id string, next model.Status, opts ...UpdateOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}

	if !rec.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.Status, next)
	}

	rec.Status = next
	for _, opt := range opts {
		opt(&rec)
	}
	rec.UpdatedAt = s.now()
	s.records[id] = rec
	return nil
}

func (s *MemoryStore) Get(id string) (model.TrackingRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	return rec, ok
}

// Snapshot returns every record, oldest first.
func (s *MemoryStore) Snapshot() []model.TrackingRecord {
	s.mu.RLock()
	recs := make([]model.TrackingRecord, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].StartedAt.Equal(recs[j].StartedAt) {
			return recs[i].TrackingID < recs[j].TrackingID
		}
		return recs[i].StartedAt.Before(recs[j].StartedAt)
	})
	return recs
}
