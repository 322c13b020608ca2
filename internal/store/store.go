// Package store owns the in-memory record collection for the session.
//
// The RecordStore is the single writer: every mutation replaces the list
// wholesale (append, replace-by-id, remove-by-id) under the lock, and readers
// always receive snapshot copies, never the live slice.
package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/starford/datahub/internal/apperr"
	"github.com/starford/datahub/internal/models"
)

// RecordStore holds the authoritative list of data records.
type RecordStore struct {
	mu      sync.RWMutex
	records []models.DataRecord
	now     func() time.Time
}

// New creates a store pre-populated with seed. The seed slice is copied.
func New(seed []models.DataRecord) *RecordStore {
	records := make([]models.DataRecord, len(seed))
	copy(records, seed)
	return &RecordStore{records: records, now: time.Now}
}

// Snapshot returns a copy of the current collection in insertion order.
func (s *RecordStore) Snapshot() []models.DataRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DataRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id.
func (s *RecordStore) Get(id string) (models.DataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return models.DataRecord{}, apperr.ErrNotFound
}

// Add assigns a fresh store-unique ID to r and appends it.
func (s *RecordStore) Add(r models.DataRecord) models.DataRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID()
	s.records = append(s.records, r)
	return r
}

// Update replaces the record with r.ID in place. The record keeps its
// position in the collection.
func (s *RecordStore) Update(r models.DataRecord) (models.DataRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == r.ID {
			s.records[i] = r
			return r, nil
		}
	}
	return models.DataRecord{}, apperr.ErrNotFound
}

// Delete removes the record with the given id.
func (s *RecordStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

// Len returns the number of records in the store.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// nextID derives a timestamp-based identifier, bumping on collision so that
// two records created within the same millisecond stay distinct.
// Caller must hold s.mu.
func (s *RecordStore) nextID() string {
	candidate := s.now().UnixMilli()
	for {
		id := strconv.FormatInt(candidate, 10)
		if !s.hasID(id) {
			return id
		}
		candidate++
	}
}

func (s *RecordStore) hasID(id string) bool {
	for _, r := range s.records {
		if r.ID == id {
			return true
		}
	}
	return false
}
