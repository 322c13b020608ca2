// Package dashboard aggregates the landing-view statistics and the recent
// activity feed from the record store and the document catalog.
package dashboard

import (
	"context"
	"fmt"

	"github.com/starford/datahub/internal/filter"
	"github.com/starford/datahub/internal/models"
	"github.com/starford/datahub/internal/store"
)

// recentLimit is how many records the activity feed shows.
const recentLimit = 5

// Stats are the four headline counters.
type Stats struct {
	TotalRecords  int `json:"totalRecords"`
	ActiveRecords int `json:"activeRecords"`
	ExcelDocs     int `json:"excelDocuments"`
	WordDocs      int `json:"wordDocuments"`
}

// Catalog is the slice of the document layer the dashboard needs.
type Catalog interface {
	CountByType() (excel, word int, err error)
}

// Service computes dashboard data on demand; nothing is cached, the counters
// always reflect the live store.
type Service struct {
	store   *store.RecordStore
	catalog Catalog
}

// NewService creates a dashboard service over the record store and the
// document catalog.
func NewService(st *store.RecordStore, catalog Catalog) *Service {
	return &Service{store: st, catalog: catalog}
}

// Stats returns the headline counters.
func (s *Service) Stats(_ context.Context) (Stats, error) {
	excel, word, err := s.catalog.CountByType()
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard: document counts: %w", err)
	}

	snapshot := s.store.Snapshot()
	active := 0
	for _, r := range snapshot {
		if r.Status == models.StatusActive {
			active++
		}
	}
	return Stats{
		TotalRecords:  len(snapshot),
		ActiveRecords: active,
		ExcelDocs:     excel,
		WordDocs:      word,
	}, nil
}

// Recent returns the newest records by date, most recent first.
func (s *Service) Recent(_ context.Context) []models.DataRecord {
	return filter.Recent(s.store.Snapshot(), recentLimit)
}
