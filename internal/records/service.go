// Package records implements the record submit contract: draft validation,
// attachment resolution, and the create/edit/delete mutations against the
// record store.
package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/datahub/internal/apperr"
	"github.com/starford/datahub/internal/filter"
	"github.com/starford/datahub/internal/models"
	"github.com/starford/datahub/internal/objectstore"
	"github.com/starford/datahub/internal/store"
	"github.com/starford/datahub/internal/upload"
)

// Draft is a working copy of the form fields, plus an optionally staged
// local file. A draft never carries an ID; the store assigns or preserves it.
type Draft struct {
	Name        string
	Category    string
	Status      models.Status
	Date        string
	Value       float64
	Description string
	Staged      *upload.StagedFile
}

// Validate enforces the input-boundary rules: name required, status within
// the enumeration, value floored at zero, date in calendar form when set.
func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Status, validation.In(models.StatusActive, models.StatusPending, models.StatusArchived)),
		validation.Field(&d.Value, validation.Min(0.0)),
		validation.Field(&d.Date, validation.Date("2006-01-02")),
	)
}

// Publisher receives record change notifications. May be nil.
type Publisher interface {
	PublishRecordEvent(kind, id string)
}

// Service coordinates the store, the uploader, and change notifications.
type Service struct {
	store    *store.RecordStore
	uploader *upload.Uploader
	events   Publisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a record service. events may be nil.
func NewService(st *store.RecordStore, up *upload.Uploader, events Publisher, logger *slog.Logger) *Service {
	return &Service{store: st, uploader: up, events: events, logger: logger, now: time.Now}
}

// List applies the filter engine to a store snapshot and returns the
// surviving records, the unfiltered total, and the live category set.
func (s *Service) List(_ context.Context, opts filter.Options) ([]models.DataRecord, int, []string) {
	snapshot := s.store.Snapshot()
	return filter.Apply(snapshot, opts), len(snapshot), filter.Categories(snapshot)
}

// Get returns a single record by id.
func (s *Service) Get(_ context.Context, id string) (models.DataRecord, error) {
	return s.store.Get(id)
}

// Create validates the draft, uploads any staged file, and appends a new
// record with a fresh id. An upload failure aborts the submission with no
// store mutation; the caller keeps the staged selection for a manual retry.
func (s *Service) Create(ctx context.Context, d Draft) (models.DataRecord, error) {
	d = s.applyDefaults(d)
	if err := d.Validate(); err != nil {
		return models.DataRecord{}, fmt.Errorf("records: validate: %w", err)
	}

	var attachment *models.Attachment
	if d.Staged != nil {
		att, err := s.uploader.Upload(ctx, *d.Staged)
		if err != nil {
			return models.DataRecord{}, err
		}
		attachment = att
	}

	created := s.store.Add(models.DataRecord{
		Name:        d.Name,
		Category:    d.Category,
		Status:      d.Status,
		Date:        d.Date,
		Value:       d.Value,
		Description: d.Description,
		Attachment:  attachment,
	})
	s.logger.Info("record created", slog.String("id", created.ID), slog.String("name", created.Name))
	s.publish("created", created.ID)
	return created, nil
}

// Update validates the draft and replaces the record with the given id,
// preserving the id. A previously attached file is retained unchanged unless
// a new staged file replaces it. The target is resolved before any upload so
// an unknown id never writes an object.
func (s *Service) Update(ctx context.Context, id string, d Draft) (models.DataRecord, error) {
	existing, err := s.store.Get(id)
	if err != nil {
		return models.DataRecord{}, err
	}

	d = s.applyDefaults(d)
	if err := d.Validate(); err != nil {
		return models.DataRecord{}, fmt.Errorf("records: validate: %w", err)
	}

	attachment := existing.Attachment
	if d.Staged != nil {
		att, upErr := s.uploader.Upload(ctx, *d.Staged)
		if upErr != nil {
			return models.DataRecord{}, upErr
		}
		attachment = att
	}

	updated, err := s.store.Update(models.DataRecord{
		ID:          id,
		Name:        d.Name,
		Category:    d.Category,
		Status:      d.Status,
		Date:        d.Date,
		Value:       d.Value,
		Description: d.Description,
		Attachment:  attachment,
	})
	if err != nil {
		return models.DataRecord{}, err
	}
	s.logger.Info("record updated", slog.String("id", id))
	s.publish("updated", id)
	return updated, nil
}

// Delete removes the record with the given id once confirmed. An unconfirmed
// delete intent is a no-op that returns the target record for the
// confirmation step.
func (s *Service) Delete(_ context.Context, id string, confirmed bool) (models.DataRecord, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		return models.DataRecord{}, err
	}
	if !confirmed {
		return rec, apperr.ErrConfirmRequired
	}
	if err := s.store.Delete(id); err != nil {
		return models.DataRecord{}, err
	}
	s.logger.Info("record deleted", slog.String("id", id), slog.String("name", rec.Name))
	s.publish("deleted", id)
	return rec, nil
}

// ReferencedKeys returns the storage keys referenced by record attachments,
// for the bucket orphan sweep.
func (s *Service) ReferencedKeys() map[string]struct{} {
	out := make(map[string]struct{})
	for _, r := range s.store.Snapshot() {
		if r.Attachment == nil {
			continue
		}
		if key := objectstore.KeyFromURL(r.Attachment.FileURL); key != "" {
			out[key] = struct{}{}
		}
	}
	return out
}

// applyDefaults fills the create-mode defaults: status active, date today.
func (s *Service) applyDefaults(d Draft) Draft {
	if d.Status == "" {
		d.Status = models.StatusActive
	}
	if d.Date == "" {
		d.Date = s.now().Format("2006-01-02")
	}
	return d
}

func (s *Service) publish(kind, id string) {
	if s.events != nil {
		s.events.PublishRecordEvent(kind, id)
	}
}
