package records

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/datahub/internal/apperr"
	"github.com/starford/datahub/internal/filter"
	"github.com/starford/datahub/internal/models"
	"github.com/starford/datahub/internal/store"
	"github.com/starford/datahub/internal/upload"
)

// fakeBucket satisfies objectstore.Provider for upload wiring in tests.
type fakeBucket struct {
	puts    int
	failPut error
}

func (f *fakeBucket) Put(key string, r io.Reader) (int64, error) {
	if f.failPut != nil {
		return 0, f.failPut
	}
	f.puts++
	return io.Copy(io.Discard, r)
}

func (f *fakeBucket) Open(string) (io.ReadCloser, error) { return nil, errors.New("not implemented") }
func (f *fakeBucket) List() ([]string, error)            { return nil, nil }
func (f *fakeBucket) PublicURL(key string) string        { return "/files/" + key }

type eventLog struct {
	events []string
}

func (e *eventLog) PublishRecordEvent(kind, id string) {
	e.events = append(e.events, kind+":"+id)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testService(t *testing.T, seed []models.DataRecord) (*Service, *fakeBucket, *eventLog) {
	t.Helper()
	bucket := &fakeBucket{}
	events := &eventLog{}
	svc := NewService(store.New(seed), upload.NewUploader(bucket, testLogger()), events, testLogger())
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, bucket, events
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _, events := testService(t, nil)

	rec, err := svc.Create(context.Background(), Draft{Name: "New Record", Category: "Sales"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Status != models.StatusActive {
		t.Errorf("status = %q, want active default", rec.Status)
	}
	if rec.Date != "2024-03-10" {
		t.Errorf("date = %q, want submission-day default", rec.Date)
	}
	if rec.ID == "" {
		t.Error("expected assigned id")
	}
	if len(events.events) != 1 || events.events[0] != "created:"+rec.ID {
		t.Errorf("events = %v", events.events)
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	svc, _, events := testService(t, nil)

	cases := []Draft{
		{Name: ""},
		{Name: "x", Status: "deleted"},
		{Name: "x", Value: -5},
		{Name: "x", Date: "10/03/2024"},
	}
	for i, d := range cases {
		if _, err := svc.Create(context.Background(), d); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if len(events.events) != 0 {
		t.Errorf("rejected drafts must publish nothing, got %v", events.events)
	}
}

func TestCreateWithStagedFile(t *testing.T) {
	svc, bucket, _ := testService(t, nil)

	rec, err := svc.Create(context.Background(), Draft{
		Name: "With File",
		Staged: &upload.StagedFile{
			Name:        "invoice.pdf",
			ContentType: "application/pdf",
			Content:     []byte("pdf"),
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Attachment == nil || rec.Attachment.FileName != "invoice.pdf" {
		t.Fatalf("attachment = %+v", rec.Attachment)
	}
	if bucket.puts != 1 {
		t.Errorf("puts = %d", bucket.puts)
	}
}

func TestCreateUploadFailureLeavesStoreUntouched(t *testing.T) {
	svc, bucket, events := testService(t, nil)
	bucket.failPut = errors.New("bucket unavailable")

	_, err := svc.Create(context.Background(), Draft{
		Name: "Doomed",
		Staged: &upload.StagedFile{
			Name:        "invoice.pdf",
			ContentType: "application/pdf",
			Content:     []byte("pdf"),
		},
	})
	if err == nil {
		t.Fatal("expected upload error")
	}
	if _, total, _ := svc.List(context.Background(), filter.Options{}); total != 0 {
		t.Errorf("total = %d, failed submit must not append", total)
	}
	if len(events.events) != 0 {
		t.Errorf("events = %v", events.events)
	}
}

func TestUpdateRetainsAttachmentWithoutStagedFile(t *testing.T) {
	att := &models.Attachment{FileName: "old.pdf", FileURL: "/files/old.pdf", FileType: models.FileTypePDF, FileSize: "1.0 KB"}
	svc, bucket, events := testService(t, []models.DataRecord{
		{ID: "1", Name: "Original", Status: models.StatusActive, Date: "2024-01-01", Attachment: att},
	})

	rec, err := svc.Update(context.Background(), "1", Draft{Name: "Renamed", Status: models.StatusPending, Date: "2024-01-02"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Name != "Renamed" || rec.Status != models.StatusPending {
		t.Errorf("rec = %+v", rec)
	}
	if rec.Attachment == nil || rec.Attachment.FileName != "old.pdf" {
		t.Errorf("attachment not retained: %+v", rec.Attachment)
	}
	if bucket.puts != 0 {
		t.Errorf("puts = %d, no staged file to upload", bucket.puts)
	}
	if len(events.events) != 1 || events.events[0] != "updated:1" {
		t.Errorf("events = %v", events.events)
	}
}

func TestUpdateReplacesAttachmentWithStagedFile(t *testing.T) {
	att := &models.Attachment{FileName: "old.pdf", FileURL: "/files/old.pdf", FileType: models.FileTypePDF, FileSize: "1.0 KB"}
	svc, _, _ := testService(t, []models.DataRecord{
		{ID: "1", Name: "Original", Status: models.StatusActive, Date: "2024-01-01", Attachment: att},
	})

	rec, err := svc.Update(context.Background(), "1", Draft{
		Name: "Original",
		Staged: &upload.StagedFile{
			Name:        "new.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     []byte("sheet"),
		},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Attachment == nil || rec.Attachment.FileName != "new.xlsx" {
		t.Errorf("attachment = %+v", rec.Attachment)
	}
}

func TestUpdateUnknownIDBeforeUpload(t *testing.T) {
	svc, bucket, _ := testService(t, nil)

	_, err := svc.Update(context.Background(), "nope", Draft{
		Name: "x",
		Staged: &upload.StagedFile{
			Name:        "a.pdf",
			ContentType: "application/pdf",
			Content:     []byte("x"),
		},
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if bucket.puts != 0 {
		t.Errorf("puts = %d, unknown target must not upload", bucket.puts)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	svc, _, events := testService(t, []models.DataRecord{
		{ID: "1", Name: "Keep Me", Status: models.StatusActive, Date: "2024-01-01"},
	})

	rec, err := svc.Delete(context.Background(), "1", false)
	if !errors.Is(err, apperr.ErrConfirmRequired) {
		t.Fatalf("err = %v, want ErrConfirmRequired", err)
	}
	if rec.Name != "Keep Me" {
		t.Errorf("unconfirmed delete should echo the target, got %+v", rec)
	}
	if _, total, _ := svc.List(context.Background(), filter.Options{}); total != 1 {
		t.Errorf("total = %d, unconfirmed delete must not remove", total)
	}
	if len(events.events) != 0 {
		t.Errorf("events = %v", events.events)
	}

	if _, err := svc.Delete(context.Background(), "1", true); err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}
	if _, total, _ := svc.List(context.Background(), filter.Options{}); total != 0 {
		t.Errorf("total = %d after confirmed delete", total)
	}
	if len(events.events) != 1 || events.events[0] != "deleted:1" {
		t.Errorf("events = %v", events.events)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	svc, _, _ := testService(t, nil)
	if _, err := svc.Delete(context.Background(), "ghost", true); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListFiltersAndCategories(t *testing.T) {
	svc, _, _ := testService(t, []models.DataRecord{
		{ID: "1", Name: "Sales Report", Category: "Sales", Status: models.StatusActive, Date: "2024-01-01"},
		{ID: "2", Name: "Budget", Category: "Finance", Status: models.StatusPending, Date: "2024-01-02"},
	})

	items, total, cats := svc.List(context.Background(), filter.Options{Status: "active"})
	if total != 2 {
		t.Errorf("total = %d", total)
	}
	if len(items) != 1 || items[0].ID != "1" {
		t.Errorf("items = %+v", items)
	}
	if len(cats) != 2 || cats[0] != "Sales" || cats[1] != "Finance" {
		t.Errorf("categories = %v", cats)
	}
}

func TestReferencedKeys(t *testing.T) {
	svc, _, _ := testService(t, []models.DataRecord{
		{ID: "1", Name: "A", Status: models.StatusActive, Date: "2024-01-01",
			Attachment: &models.Attachment{FileName: "a.pdf", FileURL: "/files/abc-123.pdf"}},
		{ID: "2", Name: "B", Status: models.StatusActive, Date: "2024-01-01"},
	})

	keys := svc.ReferencedKeys()
	if len(keys) != 1 {
		t.Fatalf("keys = %v", keys)
	}
	if _, ok := keys["abc-123.pdf"]; !ok {
		t.Errorf("missing key, got %v", keys)
	}
}
