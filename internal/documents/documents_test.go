package documents

import (
	"os"
	"testing"

	"github.com/starford/datahub/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "datahub-docs-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenSeedsCatalog(t *testing.T) {
	db := testDB(t)
	docs, err := db.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 4 {
		t.Fatalf("len = %d, want 4", len(docs))
	}
	// Ordered by upload date descending.
	if docs[0].FileName != "Employee_Handbook.docx" {
		t.Errorf("first = %q", docs[0].FileName)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testDB(t)
	if err := db.seed(); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	docs, _ := db.List()
	if len(docs) != 4 {
		t.Errorf("len = %d after reseed, want 4", len(docs))
	}
}

func TestGet(t *testing.T) {
	db := testDB(t)
	d, err := db.Get("2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d == nil || d.Type != models.DocumentTypeWord {
		t.Errorf("doc = %+v", d)
	}

	missing, err := db.Get("999")
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}
}

func TestCountByType(t *testing.T) {
	db := testDB(t)
	excel, word, err := db.CountByType()
	if err != nil {
		t.Fatalf("CountByType: %v", err)
	}
	if excel != 2 || word != 2 {
		t.Errorf("counts = (%d, %d), want (2, 2)", excel, word)
	}
}
