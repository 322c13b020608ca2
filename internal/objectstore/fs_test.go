package objectstore

import (
	"io"
	"strings"
	"testing"
)

func tempBucket(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestPutAndOpen(t *testing.T) {
	s := tempBucket(t)
	written, err := s.Put("1700000000000-abcd.pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if written != int64(len("pdf-bytes")) {
		t.Errorf("written = %d", written)
	}

	rc, err := s.Open("1700000000000-abcd.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "pdf-bytes" {
		t.Errorf("content = %q", got)
	}
}

func TestPutRejectsTraversalKeys(t *testing.T) {
	s := tempBucket(t)
	for _, key := range []string{"", "../escape.pdf", "a/b.pdf", ".."} {
		if _, err := s.Put(key, strings.NewReader("x")); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
	}
}

func TestOpenMissingKey(t *testing.T) {
	s := tempBucket(t)
	if _, err := s.Open("nope.pdf"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestListSkipsTempFiles(t *testing.T) {
	s := tempBucket(t)
	_, _ = s.Put("a.pdf", strings.NewReader("a"))
	_, _ = s.Put("b.xlsx", strings.NewReader("b"))

	keys, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("keys = %v, want 2 entries", keys)
	}
}

func TestPublicURL(t *testing.T) {
	s := tempBucket(t)
	if got := s.PublicURL("x.pdf"); got != "/files/x.pdf" {
		t.Errorf("url = %q", got)
	}
}

func TestNewFSRequiresExistingDir(t *testing.T) {
	if _, err := NewFS("/definitely/not/here"); err == nil {
		t.Error("expected error for missing root")
	}
}
