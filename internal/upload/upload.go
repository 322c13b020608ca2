// Package upload implements the attachment upload lifecycle: MIME
// classification, storage key generation, and the single write to the
// object store.
package upload

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/datahub/internal/apperr"
	"github.com/starford/datahub/internal/models"
	"github.com/starford/datahub/internal/objectstore"
)

// acceptedTypes is the exact MIME allow-list for attachments.
var acceptedTypes = map[string]models.FileType{
	"application/pdf": models.FileTypePDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": models.FileTypeWord,
	"application/msword": models.FileTypeWord,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": models.FileTypeExcel,
	"application/vnd.ms-excel": models.FileTypeExcel,
}

// Classify maps a MIME type to its attachment file type. The second return
// is false for anything outside the allow-list.
func Classify(mimeType string) (models.FileType, bool) {
	ft, ok := acceptedTypes[mimeType]
	return ft, ok
}

// FormatSize renders a byte count for display: plain bytes below 1 KiB,
// otherwise KB or MB to one decimal.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

// StagedFile is a locally selected file not yet written to the object store.
type StagedFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// Uploader writes staged files to the object store and produces attachment
// metadata.
type Uploader struct {
	store  objectstore.Provider
	logger *slog.Logger
	now    func() time.Time
}

// NewUploader creates an uploader backed by the given object store.
func NewUploader(store objectstore.Provider, logger *slog.Logger) *Uploader {
	return &Uploader{store: store, logger: logger, now: time.Now}
}

// Upload classifies the staged file, stores it under a collision-resistant
// key, and returns the attachment bundle. An unsupported MIME type fails
// before any storage write. A storage failure is returned to the caller with
// nothing committed; no retry is attempted.
func (u *Uploader) Upload(_ context.Context, f StagedFile) (*models.Attachment, error) {
	ft, ok := Classify(f.ContentType)
	if !ok {
		return nil, fmt.Errorf("upload: %q: %w", f.ContentType, apperr.ErrUnsupportedFileType)
	}

	key := u.newKey(f.Name)
	written, err := u.store.Put(key, bytes.NewReader(f.Content))
	if err != nil {
		return nil, fmt.Errorf("upload: put %s: %w", key, err)
	}

	sum := sha256.Sum256(f.Content)
	u.logger.Info("attachment stored",
		slog.String("key", key),
		slog.String("file_name", f.Name),
		slog.Int64("size", written),
		slog.String("checksum", hex.EncodeToString(sum[:])))

	return &models.Attachment{
		FileName: f.Name,
		FileURL:  u.store.PublicURL(key),
		FileType: ft,
		FileSize: FormatSize(written),
	}, nil
}

// newKey builds a storage key from the current timestamp, a random token,
// and the original file extension.
func (u *Uploader) newKey(name string) string {
	token := make([]byte, 4)
	_, _ = rand.Read(token)
	ext := strings.ToLower(filepath.Ext(name))
	return fmt.Sprintf("%d-%s%s", u.now().UnixMilli(), hex.EncodeToString(token), ext)
}
