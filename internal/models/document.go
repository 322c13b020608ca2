package models

// DocumentType is the kind of a catalog document.
type DocumentType string

// Document types.
const (
	DocumentTypeExcel DocumentType = "excel"
	DocumentTypeWord  DocumentType = "word"
)

// DocumentStatus is the processing state of a catalog document.
type DocumentStatus string

// Document statuses.
const (
	DocumentProcessed DocumentStatus = "processed"
	DocumentPending   DocumentStatus = "pending"
	DocumentError     DocumentStatus = "error"
)

// DocumentRecord is a read-only entry in the document catalog, unrelated to
// the record CRUD path.
type DocumentRecord struct {
	ID         string         `json:"id"`
	FileName   string         `json:"fileName"`
	Type       DocumentType   `json:"type"`
	UploadedAt string         `json:"uploadedAt"`
	Size       string         `json:"size"`
	Status     DocumentStatus `json:"status"`
}
