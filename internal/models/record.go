// Package models defines the domain types for DataHub.
package models

// Status is the lifecycle state of a data record.
type Status string

// Record statuses.
const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusArchived Status = "archived"
)

// Valid reports whether s is one of the known record statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusArchived:
		return true
	}
	return false
}

// FileType classifies an uploaded attachment by its MIME type.
type FileType string

// Attachment file types.
const (
	FileTypePDF   FileType = "pdf"
	FileTypeWord  FileType = "word"
	FileTypeExcel FileType = "excel"
)

// Attachment describes a file stored in the object store and linked to a
// record. It is always present as a whole or absent as a whole; the four
// fields are never set independently.
type Attachment struct {
	FileName string   `json:"fileName"`
	FileURL  string   `json:"fileUrl"`
	FileType FileType `json:"fileType"`
	FileSize string   `json:"fileSize"`
}

// DataRecord is one manageable business item.
//
// Category is free text; the known category set is always derived from the
// live collection, never stored separately. Value of 0 means "no value" for
// display purposes. Date carries calendar-date semantics (YYYY-MM-DD).
type DataRecord struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Status      Status      `json:"status"`
	Date        string      `json:"date"`
	Value       float64     `json:"value"`
	Description string      `json:"description"`
	Attachment  *Attachment `json:"attachment,omitempty"`
}
