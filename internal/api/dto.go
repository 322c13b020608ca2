package api

import (
	"github.com/starford/datahub/internal/dashboard"
	"github.com/starford/datahub/internal/models"
)

// RecordPayload is the JSON request body for creating or updating a record.
// Multipart submissions carry the same fields as form values plus a "file"
// part for the attachment.
type RecordPayload struct {
	Name        string  `json:"name" example:"Q1 Sales Report" validate:"required"`
	Category    string  `json:"category" example:"Sales"`
	Status      string  `json:"status" example:"active"`
	Date        string  `json:"date" example:"2024-01-15"`
	Value       float64 `json:"value" example:"15000"`
	Description string  `json:"description" example:"Quarterly sales figures"`
}

// RecordListResponse wraps filtered record listings.
type RecordListResponse struct {
	Records    []models.DataRecord `json:"records" validate:"required"`
	Total      int                 `json:"total" example:"6" validate:"required"`
	Categories []string            `json:"categories" validate:"required"`
}

// DocumentListResponse wraps the document catalog listing.
type DocumentListResponse struct {
	Documents []models.DocumentRecord `json:"documents" validate:"required"`
	Total     int                     `json:"total" example:"4" validate:"required"`
}

// DashboardResponse carries the headline counters and the recent feed.
type DashboardResponse struct {
	Stats  dashboard.Stats     `json:"stats" validate:"required"`
	Recent []models.DataRecord `json:"recent" validate:"required"`
}

// SessionResponse describes the current session identity.
type SessionResponse struct {
	Email         string `json:"email" example:"admin@datahub.io" validate:"required"`
	Authenticated bool   `json:"authenticated" example:"true"`
}

// ConfirmResponse is returned when a delete arrives without confirmation.
type ConfirmResponse struct {
	Error  string            `json:"error" validate:"required"`
	Record models.DataRecord `json:"record" validate:"required"`
}
