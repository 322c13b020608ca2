package documents

import (
	"fmt"

	"github.com/starford/datahub/internal/models"
)

// seedDocuments is the initial catalog content, inserted once on first open.
var seedDocuments = []models.DocumentRecord{
	{ID: "1", FileName: "Q1_Sales_Report.xlsx", Type: models.DocumentTypeExcel, UploadedAt: "2024-01-15", Size: "2.4 MB", Status: models.DocumentProcessed},
	{ID: "2", FileName: "Marketing_Strategy.docx", Type: models.DocumentTypeWord, UploadedAt: "2024-01-18", Size: "1.2 MB", Status: models.DocumentProcessed},
	{ID: "3", FileName: "Budget_2024.xlsx", Type: models.DocumentTypeExcel, UploadedAt: "2024-01-20", Size: "3.8 MB", Status: models.DocumentPending},
	{ID: "4", FileName: "Employee_Handbook.docx", Type: models.DocumentTypeWord, UploadedAt: "2024-01-22", Size: "5.1 MB", Status: models.DocumentProcessed},
}

// seed inserts the initial documents. Idempotent: existing rows are kept.
func (db *DB) seed() error {
	stmt, err := db.conn.Prepare(`
		INSERT OR IGNORE INTO documents (id, file_name, type, uploaded_at, size, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("documents: prepare seed: %w", err)
	}
	defer stmt.Close()

	for _, d := range seedDocuments {
		if _, err := stmt.Exec(d.ID, d.FileName, string(d.Type), d.UploadedAt, d.Size, string(d.Status)); err != nil {
			return fmt.Errorf("documents: seed %s: %w", d.ID, err)
		}
	}
	return nil
}
