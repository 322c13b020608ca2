// Package documents provides the SQLite-backed read-only document catalog.
package documents

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/datahub/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	file_name   TEXT NOT NULL,
	type        TEXT NOT NULL,
	uploaded_at TEXT NOT NULL,
	size        TEXT NOT NULL,
	status      TEXT NOT NULL
);
`

// DB wraps a sql.DB with catalog operations. The catalog is read-only for
// API consumers; rows are written only by the startup seed.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database, applies the schema, and seeds
// the catalog when empty.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("documents: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("documents: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("documents: apply schema: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.seed(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// List returns every catalog document ordered by upload date descending.
func (db *DB) List() ([]models.DocumentRecord, error) {
	rows, err := db.conn.Query(`
		SELECT id, file_name, type, uploaded_at, size, status
		FROM documents
		ORDER BY uploaded_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("documents: list: %w", err)
	}
	defer rows.Close()

	var out []models.DocumentRecord
	for rows.Next() {
		var d models.DocumentRecord
		if err := rows.Scan(&d.ID, &d.FileName, &d.Type, &d.UploadedAt, &d.Size, &d.Status); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Get returns a single catalog document, or nil when absent.
func (db *DB) Get(id string) (*models.DocumentRecord, error) {
	var d models.DocumentRecord
	err := db.conn.QueryRow(`
		SELECT id, file_name, type, uploaded_at, size, status
		FROM documents WHERE id = ?
	`, id).Scan(&d.ID, &d.FileName, &d.Type, &d.UploadedAt, &d.Size, &d.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("documents: get %s: %w", id, err)
	}
	return &d, nil
}

// CountByType returns how many documents exist per document type.
func (db *DB) CountByType() (excel, word int, err error) {
	rows, err := db.conn.Query(`SELECT type, COUNT(*) FROM documents GROUP BY type`)
	if err != nil {
		return 0, 0, fmt.Errorf("documents: count by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return 0, 0, err
		}
		switch models.DocumentType(t) {
		case models.DocumentTypeExcel:
			excel = n
		case models.DocumentTypeWord:
			word = n
		}
	}
	return excel, word, rows.Err()
}
