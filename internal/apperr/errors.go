// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConfirmRequired     = errors.New("confirmation required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
