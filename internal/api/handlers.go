package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/datahub/internal/apperr"
	"github.com/starford/datahub/internal/dashboard"
	"github.com/starford/datahub/internal/documents"
	"github.com/starford/datahub/internal/filter"
	"github.com/starford/datahub/internal/models"
	"github.com/starford/datahub/internal/records"
	"github.com/starford/datahub/internal/upload"
)

const maxSubmitBytes = 50 << 20 // 50 MB

// Handler holds API route handlers.
type Handler struct {
	records      *records.Service
	dash         *dashboard.Service
	docs         *documents.DB
	sessionEmail string
}

// NewHandler creates a new Handler.
func NewHandler(rec *records.Service, dash *dashboard.Service, docs *documents.DB, sessionEmail string) *Handler {
	return &Handler{records: rec, dash: dash, docs: docs, sessionEmail: sessionEmail}
}

// draftFromRequest decodes a record submission from either a JSON body or a
// multipart form. Only multipart submissions can stage a file; the "file"
// part is optional either way.
func draftFromRequest(w http.ResponseWriter, r *http.Request) (records.Draft, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return draftFromMultipart(r)
	}

	var req RecordPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return records.Draft{}, errors.New("invalid JSON body")
	}
	return draftFromPayload(req), nil
}

func draftFromMultipart(r *http.Request) (records.Draft, error) {
	if err := r.ParseMultipartForm(maxSubmitBytes); err != nil {
		return records.Draft{}, errors.New("file too large or invalid multipart")
	}

	var req RecordPayload
	req.Name = r.FormValue("name")
	req.Category = r.FormValue("category")
	req.Status = r.FormValue("status")
	req.Date = r.FormValue("date")
	req.Description = r.FormValue("description")
	if raw := r.FormValue("value"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return records.Draft{}, errors.New("value must be a number")
		}
		req.Value = v
	}
	d := draftFromPayload(req)

	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return d, nil
	}
	if err != nil {
		return records.Draft{}, errors.New("invalid 'file' field in multipart form")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return records.Draft{}, errors.New("failed to read uploaded file")
	}
	d.Staged = &upload.StagedFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
	return d, nil
}

func draftFromPayload(req RecordPayload) records.Draft {
	return records.Draft{
		Name:        req.Name,
		Category:    req.Category,
		Status:      models.Status(req.Status),
		Date:        req.Date,
		Value:       req.Value,
		Description: req.Description,
	}
}

// ListRecords handles GET /api/records.
//
//	@Summary		List records with optional filtering
//	@Tags			records
//	@Produce		json
//	@Param			search		query		string	false	"Case-insensitive match on name and description"
//	@Param			status		query		string	false	"Status filter"	Enums(all, active, pending, archived)
//	@Param			category	query		string	false	"Category filter, or 'all'"
//	@Success		200			{object}	RecordListResponse
//	@Security		BearerAuth
//	@Router			/records [get]
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := filter.Options{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Category: q.Get("category"),
	}

	items, total, categories := h.records.List(r.Context(), opts)
	if items == nil {
		items = []models.DataRecord{}
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records":    items,
		"total":      total,
		"categories": categories,
	})
}

// GetRecord handles GET /api/records/{id}.
//
//	@Summary		Get a single record by id
//	@Tags			records
//	@Produce		json
//	@Param			id	path		string	true	"Record id"
//	@Success		200	{object}	models.DataRecord
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{id} [get]
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.records.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get record failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CreateRecord handles POST /api/records (JSON or multipart/form-data).
//
//	@Summary		Create a new record, optionally with an attached file
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RecordPayload	true	"Record to create"
//	@Success		201		{object}	models.DataRecord
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records [post]
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	draft, err := draftFromRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	rec, err := h.records.Create(r.Context(), draft)
	if err != nil {
		h.writeSubmitError(w, err, "create record failed")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// UpdateRecord handles PUT /api/records/{id} (JSON or multipart/form-data).
//
//	@Summary		Update a record, replacing the attachment when a file is staged
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Record id"
//	@Param			body	body		RecordPayload	true	"Updated fields"
//	@Success		200		{object}	models.DataRecord
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{id} [put]
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	draft, err := draftFromRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	rec, err := h.records.Update(r.Context(), id, draft)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		h.writeSubmitError(w, err, "update record failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteRecord handles DELETE /api/records/{id}.
//
// Deletion is a two-step intent: without confirm=true the record is returned
// untouched with 409 so the client can show the confirmation dialog.
//
//	@Summary		Delete a record (requires confirm=true)
//	@Tags			records
//	@Produce		json
//	@Param			id		path		string	true	"Record id"
//	@Param			confirm	query		bool	false	"Set true to actually delete"
//	@Success		200		{object}	models.DataRecord
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	ConfirmResponse
//	@Security		BearerAuth
//	@Router			/records/{id} [delete]
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	confirmed := r.URL.Query().Get("confirm") == "true"

	rec, err := h.records.Delete(r.Context(), id, confirmed)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrConfirmRequired):
			writeJSON(w, http.StatusConflict, ConfirmResponse{
				Error:  "confirmation required",
				Record: rec,
			})
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		default:
			slog.Error("delete record failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List the document catalog
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List()
	if err != nil {
		slog.Error("list documents failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"total":     len(docs),
	})
}

// GetDocument handles GET /api/documents/{id}.
//
//	@Summary		Get a catalog document by id
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Document id"
//	@Success		200	{object}	models.DocumentRecord
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.docs.Get(id)
	if err != nil {
		slog.Error("get document failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if doc == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Dashboard handles GET /api/dashboard.
//
//	@Summary		Get headline statistics and the recent activity feed
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	DashboardResponse
//	@Security		BearerAuth
//	@Router			/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dash.Stats(r.Context())
	if err != nil {
		slog.Error("dashboard stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{
		Stats:  stats,
		Recent: h.dash.Recent(r.Context()),
	})
}

// Session handles GET /api/session.
//
//	@Summary		Get the current session identity
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	SessionResponse
//	@Security		BearerAuth
//	@Router			/session [get]
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SessionResponse{
		Email:         h.sessionEmail,
		Authenticated: true,
	})
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, apperr.ErrUnsupportedFileType) {
		writeJSON(w, http.StatusBadRequest, errorBody("unsupported file type"))
		return
	}
	if isValidationError(err) {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	slog.Error(logMsg, slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// isValidationError reports whether err carries a draft validation failure.
func isValidationError(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var vobj validation.ErrorObject
	return errors.As(err, &vobj)
}
