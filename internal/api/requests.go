package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/buildright/matreq/internal/export"
	"github.com/buildright/matreq/internal/model"
	"github.com/buildright/matreq/internal/store"
)

// RequestsHandler handles material request CRUD and export endpoints.
type RequestsHandler struct {
	DB    *sql.DB
	Store *store.RequestStore
}

// List handles GET /api/requests with an optional ?status= filter.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidStatus(status) {
		jsonError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	claims := GetClaims(r.Context())
	requests, err := h.Store.List(r.Context(), claims.CompanyID, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}
	if requests == nil {
		requests = []model.MaterialRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Get handles GET /api/requests/{id}.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	req, err := h.Store.Get(r.Context(), claims.CompanyID, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "request not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get request")
		return
	}
	jsonResponse(w, http.StatusOK, req)
}

// Create handles POST /api/requests.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.CreateMaterialRequestInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Store.Create(r.Context(), identity(r.Context()), in)
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonValidationError(w, ve)
		return
	case errors.Is(err, store.ErrUnauthenticated):
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to create request")
		return
	}

	jsonResponse(w, http.StatusCreated, req)
}

// Update handles PATCH /api/requests/{id} with a partial field set.
func (h *RequestsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.UpdateMaterialRequestInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	req, err := h.Store.Update(r.Context(), claims.CompanyID, r.PathValue("id"), in)
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonValidationError(w, ve)
		return
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "request not found")
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to update request")
		return
	}

	jsonResponse(w, http.StatusOK, req)
}

// Delete handles DELETE /api/requests/{id}.
func (h *RequestsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	err := h.Store.Delete(r.Context(), claims.CompanyID, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "request not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete request")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "request deleted"})
}

// Export handles GET /api/requests/export, streaming all of the company's
// requests as a CSV download.
func (h *RequestsHandler) Export(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	requests, err := h.Store.List(r.Context(), claims.CompanyID, "")
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}

	names, err := store.ProjectNames(r.Context(), h.DB, claims.CompanyID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to resolve projects")
		return
	}

	csv, err := export.ToCSV(requests, func(id string) string { return names[id] })
	if errors.Is(err, export.ErrEmptyExport) {
		jsonError(w, http.StatusNotFound, "no material requests to export")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to export requests")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	w.Write([]byte(csv))
}
