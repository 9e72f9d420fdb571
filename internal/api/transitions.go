package api

import (
	"errors"
	"net/http"

	"github.com/buildright/matreq/internal/store"
	"github.com/buildright/matreq/internal/workflow"
)

// TransitionsHandler exposes the two-phase status change protocol:
// propose a transition, then confirm or cancel it.
type TransitionsHandler struct {
	Store       *store.RequestStore
	Transitions *workflow.Transitions
}

type proposeRequest struct {
	NewStatus string `json:"new_status"`
}

// Propose handles POST /api/requests/{id}/transitions.
// A no-op proposal (new status equals current) is silently ignored with
// 204 and leaves no artifact behind.
func (h *TransitionsHandler) Propose(w http.ResponseWriter, r *http.Request) {
	var in proposeRequest
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

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

	proposal, err := h.Transitions.Propose(claims.CompanyID, req.ID, req.Status, in.NewStatus, req.MaterialName)
	switch {
	case errors.Is(err, workflow.ErrNoOpTransition):
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, workflow.ErrUnknownStatus):
		jsonError(w, http.StatusBadRequest, "unknown status")
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to propose transition")
		return
	}

	jsonResponse(w, http.StatusCreated, proposal)
}

// Confirm handles POST /api/transitions/{id}/confirm. On store failure the
// proposal stays pending so the caller can retry or cancel.
func (h *TransitionsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	proposal, err := h.Transitions.Confirm(r.Context(), claims.CompanyID, r.PathValue("id"))
	switch {
	case errors.Is(err, workflow.ErrNoSuchProposal):
		jsonError(w, http.StatusNotFound, "no such proposal")
		return
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "request not found")
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to apply transition")
		return
	}

	req, err := h.Store.Get(r.Context(), claims.CompanyID, proposal.RequestID)
	if err != nil {
		// The transition itself succeeded; report it without the entity.
		jsonResponse(w, http.StatusOK, proposal)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"proposal": proposal,
		"request":  req,
	})
}

// Cancel handles DELETE /api/transitions/{id}.
func (h *TransitionsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	err := h.Transitions.Cancel(claims.CompanyID, r.PathValue("id"))
	if errors.Is(err, workflow.ErrNoSuchProposal) {
		jsonError(w, http.StatusNotFound, "no such proposal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
