package api

import (
	"database/sql"
	"net/http"

	"github.com/buildright/matreq/internal/model"
	"github.com/buildright/matreq/internal/store"
)

// ProjectsHandler serves read-only project reference data.
type ProjectsHandler struct {
	DB *sql.DB
}

// List handles GET /api/projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	projects, err := store.ListProjects(r.Context(), h.DB, claims.CompanyID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	jsonResponse(w, http.StatusOK, projects)
}
