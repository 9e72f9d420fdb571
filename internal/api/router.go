package api

import (
	"database/sql"
	"net/http"

	"github.com/buildright/matreq/internal/store"
	"github.com/buildright/matreq/internal/workflow"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	requestStore := store.NewRequestStore(db)

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	requestsHandler := &RequestsHandler{DB: db, Store: requestStore}
	transitionsHandler := &TransitionsHandler{
		Store:       requestStore,
		Transitions: workflow.NewTransitions(requestStore),
	}
	projectsHandler := &ProjectsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Session management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Material requests.
	mux.Handle("GET /api/requests", authMW(http.HandlerFunc(requestsHandler.List)))
	mux.Handle("POST /api/requests", authMW(http.HandlerFunc(requestsHandler.Create)))
	mux.Handle("GET /api/requests/export", authMW(http.HandlerFunc(requestsHandler.Export)))
	mux.Handle("GET /api/requests/{id}", authMW(http.HandlerFunc(requestsHandler.Get)))
	mux.Handle("PATCH /api/requests/{id}", authMW(http.HandlerFunc(requestsHandler.Update)))
	mux.Handle("DELETE /api/requests/{id}", authMW(http.HandlerFunc(requestsHandler.Delete)))

	// Two-phase status transitions.
	mux.Handle("POST /api/requests/{id}/transitions", authMW(http.HandlerFunc(transitionsHandler.Propose)))
	mux.Handle("POST /api/transitions/{id}/confirm", authMW(http.HandlerFunc(transitionsHandler.Confirm)))
	mux.Handle("DELETE /api/transitions/{id}", authMW(http.HandlerFunc(transitionsHandler.Cancel)))

	// Project reference data.
	mux.Handle("GET /api/projects", authMW(http.HandlerFunc(projectsHandler.List)))

	return mux
}
