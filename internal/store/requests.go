package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildright/matreq/internal/model"
)

// Identity is the authenticated caller, read at create time. The creation
// triple (requested_by, requested_by_name, requested_at) is derived from it
// and never changes afterwards.
type Identity struct {
	UserID    string
	Name      string
	CompanyID string
}

// RequestStore persists material requests and keeps a cached view per query
// identity. Every successful mutation invalidates all cached views, so a
// read after a write always re-fetches from the database. There is no
// partial cache patching and no optimistic local mutation.
type RequestStore struct {
	db *sql.DB

	mu    sync.Mutex
	gen   uint64
	lists map[string][]model.MaterialRequest
	gets  map[string]model.MaterialRequest
}

// NewRequestStore creates a request store over an open database.
func NewRequestStore(db *sql.DB) *RequestStore {
	return &RequestStore{
		db:    db,
		lists: make(map[string][]model.MaterialRequest),
		gets:  make(map[string]model.MaterialRequest),
	}
}

// invalidate drops every cached view and advances the generation, so a
// fetch that started before the mutation cannot cache its result.
func (s *RequestStore) invalidate() {
	s.mu.Lock()
	s.gen++
	clear(s.lists)
	clear(s.gets)
	s.mu.Unlock()
}

// cacheList stores a fetched list view unless a mutation landed while the
// query ran. Caching a pre-mutation view would serve stale data until the
// next mutation.
func (s *RequestStore) cacheList(key string, gen uint64, requests []model.MaterialRequest) {
	s.mu.Lock()
	if s.gen == gen {
		s.lists[key] = requests
	}
	s.mu.Unlock()
}

// cacheGet is cacheList for single-request views.
func (s *RequestStore) cacheGet(key string, gen uint64, req model.MaterialRequest) {
	s.mu.Lock()
	if s.gen == gen {
		s.gets[key] = req
	}
	s.mu.Unlock()
}

const requestColumns = `id, project_id, material_name, quantity, unit, priority, status,
       requested_by, requested_by_name, requested_at, notes, company_id`

// List returns a company's requests ordered by requested_at descending,
// optionally filtered by status. An empty status returns all requests.
func (s *RequestStore) List(ctx context.Context, companyID, status string) ([]model.MaterialRequest, error) {
	key := companyID + "|status=" + status
	s.mu.Lock()
	if cached, ok := s.lists[key]; ok {
		s.mu.Unlock()
		return slices.Clone(cached), nil
	}
	gen := s.gen
	s.mu.Unlock()

	var rows *sql.Rows
	var err error

	if status != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+requestColumns+`
			 FROM material_requests WHERE company_id = ? AND status = ?
			 ORDER BY requested_at DESC`, companyID, status,
		)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+requestColumns+`
			 FROM material_requests WHERE company_id = ?
			 ORDER BY requested_at DESC`, companyID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var requests []model.MaterialRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}

	s.cacheList(key, gen, requests)
	// The caller gets its own slice; the cached view stays untouched even
	// if the caller rearranges or overwrites elements.
	return slices.Clone(requests), nil
}

// Get returns a single request by ID, scoped to the company.
// Returns ErrNotFound when no row matches.
func (s *RequestStore) Get(ctx context.Context, companyID, id string) (*model.MaterialRequest, error) {
	key := companyID + "|id=" + id
	s.mu.Lock()
	if cached, ok := s.gets[key]; ok {
		s.mu.Unlock()
		return &cached, nil
	}
	gen := s.gen
	s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+`
		 FROM material_requests WHERE id = ? AND company_id = ?`, id, companyID,
	)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	s.cacheGet(key, gen, *req)
	return req, nil
}

// Create validates the input, stamps status and requested_at server-side,
// assigns an ID, and persists the request. Caller-supplied status or
// timestamps are never trusted. Fails with ErrUnauthenticated when the
// identity is absent.
func (s *RequestStore) Create(ctx context.Context, ident Identity, in model.CreateMaterialRequestInput) (*model.MaterialRequest, error) {
	if ident.UserID == "" || ident.CompanyID == "" {
		return nil, ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req := &model.MaterialRequest{
		ID:              uuid.NewString(),
		MaterialName:    in.MaterialName,
		Quantity:        in.Quantity,
		Unit:            in.Unit,
		Priority:        in.Priority,
		Status:          model.StatusPending,
		RequestedBy:     ident.UserID,
		RequestedByName: ident.Name,
		RequestedAt:     time.Now().UTC(),
		Notes:           in.Notes,
		CompanyID:       ident.CompanyID,
	}

	var projectID any
	if in.ProjectID != "" {
		projectID = in.ProjectID
		req.ProjectID = &in.ProjectID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO material_requests
		 (id, project_id, material_name, quantity, unit, priority, status,
		  requested_by, requested_by_name, requested_at, notes, company_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, projectID, req.MaterialName, req.Quantity.String(), req.Unit,
		req.Priority, req.Status, req.RequestedBy, req.RequestedByName,
		req.RequestedAt, req.Notes, req.CompanyID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	s.invalidate()
	return req, nil
}

// Update persists the fields named in the partial update, leaving everything
// else untouched. The ID and the creation triple cannot be changed.
// Returns ErrNotFound when the request does not exist in the company.
func (s *RequestStore) Update(ctx context.Context, companyID, id string, in model.UpdateMaterialRequestInput) (*model.MaterialRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Empty() {
		return s.Get(ctx, companyID, id)
	}

	var sets []string
	var args []any
	if in.MaterialName != nil {
		sets = append(sets, "material_name = ?")
		args = append(args, *in.MaterialName)
	}
	if in.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, in.Quantity.String())
	}
	if in.Unit != nil {
		sets = append(sets, "unit = ?")
		args = append(args, *in.Unit)
	}
	if in.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *in.Priority)
	}
	if in.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *in.Status)
	}
	if in.ProjectID != nil {
		sets = append(sets, "project_id = ?")
		if *in.ProjectID == "" {
			args = append(args, nil)
		} else {
			args = append(args, *in.ProjectID)
		}
	}
	if in.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *in.Notes)
	}
	args = append(args, id, companyID)

	result, err := s.db.ExecContext(ctx,
		`UPDATE material_requests SET `+strings.Join(sets, ", ")+`
		 WHERE id = ? AND company_id = ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating request: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	s.invalidate()
	return s.Get(ctx, companyID, id)
}

// UpdateStatus persists a status change. Used by the transition workflow's
// confirm step.
func (s *RequestStore) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	_, err := s.Update(ctx, companyID, id, model.UpdateMaterialRequestInput{Status: &status})
	return err
}

// Delete removes a request. Not idempotent: deleting twice surfaces
// ErrNotFound on the second call.
func (s *RequestStore) Delete(ctx context.Context, companyID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM material_requests WHERE id = ? AND company_id = ?`, id, companyID,
	)
	if err != nil {
		return fmt.Errorf("deleting request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting request: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.invalidate()
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*model.MaterialRequest, error) {
	req := &model.MaterialRequest{}
	var projectID, notes sql.NullString
	var quantity string

	err := row.Scan(&req.ID, &projectID, &req.MaterialName, &quantity, &req.Unit,
		&req.Priority, &req.Status, &req.RequestedBy, &req.RequestedByName,
		&req.RequestedAt, &notes, &req.CompanyID)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning request: %w", err)
	}

	req.Quantity, err = decimal.NewFromString(quantity)
	if err != nil {
		return nil, fmt.Errorf("parsing quantity %q: %w", quantity, err)
	}
	if projectID.Valid {
		req.ProjectID = &projectID.String
	}
	req.Notes = notes.String
	return req, nil
}
