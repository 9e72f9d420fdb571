package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/buildright/matreq/internal/model"
)

// CreateCompany creates a new tenant.
func CreateCompany(ctx context.Context, db *sql.DB, name string) (*model.Company, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO companies (id, name) VALUES (?, ?)`, id, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}

	c := &model.Company{}
	err = db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM companies WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting company: %w", err)
	}
	return c, nil
}
