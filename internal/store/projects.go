package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/buildright/matreq/internal/model"
)

// CreateProject creates a new project in a company.
func CreateProject(ctx context.Context, db *sql.DB, companyID, name string) (*model.Project, error) {
	p := &model.Project{ID: uuid.NewString(), Name: name, CompanyID: companyID}
	_, err := db.ExecContext(ctx,
		`INSERT INTO projects (id, name, company_id) VALUES (?, ?, ?)`,
		p.ID, p.Name, p.CompanyID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return p, nil
}

// ListProjects returns a company's projects ordered by name.
func ListProjects(ctx context.Context, db *sql.DB, companyID string) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, company_id FROM projects WHERE company_id = ? ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CompanyID); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ProjectNames returns a company's projects as an id → name lookup,
// used to resolve project references during CSV export.
func ProjectNames(ctx context.Context, db *sql.DB, companyID string) (map[string]string, error) {
	projects, err := ListProjects(ctx, db, companyID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}
