package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var demoProjects = []string{
	"Main Building Renovation",
	"New Warehouse",
	"Bridge Construction",
	"Parking Lot Expansion",
	"Office Interior Renovation",
	"New Factory",
	"Road Paving",
	"Bridge Maintenance",
	"Warehouse Extension",
	"Main Building Renovation Phase 2",
	"Site Survey",
	"Equipment Installation",
}

type demoRequest struct {
	materialName string
	quantity     string
	unit         string
	status       string
	priority     string
	projectIdx   int // index into demoProjects, -1 for none
	daysAgo      int
	notes        string
}

var demoRequests = []demoRequest{
	{"Portland Cement", "500", "bags", "pending", "high", 0, 2, "Needed for foundation work on floors 15-20"},
	{"Steel Rebar #5", "2000", "m", "approved", "urgent", 0, 5, "Structural reinforcement - critical path item"},
	{"Drywall Sheets 4x8", "350", "sheets", "fulfilled", "medium", 1, 10, "Interior walls for units 101-115"},
	{"Waterproof Membrane", "150", "rolls", "rejected", "low", 2, 7, "Wrong specification - need to resubmit"},
	{`Electrical Conduit 1"`, "500", "m", "pending", "medium", 0, 1, "For main electrical runs floors 1-10"},
}

// SeedDemo inserts demo projects and sample material requests for a company.
// The sample requests are attributed to the given user. Intended for fresh
// databases only; it does not check for existing rows.
func SeedDemo(ctx context.Context, db *sql.DB, companyID, userID, userName string) error {
	projectIDs := make([]string, len(demoProjects))
	for i, name := range demoProjects {
		projectIDs[i] = uuid.NewString()
		_, err := db.ExecContext(ctx,
			`INSERT INTO projects (id, name, company_id) VALUES (?, ?, ?)`,
			projectIDs[i], name, companyID,
		)
		if err != nil {
			return fmt.Errorf("seeding project %q: %w", name, err)
		}
	}

	now := time.Now().UTC()
	for _, r := range demoRequests {
		var projectID any
		if r.projectIdx >= 0 {
			projectID = projectIDs[r.projectIdx]
		}
		_, err := db.ExecContext(ctx,
			`INSERT INTO material_requests
			 (id, project_id, material_name, quantity, unit, priority, status,
			  requested_by, requested_by_name, requested_at, notes, company_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), projectID, r.materialName, r.quantity, r.unit,
			r.priority, r.status, userID, userName,
			now.AddDate(0, 0, -r.daysAgo), r.notes, companyID,
		)
		if err != nil {
			return fmt.Errorf("seeding request %q: %w", r.materialName, err)
		}
	}

	return nil
}
