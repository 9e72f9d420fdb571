// Package export turns a request collection into its flat CSV form.
//
// The format is fixed: every cell is double-quoted unconditionally and
// embedded quotes are doubled. Commas are substituted with semicolons in
// the notes column only; all other columns keep their commas. The stdlib
// encoding/csv writer quotes conditionally and cannot produce this layout.
package export

import (
	"errors"
	"strings"
	"time"

	"github.com/buildright/matreq/internal/model"
)

// ErrEmptyExport guards against producing a file with no rows. It is an
// informational notice, not a failure.
var ErrEmptyExport = errors.New("no material requests to export")

var header = []string{
	"Material Name",
	"Quantity",
	"Unit",
	"Status",
	"Priority",
	"Project",
	"Requested By",
	"Date",
	"Notes",
}

// ProjectResolver maps a project ID to its display name. Unknown or
// unresolvable projects come back as the empty string.
type ProjectResolver func(projectID string) string

// ToCSV serializes requests in the given order. Output is deterministic:
// the same input sequence always yields identical bytes.
func ToCSV(requests []model.MaterialRequest, resolve ProjectResolver) (string, error) {
	if len(requests) == 0 {
		return "", ErrEmptyExport
	}

	lines := make([]string, 0, len(requests)+1)
	lines = append(lines, formatRow(header))

	for _, r := range requests {
		var project string
		if r.ProjectID != nil && resolve != nil {
			project = resolve(*r.ProjectID)
		}

		lines = append(lines, formatRow([]string{
			r.MaterialName,
			r.Quantity.String(),
			r.Unit,
			r.Status,
			r.Priority,
			project,
			r.RequestedByName,
			r.RequestedAt.Format("2006-01-02"),
			strings.ReplaceAll(r.Notes, ",", ";"),
		}))
	}

	return strings.Join(lines, "\n"), nil
}

// Filename returns the download name for an export taken at the given time.
func Filename(t time.Time) string {
	return "material-requests-" + t.Format("2006-01-02") + ".csv"
}

func formatRow(cells []string) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	return b.String()
}
