// Package filter is the single query/filter composer shared by every list
// consumer. The original system duplicated this logic inline in each table
// view; here it is one pure function over a row set.
package filter

import (
	"strings"

	"github.com/smartboard-dev/smartboard/internal/models"
)

// All is the sentinel value that disables the status or priority dimension.
const All = "All"

// Spec is the three-dimensional filter a list view maintains. A blank
// dimension (or the "All" sentinel for status/priority) means no constraint.
type Spec struct {
	Query    string `form:"q" json:"q"`
	Status   string `form:"status" json:"status"`
	Priority string `form:"priority" json:"priority"`
}

// IsZero reports whether the spec constrains nothing.
func (s Spec) IsZero() bool {
	return strings.TrimSpace(s.Query) == "" && disabled(s.Status) && disabled(s.Priority)
}

func disabled(v string) bool {
	return v == "" || strings.EqualFold(v, All)
}

// Match reports whether a single notice passes the spec. The free-text term
// is a case-insensitive substring match against title or description; status
// and priority are exact case-insensitive matches. All supplied dimensions
// must hold.
func Match(n *models.Notice, s Spec) bool {
	if q := strings.ToLower(strings.TrimSpace(s.Query)); q != "" {
		title := strings.ToLower(n.Title)
		description := strings.ToLower(n.Description)
		if !strings.Contains(title, q) && !strings.Contains(description, q) {
			return false
		}
	}

	if !disabled(s.Status) && !strings.EqualFold(n.Status, s.Status) {
		return false
	}

	if !disabled(s.Priority) && !strings.EqualFold(n.Priority, s.Priority) {
		return false
	}

	return true
}

// Apply projects the visible subset of rows under the spec. It never mutates
// rows and preserves their order, so reapplying the same spec to the same
// rows always yields the same result.
func Apply(rows []models.Notice, s Spec) []models.Notice {
	if s.IsZero() {
		out := make([]models.Notice, len(rows))
		copy(out, rows)
		return out
	}

	out := make([]models.Notice, 0, len(rows))
	for i := range rows {
		if Match(&rows[i], s) {
			out = append(out, rows[i])
		}
	}

	return out
}
