package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"jobflow/internal/sheet"
	"jobflow/internal/textutil"
)

// Followup is an application old enough to chase.
type Followup struct {
	Row       int
	Company   string
	Role      string
	AppliedAt time.Time
	AgeDays   int
	Link      string
}

// Followups returns unresolved applications with a posting link that were
// applied at least minDays before today, oldest first.
func Followups(grid sheet.Grid, cols Columns, today time.Time, minDays int) []Followup {
	var out []Followup
	for _, row := range grid.Rows() {
		link := row.Get(cols.PostingLink)
		if link == "" {
			continue
		}
		applied, ok := textutil.ParseLooseDate(row.Get(cols.DateApplied))
		if !ok {
			continue
		}
		if row.Get(cols.OutcomeDate) != "" {
			continue
		}
		age := daysBetween(applied, today)
		if age < minDays {
			continue
		}
		out = append(out, Followup{
			Row:       row.Number,
			Company:   row.Get(cols.Company),
			Role:      row.Get(cols.RoleTitle),
			AppliedAt: applied,
			AgeDays:   age,
			Link:      link,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AgeDays > out[j].AgeDays })
	return out
}

// RenderFollowups formats follow-ups as a Markdown checklist.
func RenderFollowups(items []Followup, today time.Time, minDays int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Follow-ups to send (>= %d days)\n\n", minDays)
	fmt.Fprintf(&b, "- Generated: %s\n", today.Format(textutil.DateLayout))
	fmt.Fprintf(&b, "- Count: %d\n\n", len(items))
	for _, item := range items {
		fmt.Fprintf(&b, "- %s: %s (applied %s, %dd) %s\n",
			item.Company, item.Role, item.AppliedAt.Format(textutil.DateLayout), item.AgeDays, item.Link)
	}
	return b.String()
}
