package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"jobflow/internal/sheet"
	"jobflow/internal/textutil"
)

// FunnelStats summarizes application progress.
type FunnelStats struct {
	Applications int
	Interviews   int
	Offers       int
	Resolved     int
	// MedianDaysToOutcome is valid when Resolved > 0. With an even count the
	// upper middle value is used.
	MedianDaysToOutcome int
}

// Funnel counts rows with a parseable applied date. Interviews and offers are
// detected by substring in the status cell; resolved rows have an outcome
// date.
func Funnel(grid sheet.Grid, cols Columns) FunnelStats {
	var stats FunnelStats
	var durations []int
	for _, row := range grid.Rows() {
		applied, ok := textutil.ParseLooseDate(row.Get(cols.DateApplied))
		if !ok {
			continue
		}
		stats.Applications++
		status := strings.ToLower(row.Get(cols.Status))
		if strings.Contains(status, "interview") {
			stats.Interviews++
		}
		if strings.Contains(status, "offer") {
			stats.Offers++
		}
		if outcome, ok := textutil.ParseLooseDate(row.Get(cols.OutcomeDate)); ok {
			stats.Resolved++
			durations = append(durations, daysBetween(applied, outcome))
		}
	}
	if len(durations) > 0 {
		sort.Ints(durations)
		stats.MedianDaysToOutcome = durations[len(durations)/2]
	}
	return stats
}

// RenderFunnel formats stats as Markdown.
func RenderFunnel(stats FunnelStats, today time.Time) string {
	var b strings.Builder
	b.WriteString("# Application Funnel Stats\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n\n", today.Format(textutil.DateLayout))
	fmt.Fprintf(&b, "- Total applications: %d\n", stats.Applications)
	fmt.Fprintf(&b, "- Interviews: %d\n", stats.Interviews)
	fmt.Fprintf(&b, "- Offers: %d\n", stats.Offers)
	fmt.Fprintf(&b, "- Resolved (any outcome): %d\n", stats.Resolved)
	if stats.Resolved > 0 {
		fmt.Fprintf(&b, "- Median time to outcome: %d days\n", stats.MedianDaysToOutcome)
	}
	return b.String()
}
