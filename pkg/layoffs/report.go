package layoffs

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Report describes a single Cleaner run.
type Report struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	// Row counts at each stage boundary.
	Raw          int `json:"raw"`
	Staged       int `json:"staged"`
	Deduplicated int `json:"deduplicated"`
	Standardized int `json:"standardized"`
	Reconciled   int `json:"reconciled"`
	Final        int `json:"final"`

	DuplicatesRemoved  int            `json:"duplicates_removed"`
	ResidualDuplicates int            `json:"residual_duplicates"`
	DateFailures       int            `json:"date_failures"`
	CoercionFailures   map[string]int `json:"coercion_failures"`
	Rewrites           map[string]int `json:"rewrites"`
	Blanked            map[string]int `json:"blanked"`
	Backfilled         int            `json:"backfilled"`
	DroppedNoSignal    int            `json:"dropped_no_signal"`
}

// Counts flattens the report into metric name -> value.
func (r Report) Counts() map[string]int {
	out := map[string]int{
		"rows.raw":            r.Raw,
		"rows.staged":         r.Staged,
		"rows.deduplicated":   r.Deduplicated,
		"rows.standardized":   r.Standardized,
		"rows.reconciled":     r.Reconciled,
		"rows.final":          r.Final,
		"duplicates_removed":  r.DuplicatesRemoved,
		"residual_duplicates": r.ResidualDuplicates,
		"date_failures":       r.DateFailures,
		"backfilled":          r.Backfilled,
		"dropped_no_signal":   r.DroppedNoSignal,
	}
	for col, n := range r.CoercionFailures {
		out["coercion_failures."+col] = n
	}
	for k, n := range r.Rewrites {
		out["rewrites."+k] = n
	}
	for col, n := range r.Blanked {
		out["blanked."+col] = n
	}
	return out
}

// Text renders the report as aligned "name value" lines sorted by name.
func (r Report) Text() string {
	counts := r.Counts()
	names := make([]string, 0, len(counts))
	width := 0
	for k := range counts {
		names = append(names, k)
		if len(k) > width {
			width = len(k)
		}
	}
	sort.Strings(names)
	var b strings.Builder
	fmt.Fprintf(&b, "run %s started %s took %s\n", r.RunID, r.StartedAt.Format(time.RFC3339), r.Duration)
	for _, k := range names {
		fmt.Fprintf(&b, "  %-*s %d\n", width, k, counts[k])
	}
	return b.String()
}

// absorb folds a stage's transform counters into the report.
func (r *Report) absorb(counts map[string]int) {
	for k, n := range counts {
		col, what, ok := strings.Cut(k, ".")
		switch {
		case !ok:
			switch k {
			case "duplicates_removed":
				r.DuplicatesRemoved += n
			case "residual_duplicates":
				r.ResidualDuplicates += n
			case "dropped_all_null":
				r.DroppedNoSignal += n
			case "reconciled_rows":
				r.Reconciled = n
			}
		case what == "coerce_failures":
			if col == ColDate {
				r.DateFailures += n
			}
			if n > 0 {
				r.CoercionFailures[col] += n
			}
		case what == "blanked":
			if n > 0 {
				r.Blanked[col] += n
			}
		case what == "backfilled":
			r.Backfilled += n
		default:
			if n > 0 {
				r.Rewrites[k] += n
			}
		}
	}
}
