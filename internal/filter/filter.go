// Package filter implements the pure record filtering and projection logic.
// All functions are side-effect free and never mutate their inputs.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/starford/datahub/internal/models"
)

// All is the sentinel filter value that matches every record.
const All = "all"

// Options holds the three independent filter predicates. Zero values match
// everything.
type Options struct {
	Search   string
	Status   string
	Category string
}

// Apply returns the ordered subsequence of records matching all three
// predicates. Relative order of surviving records is preserved.
func Apply(records []models.DataRecord, opts Options) []models.DataRecord {
	search := strings.ToLower(opts.Search)
	out := make([]models.DataRecord, 0, len(records))
	for _, r := range records {
		if !matchesSearch(r, search) {
			continue
		}
		if !matchesStatus(r, opts.Status) {
			continue
		}
		if !matchesCategory(r, opts.Category) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesSearch reports whether the lower-cased search string is a substring
// of the record's name or description. Empty search matches everything.
func matchesSearch(r models.DataRecord, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), search) ||
		strings.Contains(strings.ToLower(r.Description), search)
}

func matchesStatus(r models.DataRecord, status string) bool {
	return status == "" || status == All || string(r.Status) == status
}

func matchesCategory(r models.DataRecord, category string) bool {
	return category == "" || category == All || r.Category == category
}

// Categories returns the distinct category values present in records, in
// first-seen order.
func Categories(records []models.DataRecord) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// Recent returns up to n records sorted by date descending. Ties keep their
// original relative order. The input slice is left untouched.
func Recent(records []models.DataRecord, n int) []models.DataRecord {
	out := make([]models.DataRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return parseDate(out[i].Date).After(parseDate(out[j].Date))
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// parseDate interprets a record date as a calendar day. Unparseable dates
// sort last (zero time).
func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
