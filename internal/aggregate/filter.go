// Package aggregate filters, orders and totals work intervals in memory.
// Every function here is pure: inputs are never mutated.
package aggregate

import "github.com/sadopc/workhours/internal/store"

// Filter narrows a history view. Empty fields are not applied.
type Filter struct {
	Employer string
	DateFrom string // inclusive, YYYY-MM-DD
	DateTo   string // inclusive, YYYY-MM-DD
}

func (f Filter) IsZero() bool {
	return f.Employer == "" && f.DateFrom == "" && f.DateTo == ""
}

// Matches reports whether iv satisfies every constraint set on f. ISO dates
// compare correctly as strings.
func (f Filter) Matches(iv store.WorkInterval) bool {
	if f.Employer != "" && iv.EmployerName != f.Employer {
		return false
	}
	if f.DateFrom != "" && iv.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && iv.Date > f.DateTo {
		return false
	}
	return true
}

// Apply returns the intervals matching f in their original order.
func Apply(ivs []store.WorkInterval, f Filter) []store.WorkInterval {
	out := make([]store.WorkInterval, 0, len(ivs))
	for _, iv := range ivs {
		if f.Matches(iv) {
			out = append(out, iv)
		}
	}
	return out
}
