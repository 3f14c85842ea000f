package aggregate

import (
	"slices"

	"github.com/sadopc/workhours/internal/store"
)

type EmployerTotal struct {
	Employer string
	Minutes  int
	Entries  int
}

// Summary holds the totals shown next to the history. Overall and
// ByEmployer cover every interval; Filtered covers the filtered view only.
type Summary struct {
	Overall    int
	Filtered   int
	ByEmployer []EmployerTotal
}

func TotalMinutes(ivs []store.WorkInterval) int {
	total := 0
	for _, iv := range ivs {
		total += iv.NetMinutes
	}
	return total
}

// ByEmployer sums net minutes per employer, largest total first. Equal
// totals keep the order in which the employer first appears in ivs.
func ByEmployer(ivs []store.WorkInterval) []EmployerTotal {
	index := make(map[string]int)
	var totals []EmployerTotal
	for _, iv := range ivs {
		i, ok := index[iv.EmployerName]
		if !ok {
			i = len(totals)
			index[iv.EmployerName] = i
			totals = append(totals, EmployerTotal{Employer: iv.EmployerName})
		}
		totals[i].Minutes += iv.NetMinutes
		totals[i].Entries++
	}
	slices.SortStableFunc(totals, func(a, b EmployerTotal) int {
		return b.Minutes - a.Minutes
	})
	return totals
}

// Summarize computes the overall and filtered totals independently.
func Summarize(all []store.WorkInterval, f Filter) Summary {
	return Summary{
		Overall:    TotalMinutes(all),
		Filtered:   TotalMinutes(Apply(all, f)),
		ByEmployer: ByEmployer(all),
	}
}
