package export

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/timecalc"
)

// Column is a table column placed at X millimetres from the left edge.
type Column struct {
	Header string
	X      float64
}

// Statement is a printable hours report, independent of how it is rendered.
type Statement struct {
	Title        string
	Subtitle     []string
	TotalMinutes int
	Columns      []Column
	Rows         [][]string
	Filename     string
}

const employerColumnWidth = 15

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

func exportedOn(now time.Time) string {
	return "Exported on " + now.Local().Format("02/01/2006")
}

// EmployerStatement lists the intervals of one employer, newest date first.
func EmployerStatement(employer string, ivs []store.WorkInterval, now time.Time) Statement {
	own := aggregate.Apply(ivs, aggregate.Filter{Employer: employer})
	slices.SortStableFunc(own, func(a, b store.WorkInterval) int {
		return cmp.Compare(b.Date, a.Date)
	})

	st := Statement{
		Title:        "Hours statement - " + employer,
		Subtitle:     []string{exportedOn(now)},
		TotalMinutes: aggregate.TotalMinutes(own),
		Columns: []Column{
			{"Date", 20},
			{"Start", 60},
			{"End", 90},
			{"Break", 120},
			{"Total", 160},
		},
		Filename: fmt.Sprintf("hours-%s-%s.pdf",
			unsafeFilenameChars.ReplaceAllString(employer, "_"), timecalc.Today(now)),
	}
	for _, iv := range own {
		st.Rows = append(st.Rows, []string{
			timecalc.FormatDate(iv.Date),
			iv.StartTime,
			iv.EndTime,
			fmt.Sprintf("%d min", iv.BreakMinutes),
			timecalc.FormatDuration(iv.NetMinutes),
		})
	}
	return st
}

// FilteredStatement renders ivs as they are, with the active filter spelled
// out under the title. ivs is expected to already match f.
func FilteredStatement(ivs []store.WorkInterval, f aggregate.Filter, now time.Time) Statement {
	var sub []string
	if f.Employer != "" {
		sub = append(sub, "Employer: "+f.Employer)
	}
	if f.DateFrom != "" {
		sub = append(sub, "From: "+timecalc.FormatDate(f.DateFrom))
	}
	if f.DateTo != "" {
		sub = append(sub, "To: "+timecalc.FormatDate(f.DateTo))
	}
	sub = append(sub, exportedOn(now))

	st := Statement{
		Title:        "Filtered hours statement",
		Subtitle:     sub,
		TotalMinutes: aggregate.TotalMinutes(ivs),
		Columns: []Column{
			{"Date", 20},
			{"Employer", 50},
			{"Start", 100},
			{"End", 125},
			{"Break", 150},
			{"Total", 175},
		},
		Filename: fmt.Sprintf("hours-filtered-%s.pdf", timecalc.Today(now)),
	}
	for _, iv := range ivs {
		st.Rows = append(st.Rows, []string{
			timecalc.FormatDate(iv.Date),
			truncate(iv.EmployerName, employerColumnWidth),
			iv.StartTime,
			iv.EndTime,
			fmt.Sprintf("%d'", iv.BreakMinutes),
			timecalc.FormatDuration(iv.NetMinutes),
		})
	}
	return st
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
