package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/timecalc"
	"github.com/sadopc/workhours/internal/workspace"
)

const (
	formAddEntry    = "add"
	formEditEntry   = "edit"
	formDeleteEntry = "delete"
	formFilter      = "filter"
)

type historyModel struct {
	sh     *shared
	width  int
	height int

	intervals []store.WorkInterval
	summary   aggregate.Summary
	employers []store.Employer
	cursor    int

	formActive bool
	form       *huh.Form
	formType   string
	editingID  int64

	// Form field pointers (survive value copies)
	formDate     *string
	formEmployer *string
	formStart    *string
	formEnd      *string
	formBreak    *string
	formFrom     *string
	formTo       *string
	formConfirm  *bool
}

func newHistoryModel(sh *shared) historyModel {
	date, employer, start, end, brk := "", "", "", "", ""
	from, to := "", ""
	confirm := false
	return historyModel{
		sh:           sh,
		formDate:     &date,
		formEmployer: &employer,
		formStart:    &start,
		formEnd:      &end,
		formBreak:    &brk,
		formFrom:     &from,
		formTo:       &to,
		formConfirm:  &confirm,
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

// load takes a fresh snapshot from the workspace.
func (h *historyModel) load() {
	h.intervals = h.sh.ws.Filtered(h.sh.filter)
	h.summary = h.sh.ws.Summary(h.sh.filter)
	h.employers = h.sh.ws.Employers()
	h.cursor = clampCursor(h.cursor, len(h.intervals))
}

func (h historyModel) selected() (store.WorkInterval, bool) {
	if h.cursor < 0 || h.cursor >= len(h.intervals) {
		return store.WorkInterval{}, false
	}
	return h.intervals[h.cursor], true
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}
	switch {
	case key.Matches(km, keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(km, keys.Down):
		if h.cursor < len(h.intervals)-1 {
			h.cursor++
		}
	case key.Matches(km, keys.New):
		if len(h.employers) == 0 {
			return h, func() tea.Msg {
				return statusMsg{text: "Add an employer first (view 3)", isError: true}
			}
		}
		return h.showEntryForm(formAddEntry)
	case key.Matches(km, keys.Edit), key.Matches(km, keys.Enter):
		if _, ok := h.selected(); ok {
			return h.showEntryForm(formEditEntry)
		}
	case key.Matches(km, keys.Delete):
		if _, ok := h.selected(); ok {
			return h.showDeleteForm()
		}
	case key.Matches(km, keys.Filter):
		return h.showFilterForm()
	case key.Matches(km, keys.ClearFilter):
		h.sh.filter = aggregate.Filter{}
		h.load()
	}
	return h, nil
}

func (h historyModel) employerOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(h.employers))
	for i, e := range h.employers {
		opts[i] = huh.NewOption(e.Name, e.Name)
	}
	return opts
}

func (h historyModel) showEntryForm(formType string) (historyModel, tea.Cmd) {
	h.formType = formType
	if formType == formEditEntry {
		iv, _ := h.selected()
		d := workspace.DraftFrom(iv)
		h.editingID = iv.ID
		*h.formDate, *h.formEmployer = d.Date, d.Employer
		*h.formStart, *h.formEnd, *h.formBreak = d.StartTime, d.EndTime, d.Break
	} else {
		h.editingID = 0
		*h.formDate = timecalc.Today(h.sh.now())
		*h.formEmployer = h.employers[0].Name
		*h.formStart, *h.formEnd, *h.formBreak = "", "", "0"
	}

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(h.formDate).Validate(validateDate(true)),
			huh.NewSelect[string]().Title("Employer").Options(h.employerOptions()...).Value(h.formEmployer),
			huh.NewInput().Title("Start (HH:MM)").Value(h.formStart).Validate(validateClock),
			huh.NewInput().Title("End (HH:MM)").Value(h.formEnd).Validate(validateClock),
			huh.NewInput().Title("Break (minutes)").Value(h.formBreak).Validate(validateBreak),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h historyModel) showDeleteForm() (historyModel, tea.Cmd) {
	iv, _ := h.selected()
	h.formType = formDeleteEntry
	h.editingID = iv.ID
	*h.formConfirm = false

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete the %s entry for %s?", timecalc.FormatDate(iv.Date), iv.EmployerName)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(h.formConfirm),
		),
	).WithShowHelp(false)

	h.formActive = true
	return h, h.form.Init()
}

func (h historyModel) showFilterForm() (historyModel, tea.Cmd) {
	h.formType = formFilter
	*h.formEmployer = h.sh.filter.Employer
	*h.formFrom, *h.formTo = h.sh.filter.DateFrom, h.sh.filter.DateTo

	opts := append([]huh.Option[string]{huh.NewOption("All employers", "")}, h.employerOptions()...)
	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Employer").Options(opts...).Value(h.formEmployer),
			huh.NewInput().Title("From (YYYY-MM-DD)").Value(h.formFrom).Validate(validateDate(false)),
			huh.NewInput().Title("To (YYYY-MM-DD)").Value(h.formTo).Validate(validateDate(false)),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h historyModel) updateForm(msg tea.Msg) (historyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		h.formActive = false
		h.form = nil
		return h, nil
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		h.form = nil
		return h.submit()
	}
	return h, cmd
}

// submit acts on the values of the form that just completed.
func (h historyModel) submit() (historyModel, tea.Cmd) {
	sh := h.sh
	switch h.formType {
	case formAddEntry:
		d := h.draft()
		return h, mutate("Entry added", func() error {
			_, err := sh.ws.AddInterval(sh.ctx, d)
			return err
		})
	case formEditEntry:
		d, id := h.draft(), h.editingID
		return h, mutate("Entry updated", func() error {
			_, err := sh.ws.EditInterval(sh.ctx, id, d)
			return err
		})
	case formDeleteEntry:
		if !*h.formConfirm {
			return h, nil
		}
		id := h.editingID
		return h, mutate("Entry deleted", func() error {
			return sh.ws.RemoveInterval(sh.ctx, id)
		})
	case formFilter:
		sh.filter = aggregate.Filter{
			Employer: *h.formEmployer,
			DateFrom: strings.TrimSpace(*h.formFrom),
			DateTo:   strings.TrimSpace(*h.formTo),
		}
		h.cursor = 0
		h.load()
	}
	return h, nil
}

func (h historyModel) draft() workspace.Draft {
	return workspace.Draft{
		Date:      *h.formDate,
		Employer:  *h.formEmployer,
		StartTime: *h.formStart,
		EndTime:   *h.formEnd,
		Break:     *h.formBreak,
	}
}

func (h historyModel) view() string {
	st := h.sh.styles
	w := h.width - 4

	if h.formActive && h.form != nil {
		titles := map[string]string{
			formAddEntry:    "New Entry",
			formEditEntry:   "Edit Entry",
			formDeleteEntry: "Delete Entry",
			formFilter:      "Filter History",
		}
		return st.panel.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, st.title.Render(titles[h.formType]), "", h.form.View()),
		)
	}

	rows := []string{st.title.Render("History")}
	if line := h.filterLine(); line != "" {
		rows = append(rows, st.highlight.Render(line))
	}
	rows = append(rows, "")

	if len(h.intervals) == 0 {
		msg := "No entries yet. Press n to add one."
		if !h.sh.filter.IsZero() {
			msg = "No entries match the filter. Press c to clear it."
		}
		rows = append(rows, st.muted.Render(msg))
	} else {
		rows = append(rows, st.muted.Render(fmt.Sprintf("  %-10s  %-20s  %-5s  %-5s  %6s  %6s",
			"Date", "Employer", "Start", "End", "Break", "Net")))
		first, last := h.visibleRange()
		for i := first; i < last; i++ {
			iv := h.intervals[i]
			cursor := "  "
			style := st.normalItem
			if i == h.cursor {
				cursor = "> "
				style = st.selectedItem
			}
			rows = append(rows, style.Render(fmt.Sprintf("%s%-10s  %-20s  %-5s  %-5s  %6s  %6s",
				cursor, timecalc.FormatDate(iv.Date), truncateName(iv.EmployerName, 20),
				iv.StartTime, iv.EndTime, strconv.Itoa(iv.BreakMinutes)+"'",
				timecalc.FormatDuration(iv.NetMinutes))))
		}
	}

	rows = append(rows, "")
	totals := st.total.Render("Total: " + timecalc.FormatDuration(h.summary.Filtered))
	if !h.sh.filter.IsZero() {
		totals += st.muted.Render("  of " + timecalc.FormatDuration(h.summary.Overall) + " overall")
	}
	rows = append(rows, totals)
	rows = append(rows, "")
	rows = append(rows, st.muted.Render("  n: new  e: edit  d: delete  f: filter  c: clear  x: export"))

	return st.panel.Width(w).Render(strings.Join(rows, "\n"))
}

func (h historyModel) filterLine() string {
	f := h.sh.filter
	if f.IsZero() {
		return ""
	}
	var parts []string
	if f.Employer != "" {
		parts = append(parts, "Employer: "+f.Employer)
	}
	if f.DateFrom != "" {
		parts = append(parts, "From: "+timecalc.FormatDate(f.DateFrom))
	}
	if f.DateTo != "" {
		parts = append(parts, "To: "+timecalc.FormatDate(f.DateTo))
	}
	return "Filter · " + strings.Join(parts, " · ")
}

// visibleRange returns the slice of rows that fits, keeping the cursor on
// screen.
func (h historyModel) visibleRange() (int, int) {
	n := len(h.intervals)
	room := max(1, h.height-12)
	if n <= room {
		return 0, n
	}
	first := max(0, h.cursor-room+1)
	return first, min(n, first+room)
}

func truncateName(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func validateClock(s string) error {
	if _, err := timecalc.ParseClock(s); err != nil {
		return errors.New("use HH:MM, 24h")
	}
	return nil
}

func validateDate(required bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if required {
				return errors.New("required")
			}
			return nil
		}
		if _, err := timecalc.ParseDate(s); err != nil {
			return errors.New("use YYYY-MM-DD")
		}
		return nil
	}
}

func validateBreak(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return errors.New("minutes, 0 or more")
	}
	return nil
}
