package tui

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/workspace"
)

var testNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type fixture struct {
	store *store.Store
	ws    *workspace.Workspace
	dir   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s := newTestStore(t)
	ws := workspace.New(s, nil)
	if err := ws.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return fixture{store: s, ws: ws, dir: t.TempDir()}
}

func (f fixture) app(prefs store.Preferences) App {
	a := NewApp(context.Background(), Options{
		Workspace:   f.ws,
		Prefs:       f.store,
		Preferences: prefs,
		ExportDir:   f.dir,
		Now:         func() time.Time { return testNow },
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

// seenApp is an app whose first-run help was already dismissed.
func (f fixture) seenApp() App {
	return f.app(store.Preferences{Theme: store.ThemeLight, HelpDismissed: true})
}

func (f fixture) employer(t *testing.T, name string) store.Employer {
	t.Helper()
	e, err := f.ws.AddEmployer(context.Background(), name)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func (f fixture) entry(t *testing.T, date, employer, start, end string) store.WorkInterval {
	t.Helper()
	iv, err := f.ws.AddInterval(context.Background(), workspace.Draft{
		Date: date, Employer: employer, StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatal(err)
	}
	return iv
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(a App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

// submitHistory completes the open history form as if the user confirmed it.
func submitHistory(a App) (App, tea.Cmd) {
	a.history.formActive, a.history.form = false, nil
	var cmd tea.Cmd
	a.history, cmd = a.history.submit()
	return a, cmd
}

func submitEmployers(a App) (App, tea.Cmd) {
	a.employers.formActive, a.employers.form = false, nil
	return a, a.employers.submit()
}

// runCmd executes cmd and feeds the resulting message back into the app.
func runCmd(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	a, _ = send(a, cmd())
	return a
}

// ============================================================
// App model
// ============================================================

func TestNewAppShowsOverlayOnFirstRun(t *testing.T) {
	f := newFixture(t)

	a := f.app(store.DefaultPreferences())
	if !a.showOverlay {
		t.Fatal("help overlay should show on first run")
	}
	if !strings.Contains(a.View(), "Welcome to workhours") {
		t.Fatal("overlay not rendered")
	}

	if f.seenApp().showOverlay {
		t.Fatal("overlay should stay hidden once dismissed")
	}
}

func TestOverlayCloseKeepsShowingNextTime(t *testing.T) {
	f := newFixture(t)
	a := f.app(store.DefaultPreferences())

	a, cmd := send(a, keyMsg("enter"))
	if a.showOverlay {
		t.Fatal("enter should close the overlay")
	}
	if cmd != nil {
		t.Fatal("closing should not save anything")
	}
}

func TestOverlayDontShowAgainPersists(t *testing.T) {
	f := newFixture(t)
	a := f.app(store.DefaultPreferences())

	a, cmd := send(a, keyMsg("d"))
	if a.showOverlay {
		t.Fatal("overlay should be closed")
	}
	a = runCmd(t, a, cmd)

	p, err := f.store.LoadPreferences(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !p.HelpDismissed {
		t.Fatal("help flag not persisted")
	}
	if !a.prefs.HelpDismissed {
		t.Fatal("app preferences not updated")
	}
}

func TestAppLoadingState(t *testing.T) {
	f := newFixture(t)
	a := NewApp(context.Background(), Options{Workspace: f.ws, Prefs: f.store})
	if out := a.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppViewStates(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme")
	f.entry(t, "2024-03-01", "Acme", "09:00", "17:00")
	a := f.seenApp()

	for _, v := range []viewState{viewHistory, viewSummary, viewEmployers, viewSettings} {
		a.activeView = v
		if out := a.View(); out == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	a := newFixture(t).seenApp()
	header := a.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppStatusMessage(t *testing.T) {
	a := newFixture(t).seenApp()
	a, _ = send(a, statusMsg{text: "test status"})
	if !strings.Contains(a.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppSwitchViews(t *testing.T) {
	a := newFixture(t).seenApp()

	a, _ = send(a, keyMsg("2"))
	if a.activeView != viewSummary {
		t.Fatalf("view = %d, want summary", a.activeView)
	}
	a, _ = send(a, keyMsg("4"))
	a, _ = send(a, tea.KeyMsg{Type: tea.KeyTab})
	if a.activeView != viewHistory {
		t.Fatalf("tab should wrap to history, got %d", a.activeView)
	}
}

func TestAppReload(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme")
	a := f.seenApp()

	// Written behind the workspace's back.
	e, _ := f.store.ListEmployers(context.Background())
	if _, err := f.store.CreateInterval(context.Background(), store.IntervalInput{
		Date: "2024-03-01", EmployerID: e[0].ID, StartTime: "09:00", EndTime: "10:00",
	}); err != nil {
		t.Fatal(err)
	}

	a, cmd := send(a, tea.KeyMsg{Type: tea.KeyCtrlR})
	a = runCmd(t, a, cmd)
	if len(a.history.intervals) != 1 {
		t.Fatalf("history has %d rows after reload, want 1", len(a.history.intervals))
	}
	if a.status != "Reloaded" {
		t.Fatalf("status = %q", a.status)
	}
}

// ============================================================
// History
// ============================================================

func TestHistoryNewNeedsEmployer(t *testing.T) {
	a := newFixture(t).seenApp()

	a, cmd := send(a, keyMsg("n"))
	if a.history.formActive {
		t.Fatal("form should not open without employers")
	}
	msg, ok := cmd().(statusMsg)
	if !ok || !msg.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

func TestHistoryEntryFormDefaults(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Globex")
	f.employer(t, "Acme")
	a := f.seenApp()

	a, _ = send(a, keyMsg("n"))
	h := a.history
	if !h.formActive || h.formType != formAddEntry {
		t.Fatal("add form should be open")
	}
	if *h.formDate != "2024-03-05" {
		t.Fatalf("date = %q, want today", *h.formDate)
	}
	if *h.formEmployer != "Acme" || *h.formBreak != "0" {
		t.Fatalf("employer = %q break = %q", *h.formEmployer, *h.formBreak)
	}

	a, _ = send(a, keyMsg("esc"))
	if a.history.formActive {
		t.Fatal("esc should cancel the form")
	}
}

func TestHistorySubmitAddsEntry(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme")
	a := f.seenApp()

	a, _ = send(a, keyMsg("n"))
	*a.history.formStart = "22:00"
	*a.history.formEnd = "02:00"
	*a.history.formBreak = "15"

	a, cmd := submitHistory(a)
	a = runCmd(t, a, cmd)

	if a.status != "Entry added" || a.statusErr {
		t.Fatalf("status = %q", a.status)
	}
	if len(a.history.intervals) != 1 || a.history.intervals[0].NetMinutes != 225 {
		t.Fatalf("unexpected rows: %+v", a.history.intervals)
	}
	if !strings.Contains(a.View(), "05/03/2024") {
		t.Fatal("history should show the date as DD/MM/YYYY")
	}
	if !strings.Contains(a.View(), "3h45") {
		t.Fatal("history should show the total")
	}
}

func TestHistorySubmitInvalidShowsValidation(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme")
	a := f.seenApp()

	a, _ = send(a, keyMsg("n"))
	*a.history.formStart = "25:00"
	*a.history.formEnd = "02:00"

	a, cmd := submitHistory(a)
	a = runCmd(t, a, cmd)

	if !a.statusErr || !strings.Contains(a.status, "start") {
		t.Fatalf("status = %q", a.status)
	}
	if len(a.history.intervals) != 0 {
		t.Fatal("nothing should be added")
	}
}

func TestHistoryEditStale(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme")
	iv := f.entry(t, "2024-03-01", "Acme", "09:00", "17:00")
	a := f.seenApp()

	end := "18:00"
	if _, err := f.store.UpdateInterval(context.Background(), iv.ID, iv.Version, store.IntervalPatch{EndTime: &end}); err != nil {
		t.Fatal(err)
	}

	a, _ = send(a, keyMsg("e"))
	if a.history.formType != formEditEntry || *a.history.formEnd != "17:00" {
		t.Fatal("edit form should be prefilled from the entry")
	}
	*a.history.formStart = "08:00"

	a, cmd := submitHistory(a)
	a = runCmd(t, a, cmd)

	if !a.statusErr || !strings.Contains(a.status, "Reload") {
		t.Fatalf("status = %q", a.status)
	}
	if a.history.intervals[0].StartTime != "09:00" {
		t.Fatal("local entry should be unchanged")
	}
}

func TestHistoryDeleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme")
	f.entry(t, "2024-03-01", "Acme", "09:00", "17:00")
	a := f.seenApp()

	a, _ = send(a, keyMsg("d"))
	if a.history.formType != formDeleteEntry {
		t.Fatal("delete confirmation should be open")
	}

	*a.history.formConfirm = false
	if _, cmd := submitHistory(a); cmd != nil {
		t.Fatal("declined confirmation should do nothing")
	}

	*a.history.formConfirm = true
	a, cmd := submitHistory(a)
	a = runCmd(t, a, cmd)
	if len(a.history.intervals) != 0 {
		t.Fatal("entry should be deleted")
	}
}

func TestHistoryFilter(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme")
	f.employer(t, "Globex")
	f.entry(t, "2024-03-01", "Acme", "09:00", "17:00")
	f.entry(t, "2024-03-02", "Globex", "09:00", "10:00")
	f.entry(t, "2024-03-03", "Acme", "09:00", "11:00")
	a := f.seenApp()

	a, _ = send(a, keyMsg("f"))
	*a.history.formEmployer = "Acme"
	*a.history.formFrom = "2024-03-02"
	a, _ = submitHistory(a)

	if len(a.history.intervals) != 1 || a.history.summary.Filtered != 120 {
		t.Fatalf("rows = %d filtered = %d", len(a.history.intervals), a.history.summary.Filtered)
	}
	if a.history.summary.Overall != 660 {
		t.Fatalf("overall = %d, want 660", a.history.summary.Overall)
	}
	out := a.View()
	if !strings.Contains(out, "From: 02/03/2024") || !strings.Contains(out, "filtered") {
		t.Fatal("filter should be visible")
	}

	a, _ = send(a, keyMsg("c"))
	if !a.sh.filter.IsZero() || len(a.history.intervals) != 3 {
		t.Fatal("c should clear the filter")
	}
}

func TestHistoryVisibleRangeFollowsCursor(t *testing.T) {
	h := historyModel{height: 15, intervals: make([]store.WorkInterval, 10)}
	if first, last := h.visibleRange(); first != 0 || last != 3 {
		t.Fatalf("got %d..%d", first, last)
	}
	h.cursor = 7
	if first, last := h.visibleRange(); first != 5 || last != 8 {
		t.Fatalf("got %d..%d", first, last)
	}
}

func TestValidators(t *testing.T) {
	if validateClock("9:05") != nil || validateClock("24:00") == nil {
		t.Fatal("validateClock")
	}
	if validateDate(true)("") == nil || validateDate(false)("") != nil {
		t.Fatal("validateDate empty handling")
	}
	if validateDate(false)("05/03/2024") == nil {
		t.Fatal("validateDate should reject DD/MM/YYYY input")
	}
	if validateBreak("") != nil || validateBreak("30") != nil || validateBreak("-1") == nil {
		t.Fatal("validateBreak")
	}
}

func TestTruncateName(t *testing.T) {
	if got := truncateName("Acme", 10); got != "Acme" {
		t.Fatalf("got %q", got)
	}
	if got := truncateName("International", 6); got != "Inter…" {
		t.Fatalf("got %q", got)
	}
}

// ============================================================
// Summary
// ============================================================

func TestSummaryTotals(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme")
	f.employer(t, "Globex")
	f.entry(t, "2024-03-01", "Acme", "09:00", "10:00")
	f.entry(t, "2024-03-02", "Globex", "09:00", "17:00")
	a := f.seenApp()

	a, _ = send(a, keyMsg("2"))
	s := a.summary
	if s.summary.Overall != 540 || len(s.summary.ByEmployer) != 2 {
		t.Fatalf("summary = %+v", s.summary)
	}
	if s.summary.ByEmployer[0].Employer != "Globex" {
		t.Fatal("largest total should come first")
	}
	if !strings.Contains(a.View(), "All time: 9h00") {
		t.Fatal("grand total not rendered")
	}
}

func TestSummaryEmployerStatement(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme & Sons")
	f.entry(t, "2024-03-01", "Acme & Sons", "09:00", "10:00")
	a := f.seenApp()

	a, _ = send(a, keyMsg("2"))
	a, cmd := send(a, keyMsg("p"))
	a = runCmd(t, a, cmd)

	want := f.dir + string(os.PathSeparator) + "hours-Acme___Sons-2024-03-05.pdf"
	if a.status != "Exported to "+want {
		t.Fatalf("status = %q", a.status)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatal(err)
	}
}

// ============================================================
// Employers
// ============================================================

func TestEmployersAddRenameDelete(t *testing.T) {
	f := newFixture(t)
	a := f.seenApp()
	a, _ = send(a, keyMsg("3"))

	a, _ = send(a, keyMsg("n"))
	*a.employers.formName = "Acme"
	a, cmd := submitEmployers(a)
	a = runCmd(t, a, cmd)
	if len(a.employers.employers) != 1 {
		t.Fatal("employer not added")
	}

	f.entry(t, "2024-03-01", "Acme", "09:00", "10:00")
	a, _ = send(a, keyMsg("3"))

	a, _ = send(a, keyMsg("e"))
	if *a.employers.formName != "Acme" {
		t.Fatal("rename form should be prefilled")
	}
	*a.employers.formName = "Acme Corp"
	a, cmd = submitEmployers(a)
	a = runCmd(t, a, cmd)
	if a.history.intervals[0].EmployerName != "Acme Corp" {
		t.Fatal("rename should reach the history")
	}

	a, _ = send(a, keyMsg("d"))
	if _, cmd := submitEmployers(a); cmd != nil {
		t.Fatal("declined delete should do nothing")
	}
	*a.employers.formConfirm = true
	a, cmd = submitEmployers(a)
	a = runCmd(t, a, cmd)
	if len(a.employers.employers) != 0 || len(a.history.intervals) != 0 {
		t.Fatal("employer and its entries should be gone")
	}
}

func TestEmployersDuplicateName(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme")
	a := f.seenApp()
	a, _ = send(a, keyMsg("3"))

	a, _ = send(a, keyMsg("n"))
	*a.employers.formName = "acme"
	a, cmd := submitEmployers(a)
	a = runCmd(t, a, cmd)
	if !a.statusErr {
		t.Fatal("duplicate should be reported")
	}
}

// ============================================================
// Export picker
// ============================================================

func TestExportPickerWritesFilteredPDF(t *testing.T) {
	f := newFixture(t)
	f.employer(t, "Acme")
	f.entry(t, "2024-03-01", "Acme", "09:00", "10:00")
	a := f.seenApp()
	a.sh.filter = aggregate.Filter{Employer: "Acme"}

	a, _ = send(a, keyMsg("x"))
	if !a.exportPicking {
		t.Fatal("picker should open")
	}
	a, _ = send(a, keyMsg("down"))
	a, _ = send(a, keyMsg("down"))
	a, _ = send(a, keyMsg("down"))
	if a.exportCursor != 2 {
		t.Fatalf("cursor = %d, want 2", a.exportCursor)
	}
	a, cmd := send(a, keyMsg("enter"))
	a = runCmd(t, a, cmd)

	if !strings.HasSuffix(a.status, "hours-filtered-2024-03-05.pdf") {
		t.Fatalf("status = %q", a.status)
	}
}

func TestExportPickerEscCancels(t *testing.T) {
	a := newFixture(t).seenApp()
	a, _ = send(a, keyMsg("x"))
	a, cmd := send(a, keyMsg("esc"))
	if a.exportPicking || cmd != nil {
		t.Fatal("esc should close the picker without exporting")
	}
}

// ============================================================
// Settings and theme
// ============================================================

func TestThemeToggleUpdatesSharedStyles(t *testing.T) {
	f := newFixture(t)
	a := f.seenApp()
	if a.sh.styles.theme != store.ThemeLight {
		t.Fatal("should start light")
	}

	a, cmd := send(a, keyMsg("t"))
	a = runCmd(t, a, cmd)

	if a.sh.styles.theme != store.ThemeDark {
		t.Fatal("shared styles should switch to dark")
	}
	if a.history.sh.styles != a.sh.styles {
		t.Fatal("views should share the styles pointer")
	}
	if a.settings.prefs.Theme != store.ThemeDark {
		t.Fatal("settings view not updated")
	}
	p, _ := f.store.LoadPreferences(context.Background())
	if p.Theme != store.ThemeDark {
		t.Fatal("theme not persisted")
	}
}

func TestSettingsFormValues(t *testing.T) {
	a := newFixture(t).seenApp()
	a, _ = send(a, keyMsg("4"))
	a, _ = send(a, keyMsg("enter"))
	if !a.settings.formActive {
		t.Fatal("settings form should open")
	}
	if *a.settings.formTheme != "light" || *a.settings.formShowHelp {
		t.Fatal("form should be prefilled from preferences")
	}

	*a.settings.formShowHelp = true
	*a.settings.formTheme = "dark"
	got := a.settings.formValues()
	if got.Theme != store.ThemeDark || got.HelpDismissed {
		t.Fatalf("got %+v", got)
	}
}

func TestStylesThemes(t *testing.T) {
	light, dark := newStyles(store.ThemeLight), newStyles(store.ThemeDark)
	if light.colors.primary == dark.colors.primary {
		t.Fatal("themes should differ")
	}
	if newStyles("bogus").theme != store.ThemeLight {
		t.Fatal("unknown theme should fall back to light")
	}
	for _, s := range []*styles{light, dark} {
		if s.panel.Render("test") == "" || s.title.Render("test") == "" {
			t.Fatal("style rendered empty")
		}
		if len(s.barColors()) == 0 {
			t.Fatal("no bar colors")
		}
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}
