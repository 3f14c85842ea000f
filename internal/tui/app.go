package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/workhours/internal/export"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/workspace"
)

// Options configures the interface.
type Options struct {
	Workspace   *workspace.Workspace
	Prefs       PreferenceStore
	Preferences store.Preferences
	ExportDir   string
	Now         func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	sh     *shared
	width  int
	height int

	prefs         store.Preferences
	activeView    viewState
	showHelp      bool
	showOverlay   bool
	exportPicking bool
	exportCursor  int

	history   historyModel
	summary   summaryModel
	employers employersModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(ctx context.Context, opts Options) App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sh := &shared{
		ctx:       ctx,
		ws:        opts.Workspace,
		prefs:     opts.Prefs,
		exportDir: opts.ExportDir,
		now:       now,
		styles:    newStyles(opts.Preferences.Theme),
	}

	h := help.New()
	h.ShowAll = false

	a := App{
		sh:          sh,
		prefs:       opts.Preferences,
		activeView:  viewHistory,
		showOverlay: !opts.Preferences.HelpDismissed,
		history:     newHistoryModel(sh),
		summary:     newSummaryModel(sh),
		employers:   newEmployersModel(sh),
		settings:    newSettingsModel(sh, opts.Preferences),
		help:        h,
	}
	a.loadAll()
	return a
}

// Run starts the interface and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewApp(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a *App) loadAll() {
	a.history.load()
	a.summary.load()
	a.employers.load()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.history.setSize(a.width, contentHeight)
		a.summary.setSize(a.width, contentHeight)
		a.employers.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.showOverlay {
			return a.updateOverlay(msg)
		}
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Reload):
			return a, reload(a.sh)
		case key.Matches(msg, keys.Theme):
			p := a.prefs
			p.Theme = toggledTheme(p.Theme)
			return a, savePrefs(a.sh, p)
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewHistory), nil
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewSummary), nil
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewEmployers), nil
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewSettings), nil
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames))), nil
		}

	case statusMsg:
		a.status, a.statusErr = msg.text, msg.isError
		return a, nil

	case mutationMsg:
		if msg.err != nil {
			a.status, a.statusErr = workspace.Message(msg.err), true
			return a, nil
		}
		a.status, a.statusErr = msg.status, false
		a.loadAll()
		return a, nil

	case reloadedMsg:
		if msg.err != nil {
			a.status, a.statusErr = workspace.Message(msg.err), true
			return a, nil
		}
		a.status, a.statusErr = "Reloaded", false
		a.loadAll()
		return a, nil

	case exportDoneMsg:
		a.status, a.statusErr = "Exported to "+msg.path, false
		a.exportPicking = false
		return a, nil

	case prefsSavedMsg:
		a.prefs = msg.prefs
		*a.sh.styles = *newStyles(msg.prefs.Theme)
		a.settings.prefs = msg.prefs
		a.summary.buildChart()
		a.status, a.statusErr = "Preferences saved", false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) App {
	a.activeView = v
	a.loadAll()
	return a
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSummary:
		a.summary, cmd = a.summary.update(msg)
	case viewEmployers:
		a.employers, cmd = a.employers.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewHistory:
		return a.history.formActive
	case viewEmployers:
		return a.employers.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewHistory:
		content = a.history.view()
	case viewSummary:
		content = a.summary.view()
	case viewEmployers:
		content = a.employers.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	switch {
	case a.showOverlay:
		content = a.renderOverlay()
	case a.exportPicking:
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	st := a.sh.styles
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, st.activeTab.Render(name))
		} else {
			tabs = append(tabs, st.inactiveTab.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(st.colors.primary).Render("workhours")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return st.header.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	st := a.sh.styles
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := st.muted
		if a.statusErr {
			style = st.errorText
		}
		status = style.Render(" " + a.status)
	}

	filter := ""
	if !a.sh.filter.IsZero() {
		filter = st.warning.Render(" ● filtered")
	}

	left := st.footer.Render(helpView)
	right := filter + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

// ============================================================
// First-run help overlay
// ============================================================

var overlayLines = []string{
	"Record the hours you work for each employer.",
	"",
	"1 History    your entries, newest first, with the filtered total",
	"2 Summary    hours per employer; p writes a PDF statement",
	"3 Employers  add, rename or delete employers",
	"4 Settings   theme and this help screen",
	"",
	"n new  e edit  d delete  f filter  c clear filter  x export",
	"An end time before the start time counts as an overnight shift.",
}

func (a App) renderOverlay() string {
	st := a.sh.styles
	rows := []string{st.title.Render("Welcome to workhours"), ""}
	for _, l := range overlayLines {
		rows = append(rows, st.normalItem.Render(l))
	}
	rows = append(rows, "", st.muted.Render("  enter: close  d: don't show again"))
	return st.activePanel.Width(a.width - 4).Render(strings.Join(rows, "\n"))
}

func (a App) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Delete):
		a.showOverlay = false
		p := a.prefs
		p.HelpDismissed = true
		return a, savePrefs(a.sh, p)
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Back), key.Matches(msg, keys.Help):
		a.showOverlay = false
	}
	return a, nil
}

// ============================================================
// Export picker
// ============================================================

func (a App) renderExportPicker() string {
	st := a.sh.styles
	rows := []string{st.title.Render("Export Format"), ""}
	if !a.sh.filter.IsZero() {
		rows = append(rows, st.muted.Render("Only entries matching the current filter are exported."), "")
	}
	for i, f := range export.Formats {
		cursor := "  "
		style := st.normalItem
		if i == a.exportCursor {
			cursor = "> "
			style = st.selectedItem
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(string(f))))
	}
	rows = append(rows, "", st.muted.Render("  enter: export  esc: cancel"))

	return st.activePanel.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format export.Format) tea.Cmd {
	sh := a.sh
	f := sh.filter
	return func() tea.Msg {
		path, err := export.SaveFiltered(sh.ws.Filtered(f), f, format, sh.exportDir, sh.now())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
