package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/workhours/internal/store"
)

type settingsModel struct {
	sh     *shared
	width  int
	height int

	prefs      store.Preferences
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formTheme    *string
	formShowHelp *bool
}

func newSettingsModel(sh *shared, prefs store.Preferences) settingsModel {
	theme := string(prefs.Theme)
	showHelp := !prefs.HelpDismissed
	return settingsModel{
		sh:           sh,
		prefs:        prefs,
		formTheme:    &theme,
		formShowHelp: &showHelp,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Edit) {
			return s.showForm()
		}
	}
	return s, nil
}

func toggledTheme(t store.Theme) store.Theme {
	if t == store.ThemeDark {
		return store.ThemeLight
	}
	return store.ThemeDark
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.formTheme = string(s.prefs.Theme)
	*s.formShowHelp = !s.prefs.HelpDismissed

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Light", string(store.ThemeLight)),
					huh.NewOption("Dark", string(store.ThemeDark)),
				).Value(s.formTheme),
			huh.NewConfirm().Title("Show help when starting").
				Affirmative("Yes").
				Negative("No").
				Value(s.formShowHelp),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		s.formActive = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, savePrefs(s.sh, s.formValues())
	}

	return s, cmd
}

func (s settingsModel) formValues() store.Preferences {
	return store.Preferences{
		Theme:         store.Theme(*s.formTheme),
		HelpDismissed: !*s.formShowHelp,
	}
}

// savePrefs persists p and reports it back as a prefsSavedMsg.
func savePrefs(sh *shared, p store.Preferences) tea.Cmd {
	return func() tea.Msg {
		if err := sh.prefs.SavePreferences(sh.ctx, p); err != nil {
			return statusMsg{text: fmt.Sprintf("Could not save preferences: %v", err), isError: true}
		}
		return prefsSavedMsg{prefs: p}
	}
}

func (s settingsModel) view() string {
	st := s.sh.styles
	w := s.width - 4
	title := st.title.Render("Settings")

	if s.formActive && s.form != nil {
		return st.panel.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	label := lipgloss.NewStyle().Width(24)
	showHelp := "yes"
	if s.prefs.HelpDismissed {
		showHelp = "no"
	}
	rows := []string{
		title,
		"",
		fmt.Sprintf("  %s %s", label.Render("Theme"), st.highlight.Render(string(s.prefs.Theme))),
		fmt.Sprintf("  %s %s", label.Render("Help on start"), st.highlight.Render(showHelp)),
		fmt.Sprintf("  %s %s", label.Render("Export folder"), st.highlight.Render(s.sh.exportDir)),
		"",
		st.muted.Render("Press enter to edit settings, t anywhere to toggle the theme"),
	}

	return st.panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
