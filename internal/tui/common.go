package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/workspace"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHistory viewState = iota
	viewSummary
	viewEmployers
	viewSettings
)

var viewNames = []string{"History", "Summary", "Employers", "Settings"}

// PreferenceStore persists the local UI flags.
type PreferenceStore interface {
	LoadPreferences(ctx context.Context) (store.Preferences, error)
	SavePreferences(ctx context.Context, p store.Preferences) error
}

// shared holds what every view needs, passed around by pointer.
type shared struct {
	ctx       context.Context
	ws        *workspace.Workspace
	prefs     PreferenceStore
	exportDir string
	now       func() time.Time
	styles    *styles

	// filter is the active history filter; exports of the filtered set
	// use it too.
	filter aggregate.Filter
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// mutationMsg reports the outcome of a change sent to the store.
type mutationMsg struct {
	status string
	err    error
}

type reloadedMsg struct {
	err error
}

type exportDoneMsg struct {
	path string
}

type prefsSavedMsg struct {
	prefs store.Preferences
}

// --- Helpers ---

// mutate runs fn off the UI loop and reports the result as a mutationMsg.
func mutate(status string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return mutationMsg{status: status, err: fn()}
	}
}

func reload(sh *shared) tea.Cmd {
	return func() tea.Msg {
		return reloadedMsg{err: sh.ws.Load(sh.ctx)}
	}
}

func clampCursor(cursor, n int) int {
	return max(0, min(cursor, n-1))
}
