package store

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrStale is returned when a mutation carries an outdated version.
	ErrStale = errors.New("store: record was modified concurrently")
	// ErrDuplicateEmployer is returned when an employer name is already taken,
	// ignoring case.
	ErrDuplicateEmployer = errors.New("store: employer already exists")
)

type Employer struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// WorkInterval is one recorded work session. EmployerName is joined from the
// employers table; the stored reference is EmployerID.
type WorkInterval struct {
	ID           int64
	Date         string // YYYY-MM-DD
	EmployerID   int64
	EmployerName string
	StartTime    string // HH:MM
	EndTime      string // HH:MM
	BreakMinutes int
	NetMinutes   int
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IntervalInput holds the caller-supplied fields of a new interval.
type IntervalInput struct {
	Date         string
	EmployerID   int64
	StartTime    string
	EndTime      string
	BreakMinutes int
}

// IntervalPatch is a partial update; nil fields are left unchanged.
type IntervalPatch struct {
	Date         *string
	EmployerID   *int64
	StartTime    *string
	EndTime      *string
	BreakMinutes *int
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences are local UI flags kept outside the interval data.
type Preferences struct {
	Theme         Theme
	HelpDismissed bool
}

// DefaultPreferences is what a fresh install starts with.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight}
}

type Setting struct {
	Key   string
	Value string
}
