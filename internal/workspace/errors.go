package workspace

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sadopc/workhours/internal/store"
)

// ErrBusy is returned when a mutation targets a record (or a create) that
// already has one outstanding.
var ErrBusy = errors.New("workspace: another change to this record is in progress")

// ValidationError captures field level problems found before any store call.
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for f := range v.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v.FieldErrors[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ErrorKind maps an error to a stable label for logs and status lines.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return "validation"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, store.ErrStale):
		return "stale"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, store.ErrDuplicateEmployer):
		return "duplicate"
	}
	return "unexpected"
}

// Message renders err as a short line fit for the user.
func Message(err error) string {
	switch ErrorKind(err) {
	case "":
		return ""
	case "validation":
		return err.Error()
	case "busy":
		return "Still saving the previous change, try again in a moment."
	case "stale":
		return "This entry was changed elsewhere. Reload and try again."
	case "not_found":
		return "That record no longer exists."
	case "duplicate":
		return "An employer with this name already exists."
	}
	return fmt.Sprintf("Operation failed: %v", err)
}
