// Package workspace holds the in-memory intervals and employers a UI renders
// and routes every change through the store. Local state is only touched
// after the store has confirmed a change; a failed call leaves it as it was.
package workspace

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/logging"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/timecalc"
)

// Repository is the persistence the workspace relies on. *store.Store
// satisfies it.
type Repository interface {
	ListIntervals(ctx context.Context) ([]store.WorkInterval, error)
	CreateInterval(ctx context.Context, in store.IntervalInput) (*store.WorkInterval, error)
	UpdateInterval(ctx context.Context, id, version int64, patch store.IntervalPatch) (*store.WorkInterval, error)
	DeleteInterval(ctx context.Context, id, version int64) error
	ListEmployers(ctx context.Context) ([]store.Employer, error)
	CreateEmployer(ctx context.Context, name string) (*store.Employer, error)
	RenameEmployer(ctx context.Context, id int64, name string) (*store.Employer, error)
	DeleteEmployer(ctx context.Context, id int64) (int, error)
}

var _ Repository = (*store.Store)(nil)

// Draft is an interval as typed by the user, before validation.
type Draft struct {
	Date      string
	Employer  string
	StartTime string
	EndTime   string
	Break     string // minutes; empty means 0
}

// DraftFrom fills a draft from an existing interval, for editing.
func DraftFrom(iv store.WorkInterval) Draft {
	return Draft{
		Date:      iv.Date,
		Employer:  iv.EmployerName,
		StartTime: iv.StartTime,
		EndTime:   iv.EndTime,
		Break:     strconv.Itoa(iv.BreakMinutes),
	}
}

type Workspace struct {
	repo Repository
	log  *slog.Logger

	mu        sync.Mutex
	intervals []store.WorkInterval
	employers []store.Employer
	inflight  map[string]struct{}
}

func New(repo Repository, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Workspace{
		repo:     repo,
		log:      logger,
		inflight: make(map[string]struct{}),
	}
}

// Load replaces the local collections with the store's current contents.
func (w *Workspace) Load(ctx context.Context) error {
	log := w.opLogger(ctx, "load")
	intervals, err := w.repo.ListIntervals(ctx)
	if err != nil {
		return w.fail(log, fmt.Errorf("load intervals: %w", err))
	}
	employers, err := w.repo.ListEmployers(ctx)
	if err != nil {
		return w.fail(log, fmt.Errorf("load employers: %w", err))
	}
	aggregate.SortDefault(intervals)

	w.mu.Lock()
	w.intervals = intervals
	w.employers = employers
	w.mu.Unlock()

	log.Debug("loaded", "intervals", len(intervals), "employers", len(employers))
	return nil
}

// ============================================================
// Views
// ============================================================

// Intervals returns a copy of every interval in default order.
func (w *Workspace) Intervals() []store.WorkInterval {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.intervals)
}

// Employers returns a copy of the employers ordered by name.
func (w *Workspace) Employers() []store.Employer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.employers)
}

func (w *Workspace) Filtered(f aggregate.Filter) []store.WorkInterval {
	w.mu.Lock()
	defer w.mu.Unlock()
	return aggregate.Apply(w.intervals, f)
}

func (w *Workspace) Summary(f aggregate.Filter) aggregate.Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return aggregate.Summarize(w.intervals, f)
}

// FindEmployer looks an employer up by name, ignoring case.
func (w *Workspace) FindEmployer(name string) (store.Employer, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.findEmployerLocked(name)
}

// FindInterval returns the interval with the given id.
func (w *Workspace) FindInterval(id int64) (store.WorkInterval, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, iv := range w.intervals {
		if iv.ID == id {
			return iv, true
		}
	}
	return store.WorkInterval{}, false
}

func (w *Workspace) findEmployerLocked(name string) (store.Employer, bool) {
	name = strings.TrimSpace(name)
	for _, e := range w.employers {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return store.Employer{}, false
}

// ============================================================
// Intervals
// ============================================================

func (w *Workspace) AddInterval(ctx context.Context, d Draft) (store.WorkInterval, error) {
	in, err := w.validateDraft(d)
	if err != nil {
		return store.WorkInterval{}, err
	}
	release, err := w.acquire("interval:new")
	if err != nil {
		return store.WorkInterval{}, err
	}
	defer release()

	log := w.opLogger(ctx, "add_interval")
	created, err := w.repo.CreateInterval(ctx, in)
	if err != nil {
		return store.WorkInterval{}, w.fail(log, err)
	}

	w.mu.Lock()
	w.intervals = aggregate.Insert(w.intervals, *created)
	w.mu.Unlock()

	log.Debug("interval added", "id", created.ID, "net_minutes", created.NetMinutes)
	return *created, nil
}

// EditInterval replaces every field of interval id with the draft. The change
// is rejected by the store if the interval moved on since it was loaded.
func (w *Workspace) EditInterval(ctx context.Context, id int64, d Draft) (store.WorkInterval, error) {
	in, err := w.validateDraft(d)
	if err != nil {
		return store.WorkInterval{}, err
	}
	cur, ok := w.FindInterval(id)
	if !ok {
		return store.WorkInterval{}, fmt.Errorf("edit interval %d: %w", id, store.ErrNotFound)
	}
	release, err := w.acquire(intervalKey(id))
	if err != nil {
		return store.WorkInterval{}, err
	}
	defer release()

	log := w.opLogger(ctx, "edit_interval", "id", id, "version", cur.Version)
	updated, err := w.repo.UpdateInterval(ctx, id, cur.Version, store.IntervalPatch{
		Date:         &in.Date,
		EmployerID:   &in.EmployerID,
		StartTime:    &in.StartTime,
		EndTime:      &in.EndTime,
		BreakMinutes: &in.BreakMinutes,
	})
	if err != nil {
		return store.WorkInterval{}, w.fail(log, err)
	}

	w.mu.Lock()
	w.intervals = aggregate.Replace(w.intervals, *updated)
	w.mu.Unlock()

	log.Debug("interval updated", "net_minutes", updated.NetMinutes, "new_version", updated.Version)
	return *updated, nil
}

func (w *Workspace) RemoveInterval(ctx context.Context, id int64) error {
	cur, ok := w.FindInterval(id)
	if !ok {
		return fmt.Errorf("remove interval %d: %w", id, store.ErrNotFound)
	}
	release, err := w.acquire(intervalKey(id))
	if err != nil {
		return err
	}
	defer release()

	log := w.opLogger(ctx, "remove_interval", "id", id, "version", cur.Version)
	if err := w.repo.DeleteInterval(ctx, id, cur.Version); err != nil {
		return w.fail(log, err)
	}

	w.mu.Lock()
	w.intervals = aggregate.Remove(w.intervals, id)
	w.mu.Unlock()

	log.Debug("interval removed")
	return nil
}

// validateDraft checks a draft and resolves its employer.
func (w *Workspace) validateDraft(d Draft) (store.IntervalInput, error) {
	var v ValidationError
	in := store.IntervalInput{
		Date:      strings.TrimSpace(d.Date),
		StartTime: strings.TrimSpace(d.StartTime),
		EndTime:   strings.TrimSpace(d.EndTime),
	}

	if in.Date == "" {
		v.add("date", "required")
	} else if _, err := timecalc.ParseDate(in.Date); err != nil {
		v.add("date", "must be YYYY-MM-DD")
	}

	if strings.TrimSpace(d.Employer) == "" {
		v.add("employer", "required")
	} else if e, ok := w.FindEmployer(d.Employer); !ok {
		v.add("employer", fmt.Sprintf("unknown employer %q", strings.TrimSpace(d.Employer)))
	} else {
		in.EmployerID = e.ID
	}

	// Stored times are rewritten as "HH:MM" so text ordering matches time
	// ordering.
	for field, value := range map[string]*string{"start": &in.StartTime, "end": &in.EndTime} {
		if *value == "" {
			v.add(field, "required")
		} else if clock, err := timecalc.NormalizeClock(*value); err != nil {
			v.add(field, "must be HH:MM")
		} else {
			*value = clock
		}
	}

	if b := strings.TrimSpace(d.Break); b != "" {
		n, err := strconv.Atoi(b)
		switch {
		case err != nil:
			v.add("break", "must be a whole number of minutes")
		case n < 0:
			v.add("break", "cannot be negative")
		default:
			in.BreakMinutes = n
		}
	}

	if v.HasErrors() {
		return store.IntervalInput{}, &v
	}
	return in, nil
}

// ============================================================
// Employers
// ============================================================

func (w *Workspace) AddEmployer(ctx context.Context, name string) (store.Employer, error) {
	name, err := w.validateEmployerName(name, 0)
	if err != nil {
		return store.Employer{}, err
	}
	release, err := w.acquire("employer:new")
	if err != nil {
		return store.Employer{}, err
	}
	defer release()

	log := w.opLogger(ctx, "add_employer", "name", name)
	created, err := w.repo.CreateEmployer(ctx, name)
	if err != nil {
		return store.Employer{}, w.fail(log, err)
	}

	w.mu.Lock()
	w.employers = append(w.employers, *created)
	sortEmployers(w.employers)
	w.mu.Unlock()

	log.Debug("employer added", "id", created.ID)
	return *created, nil
}

func (w *Workspace) RenameEmployer(ctx context.Context, id int64, name string) (store.Employer, error) {
	name, err := w.validateEmployerName(name, id)
	if err != nil {
		return store.Employer{}, err
	}
	release, err := w.acquire(employerKey(id))
	if err != nil {
		return store.Employer{}, err
	}
	defer release()

	log := w.opLogger(ctx, "rename_employer", "id", id, "name", name)
	renamed, err := w.repo.RenameEmployer(ctx, id, name)
	if err != nil {
		return store.Employer{}, w.fail(log, err)
	}

	w.mu.Lock()
	for i := range w.employers {
		if w.employers[i].ID == id {
			w.employers[i] = *renamed
		}
	}
	sortEmployers(w.employers)
	for i := range w.intervals {
		if w.intervals[i].EmployerID == id {
			w.intervals[i].EmployerName = renamed.Name
		}
	}
	w.mu.Unlock()

	log.Debug("employer renamed")
	return *renamed, nil
}

// RemoveEmployer deletes an employer and every interval recorded for it,
// returning how many intervals were removed.
func (w *Workspace) RemoveEmployer(ctx context.Context, id int64) (int, error) {
	release, err := w.acquire(employerKey(id))
	if err != nil {
		return 0, err
	}
	defer release()

	log := w.opLogger(ctx, "remove_employer", "id", id)
	removed, err := w.repo.DeleteEmployer(ctx, id)
	if err != nil {
		return 0, w.fail(log, err)
	}

	w.mu.Lock()
	w.employers = slices.DeleteFunc(w.employers, func(e store.Employer) bool { return e.ID == id })
	w.intervals = slices.DeleteFunc(w.intervals, func(iv store.WorkInterval) bool { return iv.EmployerID == id })
	w.mu.Unlock()

	log.Debug("employer removed", "intervals_removed", removed)
	return removed, nil
}

func (w *Workspace) validateEmployerName(name string, exceptID int64) (string, error) {
	name = strings.TrimSpace(name)
	var v ValidationError
	if name == "" {
		v.add("name", "required")
		return "", &v
	}
	if e, ok := w.FindEmployer(name); ok && e.ID != exceptID {
		v.add("name", fmt.Sprintf("%q already exists", e.Name))
		return "", &v
	}
	return name, nil
}

func sortEmployers(es []store.Employer) {
	slices.SortStableFunc(es, func(a, b store.Employer) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// ============================================================
// Plumbing
// ============================================================

// acquire marks key as having a mutation in flight. The returned func
// clears it.
func (w *Workspace) acquire(key string) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inflight[key]; busy {
		return nil, fmt.Errorf("%s: %w", key, ErrBusy)
	}
	w.inflight[key] = struct{}{}
	return func() {
		w.mu.Lock()
		delete(w.inflight, key)
		w.mu.Unlock()
	}, nil
}

func intervalKey(id int64) string { return "interval:" + strconv.FormatInt(id, 10) }
func employerKey(id int64) string { return "employer:" + strconv.FormatInt(id, 10) }

func (w *Workspace) opLogger(ctx context.Context, op string, attrs ...any) *slog.Logger {
	pairs := append([]any{"component", "workspace", "operation", op, "op_id", uuid.NewString()}, attrs...)
	return logging.FromContext(ctx, w.log).With(pairs...)
}

// fail logs a store failure once and hands it back to the caller.
func (w *Workspace) fail(log *slog.Logger, err error) error {
	log.Error("store call failed", "kind", ErrorKind(err), "error", err)
	return err
}
