package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/workhours/internal/timecalc"
)

const intervalColumns = `i.id, i.date, i.employer_id, e.name, i.start_time, i.end_time,
	i.break_minutes, i.net_minutes, i.version, i.created_at, i.updated_at
	FROM work_intervals i JOIN employers e ON e.id = i.employer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterval(r rowScanner) (WorkInterval, error) {
	var iv WorkInterval
	var createdAt, updatedAt string
	err := r.Scan(&iv.ID, &iv.Date, &iv.EmployerID, &iv.EmployerName, &iv.StartTime, &iv.EndTime,
		&iv.BreakMinutes, &iv.NetMinutes, &iv.Version, &createdAt, &updatedAt)
	if err != nil {
		return WorkInterval{}, err
	}
	iv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	iv.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return iv, nil
}

// CreateInterval inserts a new interval. NetMinutes is always derived from
// the times and break, never taken from the caller.
func (s *Store) CreateInterval(ctx context.Context, in IntervalInput) (*WorkInterval, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	in.StartTime, in.EndTime = canonicalClock(in.StartTime), canonicalClock(in.EndTime)
	net := timecalc.ComputeNetMinutes(in.StartTime, in.EndTime, in.BreakMinutes)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO work_intervals (date, employer_id, start_time, end_time, break_minutes, net_minutes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Date, in.EmployerID, in.StartTime, in.EndTime, in.BreakMinutes, net, now, now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("insert interval: employer %d: %w", in.EmployerID, ErrNotFound)
		}
		return nil, fmt.Errorf("insert interval: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetInterval(ctx, id)
}

func (s *Store) GetInterval(ctx context.Context, id int64) (*WorkInterval, error) {
	return getInterval(ctx, s.db, id)
}

func getInterval(ctx context.Context, q queryRower, id int64) (*WorkInterval, error) {
	iv, err := scanInterval(q.QueryRowContext(ctx, `SELECT `+intervalColumns+` WHERE i.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get interval %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get interval %d: %w", id, err)
	}
	return &iv, nil
}

// ListIntervals returns every interval, newest date first and, within a
// date, latest start first.
func (s *Store) ListIntervals(ctx context.Context) ([]WorkInterval, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+intervalColumns+` ORDER BY i.date DESC, i.start_time DESC, i.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	defer rows.Close()

	var intervals []WorkInterval
	for rows.Next() {
		iv, err := scanInterval(rows)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}

// UpdateInterval applies patch to the interval if its current version is
// still version, recomputing NetMinutes and bumping the version.
func (s *Store) UpdateInterval(ctx context.Context, id, version int64, patch IntervalPatch) (*WorkInterval, error) {
	var updated *WorkInterval
	err := s.withinTx(ctx, func(tx *sql.Tx) error {
		cur, err := getInterval(ctx, tx, id)
		if err != nil {
			return err
		}
		if cur.Version != version {
			return fmt.Errorf("update interval %d (have v%d, want v%d): %w", id, version, cur.Version, ErrStale)
		}

		next := *cur
		if patch.Date != nil {
			next.Date = *patch.Date
		}
		if patch.EmployerID != nil {
			next.EmployerID = *patch.EmployerID
		}
		if patch.StartTime != nil {
			next.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			next.EndTime = *patch.EndTime
		}
		if patch.BreakMinutes != nil {
			next.BreakMinutes = *patch.BreakMinutes
		}
		next.StartTime, next.EndTime = canonicalClock(next.StartTime), canonicalClock(next.EndTime)
		next.NetMinutes = timecalc.ComputeNetMinutes(next.StartTime, next.EndTime, next.BreakMinutes)

		now := time.Now().UTC().Format(time.RFC3339)
		_, err = tx.ExecContext(ctx,
			`UPDATE work_intervals
			 SET date = ?, employer_id = ?, start_time = ?, end_time = ?, break_minutes = ?,
			     net_minutes = ?, version = version + 1, updated_at = ?
			 WHERE id = ? AND version = ?`,
			next.Date, next.EmployerID, next.StartTime, next.EndTime, next.BreakMinutes,
			next.NetMinutes, now, id, version,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("update interval %d: employer %d: %w", id, next.EmployerID, ErrNotFound)
			}
			return fmt.Errorf("update interval %d: %w", id, err)
		}

		updated, err = getInterval(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteInterval removes the interval if its current version is still version.
func (s *Store) DeleteInterval(ctx context.Context, id, version int64) error {
	return s.withinTx(ctx, func(tx *sql.Tx) error {
		var current int64
		err := tx.QueryRowContext(ctx, `SELECT version FROM work_intervals WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("delete interval %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("delete interval %d: %w", id, err)
		}
		if current != version {
			return fmt.Errorf("delete interval %d (have v%d, want v%d): %w", id, version, current, ErrStale)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM work_intervals WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete interval %d: %w", id, err)
		}
		return nil
	})
}

// canonicalClock zero-pads a valid clock value so that ORDER BY start_time
// sorts chronologically. Anything else is stored as given.
func canonicalClock(s string) string {
	if c, err := timecalc.NormalizeClock(s); err == nil {
		return c
	}
	return s
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
