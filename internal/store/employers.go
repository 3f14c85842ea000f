package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

func (s *Store) CreateEmployer(ctx context.Context, name string) (*Employer, error) {
	var id int64
	err := s.withinTx(ctx, func(tx *sql.Tx) error {
		taken, err := employerNameTaken(ctx, tx, name, 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("insert employer %q: %w", name, ErrDuplicateEmployer)
		}

		now := time.Now().UTC().Format(time.RFC3339)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO employers (name, created_at) VALUES (?, ?)`, name, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert employer %q: %w", name, ErrDuplicateEmployer)
			}
			return fmt.Errorf("insert employer: %w", err)
		}
		id, _ = res.LastInsertId()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetEmployer(ctx, id)
}

func (s *Store) GetEmployer(ctx context.Context, id int64) (*Employer, error) {
	e := &Employer{}
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM employers WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get employer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get employer %d: %w", id, err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// ListEmployers returns all employers ordered by name, ignoring case.
func (s *Store) ListEmployers(ctx context.Context) ([]Employer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM employers ORDER BY name COLLATE NOCASE, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list employers: %w", err)
	}
	defer rows.Close()

	var employers []Employer
	for rows.Next() {
		var e Employer
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Name, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employers = append(employers, e)
	}
	return employers, rows.Err()
}

// RenameEmployer changes an employer's name. Intervals reference the id, so
// they follow the rename without further work.
func (s *Store) RenameEmployer(ctx context.Context, id int64, name string) (*Employer, error) {
	err := s.withinTx(ctx, func(tx *sql.Tx) error {
		taken, err := employerNameTaken(ctx, tx, name, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("rename employer %d: %w", id, ErrDuplicateEmployer)
		}

		res, err := tx.ExecContext(ctx, `UPDATE employers SET name = ? WHERE id = ?`, name, id)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("rename employer %d: %w", id, ErrDuplicateEmployer)
			}
			return fmt.Errorf("rename employer %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("rename employer %d: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetEmployer(ctx, id)
}

// DeleteEmployer removes an employer together with its intervals in a single
// transaction and reports how many intervals went with it.
func (s *Store) DeleteEmployer(ctx context.Context, id int64) (int, error) {
	var removed int64
	err := s.withinTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM work_intervals WHERE employer_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete intervals of employer %d: %w", id, err)
		}
		removed, _ = res.RowsAffected()

		res, err = tx.ExecContext(ctx, `DELETE FROM employers WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete employer %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("delete employer %d: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// employerNameTaken reports whether another employer (other than exceptID)
// already uses name, ignoring case. The comparison is done with Unicode case
// folding here because COLLATE NOCASE only folds ASCII letters; the NOCASE
// unique index stays as a backstop.
func employerNameTaken(ctx context.Context, tx *sql.Tx, name string, exceptID int64) (bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name FROM employers WHERE id <> ?`, exceptID)
	if err != nil {
		return false, fmt.Errorf("check employer name: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var existing string
		if err := rows.Scan(&id, &existing); err != nil {
			return false, fmt.Errorf("check employer name: %w", err)
		}
		if strings.EqualFold(existing, name) {
			return true, nil
		}
	}
	return false, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
