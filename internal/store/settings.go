package store

import (
	"context"
	"fmt"
	"strconv"
)

const (
	settingTheme         = "theme"
	settingHelpDismissed = "help_dismissed"
)

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings(ctx context.Context) ([]Setting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadPreferences reads the local preference flags. Missing or unreadable
// values fall back to DefaultPreferences.
func (s *Store) LoadPreferences(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()
	settings, err := s.GetAllSettings(ctx)
	if err != nil {
		return prefs, err
	}
	for _, st := range settings {
		switch st.Key {
		case settingTheme:
			if t := Theme(st.Value); t == ThemeLight || t == ThemeDark {
				prefs.Theme = t
			}
		case settingHelpDismissed:
			if b, err := strconv.ParseBool(st.Value); err == nil {
				prefs.HelpDismissed = b
			}
		}
	}
	return prefs, nil
}

func (s *Store) SavePreferences(ctx context.Context, p Preferences) error {
	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		return fmt.Errorf("save preferences: unknown theme %q", p.Theme)
	}
	if err := s.SetSetting(ctx, settingTheme, string(p.Theme)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	if err := s.SetSetting(ctx, settingHelpDismissed, strconv.FormatBool(p.HelpDismissed)); err != nil {
		return fmt.Errorf("save help flag: %w", err)
	}
	return nil
}
