package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerDay = 24 * 60
	dateLayout    = "2006-01-02"
)

// ParseClock parses a 24h "HH:MM" wall-clock value into minutes since
// midnight. A single-digit hour is accepted; signs and spaces inside the
// value are not.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !allDigits(hh) || !allDigits(mm) {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock parses s and returns it in canonical "HH:MM" form, so that
// stored times compare correctly as text ("09:00" < "10:00").
func NormalizeClock(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ComputeNetMinutes returns the worked minutes between start and end minus
// the break. An end before the start is an overnight shift. The result is
// never negative, and a missing or unparsable time yields 0.
func ComputeNetMinutes(start, end string, breakMinutes int) int {
	if start == "" || end == "" {
		return 0
	}
	s, err := ParseClock(start)
	if err != nil {
		return 0
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0
	}
	if e < s {
		e += minutesPerDay
	}
	return max(0, e-s-breakMinutes)
}

// FormatDuration formats minutes as "1h30": unpadded hours, two-digit minutes.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		return "0h00"
	}
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}

// FormatDurationString is FormatDuration for textual input; anything that is
// not an integer formats as "0h00".
func FormatDurationString(s string) string {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return "0h00"
	}
	return FormatDuration(n)
}

// ParseDate parses an ISO "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders an ISO date as DD/MM/YYYY. Input that does not have
// three dash-separated parts is returned unchanged.
func FormatDate(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return iso
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// Today returns the local calendar date of now in ISO form.
func Today(now time.Time) string {
	return now.Local().Format(dateLayout)
}
