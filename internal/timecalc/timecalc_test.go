package timecalc_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/sadopc/workhours/internal/timecalc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"9:05", 545, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"1230", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
		{"12:5", 0, true},
		{"+9:00", 0, true},
		{"-0:00", 0, true},
		{"9:+5", 0, true},
		{" 9:05 ", 545, false},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseClock(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseClock(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseClock(%q)", tt.in)
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := map[string]string{
		"9:00":  "09:00",
		"09:05": "09:05",
		" 0:00": "00:00",
		"23:59": "23:59",
	}
	for in, want := range tests {
		got, err := timecalc.NormalizeClock(in)
		require.NoError(t, err, "NormalizeClock(%q)", in)
		assert.Equal(t, want, got, "NormalizeClock(%q)", in)
	}

	_, err := timecalc.NormalizeClock("+9:00")
	assert.Error(t, err)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", timecalc.FormatClock(0))
	assert.Equal(t, "09:05", timecalc.FormatClock(545))
	assert.Equal(t, "01:00", timecalc.FormatClock(1500))
}

func TestComputeNetMinutes(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		brk        int
		want       int
	}{
		{"regular day", "09:00", "17:30", 30, 480},
		{"morning", "08:00", "12:00", 0, 240},
		{"overnight", "22:00", "02:00", 0, 240},
		{"overnight with break", "22:00", "06:00", 45, 435},
		{"same time is zero length", "09:00", "09:00", 0, 0},
		{"break exceeds span", "09:00", "09:30", 60, 0},
		{"break equals span", "09:00", "10:00", 60, 0},
		{"missing start", "", "17:00", 0, 0},
		{"missing end", "09:00", "", 0, 0},
		{"unparsable", "nine", "17:00", 0, 0},
		{"one minute before midnight", "23:59", "00:00", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timecalc.ComputeNetMinutes(tt.start, tt.end, tt.brk))
		})
	}
}

func TestComputeNetMinutesTotalAndNonNegative(t *testing.T) {
	breaks := []int{0, 15, 90, 2000}
	for h1 := 0; h1 < 24; h1 += 5 {
		for m1 := 0; m1 < 60; m1 += 17 {
			start := fmt.Sprintf("%02d:%02d", h1, m1)
			// Identical start and end is a zero-length span.
			assert.Equal(t, 0, timecalc.ComputeNetMinutes(start, start, 0), "start=end=%s", start)
			for h2 := 0; h2 < 24; h2 += 7 {
				for m2 := 0; m2 < 60; m2 += 23 {
					end := fmt.Sprintf("%02d:%02d", h2, m2)
					for _, b := range breaks {
						got := timecalc.ComputeNetMinutes(start, end, b)
						assert.GreaterOrEqual(t, got, 0)
						assert.Less(t, got, 24*60)
					}
				}
			}
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0h00"},
		{5, "0h05"},
		{59, "0h59"},
		{60, "1h00"},
		{90, "1h30"},
		{600, "10h00"},
		{720, "12h00"},
		{6001, "100h01"},
		{-5, "0h00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, timecalc.FormatDuration(tt.minutes), "FormatDuration(%d)", tt.minutes)
	}
}

func TestFormatDurationDecomposition(t *testing.T) {
	for h := 0; h < 50; h += 3 {
		for m := 0; m < 60; m++ {
			want := fmt.Sprintf("%dh%02d", h, m)
			assert.Equal(t, want, timecalc.FormatDuration(h*60+m))
		}
	}
}

func TestFormatDurationString(t *testing.T) {
	assert.Equal(t, "1h30", timecalc.FormatDurationString("90"))
	assert.Equal(t, "1h30", timecalc.FormatDurationString(" 90 "))
	assert.Equal(t, "0h00", timecalc.FormatDurationString("abc"))
	assert.Equal(t, "0h00", timecalc.FormatDurationString(""))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "02/01/2024", timecalc.FormatDate("2024-01-02"))
	assert.Equal(t, "31/12/1999", timecalc.FormatDate("1999-12-31"))
	assert.Equal(t, "garbage", timecalc.FormatDate("garbage"))
	assert.Equal(t, "2024--02", timecalc.FormatDate("2024--02"))
	assert.Equal(t, "", timecalc.FormatDate(""))
}

func TestParseDate(t *testing.T) {
	d, err := timecalc.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	_, err = timecalc.ParseDate("2023-02-29")
	assert.Error(t, err)
	_, err = timecalc.ParseDate("02/01/2024")
	assert.Error(t, err)
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "2024-03-09", timecalc.Today(now))
}
