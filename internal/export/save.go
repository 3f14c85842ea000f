package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/timecalc"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported formats in menu order.
var Formats = []Format{FormatCSV, FormatJSON, FormatPDF}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q: use csv, json or pdf", s)
}

// SaveFiltered writes the intervals of a filtered view into dir and returns
// the file path. ivs is expected to already match f; PDF output describes f
// in its header.
func SaveFiltered(ivs []store.WorkInterval, f aggregate.Filter, format Format, dir string, now time.Time) (string, error) {
	if format == FormatPDF {
		return SavePDF(FilteredStatement(ivs, f, now), dir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("hours-filtered-%s.%s", timecalc.Today(now), format))

	var err error
	switch format {
	case FormatCSV:
		err = ToCSV(ivs, path)
	case FormatJSON:
		err = ToJSON(ivs, path)
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
