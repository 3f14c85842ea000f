package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/sadopc/workhours/internal/timecalc"
)

// Page geometry in millimetres on A4 portrait.
const (
	marginLeft   = 20.0
	marginRight  = 190.0
	pageTop      = 20.0
	pageBottom   = 270.0
	rowHeight    = 8.0
	subtitleStep = 7.0
)

type placement struct {
	page int
	y    float64
}

// layoutRows assigns n table rows to pages, starting at y on page 1. A row
// that would start below pageBottom moves to the top of a new page. It
// returns the placements plus the page and y where the table ends.
func layoutRows(n int, y float64) ([]placement, int, float64) {
	page := 1
	rows := make([]placement, 0, n)
	for range n {
		if y > pageBottom {
			page++
			y = pageTop
		}
		rows = append(rows, placement{page: page, y: y})
		y += rowHeight
	}
	return rows, page, y
}

// WritePDF renders st to w and returns the number of pages written.
func WritePDF(st Statement, w io.Writer) (int, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 20)
	pdf.Text(marginLeft, 20, tr(st.Title))

	pdf.SetFont("Helvetica", "", 10)
	subY := 30.0
	for _, line := range st.Subtitle {
		pdf.Text(marginLeft, subY, tr(line))
		subY += subtitleStep
	}

	pdf.SetFont("Helvetica", "", 14)
	pdf.Text(marginLeft, subY+7, "Total: "+timecalc.FormatDuration(st.TotalMinutes))

	y := subY + 22
	pdf.SetFont("Helvetica", "B", 10)
	for _, col := range st.Columns {
		pdf.Text(col.X, y, tr(col.Header))
	}
	pdf.Line(marginLeft, y+2, marginRight, y+2)
	y += 10

	pdf.SetFont("Helvetica", "", 10)
	placements, _, endY := layoutRows(len(st.Rows), y)
	for i, row := range st.Rows {
		if placements[i].page > pdf.PageNo() {
			pdf.AddPage()
		}
		for c, col := range st.Columns {
			if c < len(row) {
				pdf.Text(col.X, placements[i].y, tr(row[c]))
			}
		}
	}

	y = endY
	pdf.Line(marginLeft, y, marginRight, y)
	y += 10
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(150, y, "TOTAL:")
	pdf.Text(175, y, timecalc.FormatDuration(st.TotalMinutes))

	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("render pdf: %w", err)
	}
	return pdf.PageCount(), nil
}

// SavePDF writes st into dir under its own file name and returns the path.
func SavePDF(st Statement, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, st.Filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create pdf file: %w", err)
	}
	defer f.Close()

	if _, err := WritePDF(st, f); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close pdf file: %w", err)
	}
	return path, nil
}
