package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/export"
	"github.com/sadopc/workhours/internal/timecalc"
)

type summaryModel struct {
	sh     *shared
	width  int
	height int

	summary aggregate.Summary
	cursor  int

	chart barchart.Model
}

func newSummaryModel(sh *shared) summaryModel {
	return summaryModel{
		sh:    sh,
		chart: barchart.New(60, 12),
	}
}

func (s *summaryModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.buildChart()
}

func (s *summaryModel) load() {
	s.summary = s.sh.ws.Summary(aggregate.Filter{})
	s.cursor = clampCursor(s.cursor, len(s.summary.ByEmployer))
	s.buildChart()
}

func (s summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(km, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(km, keys.Down):
		if s.cursor < len(s.summary.ByEmployer)-1 {
			s.cursor++
		}
	case key.Matches(km, keys.Statement), key.Matches(km, keys.Enter):
		if s.cursor < len(s.summary.ByEmployer) {
			return s, s.exportStatement(s.summary.ByEmployer[s.cursor].Employer)
		}
	}
	return s, nil
}

// exportStatement writes the PDF statement of one employer.
func (s summaryModel) exportStatement(employer string) tea.Cmd {
	sh := s.sh
	return func() tea.Msg {
		st := export.EmployerStatement(employer, sh.ws.Intervals(), sh.now())
		path, err := export.SavePDF(st, sh.exportDir)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("PDF error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (s *summaryModel) buildChart() {
	chartWidth := max(20, s.width-8)
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	colors := s.sh.styles.barColors()
	var bars []barchart.BarData
	for i, t := range s.summary.ByEmployer {
		bars = append(bars, barchart.BarData{
			Label: truncateName(t.Employer, 10),
			Values: []barchart.BarValue{{
				Name:  t.Employer,
				Value: float64(t.Minutes) / 60,
				Style: lipgloss.NewStyle().Foreground(colors[i%len(colors)]),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s summaryModel) view() string {
	st := s.sh.styles
	w := s.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		st.title.Render("Summary"), "  ",
		st.total.Render("All time: "+timecalc.FormatDuration(s.summary.Overall)),
	)

	if len(s.summary.ByEmployer) == 0 {
		return st.panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", st.muted.Render("No hours recorded yet."),
		))
	}

	return st.panel.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", s.chart.View(), "", s.renderTable(w), "",
			st.muted.Render("  ↑/↓: select  p: PDF statement for employer"),
		),
	)
}

func (s summaryModel) renderTable(w int) string {
	st := s.sh.styles
	colors := st.barColors()

	rows := []string{
		st.muted.Render(fmt.Sprintf("  %-24s %8s %10s", "Employer", "Entries", "Total")),
		st.muted.Render("  " + strings.Repeat("─", min(max(w-6, 0), 44))),
	}
	for i, t := range s.summary.ByEmployer {
		dot := lipgloss.NewStyle().Foreground(colors[i%len(colors)]).Render("●")
		cursor := "  "
		style := st.normalItem
		if i == s.cursor {
			cursor = "> "
			style = st.selectedItem
		}
		rows = append(rows, cursor+dot+style.Render(fmt.Sprintf(" %-22s %8d %10s",
			truncateName(t.Employer, 22), t.Entries, timecalc.FormatDuration(t.Minutes))))
	}
	return strings.Join(rows, "\n")
}
