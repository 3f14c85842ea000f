package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/timecalc"
)

type jsonExport struct {
	ExportedAt   string         `json:"exported_at"`
	Count        int            `json:"count"`
	TotalMinutes int            `json:"total_minutes"`
	Total        string         `json:"total"`
	Intervals    []jsonInterval `json:"intervals"`
}

type jsonInterval struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	Employer     string `json:"employer"`
	EmployerID   int64  `json:"employer_id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
	NetMinutes   int    `json:"net_minutes"`
	Net          string `json:"net"`
}

func ToJSON(ivs []store.WorkInterval, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(ivs),
	}

	for _, iv := range ivs {
		export.TotalMinutes += iv.NetMinutes
		export.Intervals = append(export.Intervals, jsonInterval{
			ID:           iv.ID,
			Date:         iv.Date,
			Employer:     iv.EmployerName,
			EmployerID:   iv.EmployerID,
			StartTime:    iv.StartTime,
			EndTime:      iv.EndTime,
			BreakMinutes: iv.BreakMinutes,
			NetMinutes:   iv.NetMinutes,
			Net:          timecalc.FormatDuration(iv.NetMinutes),
		})
	}
	export.Total = timecalc.FormatDuration(export.TotalMinutes)

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
