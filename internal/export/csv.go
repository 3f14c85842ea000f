package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/timecalc"
)

var csvHeader = []string{"ID", "Date", "Employer", "Start", "End", "Break (min)", "Net (min)", "Net"}

func ToCSV(ivs []store.WorkInterval, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, iv := range ivs {
		row := []string{
			strconv.FormatInt(iv.ID, 10),
			iv.Date,
			iv.EmployerName,
			iv.StartTime,
			iv.EndTime,
			strconv.Itoa(iv.BreakMinutes),
			strconv.Itoa(iv.NetMinutes),
			timecalc.FormatDuration(iv.NetMinutes),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}
