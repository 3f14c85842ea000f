package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/timecalc"
	"github.com/spf13/pflag"
)

var errCancelled = errors.New("cancelled")

// IsCancelled reports whether err is a declined confirmation.
func IsCancelled(err error) bool { return errors.Is(err, errCancelled) }

type filterFlags struct {
	employer string
	from     string
	to       string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.employer, "employer", "", "Only entries for this employer")
	fs.StringVar(&f.from, "from", "", "Only entries on or after this date (YYYY-MM-DD)")
	fs.StringVar(&f.to, "to", "", "Only entries on or before this date (YYYY-MM-DD)")
}

// filter validates the flags and resolves the employer to its stored name.
func (f *filterFlags) filter(app *App) (aggregate.Filter, error) {
	out := aggregate.Filter{DateFrom: strings.TrimSpace(f.from), DateTo: strings.TrimSpace(f.to)}
	for flag, v := range map[string]string{"from": out.DateFrom, "to": out.DateTo} {
		if v == "" {
			continue
		}
		if _, err := timecalc.ParseDate(v); err != nil {
			return aggregate.Filter{}, fmt.Errorf("--%s: %w", flag, err)
		}
	}
	if name := strings.TrimSpace(f.employer); name != "" {
		e, ok := app.Workspace.FindEmployer(name)
		if !ok {
			return aggregate.Filter{}, fmt.Errorf("--employer: unknown employer %q", name)
		}
		out.Employer = e.Name
	}
	return out, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
