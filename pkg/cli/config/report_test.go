package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/worklens-io/worklens/pkg/cli/config"
)

func writeOptionsFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.yml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReportConfigureDefaults(t *testing.T) {
	var cfg config.Report

	opts, err := cfg.Configure()
	gt.NoError(t, err)
	gt.Equal(t, opts.FTEHours, 143.5)
	gt.Equal(t, opts.BoardID, "")
	gt.Equal(t, len(opts.MonthLabels), 0)
}

func TestReportConfigureFromFile(t *testing.T) {
	cfg := config.Report{ConfigPath: writeOptionsFile(t, `
board_id: "1234567890"
fte_hours: 160
month_labels: [Jan, Feb, Mar, Apr, May, Jun, Jul, Aug, Sep, Oct, Nov, Dec]
`)}

	opts, err := cfg.Configure()
	gt.NoError(t, err)
	gt.Equal(t, opts.BoardID, "1234567890")
	gt.Equal(t, opts.FTEHours, 160.0)
	gt.Equal(t, len(opts.MonthLabels), 12)
	gt.Equal(t, opts.MonthLabels[0], "Jan")
	gt.Equal(t, opts.MonthLabels[11], "Dec")
}

func TestReportFlagOverridesFile(t *testing.T) {
	cfg := config.Report{
		ConfigPath: writeOptionsFile(t, "fte_hours: 160\n"),
		FTEHours:   150,
	}

	opts, err := cfg.Configure()
	gt.NoError(t, err)
	gt.Equal(t, opts.FTEHours, 150.0)
}

func TestReportConfigureErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := config.Report{ConfigPath: filepath.Join(t.TempDir(), "absent.yml")}
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		cfg := config.Report{ConfigPath: writeOptionsFile(t, "fte_hours: [not a number\n")}
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("non-positive fte from flag", func(t *testing.T) {
		cfg := config.Report{FTEHours: -1}
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("non-positive fte from file", func(t *testing.T) {
		cfg := config.Report{ConfigPath: writeOptionsFile(t, "fte_hours: -5\n")}
		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}
