package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/worklens-io/worklens/pkg/service/report"
	"gopkg.in/yaml.v3"
)

// Report holds aggregation configuration. An optional YAML options file
// supplies defaults (board id, FTE hours, month labels); flags override
// the file.
type Report struct {
	ConfigPath string
	FTEHours   float64
}

// ReportOptions is the resolved aggregation configuration
type ReportOptions struct {
	BoardID     string
	FTEHours    float64
	MonthLabels []string
}

// reportFile is the YAML shape of the options file
type reportFile struct {
	BoardID     string   `yaml:"board_id"`
	FTEHours    float64  `yaml:"fte_hours"`
	MonthLabels []string `yaml:"month_labels"`
}

// Flags returns CLI flags for Report configuration
func (r *Report) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "report-config",
			Usage:       "Path to YAML report options file (board_id, fte_hours, month_labels)",
			Category:    "Report",
			Sources:     cli.EnvVars("WORKLENS_REPORT_CONFIG"),
			Destination: &r.ConfigPath,
		},
		&cli.FloatFlag{
			Name:        "fte-hours",
			Usage:       "Monthly full-time-equivalent hours used for M/M (overrides the options file)",
			Category:    "Report",
			Sources:     cli.EnvVars("WORKLENS_FTE_HOURS"),
			Destination: &r.FTEHours,
		},
	}
}

// Configure resolves the options file and flag overrides. Precedence per
// field: explicit flag, then file, then built-in default.
func (r *Report) Configure() (*ReportOptions, error) {
	opts := &ReportOptions{FTEHours: report.DefaultFTEHours}

	if r.ConfigPath != "" {
		raw, err := os.ReadFile(r.ConfigPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read report options file",
				goerr.V("path", r.ConfigPath))
		}
		var file reportFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, goerr.Wrap(err, "failed to parse report options file",
				goerr.V("path", r.ConfigPath))
		}
		opts.BoardID = file.BoardID
		opts.MonthLabels = file.MonthLabels
		if file.FTEHours != 0 {
			opts.FTEHours = file.FTEHours
		}
	}

	if r.FTEHours != 0 {
		opts.FTEHours = r.FTEHours
	}

	if opts.FTEHours <= 0 {
		return nil, goerr.New("fte-hours must be positive",
			goerr.V("fte_hours", opts.FTEHours))
	}
	return opts, nil
}

// LogValue returns structured log value
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config_path", r.ConfigPath),
		slog.Float64("fte_hours", r.FTEHours),
	)
}
