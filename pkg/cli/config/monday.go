package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/service/monday"
)

// Monday holds Monday.com API configuration
type Monday struct {
	APIKey  string
	APIURL  string
	BoardID string
}

// Flags returns CLI flags for Monday configuration
func (m *Monday) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "monday-api-key",
			Usage:       "Monday.com API key",
			Category:    "Monday",
			Sources:     cli.EnvVars("WORKLENS_MONDAY_API_KEY"),
			Destination: &m.APIKey,
		},
		&cli.StringFlag{
			Name:        "monday-api-url",
			Usage:       "Monday.com GraphQL endpoint",
			Category:    "Monday",
			Value:       monday.DefaultAPIURL,
			Sources:     cli.EnvVars("WORKLENS_MONDAY_API_URL"),
			Destination: &m.APIURL,
		},
		&cli.StringFlag{
			Name:        "monday-board-id",
			Usage:       "Monday.com board ID to track",
			Category:    "Monday",
			Sources:     cli.EnvVars("WORKLENS_MONDAY_BOARD_ID"),
			Destination: &m.BoardID,
		},
	}
}

// Configure creates and returns a Monday client, failing when the
// credential or board ID is absent. One-shot commands whose whole purpose
// is an upstream fetch use this.
func (m *Monday) Configure() (*monday.Client, error) {
	if m.APIKey == "" {
		return nil, goerr.New("Monday API key is required. Please provide WORKLENS_MONDAY_API_KEY")
	}
	if m.BoardID == "" {
		return nil, goerr.New("Monday board ID is required. Please provide WORKLENS_MONDAY_BOARD_ID")
	}
	return m.newClient(), nil
}

// ConfigureOptional creates a Monday client even when no credential is
// present. An unconfigured client fails per fetch, so a server built on it
// still serves stored snapshots, chat, and the dashboard.
func (m *Monday) ConfigureOptional(ctx context.Context) *monday.Client {
	if !m.IsConfigured() {
		ctxlog.From(ctx).Warn("Monday API is not fully configured; live board fetching is disabled",
			slog.Any("monday", *m))
	}
	return m.newClient()
}

func (m *Monday) newClient() *monday.Client {
	var opts []monday.Option
	if m.APIURL != "" {
		opts = append(opts, monday.WithAPIURL(m.APIURL))
	}
	return monday.New(m.APIKey, types.BoardID(m.BoardID), opts...)
}

// IsConfigured checks if Monday is properly configured
func (m *Monday) IsConfigured() bool {
	return m.APIKey != "" && m.BoardID != ""
}

// LogValue returns structured log value. The API key is never logged.
func (m Monday) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_api_key", m.APIKey != ""),
		slog.String("api_url", m.APIURL),
		slog.String("board_id", m.BoardID),
	)
}
