package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/worklens-io/worklens/pkg/domain/interfaces"
	"github.com/worklens-io/worklens/pkg/repository"
)

// Storage holds persistence configuration. Firestore takes precedence over
// SQLite; with neither configured an in-memory repository is used.
type Storage struct {
	FirestoreProject  string
	FirestoreDatabase string
	SQLitePath        string
}

// Flags returns CLI flags for Storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Storage",
			Sources:     cli.EnvVars("WORKLENS_FIRESTORE_PROJECT"),
			Destination: &s.FirestoreProject,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Storage",
			Value:       "(default)",
			Sources:     cli.EnvVars("WORKLENS_FIRESTORE_DATABASE"),
			Destination: &s.FirestoreDatabase,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "Path to SQLite database file",
			Category:    "Storage",
			Sources:     cli.EnvVars("WORKLENS_SQLITE_PATH"),
			Destination: &s.SQLitePath,
		},
	}
}

// Configure creates and returns a repository based on configuration
func (s *Storage) Configure(ctx context.Context) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	switch {
	case s.FirestoreProject != "":
		repo, err := repository.NewFirestore(ctx, s.FirestoreProject, s.FirestoreDatabase)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init firestore",
				goerr.V("project", s.FirestoreProject),
				goerr.V("database", s.FirestoreDatabase),
			)
		}
		return repo, nil

	case s.SQLitePath != "":
		repo, err := repository.NewSQLite(ctx, s.SQLitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init sqlite",
				goerr.V("path", s.SQLitePath),
			)
		}
		return repo, nil

	default:
		logger.Warn("Using memory database instead of firestore or sqlite. The data will be removed when shutting down")
		return repository.NewMemory(), nil
	}
}

// IsConfigured checks if a persistent backend is configured
func (s *Storage) IsConfigured() bool {
	return s.FirestoreProject != "" || s.SQLitePath != ""
}

// LogValue returns structured log value
func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("firestore_project", s.FirestoreProject),
		slog.String("firestore_database", s.FirestoreDatabase),
		slog.String("sqlite_path", s.SQLitePath),
	)
}
