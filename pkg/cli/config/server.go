package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// Server holds HTTP server configuration, including the demo login
// credentials the dashboard UI authenticates against.
type Server struct {
	Addr     string
	UserName string
	Password string
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Category:    "Server",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("WORKLENS_ADDR"),
			Destination: &s.Addr,
		},
		&cli.StringFlag{
			Name:        "user",
			Usage:       "Demo login user name",
			Category:    "Server",
			Value:       "demo",
			Sources:     cli.EnvVars("WORKLENS_USER"),
			Destination: &s.UserName,
		},
		&cli.StringFlag{
			Name:        "password",
			Usage:       "Demo login password",
			Category:    "Server",
			Value:       "demo",
			Sources:     cli.EnvVars("WORKLENS_PASSWORD"),
			Destination: &s.Password,
		},
	}
}

// LogValue returns structured log value. The password is never logged.
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.String("user", s.UserName),
		slog.Bool("has_password", s.Password != ""),
	)
}
