package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
	"github.com/worklens-io/worklens/pkg/cli/config"
	"github.com/worklens-io/worklens/pkg/usecase"
)

func cmdFetch() *cli.Command {
	var (
		mondayCfg  config.Monday
		storageCfg config.Storage
		reportCfg  config.Report
	)

	flags := joinFlags(
		mondayCfg.Flags(),
		storageCfg.Flags(),
		reportCfg.Flags(),
	)

	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch the board once and store today's snapshot",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			reportOpts, err := reportCfg.Configure()
			if err != nil {
				return err
			}
			if mondayCfg.BoardID == "" {
				mondayCfg.BoardID = reportOpts.BoardID
			}

			repo, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			fetcher, err := mondayCfg.Configure()
			if err != nil {
				return err
			}

			boardUC := usecase.NewBoard(repo, fetcher, fetcher.BoardID())
			snapshot, err := boardUC.Refresh(ctx)
			if err != nil {
				return err
			}

			logger.Info("Stored board snapshot",
				slog.String("board_id", snapshot.BoardID.String()),
				slog.String("board_name", snapshot.BoardName),
				slog.String("date", snapshot.UpdatedAt.String()),
			)
			fmt.Printf("stored snapshot of %q for %s\n", snapshot.BoardName, snapshot.UpdatedAt)
			return nil
		},
	}
}
