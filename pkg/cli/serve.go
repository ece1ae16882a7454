package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/worklens-io/worklens/pkg/cli/config"
	controller "github.com/worklens-io/worklens/pkg/controller/http"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/usecase"
	"github.com/worklens-io/worklens/pkg/utils/async"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		mondayCfg  config.Monday
		storageCfg config.Storage
		chatCfg    config.Chat
		reportCfg  config.Report
	)

	flags := joinFlags(
		serverCfg.Flags(),
		mondayCfg.Flags(),
		storageCfg.Flags(),
		chatCfg.Flags(),
		reportCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			reportOpts, err := reportCfg.Configure()
			if err != nil {
				return err
			}
			if len(reportOpts.MonthLabels) > 0 {
				if err := types.SetMonthColumns(reportOpts.MonthLabels); err != nil {
					return err
				}
			}
			if mondayCfg.BoardID == "" {
				mondayCfg.BoardID = reportOpts.BoardID
			}

			logger.Info("Starting worklens server",
				slog.Any("server", serverCfg),
				slog.Any("monday", mondayCfg),
				slog.Any("storage", storageCfg),
				slog.Any("chat", chatCfg),
				slog.Any("report", reportCfg),
			)

			repo, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			// A missing Monday credential disables live fetching only;
			// stored snapshots, chat and the dashboard still serve.
			fetcher := mondayCfg.ConfigureOptional(ctx)

			chatClients, err := chatCfg.Configure(ctx)
			if err != nil {
				return err
			}

			boardUC := usecase.NewBoard(repo, fetcher, fetcher.BoardID())
			chatUC := usecase.NewChat(repo, chatClients)
			authUC := usecase.NewAuth(repo, serverCfg.UserName, serverCfg.Password)

			server, err := controller.NewServer(
				ctx,
				serverCfg.Addr,
				boardUC,
				chatUC,
				authUC,
				controller.WithFTEHours(reportOpts.FTEHours),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Warm the snapshot cache so the first page load is fast
			if mondayCfg.IsConfigured() {
				async.Dispatch(ctx, func(ctx context.Context) error {
					_, err := boardUC.Refresh(ctx)
					return err
				})
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
