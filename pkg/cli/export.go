package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/worklens-io/worklens/pkg/cli/config"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/service/excel"
	"github.com/worklens-io/worklens/pkg/service/report"
)

func cmdExport() *cli.Command {
	var (
		mondayCfg  config.Monday
		storageCfg config.Storage
		reportCfg  config.Report

		date   string
		output string
		layout string
	)

	flags := joinFlags(
		mondayCfg.Flags(),
		storageCfg.Flags(),
		reportCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "date",
				Usage:       "Snapshot date to export (YYYY-MM-DD, default latest)",
				Destination: &date,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output file path (default <board>_<date>.xlsx)",
				Destination: &output,
			},
			&cli.StringFlag{
				Name:        "layout",
				Usage:       "Sheet layout (expanded, flat)",
				Value:       "expanded",
				Destination: &layout,
			},
		},
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Export a stored snapshot as an xlsx workbook",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
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
			if mondayCfg.BoardID == "" {
				return goerr.New("Monday board ID is required. Please provide WORKLENS_MONDAY_BOARD_ID")
			}
			boardID := types.BoardID(mondayCfg.BoardID)

			repo, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			var snapshot *model.Snapshot
			if date == "" {
				snapshot, err = repo.GetLatestSnapshot(ctx, boardID)
			} else {
				var snapshotDate types.SnapshotDate
				snapshotDate, err = types.ParseSnapshotDate(date)
				if err != nil {
					return goerr.Wrap(err, "invalid date", goerr.V("date", date))
				}
				snapshot, err = repo.GetSnapshotByDate(ctx, boardID, snapshotDate)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to load snapshot",
					goerr.V("board_id", boardID), goerr.V("date", date))
			}

			opts := []excel.Option{excel.WithFTEHours(reportOpts.FTEHours)}
			switch layout {
			case "expanded", "":
			case "flat":
				opts = append(opts, excel.WithLayout(excel.LayoutFlat))
			default:
				return goerr.New("invalid layout", goerr.V("layout", layout))
			}

			if output == "" {
				output = excel.Filename(snapshot.BoardName, snapshot.UpdatedAt)
			}

			stats := report.Aggregate(snapshot.Board.Groups)
			if err := excel.NewExporter(opts...).WriteFile(output, stats); err != nil {
				return goerr.Wrap(err, "failed to write workbook", goerr.V("path", output))
			}

			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}
}
