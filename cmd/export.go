package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rosterlab/scout-cli/internal/export"
	"github.com/rosterlab/scout-cli/internal/model"
	"github.com/rosterlab/scout-cli/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved score snapshots to CSV or XLSX",
	Long: `Reads previously saved score snapshots (score --save) and writes them to
a file. XLSX output gets one sheet per position.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		season, _ := cmd.Flags().GetInt("season")
		week, _ := cmd.Flags().GetInt("week")
		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		posStr, _ := cmd.Flags().GetString("position")

		filter := store.ScoreFilter{Season: season, Week: week}
		if posStr != "" && posStr != "all" {
			pos, err := model.ParsePosition(posStr)
			if err != nil {
				return err
			}
			filter.Position = pos
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snaps, err := st.ListScores(ctx, filter)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			return eris.Errorf("export: no saved scores for season %d week %d (run 'score --save' first)", season, week)
		}

		results := make([]model.CompositeResult, len(snaps))
		for i, s := range snaps {
			results[i] = s.Result
		}

		switch format {
		case "csv":
			f, err := os.Create(outputPath)
			if err != nil {
				return eris.Wrapf(err, "export: create %s", outputPath)
			}
			defer f.Close() //nolint:errcheck
			if err := export.WriteCSV(f, results); err != nil {
				return err
			}
		case "xlsx":
			if err := export.WriteXLSX(outputPath, results); err != nil {
				return err
			}
		default:
			return eris.Errorf("export: --format must be csv or xlsx (got %q)", format)
		}

		zap.L().Info("export complete",
			zap.Int("rows", len(results)),
			zap.String("format", format),
			zap.String("output", outputPath))
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.Int("season", 0, "season (required)")
	f.Int("week", 0, "week (required)")
	f.String("position", "all", "position filter: QB, RB, WR, TE, or all")
	f.String("format", "csv", "output format: csv or xlsx")
	f.String("output", "", "output file path (required)")
	_ = exportCmd.MarkFlagRequired("season")
	_ = exportCmd.MarkFlagRequired("week")
	_ = exportCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(exportCmd)
}
