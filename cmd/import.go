package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rosterlab/scout-cli/internal/ingest"
)

var (
	importCSVPath string
	importSeason  int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import weekly player stats from CSV",
	Long: `Reads a weekly stats CSV and upserts it into the store.

The file must carry a header with at least player_id, name, position, and
week. Every other column is treated as a numeric metric. Re-importing a
week replaces existing rows, so corrected stat feeds win.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		f, err := os.Open(importCSVPath)
		if err != nil {
			return eris.Wrapf(err, "import: open %s", importCSVPath)
		}
		defer f.Close() //nolint:errcheck

		weeks, err := ingest.ReadWeeks(ctx, f, importSeason)
		if err != nil {
			return err
		}

		n, err := st.ImportWeeks(ctx, weeks)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.Int64("rows", n),
			zap.Int("season", importSeason),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to weekly stats CSV (required)")
	importCmd.Flags().IntVar(&importSeason, "season", 0, "season for rows without a season column (required)")
	_ = importCmd.MarkFlagRequired("csv")
	_ = importCmd.MarkFlagRequired("season")
	rootCmd.AddCommand(importCmd)
}
