package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rosterlab/scout-cli/internal/model"
)

var deltaCmd = &cobra.Command{
	Use:   "delta",
	Short: "Buy-low / sell-high signals from score divergence",
	Long: `Reconciles the season-long composite against the rolling workload score.
Players whose recent workload outruns their composite flag BUY_LOW; the
reverse flags SELL_HIGH. Quarterbacks are excluded until a pass conversion
pillar exists.

Examples:
  delta --season 2025 --week 8 --position WR
  delta --season 2025 --week 8 --position RB --trend 4   # per-week fold`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		season, _ := cmd.Flags().GetInt("season")
		week, _ := cmd.Flags().GetInt("week")
		trend, _ := cmd.Flags().GetInt("trend")
		posStr, _ := cmd.Flags().GetString("position")
		modeStr, _ := cmd.Flags().GetString("mode")

		pos, err := model.ParsePosition(posStr)
		if err != nil {
			return err
		}
		mode, err := model.ParseMode(modeStr)
		if err != nil {
			return err
		}

		svc, st, err := newService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if trend > 1 {
			folds, err := svc.Trend(ctx, season, week, trend, pos, mode)
			if err != nil {
				return err
			}
			for _, fold := range folds {
				fmt.Printf("\n=== Week %d ===\n", fold.Week)
				printDeltaTable(fold.Records)
			}
			return nil
		}

		records, err := svc.Delta(ctx, season, week, pos, mode)
		if err != nil {
			return err
		}
		zap.L().Info("delta reconciliation complete",
			zap.String("position", string(pos)),
			zap.Int("players", len(records)))
		printDeltaTable(records)
		return nil
	},
}

func init() {
	f := deltaCmd.Flags()
	f.Int("season", 0, "season (required)")
	f.Int("week", 0, "anchor week (required)")
	f.String("position", "", "position cohort: RB, WR, or TE (required)")
	f.String("mode", "dynasty", "pillar weighting mode: dynasty or redraft")
	f.Int("trend", 0, "fold the signal over the trailing N anchor weeks")
	_ = deltaCmd.MarkFlagRequired("season")
	_ = deltaCmd.MarkFlagRequired("week")
	_ = deltaCmd.MarkFlagRequired("position")
	rootCmd.AddCommand(deltaCmd)
}

func printDeltaTable(records []model.DeltaRecord) {
	fmt.Printf("%-28s %-4s %-9s %8s %9s %7s %-4s %s\n",
		"Player", "Team", "Signal", "Strength", "DisplayΔ", "ZΔ", "Conf", "Rationale")
	fmt.Println(strings.Repeat("-", 110))
	for _, r := range records {
		name := r.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		fmt.Printf("%-28s %-4s %-9s %8.2f %9.1f %7.2f %-4s %s\n",
			name, r.Team, r.Direction, r.Strength, r.DisplayDelta, r.ZDelta, r.Confidence, r.Rationale)
	}
}
