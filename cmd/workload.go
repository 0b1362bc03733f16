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

var workloadCmd = &cobra.Command{
	Use:   "workload",
	Short: "Rolling-window recent-form scores",
	Long: `Scores recent workload over a trailing window (up to four weeks) ending
at the anchor week: opportunity volume, role share, and conversion, with an
eligibility threshold scaled to the window length.

Examples:
  workload --season 2025 --week 8 --position RB
  workload --season 2025 --week 3 --position WR   # early-season shortened window`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		season, _ := cmd.Flags().GetInt("season")
		week, _ := cmd.Flags().GetInt("week")
		positions, err := parsePositions(cmd)
		if err != nil {
			return err
		}

		svc, st, err := newService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		for _, pos := range positions {
			snaps, err := svc.Workload(ctx, season, week, pos)
			if err != nil {
				return err
			}
			zap.L().Info("workload scoring complete",
				zap.String("position", string(pos)),
				zap.Int("players", len(snaps)))
			printWorkloadTable(pos, snaps)
		}
		return nil
	},
}

func init() {
	f := workloadCmd.Flags()
	f.Int("season", 0, "season (required)")
	f.Int("week", 0, "anchor week (required)")
	f.String("position", "all", "position cohort: QB, RB, WR, TE, or all")
	_ = workloadCmd.MarkFlagRequired("season")
	_ = workloadCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(workloadCmd)
}

func printWorkloadTable(pos model.Position, snaps []model.WorkloadSnapshot) {
	fmt.Printf("\n%s (anchor week %d, %d-week window)\n", pos,
		anchorOf(snaps), windowOf(snaps))
	fmt.Printf("%-28s %-4s %5s %8s %9s %8s %-4s %-5s\n",
		"Player", "Team", "Games", "Workload", "Threshold", "Score", "Conf", "Elig")
	fmt.Println(strings.Repeat("-", 80))
	for _, s := range snaps {
		name := s.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		fmt.Printf("%-28s %-4s %5d %8.1f %9.1f %8.1f %-4s %-5v\n",
			name, s.Team, s.Games, s.Workload, s.Threshold, s.Score, s.Confidence, s.Eligible)
	}
}

func anchorOf(snaps []model.WorkloadSnapshot) int {
	if len(snaps) == 0 {
		return 0
	}
	return snaps[0].AnchorWeek
}

func windowOf(snaps []model.WorkloadSnapshot) int {
	if len(snaps) == 0 {
		return 0
	}
	return snaps[0].WindowWeeks
}
