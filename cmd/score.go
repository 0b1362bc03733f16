package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rosterlab/scout-cli/internal/export"
	"github.com/rosterlab/scout-cli/internal/model"
	"github.com/rosterlab/scout-cli/internal/pipeline"
	"github.com/rosterlab/scout-cli/internal/scoring/calibrate"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score position cohorts on season-to-date data",
	Long: `Fuses volume, efficiency, role, stability, and context pillars into a
calibrated 0-100 composite per position, with guardrails and proven-elite
floors applied, and a 1-99 display rating.

Examples:
  # Dynasty scores for all receivers through week 6
  score --season 2025 --week 6 --position WR

  # All positions, redraft weighting, saved to the score history
  score --season 2025 --week 6 --position all --mode redraft --save

  # Export to CSV with pillar breakdowns attached
  score --season 2025 --week 6 --position WR --debug --format csv --output wr.csv`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.Int("season", 0, "season to score (required)")
	f.Int("week", 0, "score on data through this week (required)")
	f.String("position", "all", "position cohort: QB, RB, WR, TE, or all")
	f.String("mode", "dynasty", "pillar weighting mode: dynasty or redraft")
	f.String("format", "table", "output format: table, csv, or xlsx")
	f.String("output", "", "output file path (default: stdout; required for xlsx)")
	f.Bool("save", false, "save results to the score history")
	f.Bool("debug", false, "attach pillar breakdowns to each result")

	_ = scoreCmd.MarkFlagRequired("season")
	_ = scoreCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	season, _ := cmd.Flags().GetInt("season")
	week, _ := cmd.Flags().GetInt("week")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")
	debug, _ := cmd.Flags().GetBool("debug")

	positions, err := parsePositions(cmd)
	if err != nil {
		return err
	}
	modeStr, _ := cmd.Flags().GetString("mode")
	mode, err := model.ParseMode(modeStr)
	if err != nil {
		return err
	}
	if format != "table" && format != "csv" && format != "xlsx" {
		return eris.Errorf("score: --format must be table, csv, or xlsx (got %q)", format)
	}
	if format == "xlsx" && outputPath == "" {
		return eris.New("score: --output is required with --format xlsx")
	}

	svc, st, err := newService(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	log := zap.L().With(zap.String("command", "score"),
		zap.Int("season", season), zap.Int("week", week))

	// Score cohorts concurrently; each position is an independent cohort.
	var mu sync.Mutex
	var all []model.CompositeResult
	g, gctx := errgroup.WithContext(ctx)
	for _, pos := range positions {
		g.Go(func() error {
			results, err := svc.ScoreWeek(gctx, pipeline.ScoreRequest{
				Season: season, Week: week, Position: pos, Mode: mode, Debug: debug,
			})
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, results...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Stable presentation order: position groups, then rank.
	sort.Slice(all, func(i, j int) bool {
		if all[i].Position != all[j].Position {
			return all[i].Position < all[j].Position
		}
		return all[i].Rank < all[j].Rank
	})

	log.Info("scoring complete", zap.Int("players", len(all)))

	if err := outputResults(all, format, outputPath); err != nil {
		return err
	}
	if save && len(all) > 0 {
		if err := svc.SaveScores(ctx, season, week, all); err != nil {
			return eris.Wrap(err, "score: save")
		}
		fmt.Printf("Saved %d scores to the score history\n", len(all))
	}

	printTierSummary(all)
	return nil
}

func parsePositions(cmd *cobra.Command) ([]model.Position, error) {
	raw, _ := cmd.Flags().GetString("position")
	if strings.EqualFold(raw, "all") {
		return model.Positions, nil
	}
	pos, err := model.ParsePosition(raw)
	if err != nil {
		return nil, err
	}
	return []model.Position{pos}, nil
}

func outputResults(results []model.CompositeResult, format, outputPath string) error {
	if format == "xlsx" {
		return export.WriteXLSX(outputPath, results)
	}

	var w *os.File
	if outputPath != "" {
		var err error
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "score: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch format {
	case "csv":
		return export.WriteCSV(w, results)
	case "table":
		return writeScoreTable(w, results)
	default:
		return eris.Errorf("score: unsupported format %q", format)
	}
}

func writeScoreTable(w *os.File, results []model.CompositeResult) error {
	header := fmt.Sprintf("%-4s %-4s %-28s %-4s %9s %7s %-12s %s\n",
		"Pos", "Rank", "Player", "Team", "Composite", "Rating", "Tier", "Badges")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "score: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 85)); err != nil {
		return eris.Wrap(err, "score: write table separator")
	}

	for _, r := range results {
		name := r.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		line := fmt.Sprintf("%-4s %-4d %-28s %-4s %9.1f %7d %-12s %s\n",
			r.Position, r.Rank, name, r.Team, r.Composite, r.Overall, r.Tier,
			strings.Join(r.Badges, ","))
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "score: write table row")
		}
	}
	return nil
}

func printTierSummary(results []model.CompositeResult) {
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	dist := calibrate.TierDistribution(results)

	labels := make([]string, 0, len(dist))
	for label := range dist {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Printf("\n--- Tier distribution (%d players) ---\n", len(results))
	for _, label := range labels {
		fmt.Printf("%-14s %5.1f%%\n", label, dist[label]*100)
	}
}
