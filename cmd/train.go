package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rosterlab/scout-cli/internal/model"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit projection coefficients from a stored season",
	Long: `Fits per-position regression coefficients: first-half season aggregates
predict mean fantasy points per game over the remaining weeks. Positions
with too few qualifying rows keep the hand-tuned fallback coefficients.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		season, _ := cmd.Flags().GetInt("season")

		svc, st, err := newService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		coeffs, err := svc.Train(ctx, season)
		if err != nil {
			return err
		}

		zap.L().Info("training complete", zap.Int("season", season))

		for _, pos := range model.Positions {
			c := coeffs[pos]
			fmt.Printf("\n%s  (source=%s", pos, c.Source)
			if c.Source == model.CoeffSourceFit {
				fmt.Printf(", samples=%d, r2=%.3f", c.Samples, c.R2)
			}
			fmt.Println(")")
			fmt.Printf("  %-20s %10.4f\n", "intercept", c.Intercept)

			features := make([]string, 0, len(c.Weights))
			for f := range c.Weights {
				features = append(features, f)
			}
			sort.Strings(features)
			for _, f := range features {
				fmt.Printf("  %-20s %10.4f\n", f, c.Weights[f])
			}
		}
		fmt.Println(strings.Repeat("-", 34))
		return nil
	},
}

func init() {
	trainCmd.Flags().Int("season", 0, "season to fit from (required)")
	_ = trainCmd.MarkFlagRequired("season")
	rootCmd.AddCommand(trainCmd)
}
