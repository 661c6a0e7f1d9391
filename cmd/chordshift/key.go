package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-chords/algorithms/chart"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
)

func newKeyCmd(a *app) *cobra.Command {
	var (
		file    string
		profile string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "key [chord...]",
		Short: "Estimate the key of a chord progression",
		Example: `  chordshift key C F G7 C Am F G C
  chordshift key --profile temperley --file hymn.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := tonal.ParseKeyProfile(profile)
			if err != nil {
				return err
			}

			chords := args
			if len(chords) == 0 {
				text, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				detection, err := a.cfg.DetectionValue()
				if err != nil {
					return err
				}
				chords = chart.ChordsInBlock(text, detection)
			}

			params := tonal.DefaultKeyEstimationParams()
			params.Profile = p
			result, err := tonal.NewKeyEstimatorWithParams(params).EstimateKey(chords)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			fmt.Fprintf(out, "%s (correlation %.3f, clarity %.3f)\n", result.Key, result.Correlation, result.Clarity)
			for _, c := range result.Candidates[1:] {
				fmt.Fprintf(out, "  %-10s %.3f\n", c.Key, c.Correlation)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "chart file to take chords from (default stdin)")
	cmd.Flags().StringVar(&profile, "profile", "krumhansl", "key profile: krumhansl, temperley or diatonic")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full estimate as JSON")
	return cmd
}
