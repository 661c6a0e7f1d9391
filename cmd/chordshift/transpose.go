package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-chords/algorithms/chart"
)

func newTransposeCmd(a *app) *cobra.Command {
	var (
		from, to string
		file     string
		over     bool
	)

	cmd := &cobra.Command{
		Use:   "transpose [chord...]",
		Short: "Transpose chord symbols, or a chart read from a file or stdin",
		Example: `  chordshift transpose --from C --to D C/E Am7
  chordshift transpose --from G --to Bb --spelling key --file hymn.txt
  cat hymn.txt | chordshift transpose --from C --to A --over`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.transposer(from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				_, err := fmt.Fprintln(out, strings.Join(t.Symbols(args), " "))
				return err
			}

			text, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			if over {
				_, err := fmt.Fprintln(out, t.Sheet(chart.ParseInline(strings.TrimRight(text, "\n"))).ChordsOverLyrics())
				return err
			}
			_, err = fmt.Fprint(out, t.Block(text))
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "key the chords are written in")
	cmd.Flags().StringVar(&to, "to", "", "key to transpose to")
	cmd.Flags().StringVarP(&file, "file", "f", "", "chart file (default stdin)")
	cmd.Flags().BoolVar(&over, "over", false, "print inline [C]chords above the lyrics")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
