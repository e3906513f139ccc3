package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/notnil/chess"
	"github.com/ppiankov/enginetools/internal/label"
	"github.com/spf13/cobra"
)

var labelValidate bool

// labelCmd represents the label command
var labelCmd = &cobra.Command{
	Use:   "label <input.fen> [output.epd]",
	Short: "Label an existing pgn-extract FEN file with game results",
	Long: `Label rewrites a pgn-extract -Wfen file into tuner EPD:
- [Result "..."] headers set the result for the positions that follow
- Other headers and blank lines are dropped
- Every position becomes "<fen>; c0 <result>"

A position that appears before any Result header is an error.
The output defaults to the input path with an .epd extension.

Example:
  enginetools label games.fen
  enginetools label games.fen train.epd --validate`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLabel,
}

func init() {
	rootCmd.AddCommand(labelCmd)

	labelCmd.Flags().BoolVar(&labelValidate, "validate", false, "reject positions that are not valid FEN")
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	in := args[0]
	out := strings.TrimSuffix(in, filepath.Ext(in)) + ".epd"
	if len(args) == 2 {
		out = args[1]
	}
	if out == in {
		return fmt.Errorf("output path must differ from input: %s", in)
	}

	stats, err := label.ConvertFile(in, out, label.Options{ValidateFEN: labelValidate})
	if err != nil {
		return fmt.Errorf("label failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Wrote %s (%d positions, %d games)\n", out, stats.Positions, stats.Games)
	if cfg.Output.Verbose {
		for _, o := range []chess.Outcome{chess.WhiteWon, chess.BlackWon, chess.Draw, chess.NoOutcome} {
			fmt.Fprintf(os.Stderr, "    %-10s %d\n", o, stats.Outcomes[o])
		}
	}
	for _, o := range nonStandardOutcomes(stats) {
		fmt.Fprintf(os.Stderr, "Warning: %d positions carry non-standard result %q\n", stats.Outcomes[o], o)
	}

	return nil
}

// nonStandardOutcomes returns the result tokens outside 1-0, 0-1, 1/2-1/2
// and *, sorted
func nonStandardOutcomes(stats label.Stats) []chess.Outcome {
	var out []chess.Outcome
	for o := range stats.Outcomes {
		if !label.Known(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
