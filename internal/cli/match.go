package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/enginetools/internal/match"
	"github.com/ppiankov/enginetools/internal/model"
	"github.com/ppiankov/enginetools/internal/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	matchEngines []string
	matchNames   []string
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Play two engines against each other with c-chess-cli",
	Long: `Match launches one c-chess-cli run between two engine participants:
- Both engines get the same time control (<seconds>+<increment>)
- Games are written to a PGN file by c-chess-cli
- The executed command line is printed once the match finishes

Give --engine once for self-play, or twice for two different builds.

Example:
  enginetools match --engine ./target/release/snowhead
  enginetools match --engine ./new --engine ./base --name new --name base --tc 10+0.1
  enginetools match --cli ~/engines/c-chess-cli --pgn run.pgn --games 200 --concurrency 4`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("cli", "c-chess-cli", "c-chess-cli executable")
	matchCmd.Flags().StringArrayVar(&matchEngines, "engine", nil, "engine command (repeat for the second engine)")
	matchCmd.Flags().StringArrayVar(&matchNames, "name", nil, "engine display name (same order as --engine)")
	matchCmd.Flags().String("tc", "1+0.1", "time control <seconds>+<increment>")
	matchCmd.Flags().String("pgn", "test.pgn", "PGN output path")
	matchCmd.Flags().Int("games", 0, "number of games (0 = c-chess-cli default)")
	matchCmd.Flags().Int("concurrency", 0, "games played in parallel by c-chess-cli (0 = default)")

	_ = viper.BindPFlag("match.cli", matchCmd.Flags().Lookup("cli"))
	_ = viper.BindPFlag("match.time_control", matchCmd.Flags().Lookup("tc"))
	_ = viper.BindPFlag("match.pgn", matchCmd.Flags().Lookup("pgn"))
	_ = viper.BindPFlag("match.games", matchCmd.Flags().Lookup("games"))
	_ = viper.BindPFlag("match.concurrency", matchCmd.Flags().Lookup("concurrency"))
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engines, err := engineFlags(cfg.Match.Engines, matchEngines, matchNames)
	if err != nil {
		return err
	}
	cfg.Match.Engines = engines

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Match: %s vs %s\n", cfg.Match.Engines[0].Cmd, cfg.Match.Engines[1].Cmd)
		fmt.Fprintf(os.Stderr, "Time control: %s\n", cfg.Match.TimeControl)
		fmt.Fprintf(os.Stderr, "PGN: %s\n", cfg.Match.PGN)
		fmt.Fprintln(os.Stderr)
	}

	m := match.NewRunner(runner.New())
	line, err := m.Run(cmd.Context(), cfg.Match)
	if err != nil {
		return err
	}

	fmt.Println(line)
	return nil
}

// engineFlags merges --engine/--name values over the configured engines.
// A single --engine is used for both sides.
func engineFlags(configured []model.EngineConfig, cmds, names []string) ([]model.EngineConfig, error) {
	engines := append([]model.EngineConfig(nil), configured...)

	switch len(cmds) {
	case 0:
	case 1:
		engines = []model.EngineConfig{{Cmd: cmds[0]}, {Cmd: cmds[0]}}
	case 2:
		engines = []model.EngineConfig{{Cmd: cmds[0]}, {Cmd: cmds[1]}}
	default:
		return nil, fmt.Errorf("%w, got %d --engine flags", match.ErrEngineCount, len(cmds))
	}

	if len(names) > len(engines) {
		return nil, fmt.Errorf("got %d --name flags for %d engines", len(names), len(engines))
	}
	for i, name := range names {
		engines[i].Name = name
	}

	if len(engines) != 2 {
		return nil, fmt.Errorf("%w, got %d in config", match.ErrEngineCount, len(engines))
	}
	return engines, nil
}
