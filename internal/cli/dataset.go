package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ppiankov/enginetools/internal/cache"
	"github.com/ppiankov/enginetools/internal/dataset"
	"github.com/ppiankov/enginetools/internal/extract"
	"github.com/ppiankov/enginetools/internal/model"
	"github.com/ppiankov/enginetools/internal/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var reportPath string

// datasetCmd represents the dataset command
var datasetCmd = &cobra.Command{
	Use:   "dataset [data-dir]",
	Short: "Convert every PGN file in a directory into labeled EPD",
	Long: `Dataset builds tuner input from game records. For each *.pgn file, in name order:
- Run pgn-extract -Wfen --quiet to write one FEN per position (x.pgn -> x.fen)
- Label every position with its game result (x.fen -> x.epd)

Each EPD line has the form "<fen>; c0 <result>". The first failure stops the run.
Without an argument the data directory is ../data relative to the working directory.

Example:
  enginetools dataset
  enginetools dataset ./games --validate --remove-fen
  enginetools dataset ./games --incremental --report build.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDataset,
}

func init() {
	rootCmd.AddCommand(datasetCmd)

	datasetCmd.Flags().String("tool", extract.DefaultTool, "pgn-extract executable")
	datasetCmd.Flags().Bool("validate", false, "reject positions that are not valid FEN")
	datasetCmd.Flags().Bool("remove-fen", false, "delete intermediate .fen files after labeling")
	datasetCmd.Flags().Bool("incremental", false, "skip PGN files unchanged since the last build")
	datasetCmd.Flags().String("cache-dir", "", "incremental build cache directory (default: user cache dir)")
	datasetCmd.Flags().StringVar(&reportPath, "report", "", "write a JSON build report to this path")

	_ = viper.BindPFlag("dataset.extract_tool", datasetCmd.Flags().Lookup("tool"))
	_ = viper.BindPFlag("dataset.validate_fen", datasetCmd.Flags().Lookup("validate"))
	_ = viper.BindPFlag("dataset.remove_intermediate", datasetCmd.Flags().Lookup("remove-fen"))
	_ = viper.BindPFlag("cache.enabled", datasetCmd.Flags().Lookup("incremental"))
	_ = viper.BindPFlag("cache.dir", datasetCmd.Flags().Lookup("cache-dir"))
}

func runDataset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dataDir := cfg.Dataset.DataDir
	if len(args) == 1 {
		dataDir = args[0]
	}
	if dataDir == "" {
		if dataDir, err = model.DefaultDataDir(); err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
	}

	buildCache, err := newBuildCache(cfg.Cache)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Dataset Build\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Data dir:     %s\n", dataDir)
	fmt.Fprintf(os.Stderr, "  Extractor:    %s\n", cfg.Dataset.ExtractTool)
	fmt.Fprintf(os.Stderr, "  Validate FEN: %v\n", cfg.Dataset.ValidateFEN)
	fmt.Fprintf(os.Stderr, "  Incremental:  %v\n", cfg.Cache.Enabled)
	fmt.Fprintf(os.Stderr, "\n")

	ex := extract.NewExtractor(runner.New(), cfg.Dataset.ExtractTool)
	builder := dataset.NewBuilder(ex, buildCache, dataset.Options{
		ValidateFEN:        cfg.Dataset.ValidateFEN,
		RemoveIntermediate: cfg.Dataset.RemoveIntermediate,
		Progress:           os.Stderr,
	})

	report, err := builder.Build(cmd.Context(), dataDir)
	if err != nil {
		return fmt.Errorf("dataset build failed: %w", err)
	}

	if reportPath != "" {
		if err := writeReport(report, reportPath); err != nil {
			return err
		}
	}

	cached := 0
	outcomes := make(map[string]int)
	for _, f := range report.Files {
		if f.Cached {
			cached++
		}
		for o, n := range f.Outcomes {
			outcomes[o] += n
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Build Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Files:      %d (%d cached)\n", len(report.Files), cached)
	fmt.Fprintf(os.Stderr, "  Games:      %d\n", report.Games())
	fmt.Fprintf(os.Stderr, "  Positions:  %d\n", report.Positions())
	if cfg.Output.Verbose {
		keys := make([]string, 0, len(outcomes))
		for o := range outcomes {
			keys = append(keys, o)
		}
		sort.Strings(keys)
		for _, o := range keys {
			fmt.Fprintf(os.Stderr, "    %-10s %d\n", o, outcomes[o])
		}
	}
	fmt.Fprintf(os.Stderr, "  Duration:   %v\n", report.Duration)
	if reportPath != "" {
		fmt.Fprintf(os.Stderr, "  Report:     %s\n", reportPath)
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// newBuildCache returns nil when incremental builds are off
func newBuildCache(cfg model.CacheConfig) (cache.Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = model.DefaultCacheDir(); err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
	}
	return cache.NewLayeredCache(cfg.MemoryTTL, dir, cfg.DiskTTL), nil
}

func writeReport(report *model.BuildReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
