package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/enginetools/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "enginetools",
	Short: "enginetools - match and dataset helpers for chess engine development",
	Long: `enginetools bundles the small jobs around engine development:

- match:   play two engine builds against each other with c-chess-cli
- dataset: turn a directory of PGN files into labeled EPD tuning data
           (pgn-extract -Wfen, then "<fen>; c0 <result>" per position)
- label:   run only the labeling step on an existing FEN file`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("enginetools v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.enginetools/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// setDefaults registers every key so ENGINETOOLS_* variables are seen
func setDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	engines := make([]map[string]any, 0, len(d.Match.Engines))
	for _, e := range d.Match.Engines {
		engines = append(engines, map[string]any{"cmd": e.Cmd, "name": e.Name})
	}

	v.SetDefault("match.cli", d.Match.CLI)
	v.SetDefault("match.engines", engines)
	v.SetDefault("match.time_control", d.Match.TimeControl)
	v.SetDefault("match.pgn", d.Match.PGN)
	v.SetDefault("match.games", d.Match.Games)
	v.SetDefault("match.concurrency", d.Match.Concurrency)

	v.SetDefault("dataset.data_dir", d.Dataset.DataDir)
	v.SetDefault("dataset.extract_tool", d.Dataset.ExtractTool)
	v.SetDefault("dataset.validate_fen", d.Dataset.ValidateFEN)
	v.SetDefault("dataset.remove_intermediate", d.Dataset.RemoveIntermediate)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.memory_ttl", d.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", d.Cache.DiskTTL)

	v.SetDefault("output.verbose", d.Output.Verbose)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".enginetools"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// ENGINETOOLS_MATCH_TIME_CONTROL overrides match.time_control
	viper.SetEnvPrefix("ENGINETOOLS")
	viper.SetEnvKeyReplacer(replacer())
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: cannot read config file %s: %v\n", cfgFile, err)
	}
}

// replacer maps nested keys to environment variable names
func replacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// loadConfig returns the effective configuration (flags > env > file > defaults)
func loadConfig() (*model.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*model.Config, error) {
	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
