package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete enginetools configuration
type Config struct {
	Match   MatchConfig   `yaml:"match" mapstructure:"match"`
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// MatchConfig configures the engine-vs-engine match launcher
type MatchConfig struct {
	CLI         string         `yaml:"cli" mapstructure:"cli"`                   // c-chess-cli executable
	Engines     []EngineConfig `yaml:"engines" mapstructure:"engines"`           // Exactly two participants
	TimeControl string         `yaml:"time_control" mapstructure:"time_control"` // <seconds>+<increment>
	PGN         string         `yaml:"pgn" mapstructure:"pgn"`                   // Game record output
	Games       int            `yaml:"games,omitempty" mapstructure:"games"`     // 0 = tool default
	Concurrency int            `yaml:"concurrency,omitempty" mapstructure:"concurrency"`
}

// EngineConfig declares one match participant
type EngineConfig struct {
	Cmd  string `yaml:"cmd" mapstructure:"cmd"`
	Name string `yaml:"name,omitempty" mapstructure:"name"`
}

// DatasetConfig configures the PGN -> EPD dataset builder
type DatasetConfig struct {
	DataDir            string `yaml:"data_dir,omitempty" mapstructure:"data_dir"` // Empty = <parent of cwd>/data
	ExtractTool        string `yaml:"extract_tool" mapstructure:"extract_tool"`
	ValidateFEN        bool   `yaml:"validate_fen" mapstructure:"validate_fen"`
	RemoveIntermediate bool   `yaml:"remove_intermediate" mapstructure:"remove_intermediate"`
}

// CacheConfig configures incremental dataset builds
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir,omitempty" mapstructure:"dir"` // Empty = user cache dir
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig controls console output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Match: MatchConfig{
			CLI: "c-chess-cli",
			Engines: []EngineConfig{
				{Cmd: "snowhead"},
				{Cmd: "snowhead"},
			},
			TimeControl: "1+0.1",
			PGN:         "test.pgn",
		},
		Dataset: DatasetConfig{
			ExtractTool: "pgn-extract",
		},
		Cache: CacheConfig{
			Enabled:   false,
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   30 * 24 * time.Hour,
		},
	}
}

// DefaultDataDir returns the "data" directory next to the parent of the
// working directory.
func DefaultDataDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(wd), "data"), nil
}

// DefaultCacheDir returns the cache location used when none is configured
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "enginetools"), nil
}
