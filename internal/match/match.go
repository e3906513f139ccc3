package match

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ppiankov/enginetools/internal/model"
	"github.com/ppiankov/enginetools/internal/runner"
)

var (
	// ErrInvalidTimeControl is returned for a time control not in <seconds>+<increment> form
	ErrInvalidTimeControl = errors.New("invalid time control")
	// ErrEngineCount is returned unless exactly two engines are configured
	ErrEngineCount = errors.New("a match needs exactly two engines")
	// ErrMissingOutput is returned when no PGN output path is set
	ErrMissingOutput = errors.New("missing PGN output path")
)

var timeControlPattern = regexp.MustCompile(`^\d+(\.\d+)?\+\d+(\.\d+)?$`)

// ValidateTimeControl checks tc has the form <seconds>+<increment>
func ValidateTimeControl(tc string) error {
	if !timeControlPattern.MatchString(tc) {
		return fmt.Errorf("%w: %q (want <seconds>+<increment>, e.g. 1+0.1)", ErrInvalidTimeControl, tc)
	}
	return nil
}

// Args builds the c-chess-cli argument list for cfg
func Args(cfg model.MatchConfig) ([]string, error) {
	if len(cfg.Engines) != 2 {
		return nil, fmt.Errorf("%w, got %d", ErrEngineCount, len(cfg.Engines))
	}
	for i, eng := range cfg.Engines {
		if eng.Cmd == "" {
			return nil, fmt.Errorf("engine %d: empty command", i+1)
		}
	}
	if err := ValidateTimeControl(cfg.TimeControl); err != nil {
		return nil, err
	}
	if cfg.PGN == "" {
		return nil, ErrMissingOutput
	}

	args := []string{"-each"}
	for _, eng := range cfg.Engines {
		args = append(args, "-engine", "cmd="+eng.Cmd)
		if eng.Name != "" {
			args = append(args, "name="+eng.Name)
		}
	}
	args = append(args, "tc="+cfg.TimeControl)
	if cfg.Games > 0 {
		args = append(args, "-games", strconv.Itoa(cfg.Games))
	}
	if cfg.Concurrency > 0 {
		args = append(args, "-concurrency", strconv.Itoa(cfg.Concurrency))
	}
	args = append(args, "-pgn", cfg.PGN)

	return args, nil
}

// Runner launches matches through c-chess-cli
type Runner struct {
	runner runner.Runner
}

// NewRunner creates a match runner on top of a process runner
func NewRunner(r runner.Runner) *Runner {
	return &Runner{runner: r}
}

// Run plays the match described by cfg and returns the command line it
// executed. Nothing is returned unless the tool exits with status 0.
func (m *Runner) Run(ctx context.Context, cfg model.MatchConfig) (string, error) {
	if cfg.CLI == "" {
		return "", errors.New("missing c-chess-cli path")
	}
	args, err := Args(cfg)
	if err != nil {
		return "", err
	}

	if err := m.runner.Run(ctx, cfg.CLI, args...); err != nil {
		return "", fmt.Errorf("match: %w", err)
	}

	return runner.CommandLine(cfg.CLI, args...), nil
}
