package match

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/enginetools/internal/model"
	"github.com/ppiankov/enginetools/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	name  string
	args  []string
	calls int
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.calls++
	f.name = name
	f.args = args
	return f.err
}

func selfPlay() model.MatchConfig {
	return model.MatchConfig{
		CLI: "/engines/c-chess-cli",
		Engines: []model.EngineConfig{
			{Cmd: "/engines/snowhead"},
			{Cmd: "/engines/snowhead"},
		},
		TimeControl: "1+0.1",
		PGN:         "test.pgn",
	}
}

func TestArgs_SelfPlay(t *testing.T) {
	args, err := Args(selfPlay())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-each",
		"-engine", "cmd=/engines/snowhead",
		"-engine", "cmd=/engines/snowhead",
		"tc=1+0.1",
		"-pgn", "test.pgn",
	}, args)
}

func TestArgs_OptionalSettings(t *testing.T) {
	cfg := selfPlay()
	cfg.Engines[0].Name = "new"
	cfg.Engines[1] = model.EngineConfig{Cmd: "/engines/base", Name: "base"}
	cfg.Games = 200
	cfg.Concurrency = 4

	args, err := Args(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-each",
		"-engine", "cmd=/engines/snowhead", "name=new",
		"-engine", "cmd=/engines/base", "name=base",
		"tc=1+0.1",
		"-games", "200",
		"-concurrency", "4",
		"-pgn", "test.pgn",
	}, args)
}

func TestArgs_EngineCount(t *testing.T) {
	cfg := selfPlay()
	cfg.Engines = cfg.Engines[:1]

	_, err := Args(cfg)
	assert.True(t, errors.Is(err, ErrEngineCount))
}

func TestArgs_EmptyEngineCommand(t *testing.T) {
	cfg := selfPlay()
	cfg.Engines[1].Cmd = ""

	_, err := Args(cfg)
	assert.Error(t, err)
}

func TestArgs_MissingPGN(t *testing.T) {
	cfg := selfPlay()
	cfg.PGN = ""

	_, err := Args(cfg)
	assert.True(t, errors.Is(err, ErrMissingOutput))
}

func TestValidateTimeControl(t *testing.T) {
	tests := []struct {
		tc    string
		valid bool
	}{
		{"1+0.1", true},
		{"10+0", true},
		{"60.5+0.25", true},
		{"", false},
		{"1", false},
		{"1+", false},
		{"+0.1", false},
		{"40/60", false},
		{"-1+0", false},
		{"1+0.1 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.tc, func(t *testing.T) {
			err := ValidateTimeControl(tt.tc)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidTimeControl), "got %v", err)
			}
		})
	}
}

func TestRunner_SuccessReturnsCommandLine(t *testing.T) {
	fake := &fakeRunner{}
	m := NewRunner(fake)

	line, err := m.Run(context.Background(), selfPlay())
	require.NoError(t, err)
	assert.Equal(t, "/engines/c-chess-cli", fake.name)
	assert.Equal(t,
		"/engines/c-chess-cli -each -engine cmd=/engines/snowhead -engine cmd=/engines/snowhead tc=1+0.1 -pgn test.pgn",
		line)
}

func TestRunner_FailureReturnsNoCommandLine(t *testing.T) {
	fake := &fakeRunner{err: &runner.ExitError{Tool: "c-chess-cli", Code: 2}}
	m := NewRunner(fake)

	line, err := m.Run(context.Background(), selfPlay())
	require.Error(t, err)
	assert.Empty(t, line)

	var exitErr *runner.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
}

func TestRunner_InvalidConfigDoesNotLaunch(t *testing.T) {
	fake := &fakeRunner{}
	m := NewRunner(fake)

	cfg := selfPlay()
	cfg.TimeControl = "bullet"
	_, err := m.Run(context.Background(), cfg)

	assert.True(t, errors.Is(err, ErrInvalidTimeControl))
	assert.Zero(t, fake.calls)
}
