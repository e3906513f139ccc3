package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/enginetools/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.err
}

func TestArgs(t *testing.T) {
	got := Args("/data/games.pgn", "/data/games.fen")
	assert.Equal(t, []string{"-Wfen", "--quiet", "/data/games.pgn", "-o/data/games.fen"}, got)
}

func TestExtractor_DefaultTool(t *testing.T) {
	fake := &fakeRunner{}
	e := NewExtractor(fake, "")
	assert.Equal(t, DefaultTool, e.Tool())

	require.NoError(t, e.Extract(context.Background(), "a.pgn", "a.fen"))
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "pgn-extract", fake.calls[0].name)
	assert.Equal(t, []string{"-Wfen", "--quiet", "a.pgn", "-oa.fen"}, fake.calls[0].args)
}

func TestExtractor_CustomTool(t *testing.T) {
	fake := &fakeRunner{}
	e := NewExtractor(fake, "/opt/bin/pgn-extract")

	require.NoError(t, e.Extract(context.Background(), "a.pgn", "a.fen"))
	assert.Equal(t, "/opt/bin/pgn-extract", fake.calls[0].name)
}

func TestExtractor_PropagatesFailure(t *testing.T) {
	fake := &fakeRunner{err: &runner.ExitError{Tool: "pgn-extract", Code: 1}}
	e := NewExtractor(fake, "")

	err := e.Extract(context.Background(), "a.pgn", "a.fen")
	require.Error(t, err)

	var exitErr *runner.ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.Contains(t, err.Error(), "a.pgn")
}
