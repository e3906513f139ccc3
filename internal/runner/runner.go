package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrToolNotFound is returned when the executable cannot be resolved
var ErrToolNotFound = errors.New("tool not found")

// ExitError reports a tool that ran but exited with a non-zero status
type ExitError struct {
	Tool string
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Runner executes an external tool and waits for it to exit
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Exec runs tools as child processes. Stdout/Stderr default to the
// parent's streams when nil.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
	Dir    string
}

// New returns an Exec wired to the current process streams
func New() *Exec {
	return &Exec{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts name with args, waits for it and classifies the failure
func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Tool: name, Code: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// CommandLine renders name and args the way they were passed, space-separated
func CommandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
