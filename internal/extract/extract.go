package extract

import (
	"context"
	"fmt"

	"github.com/ppiankov/enginetools/internal/runner"
)

// DefaultTool is the pgn-extract executable looked up on PATH
const DefaultTool = "pgn-extract"

// Extractor turns a PGN file into one FEN per position using pgn-extract
type Extractor struct {
	runner runner.Runner
	tool   string
}

// NewExtractor creates an extractor; an empty tool means DefaultTool
func NewExtractor(r runner.Runner, tool string) *Extractor {
	if tool == "" {
		tool = DefaultTool
	}
	return &Extractor{runner: r, tool: tool}
}

// Tool returns the executable this extractor runs
func (e *Extractor) Tool() string {
	return e.tool
}

// Args builds the pgn-extract argument list for one conversion
func Args(pgnPath, fenPath string) []string {
	return []string{"-Wfen", "--quiet", pgnPath, "-o" + fenPath}
}

// Extract writes the positions of every game in pgnPath to fenPath
func (e *Extractor) Extract(ctx context.Context, pgnPath, fenPath string) error {
	if err := e.runner.Run(ctx, e.tool, Args(pgnPath, fenPath)...); err != nil {
		return fmt.Errorf("extract %s: %w", pgnPath, err)
	}
	return nil
}
