package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/enginetools/internal/cache"
	"github.com/ppiankov/enginetools/internal/label"
	"github.com/ppiankov/enginetools/internal/model"
)

// Extractor converts one PGN file into a FEN-with-headers file
type Extractor interface {
	Extract(ctx context.Context, pgnPath, fenPath string) error
}

// Options controls a dataset build
type Options struct {
	ValidateFEN        bool
	RemoveIntermediate bool
	// Progress receives one line per processed file; nil is silent
	Progress io.Writer
}

// Builder turns a directory of PGN files into labeled EPD files
type Builder struct {
	extractor Extractor
	cache     cache.Cache // nil disables incremental builds
	opts      Options
	now       func() time.Time
}

// NewBuilder creates a builder. c may be nil.
func NewBuilder(extractor Extractor, c cache.Cache, opts Options) *Builder {
	return &Builder{
		extractor: extractor,
		cache:     c,
		opts:      opts,
		now:       time.Now,
	}
}

// Build processes every PGN file in dataDir in filename order and stops
// at the first failure.
func (b *Builder) Build(ctx context.Context, dataDir string) (*model.BuildReport, error) {
	started := b.now()

	pgnFiles, err := ListPGN(dataDir)
	if err != nil {
		return nil, err
	}

	report := &model.BuildReport{
		DataDir:   dataDir,
		StartedAt: started.UTC(),
		Files:     make([]model.FileResult, 0, len(pgnFiles)),
	}

	for _, pgnPath := range pgnFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := b.BuildFile(ctx, pgnPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(pgnPath), err)
		}
		report.Files = append(report.Files, result)
		b.progress(result)
	}

	report.Duration = b.now().Sub(started)
	return report, nil
}

// BuildFile extracts and labels a single PGN file
func (b *Builder) BuildFile(ctx context.Context, pgnPath string) (model.FileResult, error) {
	fenPath, epdPath := Paths(pgnPath)

	var key string
	if b.cache != nil {
		digest, err := cache.FileDigest(pgnPath)
		if err != nil {
			return model.FileResult{}, fmt.Errorf("digest: %w", err)
		}
		key = cache.Key(pgnPath, digest, strconv.FormatBool(b.opts.ValidateFEN))
		if result, ok := b.lookup(key, epdPath); ok {
			result.PGN, result.FEN, result.EPD = pgnPath, fenPath, epdPath
			result.Cached = true
			return result, nil
		}
	}

	if err := b.extractor.Extract(ctx, pgnPath, fenPath); err != nil {
		return model.FileResult{}, err
	}

	stats, err := label.ConvertFile(fenPath, epdPath, label.Options{ValidateFEN: b.opts.ValidateFEN})
	if err != nil {
		return model.FileResult{}, fmt.Errorf("label: %w", err)
	}

	if b.opts.RemoveIntermediate {
		if err := os.Remove(fenPath); err != nil {
			return model.FileResult{}, fmt.Errorf("remove intermediate: %w", err)
		}
	}

	result := model.FileResult{
		PGN:       pgnPath,
		FEN:       fenPath,
		EPD:       epdPath,
		Positions: stats.Positions,
		Games:     stats.Games,
		Outcomes:  outcomeCounts(stats),
	}

	if b.cache != nil {
		epdDigest, err := cache.FileDigest(epdPath)
		if err != nil {
			return model.FileResult{}, fmt.Errorf("digest: %w", err)
		}
		result.EPDDigest = epdDigest
		if err := b.store(key, result); err != nil {
			return model.FileResult{}, fmt.Errorf("cache: %w", err)
		}
	}

	return result, nil
}

// lookup returns a cached result if the .epd on disk is still the one
// that result describes
func (b *Builder) lookup(key, epdPath string) (model.FileResult, bool) {
	data, found := b.cache.Get(key)
	if !found {
		return model.FileResult{}, false
	}

	var result model.FileResult
	if err := json.Unmarshal(data, &result); err != nil || result.EPDDigest == "" {
		_ = b.cache.Delete(key)
		return model.FileResult{}, false
	}

	digest, err := cache.FileDigest(epdPath)
	if err != nil || digest != result.EPDDigest {
		return model.FileResult{}, false
	}
	return result, true
}

func (b *Builder) store(key string, result model.FileResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return b.cache.Set(key, data, 0)
}

func (b *Builder) progress(r model.FileResult) {
	if b.opts.Progress == nil {
		return
	}
	suffix := ""
	if r.Cached {
		suffix = ", cached"
	}
	fmt.Fprintf(b.opts.Progress, "✓ %s -> %s (%d positions, %d games%s)\n",
		filepath.Base(r.PGN), filepath.Base(r.EPD), r.Positions, r.Games, suffix)
}

// ListPGN returns the regular .pgn files in dir, sorted by name
func ListPGN(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".pgn" {
			continue
		}
		if !e.Type().IsRegular() {
			info, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return nil, err
			}
			if !info.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Paths derives the intermediate and output paths for a PGN file
func Paths(pgnPath string) (fenPath, epdPath string) {
	base := strings.TrimSuffix(pgnPath, filepath.Ext(pgnPath))
	return base + ".fen", base + ".epd"
}

func outcomeCounts(stats label.Stats) map[string]int {
	if len(stats.Outcomes) == 0 {
		return nil
	}
	counts := make(map[string]int, len(stats.Outcomes))
	for o, n := range stats.Outcomes {
		counts[string(o)] = n
	}
	return counts
}
