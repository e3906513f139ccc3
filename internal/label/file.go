package label

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConvertFile labels fenPath and writes the result to epdPath, replacing
// any existing file. The destination only changes once the whole output
// has been written.
func ConvertFile(fenPath, epdPath string, opts Options) (Stats, error) {
	in, err := os.Open(fenPath)
	if err != nil {
		return Stats{}, fmt.Errorf("open intermediate: %w", err)
	}
	defer func() { _ = in.Close() }()

	records, stats, err := Rewrite(in, opts)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", fenPath, err)
	}

	if err := writeAtomic(epdPath, records); err != nil {
		return Stats{}, fmt.Errorf("write %s: %w", epdPath, err)
	}
	return stats, nil
}

// writeAtomic writes to a temp file next to dest and renames it into place
func writeAtomic(dest string, records []Record) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*.epd")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	// CreateTemp uses 0600
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod: %w", err)
	}
	if err := Write(tmp, records); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
