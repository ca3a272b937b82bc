package header

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hailam/nnuegen/internal/arch"
)

// ErrDestinationExists is returned when the header file is already there.
// Nothing is written; callers treat it as a benign stop, not a failure.
var ErrDestinationExists = errors.New("destination file already exists")

// Config selects what to generate and where.
type Config struct {
	// Arch is the architecture name, e.g. "halfkp_256x2-32-32".
	Arch string

	// OutDir is the output directory. Empty means the working directory.
	OutDir string

	// DryRun renders the header without touching the filesystem.
	DryRun bool
}

// DefaultConfig returns the default architecture written to the working directory.
func DefaultConfig() Config {
	return Config{Arch: arch.DefaultName}
}

// Path returns <OutDir>/<Arch>.h.
func (c Config) Path() string {
	return filepath.Join(c.OutDir, arch.FileName(c.Arch))
}

// Result describes a generation run.
type Result struct {
	Path       string
	Descriptor *arch.Descriptor
	Content    string
	Written    bool
}

// Generate validates cfg.Arch, renders its header and writes it to cfg.Path().
//
// An existing destination is checked first and reported as
// ErrDestinationExists without validating the name. Validation errors wrap
// the arch package sentinels. No file is left behind on any error.
func Generate(cfg Config) (*Result, error) {
	res := &Result{Path: cfg.Path()}

	if !cfg.DryRun {
		if _, err := os.Stat(res.Path); err == nil {
			return res, fmt.Errorf("%w: %s", ErrDestinationExists, res.Path)
		}
	}

	d, err := arch.Parse(cfg.Arch)
	if err != nil {
		return res, err
	}
	res.Descriptor = d
	res.Content = Render(d)

	if cfg.DryRun {
		return res, nil
	}

	if err := writeNew(res.Path, []byte(res.Content)); err != nil {
		return res, err
	}
	res.Written = true
	return res, nil
}

// writeNew creates path and writes data, refusing to replace an existing file.
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDestinationExists, path)
		}
		return fmt.Errorf("failed to create header: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close header: %w", err)
	}
	return nil
}
