package header

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hailam/nnuegen/internal/arch"
)

// Entry is a header found on disk whose file name is an architecture name.
type Entry struct {
	Path       string
	Descriptor *arch.Descriptor

	// Guarded reports whether the file carries the include guard this
	// generator would emit for its name.
	Guarded bool
}

// ListGenerated walks root and returns every *.h file whose base name
// parses as an architecture. Other headers are ignored.
func ListGenerated(root string) ([]Entry, error) {
	if root == "" {
		root = "."
	}

	matches, err := doublestar.Glob(os.DirFS(root), "**/*.h")
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	var entries []Entry
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), ".h")
		d, err := arch.Parse(name)
		if err != nil {
			continue
		}

		p := filepath.Join(root, filepath.FromSlash(m))
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}

		entries = append(entries, Entry{
			Path:       p,
			Descriptor: d,
			Guarded:    bytes.Contains(data, []byte("#ifndef "+d.GuardMacro())),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}
