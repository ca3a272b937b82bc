package header

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/nnuegen/internal/arch"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Arch: "halfkp_256x2-32-32", OutDir: dir}

	res, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !res.Written {
		t.Error("Expected header to be written")
	}
	if res.Path != filepath.Join(dir, "halfkp_256x2-32-32.h") {
		t.Errorf("Unexpected path %s", res.Path)
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("Failed to read header: %v", err)
	}
	if string(data) != res.Content {
		t.Error("File content differs from rendered content")
	}
}

func TestGenerateDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Arch != "halfkp_256x2-32-32" {
		t.Errorf("Expected default arch halfkp_256x2-32-32, got %s", cfg.Arch)
	}
	if cfg.OutDir != "" {
		t.Errorf("Expected empty default out dir, got %q", cfg.OutDir)
	}
	if cfg.Path() != "halfkp_256x2-32-32.h" {
		t.Errorf("Expected path relative to working directory, got %s", cfg.Path())
	}
}

func TestGenerateDestinationExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "halfkp_256x2-32-32.h")
	original := []byte("// hand edited\n")
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	res, err := Generate(Config{Arch: "halfkp_256x2-32-32", OutDir: dir})
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("Expected ErrDestinationExists, got %v", err)
	}
	if res.Written {
		t.Error("Nothing should be written")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != string(original) {
		t.Error("Existing file was modified")
	}
}

func TestGenerateExistsBeforeValidation(t *testing.T) {
	dir := t.TempDir()
	name := "foo_bar_baz"
	if err := os.WriteFile(filepath.Join(dir, name+".h"), nil, 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	_, err := Generate(Config{Arch: name, OutDir: dir})
	if !errors.Is(err, ErrDestinationExists) {
		t.Errorf("Expected the existence check to run first, got %v", err)
	}
}

func TestGenerateInvalid(t *testing.T) {
	tests := []struct {
		name string
		want error
	}{
		{"halfkp256x2-32-32", arch.ErrInvalidArchitectureName},
		{"a_b_c", arch.ErrInvalidArchitectureName},
		{"foo_256x2-32-32", arch.ErrUnsupportedInputFeature},
		{"halfkp_256-32-32", arch.ErrInvalidLayerSpec},
		{"halfkp_256x2-32", arch.ErrInvalidLayerSpec},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			res, err := Generate(Config{Arch: tc.name, OutDir: dir})
			if !errors.Is(err, tc.want) {
				t.Fatalf("Expected %v, got %v", tc.want, err)
			}
			if res.Written {
				t.Error("Nothing should be written")
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("ReadDir failed: %v", err)
			}
			if len(entries) != 0 {
				t.Errorf("Expected empty output dir, found %d entries", len(entries))
			}
		})
	}
}

func TestGenerateIdempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Arch: "kp_1024x2-8-64", OutDir: dir}

	first, err := Generate(cfg)
	if err != nil {
		t.Fatalf("First Generate failed: %v", err)
	}
	a, err := os.ReadFile(first.Path)
	if err != nil {
		t.Fatalf("Failed to read header: %v", err)
	}

	if err := os.Remove(first.Path); err != nil {
		t.Fatalf("Failed to remove header: %v", err)
	}

	second, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Second Generate failed: %v", err)
	}
	b, err := os.ReadFile(second.Path)
	if err != nil {
		t.Fatalf("Failed to read header: %v", err)
	}

	if string(a) != string(b) {
		t.Error("Regenerated header is not byte-identical")
	}
}

func TestGenerateDryRun(t *testing.T) {
	dir := t.TempDir()
	res, err := Generate(Config{Arch: "halfkpvm_256x2-32-32", OutDir: dir, DryRun: true})
	if err != nil {
		t.Fatalf("Dry run failed: %v", err)
	}
	if res.Written {
		t.Error("Dry run should not write")
	}
	if res.Content == "" {
		t.Error("Dry run should render content")
	}
	if _, err := os.Stat(res.Path); !os.IsNotExist(err) {
		t.Errorf("Dry run created %s", res.Path)
	}
}

func TestGenerateMissingOutDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := Generate(Config{Arch: "halfkp_256x2-32-32", OutDir: dir})
	if err == nil {
		t.Fatal("Expected an error for a missing output directory")
	}
	if errors.Is(err, ErrDestinationExists) {
		t.Errorf("Unexpected error kind: %v", err)
	}
}
