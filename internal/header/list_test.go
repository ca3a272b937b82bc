package header

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListGenerated(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "architectures")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	for _, name := range []string{"halfkp_256x2-32-32", "kp_1024x2-8-64"} {
		if _, err := Generate(Config{Arch: name, OutDir: sub}); err != nil {
			t.Fatalf("Generate(%s) failed: %v", name, err)
		}
	}
	// Parses as an architecture but was not written by the generator.
	if err := os.WriteFile(filepath.Join(root, "halfkpe9_512x2-16-32.h"), []byte("#pragma once\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// Not an architecture name.
	if err := os.WriteFile(filepath.Join(sub, "nnue_common.h"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := ListGenerated(root)
	if err != nil {
		t.Fatalf("ListGenerated failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	guarded := map[string]bool{}
	for _, e := range entries {
		guarded[e.Descriptor.Name] = e.Guarded
	}
	if !guarded["halfkp_256x2-32-32"] || !guarded["kp_1024x2-8-64"] {
		t.Errorf("Generated headers should be guarded: %v", guarded)
	}
	if g, ok := guarded["halfkpe9_512x2-16-32"]; !ok || g {
		t.Errorf("Hand-written header should be listed unguarded: %v", guarded)
	}
}

func TestListGeneratedEmpty(t *testing.T) {
	entries, err := ListGenerated(t.TempDir())
	if err != nil {
		t.Fatalf("ListGenerated failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}
