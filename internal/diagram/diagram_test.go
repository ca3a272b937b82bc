package diagram

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hailam/nnuegen/internal/arch"
)

func TestStages(t *testing.T) {
	d, err := arch.Parse("kp_1024x2-8-64")
	if err != nil {
		t.Fatal(err)
	}

	stages := Stages(d)
	if len(stages) != 5 {
		t.Fatalf("Expected 5 stages, got %d", len(stages))
	}

	details := []string{"kp", "1024 x 2", "8", "64", "1"}
	for i, want := range details {
		if stages[i].Detail != want {
			t.Errorf("Stage %d: expected detail %q, got %q", i, want, stages[i].Detail)
		}
	}
}

func TestSVG(t *testing.T) {
	d, _ := arch.Parse("halfkp_256x2-32-32")
	svg := SVG(Stages(d))

	if n := strings.Count(svg, "<rect"); n != 6 {
		t.Errorf("Expected background plus 5 boxes, got %d rects", n)
	}
	if n := strings.Count(svg, "<path"); n != 8 {
		t.Errorf("Expected 4 connectors with arrow heads, got %d paths", n)
	}
}

func TestRender(t *testing.T) {
	d, _ := arch.Parse("halfkp_256x2-32-32")

	img, err := Render(d)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != Width || b.Dy() != Height(5) {
		t.Errorf("Unexpected image size %dx%d", b.Dx(), b.Dy())
	}

	// Background corner is opaque white.
	c := img.RGBAAt(1, 1)
	if c.A != 0xff || c.R < 0xf0 {
		t.Errorf("Expected white background, got %+v", c)
	}

	// Some label pixels are dark.
	dark := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if p := img.RGBAAt(x, y); p.R < 0x80 && p.G < 0x80 && p.B < 0x80 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("Expected outlines and labels to be drawn")
	}
}

func TestSaveFile(t *testing.T) {
	d, _ := arch.Parse("halfkpe9_256x2-32-32")
	path := filepath.Join(t.TempDir(), "diagram.png")

	if err := SaveFile(path, d); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Written file is not a PNG: %v", err)
	}
	if cfg.Width != Width {
		t.Errorf("Expected width %d, got %d", Width, cfg.Width)
	}
}
