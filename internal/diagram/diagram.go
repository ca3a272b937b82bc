// Package diagram draws the layer chain of an architecture as a PNG.
//
// The boxes and connectors are written as SVG, rasterised with
// oksvg/rasterx, and labelled with the Go regular font.
package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/hailam/nnuegen/internal/arch"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Layout in pixels
const (
	Width      = 480
	boxHeight  = 44
	boxGap     = 28
	margin     = 24
	boxRadius  = 6
	fontSize   = 14.0
	titleSize  = 16.0
	titleSpace = 36
)

var (
	labelColor = color.RGBA{0x20, 0x20, 0x20, 0xff}
	detailGray = color.RGBA{0x60, 0x60, 0x60, 0xff}
)

// Stage is one box of the diagram.
type Stage struct {
	Label  string // layer type
	Detail string // output width or feature set
	Fill   string // SVG fill colour
}

// Stages returns the boxes for d, input first.
func Stages(d *arch.Descriptor) []Stage {
	l := d.Layers
	return []Stage{
		{Label: "RawFeatures", Detail: d.Feature.String(), Fill: "#dbe9f6"},
		{Label: "InputSlice", Detail: l.TransformedDimensions + " x " + l.Multiplier, Fill: "#e8f3e1"},
		{Label: "AffineTransform + ClippedReLU", Detail: l.Hidden1, Fill: "#fbeed5"},
		{Label: "AffineTransform + ClippedReLU", Detail: l.Hidden2, Fill: "#fbeed5"},
		{Label: "AffineTransform", Detail: fmt.Sprint(arch.OutputDimensions), Fill: "#f6dada"},
	}
}

// Height returns the image height for n stages.
func Height(n int) int {
	return 2*margin + titleSpace + n*boxHeight + (n-1)*boxGap
}

func boxTop(i int) int {
	return margin + titleSpace + i*(boxHeight+boxGap)
}

// SVG returns the boxes and connectors for stages. Text is not part of the
// SVG; oksvg does not render it.
func SVG(stages []Stage) string {
	h := Height(len(stages))
	var sb strings.Builder

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", Width, h, Width, h)
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%d" height="%d" fill="#ffffff"/>`+"\n", Width, h)

	cx := Width / 2
	for i, s := range stages {
		y := boxTop(i)
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" rx="%d" ry="%d" fill="%s" stroke="#404040" stroke-width="1.5"/>`+"\n",
			margin, y, Width-2*margin, boxHeight, boxRadius, boxRadius, s.Fill)
		if i > 0 {
			fmt.Fprintf(&sb, `<path d="M %d %d L %d %d" stroke="#404040" stroke-width="1.5" fill="none"/>`+"\n",
				cx, y-boxGap, cx, y)
			fmt.Fprintf(&sb, `<path d="M %d %d L %d %d L %d %d Z" fill="#404040"/>`+"\n",
				cx-5, y-8, cx+5, y-8, cx, y)
		}
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// Render rasterises the diagram for d.
func Render(d *arch.Descriptor) (*image.RGBA, error) {
	stages := Stages(d)
	h := Height(len(stages))

	icon, err := oksvg.ReadIconStream(strings.NewReader(SVG(stages)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse diagram svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(Width), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, Width, h))
	scanner := rasterx.NewScannerGV(Width, h, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(Width, h, scanner)
	icon.Draw(raster, 1.0)

	if err := drawLabels(rgba, d.Name, stages); err != nil {
		return nil, err
	}
	return rgba, nil
}

func newFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func drawLabels(dst *image.RGBA, title string, stages []Stage) error {
	face, err := newFace(fontSize)
	if err != nil {
		return err
	}
	defer face.Close()

	titleFace, err := newFace(titleSize)
	if err != nil {
		return err
	}
	defer titleFace.Close()

	drawText(dst, titleFace, labelColor, margin, margin+int(titleSize), title)

	for i, s := range stages {
		baseline := boxTop(i) + boxHeight/2 + int(fontSize)/2 - 1
		drawText(dst, face, labelColor, margin+12, baseline, s.Label)

		dr := &font.Drawer{Face: face}
		w := dr.MeasureString(s.Detail).Ceil()
		drawText(dst, face, detailGray, Width-margin-12-w, baseline, s.Detail)
	}
	return nil
}

func drawText(dst *image.RGBA, face font.Face, c color.Color, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// WritePNG encodes the diagram for d to w.
func WritePNG(w io.Writer, d *arch.Descriptor) error {
	img, err := Render(d)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SaveFile writes the diagram for d to path, replacing any existing file.
func SaveFile(path string, d *arch.Descriptor) error {
	var buf bytes.Buffer
	if err := WritePNG(&buf, d); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write diagram: %w", err)
	}
	return nil
}
