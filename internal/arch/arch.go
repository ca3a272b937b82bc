// Package arch parses NNUE architecture names such as "halfkp_256x2-32-32".
//
// A name has two parts joined by a single underscore: the input feature
// token and the layer spec. The layer spec is "<dims>x<mult>-<l2>-<l3>",
// where dims is the transformed feature dimension, mult the number of
// perspectives fed into the input slice, and l2/l3 the hidden layer widths.
package arch

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultName is the architecture generated when none is given.
const DefaultName = "halfkp_256x2-32-32"

// Separators used by the naming grammar.
const (
	featureSeparator = "_"
	layerSeparator   = "-"
	widthSeparator   = "x"
)

// OutputDimensions is the width of the final affine layer.
const OutputDimensions = 1

// LayerSpec holds the layer part of an architecture name.
// Fields are kept as written so they can be substituted verbatim.
type LayerSpec struct {
	TransformedDimensions string // "256" in 256x2-32-32
	Multiplier            string // "2" in 256x2-32-32
	Hidden1               string // first hidden layer width
	Hidden2               string // second hidden layer width
}

// Fields returns the dash-separated fields in their original order.
func (l LayerSpec) Fields() []string {
	return []string{l.TransformedDimensions + widthSeparator + l.Multiplier, l.Hidden1, l.Hidden2}
}

// String returns the layer spec as it appears in an architecture name.
func (l LayerSpec) String() string {
	return strings.Join(l.Fields(), layerSeparator)
}

// InputDimensions returns TransformedDimensions * Multiplier.
// Only meaningful when both are numeric.
func (l LayerSpec) InputDimensions() (int, error) {
	dims, err := strconv.Atoi(l.TransformedDimensions)
	if err != nil {
		return 0, fmt.Errorf("transformed dimensions %q: %w", l.TransformedDimensions, err)
	}
	mult, err := strconv.Atoi(l.Multiplier)
	if err != nil {
		return 0, fmt.Errorf("multiplier %q: %w", l.Multiplier, err)
	}
	return dims * mult, nil
}

// Descriptor is a validated architecture.
type Descriptor struct {
	Name    string
	Feature FeatureKind
	Layers  LayerSpec
	Token   string // include-guard token, e.g. HALFKP_256X2_32_32
}

// GuardMacro returns the include-guard macro for the generated header.
func (d *Descriptor) GuardMacro() string {
	return "NNUE_" + d.Token + "_H_INCLUDED"
}

// FileName returns the header file name for the architecture.
func (d *Descriptor) FileName() string {
	return FileName(d.Name)
}

// FileName returns "<name>.h".
func FileName(name string) string {
	return name + ".h"
}

// NormalizeToken upper-cases name and replaces every dash with an underscore.
func NormalizeToken(name string) string {
	upper := cases.Upper(language.Und).String(name)
	return strings.ReplaceAll(upper, layerSeparator, featureSeparator)
}

// Parse validates name and returns its descriptor.
// Checks run in order: separator count, feature token, layer spec.
func Parse(name string) (*Descriptor, error) {
	parts := strings.Split(name, featureSeparator)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q: architecture name must have exactly one underscore, like halfkp_256x2-32-32 or kp_256x2-32-32 halfkpvm_256x2-32-32",
			ErrInvalidArchitectureName, name)
	}

	feature, err := ParseFeature(parts[0])
	if err != nil {
		return nil, err
	}

	layers, err := ParseLayers(parts[1])
	if err != nil {
		return nil, err
	}

	return &Descriptor{
		Name:    name,
		Feature: feature,
		Layers:  layers,
		Token:   NormalizeToken(name),
	}, nil
}

// ParseLayers parses the layer part of an architecture name.
func ParseLayers(s string) (LayerSpec, error) {
	fields := strings.Split(s, layerSeparator)
	if len(fields) != 3 {
		return LayerSpec{}, fmt.Errorf("%w: layers must be like 256x2-32-32, layers = %s", ErrInvalidLayerSpec, s)
	}
	first := strings.Split(fields[0], widthSeparator)
	if len(first) != 2 {
		return LayerSpec{}, fmt.Errorf("%w: layers must be like 256x2-32-32, layers = %s", ErrInvalidLayerSpec, s)
	}
	return LayerSpec{
		TransformedDimensions: first[0],
		Multiplier:            first[1],
		Hidden1:               fields[1],
		Hidden2:               fields[2],
	}, nil
}
