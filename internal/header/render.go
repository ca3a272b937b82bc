// Package header renders and writes NNUE architecture headers.
package header

import (
	"strings"

	"github.com/hailam/nnuegen/internal/arch"
)

// Core layer primitives every architecture includes.
var layerIncludes = []string{
	"../layers/input_slice.h",
	"../layers/affine_transform.h",
	"../layers/clipped_relu.h",
}

const featureSetInclude = "../features/feature_set.h"

const indentUnit = "    "

// block is a run of lines. Blocks are separated by one blank line.
type block []string

// indent returns b with every line indented depth levels.
func (b block) indent(depth int) block {
	prefix := strings.Repeat(indentUnit, depth)
	out := make(block, len(b))
	for i, line := range b {
		out[i] = prefix + line
	}
	return out
}

func includes(paths ...string) block {
	b := make(block, len(paths))
	for i, p := range paths {
		b[i] = `#include "` + p + `"`
	}
	return b
}

// blocks returns the header for d in emission order.
func blocks(d *arch.Descriptor) []block {
	guard := d.GuardMacro()
	feature := d.Feature.Spec()
	l := d.Layers

	return []block{
		{
			"// Definition of input features and network structure used in NNUE evaluation function",
			"// NNUE評価関数で用いる入力特徴量とネットワーク構造の定義",
			"#ifndef " + guard,
			"#define " + guard,
		},
		includes(featureSetInclude),
		includes(feature.Includes...),
		includes(layerIncludes...),
		{"namespace Eval::NNUE {"},
		block{
			"// Input features used in evaluation function",
			"// 評価関数で用いる入力特徴量",
		}.indent(1),
		rawFeatures(feature.RawFeatures).indent(1),
		block{
			"// Number of input feature dimensions after conversion",
			"// 変換後の入力特徴量の次元数",
			"constexpr IndexType kTransformedFeatureDimensions = " + l.TransformedDimensions + ";",
		}.indent(1),
		block{"namespace Layers {"}.indent(1),
		block{
			"// Define network structure",
			"// ネットワーク構造の定義",
			"using InputLayer = InputSlice<kTransformedFeatureDimensions * " + l.Multiplier + ">;",
			"using HiddenLayer1 = ClippedReLU<AffineTransform<InputLayer, " + l.Hidden1 + ">>;",
			"using HiddenLayer2 = ClippedReLU<AffineTransform<HiddenLayer1, " + l.Hidden2 + ">>;",
			"using OutputLayer = AffineTransform<HiddenLayer2, 1>;",
		}.indent(2),
		block{"}  // namespace Layers"}.indent(1),
		block{"using Network = Layers::OutputLayer;"}.indent(1),
		{"}  // namespace Eval::NNUE"},
		{"#endif // #ifndef " + guard},
	}
}

// rawFeatures declares the RawFeatures alias; continuation lines are
// indented one level past the alias.
func rawFeatures(expr []string) block {
	b := make(block, len(expr))
	for i, line := range expr {
		if i == 0 {
			b[i] = "using RawFeatures = " + line
		} else {
			b[i] = indentUnit + line
		}
	}
	b[len(b)-1] += ";"
	return b
}

// Render returns the header text for d. The output has no leading blank
// line and ends with a single newline.
func Render(d *arch.Descriptor) string {
	var sb strings.Builder
	for i, b := range blocks(d) {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, line := range b {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
