package arch

import (
	"fmt"
	"strconv"

	"github.com/hailam/chessplay/sfnnue/layers"
)

// inputSliceHash seeds the layer chain (input_slice.h).
const inputSliceHash = uint32(0xEC42E90D)

// NetworkHash returns the hash of the layer chain described by d:
//
//	InputSlice -> AffineTransform(Hidden1) -> ClippedReLU
//	           -> AffineTransform(Hidden2) -> ClippedReLU
//	           -> AffineTransform(1)
//
// It is the network half of the hash an evaluation file header carries.
// Hidden widths are not validated by Parse, so this fails for names whose
// widths are not integers.
func (d *Descriptor) NetworkHash() (uint32, error) {
	in, err := d.Layers.InputDimensions()
	if err != nil {
		return 0, err
	}
	h1, err := strconv.Atoi(d.Layers.Hidden1)
	if err != nil {
		return 0, fmt.Errorf("hidden layer 1 width %q: %w", d.Layers.Hidden1, err)
	}
	h2, err := strconv.Atoi(d.Layers.Hidden2)
	if err != nil {
		return 0, fmt.Errorf("hidden layer 2 width %q: %w", d.Layers.Hidden2, err)
	}

	hash := inputSliceHash ^ uint32(in)
	hash = layers.ClippedReLUHashValue(layers.AffineTransformHashValue(hash, h1))
	hash = layers.ClippedReLUHashValue(layers.AffineTransformHashValue(hash, h2))
	hash = layers.AffineTransformHashValue(hash, OutputDimensions)
	return hash, nil
}
