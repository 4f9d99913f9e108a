package lbp

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// FeatureVector is the element-wise sum of all channel histograms of an image.
type FeatureVector []float64

// Accumulate adds h into dst bin by bin. Channels are merged, not
// concatenated, so the vector length never depends on the channel count.
func Accumulate(dst FeatureVector, h Histogram) error {
	if len(dst) != len(h) {
		return fmt.Errorf("%w: feature vector has %d bins, histogram has %d", ErrLengthMismatch, len(dst), len(h))
	}
	floats.Add(dst, h)
	return nil
}

// Total returns the number of pixels counted into v.
func (v FeatureVector) Total() float64 {
	return floats.Sum(v)
}

func (h Histogram) Total() float64 {
	return floats.Sum(h)
}
