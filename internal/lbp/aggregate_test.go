package lbp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestAccumulateIsAssociative(t *testing.T) {
	t.Parallel()

	h1 := Histogram{1, 0, 3, 7}
	h2 := Histogram{2, 5, 0, 1}

	stepwise := FeatureVector{10, 10, 10, 10}
	assert.NoError(t, Accumulate(stepwise, h1))
	assert.NoError(t, Accumulate(stepwise, h2))

	summed := make(Histogram, len(h1))
	for i := range summed {
		summed[i] = h1[i] + h2[i]
	}
	combined := FeatureVector{10, 10, 10, 10}
	assert.NoError(t, Accumulate(combined, summed))

	if diff := cmp.Diff(combined, stepwise); diff != "" {
		t.Errorf("accumulation mismatch (-want +got):\n%s", diff)
	}
}

func TestAccumulateRejectsLengthMismatch(t *testing.T) {
	t.Parallel()

	dst := FeatureVector{1, 2}
	err := Accumulate(dst, Histogram{1, 2, 3})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Equal(t, FeatureVector{1, 2}, dst)
}
