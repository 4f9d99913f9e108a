package lbp

import (
	"fmt"
	"math/bits"
)

// codeSpace is the number of distinct 8-bit pattern codes.
const codeSpace = 256

// Classifier decides which pattern codes are uniform for a given
// transition threshold.
type Classifier struct {
	maxTransitions int
	ignoreRest     bool
}

func NewClassifier(maxTransitions int, ignoreRest bool) (*Classifier, error) {
	if maxTransitions < 0 {
		return nil, fmt.Errorf("%w: max_transitions must be non-negative, got: %d", ErrConfiguration, maxTransitions)
	}

	return &Classifier{
		maxTransitions: maxTransitions,
		ignoreRest:     ignoreRest,
	}, nil
}

// TransitionCount returns the number of 0/1 changes when walking the bits
// of code circularly, including the step from the last bit back to the first.
func TransitionCount(code uint8) int {
	return bits.OnesCount8(code ^ bits.RotateLeft8(code, 1))
}

func (c *Classifier) MaxTransitions() int {
	return c.maxTransitions
}

func (c *Classifier) IgnoreRest() bool {
	return c.ignoreRest
}

func (c *Classifier) IsUniform(code uint8) bool {
	return TransitionCount(code) <= c.maxTransitions
}

// CountBins returns the number of uniform codes, plus one overflow bin for
// all remaining codes unless they are ignored.
func (c *Classifier) CountBins() int {
	bins := 0
	for code := 0; code < codeSpace; code++ {
		if c.IsUniform(uint8(code)) {
			bins++
		}
	}

	if !c.ignoreRest {
		bins++
	}
	return bins
}

// UniformCodes lists the uniform codes in ascending order.
func (c *Classifier) UniformCodes() []uint8 {
	codes := make([]uint8, 0, codeSpace)
	for code := 0; code < codeSpace; code++ {
		if c.IsUniform(uint8(code)) {
			codes = append(codes, uint8(code))
		}
	}
	return codes
}
