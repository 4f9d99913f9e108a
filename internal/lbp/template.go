package lbp

import (
	"fmt"
	"strings"
)

// BinKeying selects what a bin stands for.
type BinKeying int

const (
	// KeyByPattern gives every uniform code its own bin, in ascending code
	// order, followed by the overflow bin when non-uniform codes are kept.
	KeyByPattern BinKeying = iota
	// KeyBySequence labels bins 0..binCount-1 and counts a pixel only when its
	// value equals one of those labels. Kept for compatibility with feature
	// vectors produced by the legacy layout.
	KeyBySequence
)

// OverflowKey is the key reported for the bin that collects non-uniform codes.
const OverflowKey = -1

// noBin marks codes whose pixels are dropped.
const noBin = -1

func (k BinKeying) String() string {
	switch k {
	case KeyByPattern:
		return "pattern"
	case KeyBySequence:
		return "sequential"
	default:
		return fmt.Sprintf("BinKeying(%d)", int(k))
	}
}

func ParseBinKeying(s string) (BinKeying, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pattern":
		return KeyByPattern, nil
	case "sequential", "sequence":
		return KeyBySequence, nil
	default:
		return 0, fmt.Errorf("%w: unknown bin keying %q", ErrConfiguration, s)
	}
}

// Template is the zero histogram layout shared by every tally. It is built
// once and never written afterwards, so it may be read from any goroutine.
type Template struct {
	keying BinKeying
	lut    [codeSpace]int16
	keys   []int
}

// BuildTemplate derives the bin layout and the per-code lookup table.
func BuildTemplate(c *Classifier, keying BinKeying) (*Template, error) {
	t := &Template{keying: keying}

	switch keying {
	case KeyByPattern:
		for code := 0; code < codeSpace; code++ {
			if c.IsUniform(uint8(code)) {
				t.lut[code] = int16(len(t.keys))
				t.keys = append(t.keys, code)
			} else {
				t.lut[code] = noBin
			}
		}
		if !c.IgnoreRest() {
			overflow := int16(len(t.keys))
			for code := 0; code < codeSpace; code++ {
				if t.lut[code] == noBin {
					t.lut[code] = overflow
				}
			}
			t.keys = append(t.keys, OverflowKey)
		}

	case KeyBySequence:
		binCount := c.CountBins()
		t.keys = make([]int, binCount)
		for i := range t.keys {
			t.keys[i] = i
		}
		for code := 0; code < codeSpace; code++ {
			if code < binCount {
				t.lut[code] = int16(code)
			} else {
				t.lut[code] = noBin
			}
		}

	default:
		return nil, fmt.Errorf("%w: unknown bin keying %d", ErrConfiguration, int(keying))
	}

	return t, nil
}

func (t *Template) Len() int {
	return len(t.keys)
}

func (t *Template) Keying() BinKeying {
	return t.keying
}

// Keys returns a copy of the bin keys in output order.
func (t *Template) Keys() []int {
	keys := make([]int, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Bin reports the histogram slot a pixel value lands in.
func (t *Template) Bin(code uint8) (int, bool) {
	bin := t.lut[code]
	if bin == noBin {
		return 0, false
	}
	return int(bin), true
}

// Clone returns a fresh zeroed histogram laid out like the template.
func (t *Template) Clone() Histogram {
	return make(Histogram, len(t.keys))
}
