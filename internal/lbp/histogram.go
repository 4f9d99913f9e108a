package lbp

import (
	"fmt"
	"image"
)

// Histogram holds one channel's per-bin pixel counts.
type Histogram []float64

// Channel is one 8-bit plane of an LBP-encoded image, stored row-major.
type Channel struct {
	Rows int
	Cols int
	Pix  []uint8
}

func NewChannel(rows, cols int) Channel {
	return Channel{Rows: rows, Cols: cols, Pix: make([]uint8, rows*cols)}
}

// ChannelFromGray copies a grayscale image into a Channel, honoring the
// image stride and bounds.
func ChannelFromGray(img *image.Gray) Channel {
	bounds := img.Bounds()
	ch := NewChannel(bounds.Dy(), bounds.Dx())

	for y := 0; y < ch.Rows; y++ {
		offset := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(ch.Pix[y*ch.Cols:(y+1)*ch.Cols], img.Pix[offset:offset+ch.Cols])
	}
	return ch
}

func (ch Channel) Validate() error {
	if ch.Rows <= 0 || ch.Cols <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidChannel, ch.Cols, ch.Rows)
	}
	if len(ch.Pix) != ch.Rows*ch.Cols {
		return fmt.Errorf("%w: %d pixels for size %dx%d", ErrInvalidChannel, len(ch.Pix), ch.Cols, ch.Rows)
	}
	return nil
}

func (ch Channel) At(row, col int) uint8 {
	return ch.Pix[row*ch.Cols+col]
}

func (ch Channel) SameShape(other Channel) bool {
	return ch.Rows == other.Rows && ch.Cols == other.Cols
}

// Tally counts every pixel of ch into hist, which must be a clone of the
// template. Pixels whose code has no bin are dropped.
func (t *Template) Tally(ch Channel, hist Histogram) (Histogram, error) {
	if len(hist) != len(t.keys) {
		return nil, fmt.Errorf("%w: histogram has %d bins, template has %d", ErrLengthMismatch, len(hist), len(t.keys))
	}

	for _, v := range ch.Pix {
		if bin := t.lut[v]; bin != noBin {
			hist[bin]++
		}
	}
	return hist, nil
}

// ValidateChannels checks that an image is non-empty and that every channel
// is well formed and shares the first channel's dimensions.
func ValidateChannels(channels []Channel) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}

	first := channels[0]
	for i, ch := range channels {
		if err := ch.Validate(); err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		if !ch.SameShape(first) {
			return fmt.Errorf("%w: channel %d is %dx%d, channel 0 is %dx%d",
				ErrShapeMismatch, i, ch.Cols, ch.Rows, first.Cols, first.Rows)
		}
	}
	return nil
}
