package conversion

import (
	"fmt"

	"lbphist/internal/lbp"
	"lbphist/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// SplitChannels copies every plane of an 8-bit Mat into its own Channel.
// No Mat created here outlives the call.
func SplitChannels(src gocv.Mat) ([]lbp.Channel, error) {
	if err := safe.ValidateMatForOperation(&src, "channel split"); err != nil {
		return nil, err
	}
	if err := safe.ValidateMatType(src.Type(), "channel split"); err != nil {
		return nil, err
	}

	rows, cols := src.Rows(), src.Cols()

	planes := gocv.Split(src)
	defer func() {
		for i := range planes {
			planes[i].Close()
		}
	}()

	channels := make([]lbp.Channel, len(planes))
	for i := range planes {
		plane := &planes[i]
		if plane.Rows() != rows || plane.Cols() != cols {
			return nil, fmt.Errorf("plane %d is %dx%d, source is %dx%d: %w",
				i, plane.Cols(), plane.Rows(), cols, rows, lbp.ErrShapeMismatch)
		}

		data := plane.ToBytes()
		if len(data) != rows*cols {
			return nil, fmt.Errorf("plane %d has %d bytes, want %d: %w", i, len(data), rows*cols, lbp.ErrInvalidChannel)
		}

		channels[i] = lbp.Channel{Rows: rows, Cols: cols, Pix: data}
	}

	return channels, nil
}

// LoadChannels reads an LBP-encoded image from disk without any color
// conversion and splits it into channels.
func LoadChannels(path string) ([]lbp.Channel, error) {
	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("failed to read image: %s", path)
	}

	channels, err := SplitChannels(mat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return channels, nil
}
