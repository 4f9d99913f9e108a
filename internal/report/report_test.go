package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lbphist/internal/lbp"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteCSV(&buf, []int{0, 1, lbp.OverflowKey}, lbp.FeatureVector{2, 0, 5})
	require.NoError(t, err)

	want := "bin,code,count\n0,0,2\n1,1,0\n2,,5\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVRejectsMismatch(t *testing.T) {
	t.Parallel()

	err := WriteCSV(&bytes.Buffer{}, []int{0}, lbp.FeatureVector{1, 2})
	assert.ErrorIs(t, err, lbp.ErrLengthMismatch)
}

func TestSavePlot(t *testing.T) {
	t.Parallel()

	tr, err := lbp.NewTransform(lbp.DefaultParams(), nil)
	require.NoError(t, err)
	vec, err := tr.Extract([]lbp.Channel{{Rows: 2, Cols: 2, Pix: []uint8{0, 0, 255, 1}}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hist.png")
	require.NoError(t, SavePlot(path, "test", tr.Keys(), vec))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSavePlotRejectsEmpty(t *testing.T) {
	t.Parallel()

	err := SavePlot(filepath.Join(t.TempDir(), "x.png"), "empty", nil, nil)
	assert.Error(t, err)
}
