package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lbphist/internal/algorithms/lbphist"
	"lbphist/internal/lbp"
	"lbphist/internal/logger"
)

func TestManagerRegistersLBPHistogram(t *testing.T) {
	t.Parallel()

	m := NewManager(logger.NewNop())
	assert.Equal(t, []string{lbphist.Name}, m.GetAvailableExtractors())
	assert.Equal(t, lbphist.Name, m.GetCurrentExtractor())

	extractor, err := m.GetExtractor(lbphist.Name)
	require.NoError(t, err)
	assert.Equal(t, lbphist.Name, extractor.GetName())

	_, err = m.GetExtractor("HOG")
	assert.Error(t, err)
	assert.Error(t, m.SetCurrentExtractor("HOG"))
}

func TestManagerSetParameter(t *testing.T) {
	t.Parallel()

	m := NewManager(logger.NewNop())

	require.NoError(t, m.SetParameter(lbphist.Name, "ignore_rest", false))
	params := m.GetParameters(lbphist.Name)
	assert.Equal(t, false, params["ignore_rest"])

	err := m.SetParameter(lbphist.Name, "max_transitions", -3)
	assert.ErrorIs(t, err, lbp.ErrConfiguration)
	assert.Equal(t, 2, m.GetParameters(lbphist.Name)["max_transitions"])

	assert.Error(t, m.SetParameter("HOG", "cells", 8))
}

func TestManagerParametersAreCopies(t *testing.T) {
	t.Parallel()

	m := NewManager(logger.NewNop())
	params := m.GetParameters(lbphist.Name)
	params["max_transitions"] = 99

	assert.Equal(t, 2, m.GetParameters(lbphist.Name)["max_transitions"])
	assert.Empty(t, m.GetParameters("HOG"))
}

func TestManagerExtractWithStoredParameters(t *testing.T) {
	t.Parallel()

	m := NewManager(logger.NewNop())
	require.NoError(t, m.SetParameter(lbphist.Name, "ignore_rest", false))

	extractor, err := m.GetExtractor(m.GetCurrentExtractor())
	require.NoError(t, err)

	ch := lbp.Channel{Rows: 1, Cols: 2, Pix: []uint8{0, 0x55}}
	vec, err := extractor.Extract([]lbp.Channel{ch}, m.GetParameters(lbphist.Name))
	require.NoError(t, err)
	require.Len(t, vec, 59)
	assert.Equal(t, 1.0, vec[0])
	assert.Equal(t, 1.0, vec[58])
}

func TestManagerSetParameters(t *testing.T) {
	t.Parallel()

	m := NewManager(logger.NewNop())

	params := lbp.DefaultParams()
	params.MaxTransitions = 4
	require.NoError(t, m.SetParameters(lbphist.Name, lbphist.ParamsToMap(params)))
	assert.Equal(t, 4, m.GetParameters(lbphist.Name)["max_transitions"])

	err := m.SetParameters(lbphist.Name, map[string]interface{}{"bin_keying": "tree"})
	assert.ErrorIs(t, err, lbp.ErrConfiguration)
	assert.Equal(t, 4, m.GetParameters(lbphist.Name)["max_transitions"])

	assert.Error(t, m.SetParameters("HOG", nil))
}
