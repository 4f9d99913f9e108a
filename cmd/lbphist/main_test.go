package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func writeCodes(t *testing.T, dir, name string, rows, cols int, matType gocv.MatType, data []byte) string {
	t.Helper()
	mat, err := gocv.NewMatFromBytes(rows, cols, matType, data)
	require.NoError(t, err)
	defer mat.Close()

	path := filepath.Join(dir, name)
	require.True(t, gocv.IMWrite(path, mat))
	return path
}

func TestRunPrintsCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCodes(t, dir, "flat.png", 2, 2, gocv.MatTypeCV8UC1, []byte{0, 0, 255, 255})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-log-level", "error", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2+58)
	assert.Equal(t, "# "+path, lines[0])
	assert.Equal(t, "bin,code,count", lines[1])
	assert.Equal(t, "0,0,2", lines[2])
	assert.Equal(t, "57,255,2", lines[len(lines)-1])
}

func TestRunSumWithOverflowBin(t *testing.T) {
	dir := t.TempDir()
	a := writeCodes(t, dir, "a.png", 1, 2, gocv.MatTypeCV8UC1, []byte{0, 0x55})
	b := writeCodes(t, dir, "b.png", 1, 2, gocv.MatTypeCV8UC1, []byte{0x05, 0xFF})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-log-level", "error", "-sum", "-ignore-rest=false", a, b}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "# sum\n")
	assert.Contains(t, out, "\n0,0,1\n")
	assert.Contains(t, out, "\n57,255,1\n")
	assert.Contains(t, out, "\n58,,2\n")
}

func TestRunWritesFiles(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0755))
	path := writeCodes(t, dir, "rgb.png", 1, 2, gocv.MatTypeCV8UC3, []byte{0, 1, 2, 3, 4, 6})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-log-level", "error", "-out", outDir, "-plot", outDir, path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Zero(t, stdout.Len())

	data, err := os.ReadFile(filepath.Join(outDir, "rgb.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "bin,code,count\n0,0,1\n1,1,1\n"))

	_, err = os.Stat(filepath.Join(outDir, "rgb.png"))
	assert.NoError(t, err)
}

func TestRunUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage:")

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"-max-transitions", "-1", "x.png"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "max_transitions must be non-negative")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-log-level", "error", filepath.Join(t.TempDir(), "missing.png")}, &stdout, &stderr))
}

func TestBuildConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lbp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_transitions": 4, "bin_keying": "sequential"}`), 0644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts := options{configPath: path}
	fs.StringVar(&opts.keying, "keying", "pattern", "")
	require.NoError(t, fs.Parse([]string{"-keying", "pattern"}))

	cfg, err := buildConfig(fs, opts)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.GetMaxTransitions())
	assert.Equal(t, "pattern", cfg.GetBinKeying())
}
