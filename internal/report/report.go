package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"lbphist/internal/lbp"
)

// WriteCSV writes one "bin,code,count" row per bin. The code column is empty
// for the overflow bin.
func WriteCSV(w io.Writer, keys []int, vec lbp.FeatureVector) error {
	if len(keys) != len(vec) {
		return fmt.Errorf("%w: %d keys for %d bins", lbp.ErrLengthMismatch, len(keys), len(vec))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"bin", "code", "count"}); err != nil {
		return err
	}

	for i, count := range vec {
		if err := cw.Write([]string{
			strconv.Itoa(i),
			keyLabel(keys[i]),
			strconv.FormatFloat(count, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func keyLabel(key int) string {
	if key == lbp.OverflowKey {
		return ""
	}
	return strconv.Itoa(key)
}

// SavePlot renders the feature vector as a bar chart. The output format
// follows the file extension (png, svg, pdf, ...).
func SavePlot(path, title string, keys []int, vec lbp.FeatureVector) error {
	if len(keys) != len(vec) {
		return fmt.Errorf("%w: %d keys for %d bins", lbp.ErrLengthMismatch, len(keys), len(vec))
	}
	if len(vec) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "bin"
	p.Y.Label.Text = "count"

	bars, err := plotter.NewBarChart(plotter.Values(vec), vg.Points(4))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	// Label every eighth bin to keep the axis readable.
	labels := make([]string, len(keys))
	for i, key := range keys {
		switch {
		case key == lbp.OverflowKey:
			labels[i] = "rest"
		case i%8 == 0:
			labels[i] = keyLabel(key)
		}
	}
	p.NominalX(labels...)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
