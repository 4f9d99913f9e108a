package lbp

import (
	"fmt"
	"math"

	"lbphist/internal/logger"
)

const component = "LBPHistogram"

// Params configures a Transform.
type Params struct {
	MaxTransitions int
	IgnoreRest     bool
	// Min is accepted for configuration compatibility only; no bin depends on it.
	Min    float64
	Keying BinKeying
}

func DefaultParams() Params {
	return Params{
		MaxTransitions: 2,
		IgnoreRest:     true,
		Min:            0,
		Keying:         KeyByPattern,
	}
}

func (p Params) Validate() error {
	if p.MaxTransitions < 0 {
		return fmt.Errorf("%w: max_transitions must be non-negative, got: %d", ErrConfiguration, p.MaxTransitions)
	}
	if math.IsNaN(p.Min) || math.IsInf(p.Min, 0) {
		return fmt.Errorf("%w: min must be finite, got: %f", ErrConfiguration, p.Min)
	}
	if p.Keying != KeyByPattern && p.Keying != KeyBySequence {
		return fmt.Errorf("%w: unknown bin keying %d", ErrConfiguration, int(p.Keying))
	}
	return nil
}

// Transform turns LBP-encoded images into uniform-pattern feature vectors.
// All per-image state lives on the caller's stack, so one Transform may
// serve any number of goroutines.
type Transform struct {
	params     Params
	classifier *Classifier
	template   *Template
	logger     logger.Logger
}

func NewTransform(params Params, log logger.Logger) (*Transform, error) {
	if log == nil {
		log = logger.NewNop()
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	classifier, err := NewClassifier(params.MaxTransitions, params.IgnoreRest)
	if err != nil {
		return nil, err
	}

	template, err := BuildTemplate(classifier, params.Keying)
	if err != nil {
		return nil, err
	}

	if params.Min != 0 {
		log.Warning(component, "min has no effect on lbp histograms", map[string]interface{}{
			"min": params.Min,
		})
	}

	log.Info(component, "bin template built", map[string]interface{}{
		"max_transitions": params.MaxTransitions,
		"ignore_rest":     params.IgnoreRest,
		"bin_keying":      params.Keying.String(),
		"bins":            template.Len(),
	})

	return &Transform{
		params:     params,
		classifier: classifier,
		template:   template,
		logger:     log,
	}, nil
}

func (t *Transform) Params() Params {
	return t.params
}

func (t *Transform) BinCount() int {
	return t.template.Len()
}

func (t *Transform) Keys() []int {
	return t.template.Keys()
}

func (t *Transform) Classifier() *Classifier {
	return t.classifier
}

func (t *Transform) Template() *Template {
	return t.template
}

// Project adds the histograms of every channel into dst. Input is fully
// validated before dst is touched.
func (t *Transform) Project(channels []Channel, dst FeatureVector) error {
	if err := ValidateChannels(channels); err != nil {
		return err
	}
	if len(dst) != t.template.Len() {
		return fmt.Errorf("%w: output buffer has %d bins, want %d", ErrLengthMismatch, len(dst), t.template.Len())
	}

	for i, ch := range channels {
		hist, err := t.template.Tally(ch, t.template.Clone())
		if err != nil {
			return fmt.Errorf("channel %d tally failed: %w", i, err)
		}
		if err := Accumulate(dst, hist); err != nil {
			return fmt.Errorf("channel %d accumulation failed: %w", i, err)
		}
	}

	t.logger.Debug(component, "image projected", map[string]interface{}{
		"channels": len(channels),
		"rows":     channels[0].Rows,
		"cols":     channels[0].Cols,
	})
	return nil
}

// Extract returns a new feature vector for one image.
func (t *Transform) Extract(channels []Channel) (FeatureVector, error) {
	dst := make(FeatureVector, t.template.Len())
	if err := t.Project(channels, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
