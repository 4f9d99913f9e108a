package lbphist

import (
	"fmt"
	"math"
	"sync"

	"lbphist/internal/lbp"
	"lbphist/internal/logger"
)

const Name = "LBP Histogram"

// Processor adapts lbp.Transform to parameter maps. Transforms are built
// once per distinct parameter set and reused.
type Processor struct {
	name       string
	logger     logger.Logger
	transforms map[lbp.Params]*lbp.Transform
	mu         sync.Mutex
}

func NewProcessor(log logger.Logger) *Processor {
	if log == nil {
		log = logger.NewNop()
	}

	return &Processor{
		name:       Name,
		logger:     log,
		transforms: make(map[lbp.Params]*lbp.Transform),
	}
}

func (p *Processor) GetName() string {
	return p.name
}

func (p *Processor) GetDefaultParameters() map[string]interface{} {
	return ParamsToMap(lbp.DefaultParams())
}

func ParamsToMap(params lbp.Params) map[string]interface{} {
	return map[string]interface{}{
		"max_transitions": params.MaxTransitions,
		"ignore_rest":     params.IgnoreRest,
		"min":             params.Min,
		"bin_keying":      params.Keying.String(),
	}
}

func (p *Processor) ValidateParameters(params map[string]interface{}) error {
	_, err := ParamsFromMap(params)
	return err
}

// ParamsFromMap overlays params on the defaults. Numbers decoded from JSON
// arrive as float64 and are accepted when integral.
func ParamsFromMap(params map[string]interface{}) (lbp.Params, error) {
	result := lbp.DefaultParams()

	if v, ok := params["max_transitions"]; ok {
		maxTransitions, err := intParam("max_transitions", v)
		if err != nil {
			return lbp.Params{}, err
		}
		result.MaxTransitions = maxTransitions
	}

	if v, ok := params["ignore_rest"]; ok {
		ignoreRest, isBool := v.(bool)
		if !isBool {
			return lbp.Params{}, fmt.Errorf("%w: ignore_rest must be a bool, got: %T", lbp.ErrConfiguration, v)
		}
		result.IgnoreRest = ignoreRest
	}

	if v, ok := params["min"]; ok {
		switch n := v.(type) {
		case float64:
			result.Min = n
		case float32:
			result.Min = float64(n)
		case int:
			result.Min = float64(n)
		default:
			return lbp.Params{}, fmt.Errorf("%w: min must be a number, got: %T", lbp.ErrConfiguration, v)
		}
	}

	if v, ok := params["bin_keying"]; ok {
		s, isString := v.(string)
		if !isString {
			return lbp.Params{}, fmt.Errorf("%w: bin_keying must be a string, got: %T", lbp.ErrConfiguration, v)
		}
		keying, err := lbp.ParseBinKeying(s)
		if err != nil {
			return lbp.Params{}, err
		}
		result.Keying = keying
	}

	if err := result.Validate(); err != nil {
		return lbp.Params{}, err
	}
	return result, nil
}

func intParam(key string, v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%w: %s must be an integer, got: %f", lbp.ErrConfiguration, key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer, got: %T", lbp.ErrConfiguration, key, v)
	}
}

// Transform returns the cached transform for params, building it on first use.
func (p *Processor) Transform(params map[string]interface{}) (*lbp.Transform, error) {
	parsed, err := ParamsFromMap(params)
	if err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if transform, ok := p.transforms[parsed]; ok {
		return transform, nil
	}

	transform, err := lbp.NewTransform(parsed, p.logger)
	if err != nil {
		return nil, err
	}
	p.transforms[parsed] = transform
	return transform, nil
}

// BinKeys reports the key of every output bin for params.
func (p *Processor) BinKeys(params map[string]interface{}) ([]int, error) {
	transform, err := p.Transform(params)
	if err != nil {
		return nil, err
	}
	return transform.Keys(), nil
}

func (p *Processor) Extract(channels []lbp.Channel, params map[string]interface{}) (lbp.FeatureVector, error) {
	transform, err := p.Transform(params)
	if err != nil {
		return nil, err
	}
	return transform.Extract(channels)
}

func (p *Processor) Project(channels []lbp.Channel, params map[string]interface{}, dst lbp.FeatureVector) error {
	transform, err := p.Transform(params)
	if err != nil {
		return err
	}
	return transform.Project(channels, dst)
}
