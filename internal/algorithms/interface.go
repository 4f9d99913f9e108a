package algorithms

import (
	"lbphist/internal/lbp"
)

// Extractor turns the channels of one image into a feature vector.
type Extractor interface {
	Extract(channels []lbp.Channel, params map[string]interface{}) (lbp.FeatureVector, error)
	Project(channels []lbp.Channel, params map[string]interface{}, dst lbp.FeatureVector) error
	BinKeys(params map[string]interface{}) ([]int, error)
	ValidateParameters(params map[string]interface{}) error
	GetDefaultParameters() map[string]interface{}
	GetName() string
}
