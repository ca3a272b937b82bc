package arch

import "errors"

// Validation errors. Concrete errors wrap one of these; test with errors.Is.
var (
	ErrInvalidArchitectureName = errors.New("invalid architecture name")
	ErrUnsupportedInputFeature = errors.New("unsupported input feature")
	ErrInvalidLayerSpec        = errors.New("invalid layer spec")
)
