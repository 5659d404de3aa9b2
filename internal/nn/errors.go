package nn

import "errors"

var (
	ErrLayerActivationMismatch = errors.New("layer sizes must be one longer than activations")
	ErrInvalidLayerSize        = errors.New("layer size must be positive")
	ErrWidthMismatch           = errors.New("weight vector width does not match previous layer")
	ErrEmptyNetwork            = errors.New("network has no layers")
	ErrUnknownActivation       = errors.New("unknown activation")
)
