package core

import "errors"

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidBoard     = errors.New("invalid board")
	ErrInvalidExponent  = errors.New("tile exponent out of range")
)
