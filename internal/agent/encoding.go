package agent

import (
	"fmt"

	"github.com/mitchelldurbincs/Evolve2048/internal/game"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
)

// Encoding selects how a board is turned into network input.
type Encoding string

const (
	// EncodingExponents feeds the 16 raw exponents.
	EncodingExponents Encoding = "exponents"
	// EncodingOneHot feeds one MaxExponent-wide one-hot slot per cell.
	EncodingOneHot Encoding = "one_hot"
)

// ParseEncoding validates an encoding name. The empty string selects exponents.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", EncodingExponents:
		return EncodingExponents, nil
	case EncodingOneHot:
		return EncodingOneHot, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownEncoding)
}

// Width is the input width the encoding produces.
func (e Encoding) Width() int {
	if e == EncodingOneHot {
		return core.Cells * core.MaxExponent
	}
	return core.Cells
}

// Encode turns s into network input.
func (e Encoding) Encode(s game.State) []float64 {
	if e == EncodingOneHot {
		return s.OneHot()
	}
	return s.Encode()
}
