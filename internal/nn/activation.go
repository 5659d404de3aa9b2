package nn

import (
	"fmt"
	"math"
	"strings"
)

// Activation is the non-linearity applied to every neuron output of a layer.
type Activation int

const (
	Sigmoid Activation = iota
	ReLU
	Tanh
	Identity
)

var activationNames = map[Activation]string{
	Sigmoid:  "sigmoid",
	ReLU:     "relu",
	Tanh:     "tanh",
	Identity: "identity",
}

// Apply evaluates the activation at x.
func (a Activation) Apply(x float64) float64 {
	switch a {
	case Sigmoid:
		return 1.0 / (1.0 + math.Exp(-x))
	case ReLU:
		if x > 0 {
			return x
		}
		return 0
	case Tanh:
		return math.Tanh(x)
	default:
		return x
	}
}

func (a Activation) String() string {
	if name, ok := activationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("activation(%d)", int(a))
}

// ParseActivation accepts sigmoid, relu, tanh, identity and its alias none.
func ParseActivation(s string) (Activation, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "none" {
		return Identity, nil
	}
	for a, n := range activationNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownActivation)
}

// ParseActivations parses a list of activation names.
func ParseActivations(names []string) ([]Activation, error) {
	out := make([]Activation, len(names))
	for i, n := range names {
		a, err := ParseActivation(n)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func (a Activation) MarshalText() ([]byte, error) {
	name, ok := activationNames[a]
	if !ok {
		return nil, fmt.Errorf("activation(%d): %w", int(a), ErrUnknownActivation)
	}
	return []byte(name), nil
}

func (a *Activation) UnmarshalText(text []byte) error {
	parsed, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
