package nn

import (
	"fmt"
)

// Rand is the randomness used for initialisation and mutation.
type Rand interface {
	Float64() float64
}

// Neuron holds one weight per input plus a bias.
type Neuron struct {
	Weights []float64
	Bias    float64
}

func newNeuron(inputs int, r Rand) Neuron {
	w := make([]float64, inputs)
	for i := range w {
		w[i] = r.Float64()
	}
	return Neuron{Weights: w, Bias: r.Float64()}
}

func (n Neuron) forward(input []float64) float64 {
	sum := n.Bias
	for i, w := range n.Weights {
		sum += w * input[i]
	}
	return sum
}

func (n *Neuron) mutate(rate, magnitude float64, r Rand) {
	for i := range n.Weights {
		if r.Float64() < rate {
			n.Weights[i] += perturbation(magnitude, r)
		}
	}
	if r.Float64() < rate {
		n.Bias += perturbation(magnitude, r)
	}
}

// perturbation draws uniformly from [-magnitude, magnitude].
func perturbation(magnitude float64, r Rand) float64 {
	return (r.Float64()*2 - 1) * magnitude
}

// Layer is a fully connected layer.
type Layer struct {
	Neurons    []Neuron
	Activation Activation
}

// InputWidth is the number of inputs every neuron of the layer expects.
func (l Layer) InputWidth() int {
	if len(l.Neurons) == 0 {
		return 0
	}
	return len(l.Neurons[0].Weights)
}

func (l Layer) forward(input []float64) []float64 {
	out := make([]float64, len(l.Neurons))
	for i, n := range l.Neurons {
		out[i] = l.Activation.Apply(n.forward(input))
	}
	return out
}

// Network is a fixed-topology feed-forward network. It is immutable during
// Forward and safe for concurrent Forward calls; Mutate needs exclusive access.
type Network struct {
	Layers []Layer
}

// New builds a network whose layer i maps sizes[i] inputs to sizes[i+1]
// neurons with acts[i]. Weights and biases start uniform in [0, 1).
func New(sizes []int, acts []Activation, r Rand) (*Network, error) {
	if len(sizes) != len(acts)+1 {
		return nil, fmt.Errorf("%d sizes for %d activations: %w", len(sizes), len(acts), ErrLayerActivationMismatch)
	}
	if len(acts) == 0 {
		return nil, ErrEmptyNetwork
	}
	for i, s := range sizes {
		if s <= 0 {
			return nil, fmt.Errorf("layer %d size %d: %w", i, s, ErrInvalidLayerSize)
		}
	}

	layers := make([]Layer, len(acts))
	for i, act := range acts {
		neurons := make([]Neuron, sizes[i+1])
		for j := range neurons {
			neurons[j] = newNeuron(sizes[i], r)
		}
		layers[i] = Layer{Neurons: neurons, Activation: act}
	}
	return &Network{Layers: layers}, nil
}

// Validate checks that every layer is non-empty and that widths chain.
func (n *Network) Validate() error {
	if len(n.Layers) == 0 {
		return ErrEmptyNetwork
	}
	for i, l := range n.Layers {
		if len(l.Neurons) == 0 {
			return fmt.Errorf("layer %d: %w", i, ErrInvalidLayerSize)
		}
		want := l.InputWidth()
		if want == 0 {
			return fmt.Errorf("layer %d has no inputs: %w", i, ErrInvalidLayerSize)
		}
		if i > 0 && want != len(n.Layers[i-1].Neurons) {
			return fmt.Errorf("layer %d expects %d inputs, previous layer has %d neurons: %w",
				i, want, len(n.Layers[i-1].Neurons), ErrWidthMismatch)
		}
		for j, neuron := range l.Neurons {
			if len(neuron.Weights) != want {
				return fmt.Errorf("layer %d neuron %d has %d weights, want %d: %w",
					i, j, len(neuron.Weights), want, ErrWidthMismatch)
			}
		}
		if _, ok := activationNames[l.Activation]; !ok {
			return fmt.Errorf("layer %d: %w", i, ErrUnknownActivation)
		}
	}
	return nil
}

// InputWidth is the length Forward expects.
func (n *Network) InputWidth() int {
	if len(n.Layers) == 0 {
		return 0
	}
	return n.Layers[0].InputWidth()
}

// OutputWidth is the length Forward returns.
func (n *Network) OutputWidth() int {
	if len(n.Layers) == 0 {
		return 0
	}
	return len(n.Layers[len(n.Layers)-1].Neurons)
}

// Forward runs input through every layer. It panics if len(input) differs
// from InputWidth.
func (n *Network) Forward(input []float64) []float64 {
	if len(input) != n.InputWidth() {
		panic(fmt.Sprintf("nn: forward input width %d, network expects %d", len(input), n.InputWidth()))
	}
	out := input
	for _, l := range n.Layers {
		out = l.forward(out)
	}
	return out
}

// Mutate perturbs every weight and bias independently with probability rate
// by a uniform amount in [-magnitude, magnitude].
func (n *Network) Mutate(rate, magnitude float64, r Rand) {
	for i := range n.Layers {
		for j := range n.Layers[i].Neurons {
			n.Layers[i].Neurons[j].mutate(rate, magnitude, r)
		}
	}
}

// Clone returns a deep copy.
func (n *Network) Clone() *Network {
	layers := make([]Layer, len(n.Layers))
	for i, l := range n.Layers {
		neurons := make([]Neuron, len(l.Neurons))
		for j, neuron := range l.Neurons {
			neurons[j] = Neuron{
				Weights: append([]float64(nil), neuron.Weights...),
				Bias:    neuron.Bias,
			}
		}
		layers[i] = Layer{Neurons: neurons, Activation: l.Activation}
	}
	return &Network{Layers: layers}
}

// Sizes returns the layer widths including the input width.
func (n *Network) Sizes() []int {
	sizes := []int{n.InputWidth()}
	for _, l := range n.Layers {
		sizes = append(sizes, len(l.Neurons))
	}
	return sizes
}
