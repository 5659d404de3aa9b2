package nn

import "fmt"

// NeuronRecord is the serialized form of a Neuron.
type NeuronRecord struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// LayerRecord is the serialized form of a Layer.
type LayerRecord struct {
	Neurons    []NeuronRecord `json:"neurons"`
	Activation Activation     `json:"activation"`
}

// Record is the structured persistence form of a Network.
type Record struct {
	Layers []LayerRecord `json:"layers"`
}

// Record returns a deep copy of the network as a Record.
func (n *Network) Record() Record {
	rec := Record{Layers: make([]LayerRecord, len(n.Layers))}
	for i, l := range n.Layers {
		neurons := make([]NeuronRecord, len(l.Neurons))
		for j, neuron := range l.Neurons {
			neurons[j] = NeuronRecord{
				Weights: append([]float64(nil), neuron.Weights...),
				Bias:    neuron.Bias,
			}
		}
		rec.Layers[i] = LayerRecord{Neurons: neurons, Activation: l.Activation}
	}
	return rec
}

// FromRecord rebuilds a network and validates its topology.
func FromRecord(rec Record) (*Network, error) {
	n := &Network{Layers: make([]Layer, len(rec.Layers))}
	for i, l := range rec.Layers {
		neurons := make([]Neuron, len(l.Neurons))
		for j, neuron := range l.Neurons {
			neurons[j] = Neuron{
				Weights: append([]float64(nil), neuron.Weights...),
				Bias:    neuron.Bias,
			}
		}
		n.Layers[i] = Layer{Neurons: neurons, Activation: l.Activation}
	}
	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network record: %w", err)
	}
	return n, nil
}
