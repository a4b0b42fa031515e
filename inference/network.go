// Package inference evaluates the trained credit-risk artifacts: a dense
// feed-forward network and an optional fitted scaler. Both are immutable once
// parsed and safe for concurrent use.
package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

type Activation string

const (
	ActivationLinear  Activation = "linear"
	ActivationReLU    Activation = "relu"
	ActivationSigmoid Activation = "sigmoid"
	ActivationTanh    Activation = "tanh"
)

// Layer is one dense layer. Weights[j] holds the input weights of output unit j.
type Layer struct {
	Activation Activation  `json:"activation"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
}

type networkFile struct {
	Name     string  `json:"name"`
	InputDim int     `json:"input_dim"`
	Layers   []Layer `json:"layers"`
}

// Network is a loaded model artifact.
type Network struct {
	name        string
	inputDim    int
	layers      []Layer
	fingerprint string
}

// ParseNetwork decodes and validates a model artifact.
func ParseNetwork(data []byte) (*Network, error) {
	var file networkFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := validateLayers(file.InputDim, file.Layers); err != nil {
		return nil, err
	}
	return &Network{
		name:        file.Name,
		inputDim:    file.InputDim,
		layers:      file.Layers,
		fingerprint: strconv.FormatUint(xxhash.Sum64(data), 16),
	}, nil
}

// NewNetwork builds a network from in-memory layers.
func NewNetwork(name string, inputDim int, layers []Layer) (*Network, error) {
	if err := validateLayers(inputDim, layers); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(networkFile{Name: name, InputDim: inputDim, Layers: layers})
	if err != nil {
		return nil, err
	}
	return &Network{
		name:        name,
		inputDim:    inputDim,
		layers:      layers,
		fingerprint: strconv.FormatUint(xxhash.Sum64(payload), 16),
	}, nil
}

func validateLayers(inputDim int, layers []Layer) error {
	if inputDim <= 0 {
		return errors.New("model input_dim must be positive")
	}
	if len(layers) == 0 {
		return errors.New("model has no layers")
	}
	width := inputDim
	for i, layer := range layers {
		if len(layer.Weights) == 0 {
			return fmt.Errorf("layer %d has no units", i)
		}
		if len(layer.Bias) != len(layer.Weights) {
			return fmt.Errorf("layer %d: %d biases for %d units", i, len(layer.Bias), len(layer.Weights))
		}
		for j, row := range layer.Weights {
			if len(row) != width {
				return fmt.Errorf("layer %d unit %d: %d weights, expected %d", i, j, len(row), width)
			}
		}
		if _, err := activationFunc(layer.Activation); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		width = len(layer.Weights)
	}
	if width != 1 {
		return fmt.Errorf("model output must have 1 unit, got %d", width)
	}
	return nil
}

func (n *Network) Name() string        { return n.name }
func (n *Network) InputDim() int       { return n.inputDim }
func (n *Network) Fingerprint() string { return n.fingerprint }

// Forward runs the network on x and returns the single output unit.
func (n *Network) Forward(x []float64) (float64, error) {
	if len(x) != n.inputDim {
		return 0, fmt.Errorf("input has %d features, model expects %d", len(x), n.inputDim)
	}

	current := x
	for _, layer := range n.layers {
		activate, _ := activationFunc(layer.Activation)
		next := make([]float64, len(layer.Weights))
		for j, row := range layer.Weights {
			sum := layer.Bias[j]
			for i, w := range row {
				sum += w * current[i]
			}
			next[j] = activate(sum)
		}
		current = next
	}

	score := current[0]
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("model produced non-finite score %v", score)
	}
	return score, nil
}

func activationFunc(a Activation) (func(float64) float64, error) {
	switch a {
	case ActivationLinear, "":
		return func(v float64) float64 { return v }, nil
	case ActivationReLU:
		return func(v float64) float64 { return math.Max(0, v) }, nil
	case ActivationSigmoid:
		return sigmoid, nil
	case ActivationTanh:
		return math.Tanh, nil
	default:
		return nil, fmt.Errorf("unsupported activation %q", a)
	}
}

func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}
