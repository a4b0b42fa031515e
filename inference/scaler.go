package inference

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

type ScalerKind string

const (
	// ScalerStandard computes (x - center) / scale.
	ScalerStandard ScalerKind = "standard"
	// ScalerMinMax computes (x - min) / (max - min).
	ScalerMinMax ScalerKind = "minmax"
)

type scalerFile struct {
	Kind   ScalerKind `json:"kind"`
	Center []float64  `json:"center,omitempty"`
	Scale  []float64  `json:"scale,omitempty"`
	Min    []float64  `json:"min,omitempty"`
	Max    []float64  `json:"max,omitempty"`
}

// Scaler is a fitted per-feature transform. Internally both kinds are stored
// as an offset and a divisor.
type Scaler struct {
	kind        ScalerKind
	offset      []float64
	divisor     []float64
	fingerprint string
}

// ParseScaler decodes and validates a scaler artifact.
func ParseScaler(data []byte) (*Scaler, error) {
	var file scalerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}
	switch file.Kind {
	case ScalerStandard, "":
		return NewStandardScaler(file.Center, file.Scale)
	case ScalerMinMax:
		return NewMinMaxScaler(file.Min, file.Max)
	default:
		return nil, fmt.Errorf("unsupported scaler kind %q", file.Kind)
	}
}

// NewStandardScaler builds a standardization transform. A zero scale is
// treated as 1 so constant features only get centered.
func NewStandardScaler(center, scale []float64) (*Scaler, error) {
	if len(center) == 0 {
		return nil, errors.New("scaler has no features")
	}
	if len(center) != len(scale) {
		return nil, fmt.Errorf("scaler center has %d values, scale has %d", len(center), len(scale))
	}
	divisor := make([]float64, len(scale))
	for i, s := range scale {
		if s == 0 {
			s = 1
		}
		divisor[i] = s
	}
	return newScaler(ScalerStandard, append([]float64(nil), center...), divisor), nil
}

// NewMinMaxScaler builds a min-max transform. A zero range maps the feature to 0.
func NewMinMaxScaler(mins, maxs []float64) (*Scaler, error) {
	if len(mins) == 0 {
		return nil, errors.New("scaler has no features")
	}
	if len(mins) != len(maxs) {
		return nil, fmt.Errorf("scaler min has %d values, max has %d", len(mins), len(maxs))
	}
	divisor := make([]float64, len(mins))
	for i := range mins {
		if maxs[i] < mins[i] {
			return nil, fmt.Errorf("scaler feature %d: max %v below min %v", i, maxs[i], mins[i])
		}
		divisor[i] = maxs[i] - mins[i]
	}
	return newScaler(ScalerMinMax, append([]float64(nil), mins...), divisor), nil
}

// newScaler fingerprints the effective transform, so two artifacts that scale
// identically share a fingerprint.
func newScaler(kind ScalerKind, offset, divisor []float64) *Scaler {
	h := xxhash.New()
	_, _ = h.WriteString(string(kind))
	var buf [8]byte
	for _, values := range [][]float64{offset, divisor} {
		for _, v := range values {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = h.Write(buf[:])
		}
	}
	return &Scaler{
		kind:        kind,
		offset:      offset,
		divisor:     divisor,
		fingerprint: strconv.FormatUint(h.Sum64(), 16),
	}
}

func (s *Scaler) Kind() ScalerKind    { return s.kind }
func (s *Scaler) Width() int          { return len(s.offset) }
func (s *Scaler) Fingerprint() string { return s.fingerprint }

// Transform returns a scaled copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.offset) {
		return nil, fmt.Errorf("input has %d features, scaler expects %d", len(x), len(s.offset))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		if s.divisor[i] == 0 {
			out[i] = 0
			continue
		}
		out[i] = (v - s.offset[i]) / s.divisor[i]
	}
	return out, nil
}
