package generator

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultAlpha is the scalar coefficient used by every run
const DefaultAlpha float32 = 100.0

// Data holds the inputs of one SAXPY run
type Data struct {
	X []float32
	Y []float32
	A float32
}

// Generate draws two vectors of length n with elements uniform over [-n, n]
func Generate(n int) Data {
	if n <= 0 {
		panic("vector length must be positive")
	}

	dist := distuv.Uniform{Min: -float64(n), Max: float64(n)}
	return Data{
		X: sample(dist, n),
		Y: sample(dist, n),
		A: DefaultAlpha,
	}
}

func sample(dist distuv.Uniform, n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = float32(dist.Rand())
	}
	return v
}

// Len returns the common length of X and Y
func (d Data) Len() int { return len(d.X) }

// Snapshot returns an independent copy of Y taken before it is sent to the device
func (d Data) Snapshot() []float32 {
	y := make([]float32, len(d.Y))
	copy(y, d.Y)
	return y
}
