package verify

import (
	"math"
	"testing"

	"github.com/notargets/gosaxpy/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/blas/blas32"
)

func TestReference_Scenario(t *testing.T) {
	ref := Reference(100, []float32{1, 2}, []float32{10, 20})
	assert.Equal(t, []float32{110, 220}, ref)

	report := Compare(ref, []float32{110, 220})
	assert.True(t, report.OK())
	assert.Equal(t, 0, report.Errors())
	assert.Equal(t, 2, report.Checked)
}

func TestReference_LeavesInputsUntouched(t *testing.T) {
	x := []float32{1, 2, 3}
	y := []float32{4, 5, 6}

	Reference(2, x, y)

	assert.Equal(t, []float32{1, 2, 3}, x)
	assert.Equal(t, []float32{4, 5, 6}, y)
}

func TestReference_Idempotent(t *testing.T) {
	d := generator.Generate(1000)

	first := Reference(d.A, d.X, d.Y)
	second := Reference(d.A, d.X, d.Y)

	assert.Equal(t, first, second)
}

func TestReference_ZeroAlpha(t *testing.T) {
	d := generator.Generate(257)

	ref := Reference(0, d.X, d.Y)

	assert.Equal(t, d.Y, ref)
	assert.Equal(t, 0, Compare(ref, d.Y).Errors())
}

func TestReference_SingleElement(t *testing.T) {
	ref := Reference(100, []float32{0.25}, []float32{-1})
	assert.Equal(t, []float32{24}, ref)
	assert.True(t, Compare(ref, []float32{24}).OK())
}

// The reference loop must agree with an independent host BLAS
func TestReference_MatchesHostBLAS(t *testing.T) {
	d := generator.Generate(4096)

	ref := Reference(d.A, d.X, d.Y)

	y := d.Snapshot()
	blas32.Axpy(d.A, blas32.Vector{N: len(d.X), Inc: 1, Data: d.X}, blas32.Vector{N: len(y), Inc: 1, Data: y})

	report := Compare(ref, y)
	assert.True(t, report.OK(), "mismatches at %v", report.Mismatches)
}

func TestCompare_InjectedCorruption(t *testing.T) {
	d := generator.Generate(1000)
	ref := Reference(d.A, d.X, d.Y)

	got := make([]float32, len(ref))
	copy(got, ref)

	// Push index 417 well past the relative bound
	got[417] = ref[417] + 1 + float32(math.Abs(float64(ref[417])))*0.01

	report := Compare(ref, got)
	require.Equal(t, 1, report.Errors())
	assert.Equal(t, []int{417}, report.Mismatches)
}

func TestCompare_ToleranceBoundary(t *testing.T) {
	testCases := []struct {
		name     string
		ref      float32
		got      float32
		mismatch bool
	}{
		{"Exact", 1000, 1000, false},
		{"WithinTolerance", 1000, 1000.05, false},
		{"BeyondTolerance", 1000, 1000.2, true},
		{"NegativeReference", -1000, -1000.05, false},
		{"NegativeBeyond", -1000, -999.8, true},
		{"ZeroReferenceExact", 0, 0, false},
		{"ZeroReferenceTiny", 0, 1e-30, true},
		{"AnchoredToReference", 1, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report := Compare([]float32{tc.ref}, []float32{tc.got})
			assert.Equal(t, tc.mismatch, !report.OK())
		})
	}
}

func TestCompare_CountsEveryMismatch(t *testing.T) {
	ref := []float32{1, 2, 3, 4, 5}
	got := []float32{1, -2, 3, 40, 0}

	report := Compare(ref, got)

	assert.Equal(t, 3, report.Errors())
	assert.Equal(t, []int{1, 3, 4}, report.Mismatches)
	assert.Equal(t, 5, report.Checked)
}

// Large mismatch counts must not wrap to a zero exit status
func TestReport_ExitCode(t *testing.T) {
	testCases := []struct {
		name       string
		mismatches int
		code       int
	}{
		{"Clean", 0, 0},
		{"One", 1, 1},
		{"JustBelowLimit", 254, 254},
		{"AtLimit", 255, 255},
		{"WrapsAt256", 256, 255},
		{"WrapsAt512", 512, 255},
		{"Huge", 100000, 255},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref := make([]float32, tc.mismatches)
			got := make([]float32, tc.mismatches)
			for i := range ref {
				ref[i] = 1
			}

			report := Compare(ref, got)
			require.Equal(t, tc.mismatches, report.Errors())
			assert.Equal(t, tc.code, report.ExitCode())
			assert.Equal(t, tc.mismatches != 0, report.ExitCode() != 0)
		})
	}
}

func TestLengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { Reference(1, []float32{1}, []float32{1, 2}) })
	assert.Panics(t, func() { Compare([]float32{1}, nil) })
}
