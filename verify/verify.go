package verify

import (
	"fmt"
	"math"
)

// Tolerance is the allowed deviation relative to the reference magnitude
const Tolerance = 1e-4

// Report is the outcome of comparing a device result with the reference
type Report struct {
	Checked    int
	Mismatches []int // indices that failed, ascending
}

// Errors returns the number of mismatching indices
func (r Report) Errors() int { return len(r.Mismatches) }

// OK reports whether every index matched the reference
func (r Report) OK() bool { return len(r.Mismatches) == 0 }

// ExitCode maps the mismatch count to a process exit status. Counts past 255
// saturate, so a failing run never wraps around to success.
func (r Report) ExitCode() int {
	if n := r.Errors(); n < 255 {
		return n
	}
	return 255
}

// Reference computes a*x[i] + y[i] into a new slice. x and y are not modified.
func Reference(a float32, x, y []float32) []float32 {
	if len(x) != len(y) {
		panic(fmt.Sprintf("reference: length mismatch x=%d y=%d", len(x), len(y)))
	}
	ref := make([]float32, len(x))
	for i := range x {
		ref[i] = a*x[i] + y[i]
	}
	return ref
}

// Compare flags every index where |ref[i]-got[i]| > |ref[i]*Tolerance|.
// The bound is anchored to the reference, so a zero reference demands an exact match.
func Compare(ref, got []float32) Report {
	if len(ref) != len(got) {
		panic(fmt.Sprintf("compare: length mismatch ref=%d got=%d", len(ref), len(got)))
	}
	r := Report{Checked: len(ref)}
	for i := range ref {
		diff := math.Abs(float64(ref[i] - got[i]))
		bound := math.Abs(float64(ref[i] * Tolerance))
		if diff > bound {
			r.Mismatches = append(r.Mismatches, i)
		}
	}
	return r
}
