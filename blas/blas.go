// Package blas provides single-precision dense linear algebra primitives that
// execute on an OCCA device. A Handle is the library context: it owns the
// compiled kernels and must be created before the first call and destroyed
// after the last one.
package blas

import (
	"fmt"

	"github.com/notargets/gocca"
	"github.com/notargets/gosaxpy/runner"
)

// blockSize is the @inner loop extent of every kernel
const blockSize = 256

const saxpySource = `
@kernel void saxpy(const int n,
                   const float alpha,
                   const float *x,
                   const int incx,
                   float *y,
                   const int incy) {
	for (int b = 0; b < n; b += BLOCK; @outer) {
		for (int i = b; i < b + BLOCK; ++i; @inner) {
			if (i < n) {
				y[i*incy] += alpha*x[i*incx];
			}
		}
	}
}`

// kernelSource prepends the preamble macros shared by all kernels
func kernelSource(body string) string {
	return fmt.Sprintf("#define BLOCK %d\n", blockSize) + body
}

// Handle is an initialized session with the device BLAS
type Handle struct {
	runner *runner.Runner
	saxpy  *gocca.OCCAKernel
}

// Create compiles the library kernels on the runner's device
func Create(rn *runner.Runner) (*Handle, error) {
	if rn == nil {
		return nil, runner.Errorf("create handle", runner.StatusNotInitialized, "nil runner")
	}

	kernel, err := rn.BuildKernel(kernelSource(saxpySource), "saxpy")
	if err != nil {
		return nil, err
	}

	return &Handle{runner: rn, saxpy: kernel}, nil
}

// Destroy releases the compiled kernels. A second call returns StatusNotInitialized.
func (h *Handle) Destroy() error {
	if h.saxpy == nil {
		return runner.Errorf("destroy handle", runner.StatusNotInitialized, "handle already destroyed")
	}
	h.saxpy.Free()
	h.saxpy = nil
	return nil
}

// Saxpy computes y[i*incy] += alpha*x[i*incx] for i in [0, n) on the device.
// The launch is asynchronous: y is marked pending until the runner's Finish.
func (h *Handle) Saxpy(n int, alpha float32, x *runner.Buffer, incx int, y *runner.Buffer, incy int) error {
	if h.saxpy == nil {
		return runner.Errorf("saxpy", runner.StatusNotInitialized, "handle destroyed")
	}
	if n <= 0 || incx <= 0 || incy <= 0 {
		return runner.Errorf("saxpy", runner.StatusInvalidValue, "invalid n=%d incx=%d incy=%d", n, incx, incy)
	}
	if err := h.checkOperand("x", n, x, incx); err != nil {
		return err
	}
	if err := h.checkOperand("y", n, y, incy); err != nil {
		return err
	}

	err := h.saxpy.RunWithArgs(int32(n), alpha, x.Memory(), int32(incx), y.Memory(), int32(incy))
	if err != nil {
		return runner.Wrap("saxpy", runner.StatusExecutionFailed, err)
	}
	y.MarkPending()
	return nil
}

func (h *Handle) checkOperand(name string, n int, buf *runner.Buffer, inc int) error {
	if buf == nil || buf.Freed() {
		return runner.Errorf("saxpy", runner.StatusNotInitialized, "operand %s not allocated", name)
	}
	if buf.Owner() != h.runner {
		return runner.Errorf("saxpy", runner.StatusInvalidValue, "operand %s belongs to another runner", name)
	}
	if need := (n-1)*inc + 1; need > buf.Len() {
		return runner.Errorf("saxpy", runner.StatusInvalidValue,
			"operand %s of length %d too short for n=%d inc=%d", name, buf.Len(), n, inc)
	}
	return nil
}
