package pipeline

import (
	"github.com/dustin/go-humanize"
	"github.com/notargets/gosaxpy/blas"
	"github.com/notargets/gosaxpy/check"
	"github.com/notargets/gosaxpy/generator"
	"github.com/notargets/gosaxpy/runner"
	"github.com/notargets/gosaxpy/verify"
)

// Result holds both independently produced vectors and their comparison
type Result struct {
	Device    string
	Reference []float32
	Output    []float32
	Report    verify.Report
}

// Run offloads y = a*x + y for data to the runner's device and verifies the
// result against the host reference. Any runtime failure terminates the process.
func Run(rn *runner.Runner, data generator.Data) Result {
	log := check.Logger
	n := data.Len()
	if len(data.Y) != n {
		panic("x and y must have the same length")
	}

	// The device updates y in place, keep the baseline for the reference
	yOriginal := data.Snapshot()

	name := rn.DeviceName()
	log.Infof("running on device %s", name)

	nbytes := uint64(n) * uint64(runner.ElementSize)
	log.Infof("allocate host mem (%s)", humanize.IBytes(2*nbytes))
	log.Infof("allocate device mem (%s)", humanize.IBytes(2*nbytes))
	xBuf := check.MustValue(rn.Allocate("x", n))
	yBuf := check.MustValue(rn.Allocate("y", n))

	h := check.MustValue(blas.Create(rn))

	log.Info("copy Host2Device")
	check.Must(rn.SetVector(n, data.X, 1, xBuf, 1))
	check.Must(rn.SetVector(n, data.Y, 1, yBuf, 1))

	log.Info("launch 'saxpy' kernel")
	check.Must(h.Saxpy(n, data.A, xBuf, 1, yBuf, 1))

	rn.Finish()

	log.Info("copy Device2Host")
	output := make([]float32, n)
	check.Must(rn.GetVector(n, yBuf, 1, output, 1))

	check.Must(xBuf.Free())
	check.Must(yBuf.Free())
	check.Must(h.Destroy())

	ref := verify.Reference(data.A, data.X, yOriginal)
	report := verify.Compare(ref, output)
	log.WithField("checked", report.Checked).Debugf("%d mismatches", report.Errors())

	return Result{
		Device:    name,
		Reference: ref,
		Output:    output,
		Report:    report,
	}
}
