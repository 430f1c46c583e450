package runner

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"
	"github.com/pbnjay/memory"
)

// ElementSize is the width in bytes of one float32 element
const ElementSize int64 = 4

// Buffer is one device allocation mirroring a host vector. It is owned by
// the Runner that allocated it and must be freed exactly once.
type Buffer struct {
	Name     string
	mem      *gocca.OCCAMemory
	length  int
	pending bool // device work launched against this buffer has not been synchronized
	freed   bool
	owner   *Runner
}

// Len returns the number of elements the buffer holds
func (b *Buffer) Len() int { return b.length }

// Bytes returns the allocation size in bytes
func (b *Buffer) Bytes() int64 { return int64(b.length) * ElementSize }

// Memory returns the underlying OCCA memory, or nil once the buffer is freed
func (b *Buffer) Memory() *gocca.OCCAMemory {
	if b.freed {
		return nil
	}
	return b.mem
}

// MarkPending records that asynchronous device work writes this buffer.
// Transfers on the buffer are refused until the owning Runner calls Finish.
func (b *Buffer) MarkPending() { b.pending = true }

// Pending reports whether unsynchronized device work writes the buffer
func (b *Buffer) Pending() bool { return b.pending }

// Freed reports whether the device memory has been released
func (b *Buffer) Freed() bool { return b.freed }

// Owner returns the Runner that allocated the buffer
func (b *Buffer) Owner() *Runner { return b.owner }

// Free releases the device memory. A second call returns StatusNotInitialized.
func (b *Buffer) Free() error {
	if b.freed {
		return Errorf("free", StatusNotInitialized, "buffer %s already freed", b.Name)
	}
	b.mem.Free()
	b.freed = true
	b.pending = false
	if b.owner != nil {
		delete(b.owner.PooledMemory, b.Name)
	}
	return nil
}

// Runner is the sole owner of the device buffers used by a run
type Runner struct {
	Device       *gocca.OCCADevice
	DeviceID     int
	PooledMemory map[string]*Buffer
	// hostMemory reports total host RAM; zero means unknown
	hostMemory func() uint64
}

// NewRunner creates a new Runner instance
func NewRunner(device *gocca.OCCADevice, deviceID int) *Runner {
	if device == nil {
		panic("runner requires a non-nil device")
	}
	return &Runner{
		Device:       device,
		DeviceID:     deviceID,
		PooledMemory: make(map[string]*Buffer),
		hostMemory:   memory.TotalMemory,
	}
}

// DeviceName returns the identifying name of the acquired device
func (kr *Runner) DeviceName() string {
	return fmt.Sprintf("%s device %d", kr.Device.Mode(), kr.DeviceID)
}

// sharesHostMemory reports whether device allocations come out of host RAM
func (kr *Runner) sharesHostMemory() bool {
	switch kr.Device.Mode() {
	case "Serial", "OpenMP":
		return true
	default:
		return false
	}
}

// Allocate reserves an uninitialized float32 device buffer of n elements
func (kr *Runner) Allocate(name string, n int) (*Buffer, error) {
	if n <= 0 {
		return nil, Errorf("allocate", StatusAllocFailed, "invalid length %d for %s", n, name)
	}
	if _, exists := kr.PooledMemory[name]; exists {
		return nil, Errorf("allocate", StatusAllocFailed, "buffer %s already allocated", name)
	}

	bytes := int64(n) * ElementSize
	if kr.sharesHostMemory() {
		if total := kr.hostMemory(); total > 0 && uint64(bytes) > total {
			return nil, Errorf("allocate", StatusAllocFailed,
				"%s needs %d bytes, host has %d", name, bytes, total)
		}
	}

	mem := kr.Device.Malloc(bytes, nil, nil)
	if mem == nil {
		return nil, Errorf("allocate", StatusAllocFailed, "device returned no memory for %s (%d bytes)", name, bytes)
	}

	buf := &Buffer{
		Name:   name,
		mem:    mem,
		length: n,
		owner:  kr,
	}
	kr.PooledMemory[name] = buf
	return buf, nil
}

// GetBuffer returns the live buffer registered under name, or nil
func (kr *Runner) GetBuffer(name string) *Buffer {
	return kr.PooledMemory[name]
}

// Finish blocks until all device work has completed and clears pending marks
func (kr *Runner) Finish() {
	kr.Device.Finish()
	for _, buf := range kr.PooledMemory {
		buf.pending = false
	}
}

// BuildKernel compiles a kernel from OKL source on the runner's device
func (kr *Runner) BuildKernel(kernelSource, kernelName string) (*gocca.OCCAKernel, error) {
	var kernel *gocca.OCCAKernel
	var err error

	if kr.Device.Mode() == "OpenMP" {
		// Workaround for OCCA bug: OpenMP doesn't get default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = kr.Device.BuildKernelFromString(kernelSource, kernelName, props)
	} else {
		kernel, err = kr.Device.BuildKernelFromString(kernelSource, kernelName, nil)
	}

	if err != nil {
		return nil, &StatusError{Op: "build kernel " + kernelName, Status: StatusNotInitialized, Err: err}
	}
	if kernel == nil {
		return nil, Errorf("build kernel "+kernelName, StatusNotInitialized, "kernel build returned nil")
	}
	return kernel, nil
}

// Free releases every buffer still held by the runner
func (kr *Runner) Free() error {
	var errs []error
	for _, buf := range kr.PooledMemory {
		if err := buf.Free(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func hostPointer(data []float32) unsafe.Pointer {
	return unsafe.Pointer(&data[0])
}
