package runner

// checkTransfer validates a strided transfer of n elements between a host
// slice and a device buffer
func checkTransfer(op string, n int, host []float32, incHost int, buf *Buffer, incDev int) error {
	if buf == nil {
		return Errorf(op, StatusNotInitialized, "nil device buffer")
	}
	if buf.freed {
		return Errorf(op, StatusNotInitialized, "buffer %s already freed", buf.Name)
	}
	if n <= 0 || incHost <= 0 || incDev <= 0 {
		return Errorf(op, StatusInvalidValue, "invalid n=%d incHost=%d incDev=%d", n, incHost, incDev)
	}
	// Device buffers are always contiguous
	if incDev != 1 {
		return Errorf(op, StatusInvalidValue, "device stride %d unsupported for %s", incDev, buf.Name)
	}
	if n > buf.length {
		return Errorf(op, StatusInvalidValue, "%d elements exceed buffer %s of length %d", n, buf.Name, buf.length)
	}
	if need := (n-1)*incHost + 1; need > len(host) {
		return Errorf(op, StatusInvalidValue, "host vector of length %d too short for n=%d inc=%d", len(host), n, incHost)
	}
	if buf.pending {
		return Errorf(op, StatusExecutionFailed,
			"device work pending on %s; call Finish before transferring", buf.Name)
	}
	return nil
}

// SetVector copies n elements of host, taken every incHost entries, into buf.
// It returns once the device holds a faithful copy.
func (kr *Runner) SetVector(n int, host []float32, incHost int, buf *Buffer, incDev int) error {
	if err := checkTransfer("set vector", n, host, incHost, buf, incDev); err != nil {
		return err
	}

	src := host[:n]
	if incHost != 1 {
		src = make([]float32, n)
		for i := range src {
			src[i] = host[i*incHost]
		}
	}

	bytes := int64(n) * ElementSize
	buf.mem.CopyFrom(hostPointer(src), bytes)
	return nil
}

// GetVector copies the first n elements of buf back into host, writing every
// incHost entries.
func (kr *Runner) GetVector(n int, buf *Buffer, incDev int, host []float32, incHost int) error {
	if err := checkTransfer("get vector", n, host, incHost, buf, incDev); err != nil {
		return err
	}

	dst := host[:n]
	if incHost != 1 {
		dst = make([]float32, n)
	}

	bytes := int64(n) * ElementSize
	buf.mem.CopyTo(hostPointer(dst), bytes)

	if incHost != 1 {
		for i, v := range dst {
			host[i*incHost] = v
		}
	}
	return nil
}

// CopyToDevice copies a whole host vector into the named buffer. The host
// length must equal the buffer length.
func (kr *Runner) CopyToDevice(name string, host []float32) error {
	buf := kr.GetBuffer(name)
	if buf == nil {
		return Errorf("copy to device", StatusNotInitialized, "buffer %s not found", name)
	}
	if len(host) != buf.length {
		return Errorf("copy to device", StatusInvalidValue,
			"host length %d does not match buffer %s length %d", len(host), name, buf.length)
	}
	return kr.SetVector(buf.length, host, 1, buf, 1)
}

// CopyFromDevice copies the named buffer into a host vector of equal length
func (kr *Runner) CopyFromDevice(name string, host []float32) error {
	buf := kr.GetBuffer(name)
	if buf == nil {
		return Errorf("copy from device", StatusNotInitialized, "buffer %s not found", name)
	}
	if len(host) != buf.length {
		return Errorf("copy from device", StatusInvalidValue,
			"host length %d does not match buffer %s length %d", len(host), name, buf.length)
	}
	return kr.GetVector(buf.length, buf, 1, host, 1)
}
