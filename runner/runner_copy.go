package runner

// ============================================================================
// Public API for copying whole buffers from device to host
// ============================================================================

// CopyBufferToHost copies a named buffer from device into a new host slice
// of the buffer's length
func (kr *Runner) CopyBufferToHost(name string) ([]float32, error) {
	buf := kr.GetBuffer(name)
	if buf == nil {
		return nil, Errorf("copy to host", StatusNotInitialized, "buffer %s not found", name)
	}

	result := make([]float32, buf.length)
	if err := kr.GetVector(buf.length, buf, 1, result, 1); err != nil {
		return nil, err
	}
	return result, nil
}
