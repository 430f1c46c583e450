package utils

import (
	"fmt"

	"github.com/notargets/gocca"
	"github.com/notargets/gosaxpy/config"
)

// NewDevice acquires the OCCA device described by cfg
func NewDevice(cfg config.DeviceConfig) (*gocca.OCCADevice, error) {
	props := cfg.Properties()
	device, err := gocca.NewDevice(props)
	if err != nil {
		return nil, fmt.Errorf("acquire device %s: %w", props, err)
	}
	if device == nil {
		return nil, fmt.Errorf("acquire device %s: no device returned", props)
	}
	return device, nil
}

// CreateTestDevice creates a Device for testing, preferring parallel backends
func CreateTestDevice() *gocca.OCCADevice {
	// Try OpenMP, then CUDA, then fall back to Serial
	backends := []config.DeviceConfig{
		{Mode: config.ModeOpenMP},
		{Mode: config.ModeCUDA, DeviceID: 0},
		{Mode: config.ModeSerial},
	}

	for _, cfg := range backends {
		device, err := NewDevice(cfg)
		if err == nil {
			fmt.Printf("Created %s Device\n", device.Mode())
			return device
		}
	}

	// Should not reach here
	panic("Failed to create any Device")
}
