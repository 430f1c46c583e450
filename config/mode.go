package config

import (
	"fmt"
	"strings"
)

const (
	ModeCUDA   = "CUDA"
	ModeHIP    = "HIP"
	ModeOpenCL = "OpenCL"
	ModeOpenMP = "OpenMP"
	ModeSerial = "Serial"
)

// NormalizeMode maps a case-insensitive backend name onto the spelling OCCA expects.
func NormalizeMode(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "", "cuda":
		return ModeCUDA, nil
	case "hip":
		return ModeHIP, nil
	case "opencl":
		return ModeOpenCL, nil
	case "openmp":
		return ModeOpenMP, nil
	case "serial":
		return ModeSerial, nil
	default:
		return "", fmt.Errorf(
			"invalid device mode %q (expected %s|%s|%s|%s|%s)",
			raw,
			ModeCUDA,
			ModeHIP,
			ModeOpenCL,
			ModeOpenMP,
			ModeSerial,
		)
	}
}

// Properties renders the OCCA device property string for this configuration.
// Only GPU-style backends take a device_id; OpenCL also needs a platform_id.
func (d DeviceConfig) Properties() string {
	switch d.Mode {
	case ModeCUDA, ModeHIP:
		return fmt.Sprintf(`{"mode": "%s", "device_id": %d}`, d.Mode, d.DeviceID)
	case ModeOpenCL:
		return fmt.Sprintf(`{"mode": "%s", "platform_id": %d, "device_id": %d}`,
			d.Mode, d.PlatformID, d.DeviceID)
	default:
		return fmt.Sprintf(`{"mode": "%s"}`, d.Mode)
	}
}
