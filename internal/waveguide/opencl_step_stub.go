//go:build !opencl

package waveguide

import "github.com/mbund/rir/internal/rirerr"

// NewOpenCLStepper is unavailable in a build without the opencl tag.
// Grounded on the stub form of Distortions81-Acoustic-Space-Rendering's
// opencl_wave_stub.go: same signature, always a DeviceError.
func NewOpenCLStepper() (Stepper, error) {
	return nil, rirerr.NewDevice(errOpenCLNotBuilt)
}

var errOpenCLNotBuilt = deviceUnavailableErr{}

type deviceUnavailableErr struct{}

func (deviceUnavailableErr) Error() string {
	return "opencl: not built into this binary (rebuild with -tags opencl)"
}
