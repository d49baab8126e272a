//go:build !cuda

package interop

// NewDriver reports that no interop backend is compiled into this build.
// Build with -tags cuda on a machine with the CUDA runtime to enable the
// zero-copy upload path.
func NewDriver() (Driver, error) {
	return nil, ErrUnavailable
}
