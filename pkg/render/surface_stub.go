//go:build !sdl

package render

import "github.com/gguiomar/lunar-tools/pkg/render/interop"

// newGLBackend reports that no GL presentation surface is compiled into
// this build. Build with -tags sdl (optionally plus cuda) to enable it.
func newGLBackend(opts Options) (backend, error) {
	return nil, interop.ErrUnavailable
}
