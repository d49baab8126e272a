//go:build cuda

package interop

/*
#cgo LDFLAGS: -lcudart
#include <cuda_runtime.h>
#include <cuda_gl_interop.h>

// GL_TEXTURE_2D, spelled out so this file does not need GL headers.
#define LT_GL_TEXTURE_2D 0x0DE1

static cudaError_t lt_register(unsigned int tex, cudaGraphicsResource_t *out) {
	return cudaGraphicsGLRegisterImage(out, tex, LT_GL_TEXTURE_2D,
		cudaGraphicsRegisterFlagsWriteDiscard);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// cudaDriver implements Driver on the CUDA runtime's GL interop API.
type cudaDriver struct{}

// NewDriver binds the CUDA runtime. It fails with ErrUnavailable when no
// CUDA device is paired with the current GL context (e.g. the context is
// running on integrated graphics).
func NewDriver() (Driver, error) {
	var count C.uint
	var device C.int
	if rc := C.cudaGLGetDevices(&count, &device, 1, C.cudaGLDeviceListAll); rc != C.cudaSuccess {
		return nil, fmt.Errorf("%w: cudaGLGetDevices: %s", ErrUnavailable, cudaErr(rc))
	}
	if count == 0 {
		return nil, ErrUnavailable
	}
	return &cudaDriver{}, nil
}

func cudaErr(rc C.cudaError_t) string {
	return C.GoString(C.cudaGetErrorString(rc))
}

func (d *cudaDriver) Register(texture uint32) (Resource, error) {
	var res C.cudaGraphicsResource_t
	if rc := C.lt_register(C.uint(texture), &res); rc != C.cudaSuccess {
		return 0, fmt.Errorf("cudaGraphicsGLRegisterImage: %s", cudaErr(rc))
	}
	return Resource(uintptr(unsafe.Pointer(res))), nil
}

func (d *cudaDriver) Unregister(res Resource) error {
	r := C.cudaGraphicsResource_t(unsafe.Pointer(uintptr(res)))
	if rc := C.cudaGraphicsUnregisterResource(r); rc != C.cudaSuccess {
		return fmt.Errorf("cudaGraphicsUnregisterResource: %s", cudaErr(rc))
	}
	return nil
}

func (d *cudaDriver) Map(res Resource) error {
	r := C.cudaGraphicsResource_t(unsafe.Pointer(uintptr(res)))
	if rc := C.cudaGraphicsMapResources(1, &r, nil); rc != C.cudaSuccess {
		return fmt.Errorf("cudaGraphicsMapResources: %s", cudaErr(rc))
	}
	return nil
}

func (d *cudaDriver) MappedArray(res Resource) (Array, error) {
	r := C.cudaGraphicsResource_t(unsafe.Pointer(uintptr(res)))
	var arr C.cudaArray_t
	if rc := C.cudaGraphicsSubResourceGetMappedArray(&arr, r, 0, 0); rc != C.cudaSuccess {
		return 0, fmt.Errorf("cudaGraphicsSubResourceGetMappedArray: %s", cudaErr(rc))
	}
	return Array(uintptr(unsafe.Pointer(arr))), nil
}

func (d *cudaDriver) CopyToArray(dst Array, src unsafe.Pointer, pitch, widthBytes, height int, kind CopyKind) error {
	arr := C.cudaArray_t(unsafe.Pointer(uintptr(dst)))
	dir := C.cudaMemcpyHostToDevice
	if kind == CopyDeviceToDevice {
		dir = C.cudaMemcpyDeviceToDevice
	}
	rc := C.cudaMemcpy2DToArrayAsync(arr, 0, 0, src,
		C.size_t(pitch), C.size_t(widthBytes), C.size_t(height),
		C.enum_cudaMemcpyKind(dir), nil)
	if rc != C.cudaSuccess {
		return fmt.Errorf("cudaMemcpy2DToArrayAsync: %s", cudaErr(rc))
	}
	return nil
}

func (d *cudaDriver) Unmap(res Resource) error {
	r := C.cudaGraphicsResource_t(unsafe.Pointer(uintptr(res)))
	if rc := C.cudaGraphicsUnmapResources(1, &r, nil); rc != C.cudaSuccess {
		return fmt.Errorf("cudaGraphicsUnmapResources: %s", cudaErr(rc))
	}
	return nil
}
