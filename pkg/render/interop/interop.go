// Package interop performs zero-copy uploads from compute-device memory
// into OpenGL textures. The driver protocol is strict: map the registered
// resource, fetch its array handle, issue the 2D copy, unmap. Once a map
// succeeds the unmap always runs, even when a later stage fails.
package interop

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// ErrUnavailable is returned by NewDriver when no interop backend is
// compiled in; callers fall back to CPU display.
var ErrUnavailable = errors.New("no graphics interop driver available")

// Stage names the step of the upload protocol that failed.
type Stage int

const (
	StageRegister Stage = iota
	StageMap
	StageArray
	StageCopy
	StageUnmap
	StageUnregister
)

func (s Stage) String() string {
	switch s {
	case StageRegister:
		return "register"
	case StageMap:
		return "map"
	case StageArray:
		return "array"
	case StageCopy:
		return "copy"
	case StageUnmap:
		return "unmap"
	case StageUnregister:
		return "unregister"
	}
	return "unknown"
}

// Error is a stage-tagged interop failure.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("interop %s failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CopyKind selects the memory direction of the texture copy.
type CopyKind int

const (
	CopyHostToDevice CopyKind = iota
	CopyDeviceToDevice
)

// Resource is an opaque driver handle for a registered texture.
type Resource uintptr

// Array is an opaque driver handle for a mapped texture surface.
type Array uintptr

// Driver is the compute/graphics interop backend. Production builds bind
// the CUDA runtime (build tag "cuda"); tests substitute fakes.
type Driver interface {
	// Register binds a GL texture to the interop subsystem.
	Register(texture uint32) (Resource, error)
	// Unregister releases the binding. Must happen before the texture
	// or GL context is destroyed.
	Unregister(res Resource) error

	Map(res Resource) error
	MappedArray(res Resource) (Array, error)
	// CopyToArray copies height rows of widthBytes from src (host or
	// device memory per kind, rows pitch bytes apart) into the mapped
	// array. The copy may be asynchronous at the device level.
	CopyToArray(dst Array, src unsafe.Pointer, pitch, widthBytes, height int, kind CopyKind) error
	Unmap(res Resource) error
}

// Context tracks which textures are registered with a driver. A texture
// is registered exactly once for its lifetime; registering it again is
// an error.
type Context struct {
	d Driver

	mu         sync.Mutex
	registered map[uint32]Resource
}

// NewContext wraps a driver.
func NewContext(d Driver) *Context {
	return &Context{d: d, registered: make(map[uint32]Resource)}
}

// Register binds texture to the interop subsystem and returns its
// registration.
func (c *Context) Register(texture uint32) (*Registration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registered[texture]; ok {
		return nil, &Error{StageRegister, fmt.Errorf("texture %d already registered", texture)}
	}
	res, err := c.d.Register(texture)
	if err != nil {
		return nil, &Error{StageRegister, err}
	}
	c.registered[texture] = res
	return &Registration{ctx: c, texture: texture, res: res}, nil
}

// Registration binds one texture to the interop subsystem. Uploads on a
// single registration must not overlap; the presenting caller serializes
// them (one upload per present).
type Registration struct {
	ctx     *Context
	texture uint32
	res     Resource
}

// Upload pushes rowStrideBytes x height bytes from src into the texture
// through the map / array / copy / unmap protocol. Any failing stage
// aborts the remaining work, except that a successful map is always
// paired with exactly one unmap.
func (r *Registration) Upload(src unsafe.Pointer, rowStrideBytes, height int, kind CopyKind) (err error) {
	if merr := r.ctx.d.Map(r.res); merr != nil {
		return &Error{StageMap, merr}
	}
	defer func() {
		uerr := r.ctx.d.Unmap(r.res)
		if err == nil && uerr != nil {
			err = &Error{StageUnmap, uerr}
		}
	}()

	arr, aerr := r.ctx.d.MappedArray(r.res)
	if aerr != nil {
		return &Error{StageArray, aerr}
	}

	if cerr := r.ctx.d.CopyToArray(arr, src, rowStrideBytes, rowStrideBytes, height, kind); cerr != nil {
		return &Error{StageCopy, cerr}
	}
	return nil
}

// Close unregisters the texture. Call before destroying the texture or
// the GL context.
func (r *Registration) Close() error {
	r.ctx.mu.Lock()
	defer r.ctx.mu.Unlock()

	if _, ok := r.ctx.registered[r.texture]; !ok {
		return nil
	}
	delete(r.ctx.registered, r.texture)
	if err := r.ctx.d.Unregister(r.res); err != nil {
		return &Error{StageUnregister, err}
	}
	return nil
}
