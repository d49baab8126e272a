package interop

import (
	"errors"
	"testing"
	"unsafe"
)

// fakeDriver records protocol calls in order and fails scripted stages.
type fakeDriver struct {
	calls []string

	failRegister bool
	failMap      bool
	failArray    bool
	failCopy     bool
	failUnmap    bool
}

var errScripted = errors.New("scripted failure")

func (d *fakeDriver) Register(texture uint32) (Resource, error) {
	d.calls = append(d.calls, "register")
	if d.failRegister {
		return 0, errScripted
	}
	return Resource(texture), nil
}

func (d *fakeDriver) Unregister(res Resource) error {
	d.calls = append(d.calls, "unregister")
	return nil
}

func (d *fakeDriver) Map(res Resource) error {
	d.calls = append(d.calls, "map")
	if d.failMap {
		return errScripted
	}
	return nil
}

func (d *fakeDriver) MappedArray(res Resource) (Array, error) {
	d.calls = append(d.calls, "array")
	if d.failArray {
		return 0, errScripted
	}
	return Array(1), nil
}

func (d *fakeDriver) CopyToArray(dst Array, src unsafe.Pointer, pitch, widthBytes, height int, kind CopyKind) error {
	d.calls = append(d.calls, "copy")
	if d.failCopy {
		return errScripted
	}
	return nil
}

func (d *fakeDriver) Unmap(res Resource) error {
	d.calls = append(d.calls, "unmap")
	if d.failUnmap {
		return errScripted
	}
	return nil
}

func count(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

func uploadOnce(t *testing.T, d *fakeDriver) error {
	t.Helper()
	ctx := NewContext(d)
	reg, err := ctx.Register(7)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	buf := make([]float32, 4)
	return reg.Upload(unsafe.Pointer(&buf[0]), 16, 1, CopyHostToDevice)
}

func TestUpload_StrictOrder(t *testing.T) {
	d := &fakeDriver{}
	if err := uploadOnce(t, d); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	want := []string{"register", "map", "array", "copy", "unmap"}
	if len(d.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, d.calls)
	}
	for i := range want {
		if d.calls[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, d.calls)
		}
	}
}

func TestUpload_MapFailureAbortsBeforeCopyAndUnmap(t *testing.T) {
	d := &fakeDriver{failMap: true}
	err := uploadOnce(t, d)
	if err == nil {
		t.Fatal("expected an error")
	}

	var ierr *Error
	if !errors.As(err, &ierr) || ierr.Stage != StageMap {
		t.Errorf("expected map-stage error, got %v", err)
	}
	if count(d.calls, "copy") != 0 {
		t.Error("copy must not run after a failed map")
	}
	if count(d.calls, "unmap") != 0 {
		t.Error("unmap must not run after a failed map")
	}
}

func TestUpload_CopyFailureStillUnmapsOnce(t *testing.T) {
	d := &fakeDriver{failCopy: true}
	err := uploadOnce(t, d)
	if err == nil {
		t.Fatal("expected an error")
	}

	var ierr *Error
	if !errors.As(err, &ierr) || ierr.Stage != StageCopy {
		t.Errorf("expected copy-stage error, got %v", err)
	}
	if got := count(d.calls, "unmap"); got != 1 {
		t.Errorf("expected exactly one unmap after copy failure, got %d", got)
	}
}

func TestUpload_ArrayFailureStillUnmapsOnce(t *testing.T) {
	d := &fakeDriver{failArray: true}
	err := uploadOnce(t, d)

	var ierr *Error
	if !errors.As(err, &ierr) || ierr.Stage != StageArray {
		t.Errorf("expected array-stage error, got %v", err)
	}
	if count(d.calls, "copy") != 0 {
		t.Error("copy must not run after a failed array fetch")
	}
	if got := count(d.calls, "unmap"); got != 1 {
		t.Errorf("expected exactly one unmap, got %d", got)
	}
}

func TestUpload_UnmapFailureIsReported(t *testing.T) {
	d := &fakeDriver{failUnmap: true}
	err := uploadOnce(t, d)

	var ierr *Error
	if !errors.As(err, &ierr) || ierr.Stage != StageUnmap {
		t.Errorf("expected unmap-stage error, got %v", err)
	}
}

func TestRegister_TwiceIsAnError(t *testing.T) {
	ctx := NewContext(&fakeDriver{})
	if _, err := ctx.Register(3); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := ctx.Register(3)
	if err == nil {
		t.Fatal("expected second Register of the same texture to fail")
	}
	var ierr *Error
	if !errors.As(err, &ierr) || ierr.Stage != StageRegister {
		t.Errorf("expected register-stage error, got %v", err)
	}
}

func TestRegistration_CloseAllowsReRegister(t *testing.T) {
	d := &fakeDriver{}
	ctx := NewContext(d)
	reg, err := ctx.Register(3)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := reg.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if count(d.calls, "unregister") != 1 {
		t.Errorf("expected one unregister, got %d", count(d.calls, "unregister"))
	}
	// A destroyed-and-recreated texture registers again.
	if _, err := ctx.Register(3); err != nil {
		t.Errorf("re-register after Close: %v", err)
	}
}
