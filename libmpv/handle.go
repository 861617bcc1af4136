package libmpv

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

// Handle wraps an opaque mpv_handle pointer.
//
// Per the libmpv documentation, client API calls on one handle are safe to
// issue from multiple threads without additional locking; each call is
// individually atomic inside mpv. This type is the single place that safety
// contract is asserted; callers must only guarantee the handle outlives
// every goroutine still using it.
type Handle struct {
	ptr uintptr
}

// NewHandle loads libmpv if needed and allocates a fresh mpv instance.
// The instance is not initialized; set options first, then call Initialize.
func NewHandle() (*Handle, error) {
	if err := load(); err != nil {
		return nil, err
	}
	ptr := mpvCreate()
	if ptr == 0 {
		return nil, errors.New("mpv_create returned null")
	}
	return &Handle{ptr: ptr}, nil
}

// Initialize brings the instance into a usable state. Options that must be
// set before initialization are rejected afterwards by mpv itself.
func (h *Handle) Initialize() error {
	return errorFrom(mpvInitialize(h.ptr))
}

// SetOptionString sets a pre-initialization option.
func (h *Handle) SetOptionString(name, value string) error {
	return errorFrom(mpvSetOptionString(h.ptr, name, value))
}

// SetPropertyString sets a property using its string representation.
func (h *Handle) SetPropertyString(name, value string) error {
	return errorFrom(mpvSetPropertyString(h.ptr, name, value))
}

// SetPropertyFlag sets a boolean property.
func (h *Handle) SetPropertyFlag(name string, value bool) error {
	var flag int32
	if value {
		flag = 1
	}
	err := errorFrom(mpvSetProperty(h.ptr, name, int32(FormatFlag), uintptr(unsafe.Pointer(&flag))))
	runtime.KeepAlive(&flag)
	return err
}

// SetPropertyInt64 sets an integer property.
func (h *Handle) SetPropertyInt64(name string, value int64) error {
	err := errorFrom(mpvSetProperty(h.ptr, name, int32(FormatInt64), uintptr(unsafe.Pointer(&value))))
	runtime.KeepAlive(&value)
	return err
}

// SetPropertyDouble sets a floating-point property.
func (h *Handle) SetPropertyDouble(name string, value float64) error {
	err := errorFrom(mpvSetProperty(h.ptr, name, int32(FormatDouble), uintptr(unsafe.Pointer(&value))))
	runtime.KeepAlive(&value)
	return err
}

// GetPropertyDouble reads a floating-point property.
func (h *Handle) GetPropertyDouble(name string) (float64, error) {
	var value float64
	err := errorFrom(mpvGetProperty(h.ptr, name, int32(FormatDouble), uintptr(unsafe.Pointer(&value))))
	runtime.KeepAlive(&value)
	return value, err
}

// GetPropertyFlag reads a boolean property.
func (h *Handle) GetPropertyFlag(name string) (bool, error) {
	var flag int32
	err := errorFrom(mpvGetProperty(h.ptr, name, int32(FormatFlag), uintptr(unsafe.Pointer(&flag))))
	runtime.KeepAlive(&flag)
	return flag == 1, err
}

// GetPropertyInt64 reads an integer property.
func (h *Handle) GetPropertyInt64(name string) (int64, error) {
	var value int64
	err := errorFrom(mpvGetProperty(h.ptr, name, int32(FormatInt64), uintptr(unsafe.Pointer(&value))))
	runtime.KeepAlive(&value)
	return value, err
}

// Command runs an mpv command given as an argument vector, e.g.
// Command("loadfile", path) or Command("seek", "5.0", "absolute").
// The vector form is used so arguments are never re-tokenized by mpv.
func (h *Handle) Command(args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("empty command")
	}
	bufs := make([][]byte, len(args))
	ptrs := make([]uintptr, len(args)+1)
	for i, a := range args {
		bufs[i] = append([]byte(a), 0)
		ptrs[i] = uintptr(unsafe.Pointer(&bufs[i][0]))
	}
	code := mpvCommandRaw(h.ptr, uintptr(unsafe.Pointer(&ptrs[0])))
	runtime.KeepAlive(bufs)
	runtime.KeepAlive(ptrs)
	return errorFrom(code)
}

// ObserveProperty subscribes to change events for the named property.
func (h *Handle) ObserveProperty(userdata uint64, name string, format Format) error {
	return errorFrom(mpvObserveProperty(h.ptr, userdata, name, int32(format)))
}

// Wakeup interrupts a concurrent WaitEvent call.
func (h *Handle) Wakeup() {
	mpvWakeup(h.ptr)
}

// TerminateDestroy shuts the player down and frees the handle. The handle
// must not be used afterwards.
func (h *Handle) TerminateDestroy() {
	mpvTerminateDestroy(h.ptr)
	h.ptr = 0
}
