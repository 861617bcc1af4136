package libmpv

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Render param types from mpv/render.h.
const (
	renderParamInvalid          int32 = 0
	renderParamAPIType          int32 = 1
	renderParamOpenGLInitParams int32 = 2
	renderParamOpenGLFBO        int32 = 3
	renderParamFlipY            int32 = 4
)

// C struct mirrors, 64-bit layout.
type cRenderParam struct {
	typ  int32
	_    int32
	data uintptr
}

type cOpenGLInitParams struct {
	getProcAddress    uintptr
	getProcAddressCtx uintptr
}

type cOpenGLFBO struct {
	fbo            int32
	w              int32
	h              int32
	internalFormat int32
}

// RenderContext drives mpv's OpenGL render API. It must only be used from
// the thread that owns the target GL context; creation may happen on any
// thread as long as the get-proc-address callback resolves symbols without
// needing a current context (the engine bootstraps its context first).
type RenderContext struct {
	ptr uintptr

	// Callback trampolines and their referents, pinned for the lifetime of
	// the context so the GC never collects memory mpv still points at.
	getProc    func(name string) uintptr
	getProcCB  uintptr
	onUpdate   func()
	onUpdateCB uintptr
}

// NewRenderContext creates a render context for the given handle using the
// OpenGL backend. getProc resolves GL symbols (platform-specific lookup).
// The handle must be initialized and must outlive the returned context.
func NewRenderContext(h *Handle, getProc func(name string) uintptr) (*RenderContext, error) {
	r := &RenderContext{getProc: getProc}
	r.getProcCB = purego.NewCallback(func(ctx uintptr, name uintptr) uintptr {
		return r.getProc(goString(name))
	})

	apiType := append([]byte("opengl"), 0)
	initParams := cOpenGLInitParams{getProcAddress: r.getProcCB}
	params := []cRenderParam{
		{typ: renderParamAPIType, data: uintptr(unsafe.Pointer(&apiType[0]))},
		{typ: renderParamOpenGLInitParams, data: uintptr(unsafe.Pointer(&initParams))},
		{typ: renderParamInvalid},
	}

	var out uintptr
	code := mpvRenderContextCreate(
		uintptr(unsafe.Pointer(&out)),
		h.ptr,
		uintptr(unsafe.Pointer(&params[0])),
	)
	runtime.KeepAlive(apiType)
	runtime.KeepAlive(&initParams)
	runtime.KeepAlive(params)
	if err := errorFrom(code); err != nil {
		return nil, fmt.Errorf("create render context: %w", err)
	}
	r.ptr = out
	return r, nil
}

// SetUpdateCallback registers fn to be invoked whenever a new video frame
// is ready. mpv calls it from an internal thread; fn must be cheap and
// non-blocking (the engine just flips an atomic flag).
func (r *RenderContext) SetUpdateCallback(fn func()) {
	r.onUpdate = fn
	if r.onUpdateCB == 0 {
		r.onUpdateCB = purego.NewCallback(func(ctx uintptr) uintptr {
			if f := r.onUpdate; f != nil {
				f()
			}
			return 0
		})
	}
	mpvRenderContextSetUpdateCallback(r.ptr, r.onUpdateCB, 0)
}

// Render draws the current frame into the framebuffer object. The target GL
// context must be current on the calling thread. flipY is left off for FBO
// targets; only on-screen surfaces need the flip.
func (r *RenderContext) Render(fbo uint32, width, height int, flipY bool) error {
	target := cOpenGLFBO{fbo: int32(fbo), w: int32(width), h: int32(height)}
	var flip int32
	if flipY {
		flip = 1
	}
	params := []cRenderParam{
		{typ: renderParamOpenGLFBO, data: uintptr(unsafe.Pointer(&target))},
		{typ: renderParamFlipY, data: uintptr(unsafe.Pointer(&flip))},
		{typ: renderParamInvalid},
	}
	code := mpvRenderContextRender(r.ptr, uintptr(unsafe.Pointer(&params[0])))
	runtime.KeepAlive(&target)
	runtime.KeepAlive(&flip)
	runtime.KeepAlive(params)
	if err := errorFrom(code); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	return nil
}

// Free destroys the render context. Must be called before the owning handle
// is destroyed, and with no concurrent Render in flight.
func (r *RenderContext) Free() {
	if r.ptr != 0 {
		mpvRenderContextFree(r.ptr)
		r.ptr = 0
	}
	r.onUpdate = nil
}
