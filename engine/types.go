// Package engine embeds libmpv behind a thread-safe transport facade.
//
// The engine owns three cooperating pieces: an event goroutine that folds
// mpv property changes into lock-free playback state, a render goroutine
// that drives mpv's OpenGL render API into an off-screen framebuffer and
// copies pixels out for the GUI compositor, and the facade itself, which
// serializes lifecycle changes while letting transport commands flow to
// mpv from any goroutine.
package engine

import (
	"time"

	"github.com/cliplab/cliplab/libmpv"
)

// Native is the command/event surface of the underlying media engine.
// *libmpv.Handle satisfies it; tests substitute fakes.
type Native interface {
	Command(args ...string) error
	SetPropertyFlag(name string, value bool) error
	SetPropertyString(name, value string) error
	SetPropertyDouble(name string, value float64) error
	GetPropertyDouble(name string) (float64, error)
	GetPropertyFlag(name string) (bool, error)
	ObserveProperty(userdata uint64, name string, format libmpv.Format) error
	WaitEvent(timeout float64) *libmpv.Event
	Wakeup()
	TerminateDestroy()
}

// Renderer is the native engine's render-API bridge. *libmpv.RenderContext
// satisfies it.
type Renderer interface {
	// SetUpdateCallback registers a frame-ready notification. The callback
	// runs on an engine-internal thread and must not block.
	SetUpdateCallback(fn func())

	// Render draws the current frame into the given framebuffer object.
	// The surface's GL context must be current on the calling thread.
	Render(fbo uint32, width, height int, flipY bool) error

	// Free destroys the context. Call before the engine handle is destroyed.
	Free()
}

// Surface is a platform graphics context bound to a host-supplied drawable,
// with an off-screen framebuffer sized to the video viewport. After
// bootstrap only the render goroutine may make it current.
type Surface interface {
	// Viewport returns the framebuffer dimensions in pixels.
	Viewport() (width, height int)

	// Framebuffer returns the off-screen render target.
	Framebuffer() (fbo uint32, width, height int)

	// Ready reports whether the render target is complete. Frames are
	// dropped silently while it is false.
	Ready() bool

	// MakeCurrent binds the GL context to the calling thread.
	MakeCurrent() error

	// DoneCurrent releases the GL context from the calling thread.
	DoneCurrent()

	// ProcAddress resolves a GL symbol for the render bridge.
	ProcAddress(name string) uintptr

	// ReadPixels copies the framebuffer contents into dst as BGRA bytes.
	// The context must be current on the calling thread.
	ReadPixels(dst []byte) error

	// Release frees the context and its native resources.
	Release()
}

// Bounds is the host window's pixel size, supplied by the window system
// alongside the drawable handle.
type Bounds struct {
	Width  int
	Height int
}

const (
	// Idle interval of the render loop when no frame is pending,
	// approximating a 60Hz ceiling.
	renderIdleInterval = 16 * time.Millisecond

	// Bounded event wait so the shutdown flag is rechecked even when mpv
	// emits nothing.
	eventWaitTimeout = 0.3
)
