//go:build darwin

package engine

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/cliplab/cliplab/log"
)

const openGLFramework = "/System/Library/Frameworks/OpenGL.framework/OpenGL"

// CGL pixel format attributes from OpenGL/CGLTypes.h.
const (
	cglPFADoubleBuffer = 5
	cglPFAColorSize    = 8
	cglPFAAlphaSize    = 11
	cglPFADepthSize    = 12
	cglPFAAccelerated  = 73
)

var (
	cglOnce    sync.Once
	cglHandle  uintptr
	cglInitErr error

	cglChoosePixelFormat  func(attribs *int32, pix *uintptr, npix *int32) int32
	cglDestroyPixelFormat func(pix uintptr) int32
	cglCreateContext      func(pix uintptr, share uintptr, ctx *uintptr) int32
	cglDestroyContext     func(ctx uintptr) int32
	cglSetCurrentContext  func(ctx uintptr) int32
)

func loadCGL() error {
	cglOnce.Do(func() {
		handle, err := purego.Dlopen(openGLFramework, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			cglInitErr = fmt.Errorf("load OpenGL framework: %w", err)
			return
		}
		cglHandle = handle
		purego.RegisterLibFunc(&cglChoosePixelFormat, handle, "CGLChoosePixelFormat")
		purego.RegisterLibFunc(&cglDestroyPixelFormat, handle, "CGLDestroyPixelFormat")
		purego.RegisterLibFunc(&cglCreateContext, handle, "CGLCreateContext")
		purego.RegisterLibFunc(&cglDestroyContext, handle, "CGLDestroyContext")
		purego.RegisterLibFunc(&cglSetCurrentContext, handle, "CGLSetCurrentContext")
	})
	return cglInitErr
}

// cglSurface bundles the host NSView handle and a CGL rendering context.
// The view handle is retained for reference only: frames are rendered into
// the off-screen framebuffer and read back as pixels, so the context never
// needs a drawable attached. Unlike the Windows path there is no separate
// device context to manage.
type cglSurface struct {
	view uintptr
	ctx  uintptr
	glTarget
}

// createSurface bootstraps a CGL context sized to the viewport computed
// from the host bounds. Currency is claimed only for symbol loading and
// framebuffer creation, then released for the render goroutine.
func createSurface(handle uintptr, bounds Bounds) (Surface, error) {
	if err := loadCGL(); err != nil {
		return nil, &InitializationError{Stage: "CGL loading", Err: err}
	}

	width, height := viewportSize(bounds)

	attribs := []int32{
		cglPFAAccelerated,
		cglPFADoubleBuffer,
		cglPFAColorSize, 24,
		cglPFAAlphaSize, 8,
		cglPFADepthSize, 24,
		0,
	}
	var pix uintptr
	var npix int32
	if code := cglChoosePixelFormat(&attribs[0], &pix, &npix); code != 0 || pix == 0 {
		return nil, &InitializationError{Stage: "pixel format selection", Err: ErrNoSurface}
	}
	defer cglDestroyPixelFormat(pix)

	s := &cglSurface{view: handle}
	if code := cglCreateContext(pix, 0, &s.ctx); code != 0 || s.ctx == 0 {
		return nil, &InitializationError{Stage: "rendering context", Err: ErrNoSurface}
	}

	if err := s.MakeCurrent(); err != nil {
		s.Release()
		return nil, &InitializationError{Stage: "context currency", Err: err}
	}

	gl, err := loadGLFuncs(s.ProcAddress)
	if err != nil {
		s.DoneCurrent()
		s.Release()
		return nil, &InitializationError{Stage: "GL symbol loading", Err: err}
	}

	if err := s.createTarget(gl, width, height); err != nil {
		// Non-fatal: transport keeps working, rendering no-ops.
		log.Warnf("engine: %v", err)
	}

	s.DoneCurrent()
	return s, nil
}

func (s *cglSurface) MakeCurrent() error {
	if code := cglSetCurrentContext(s.ctx); code != 0 {
		return fmt.Errorf("CGLSetCurrentContext failed: %d", code)
	}
	return nil
}

func (s *cglSurface) DoneCurrent() {
	cglSetCurrentContext(0)
}

// ProcAddress resolves a GL symbol from the framework; on macOS every entry
// point is a plain dynamic symbol, no per-context lookup needed.
func (s *cglSurface) ProcAddress(name string) uintptr {
	addr, err := purego.Dlsym(cglHandle, name)
	if err != nil {
		return 0
	}
	return addr
}

func (s *cglSurface) Release() {
	if s.ctx != 0 {
		if s.MakeCurrent() == nil {
			s.destroyTarget()
			s.DoneCurrent()
		}
		cglDestroyContext(s.ctx)
		s.ctx = 0
	}
}
