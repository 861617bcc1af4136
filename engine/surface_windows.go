//go:build windows

package engine

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/cliplab/cliplab/log"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	opengl32 = windows.NewLazySystemDLL("opengl32.dll")

	procGetDC             = user32.NewProc("GetDC")
	procReleaseDC         = user32.NewProc("ReleaseDC")
	procChoosePixelFormat = gdi32.NewProc("ChoosePixelFormat")
	procSetPixelFormat    = gdi32.NewProc("SetPixelFormat")
	procWglCreateContext  = opengl32.NewProc("wglCreateContext")
	procWglDeleteContext  = opengl32.NewProc("wglDeleteContext")
	procWglMakeCurrent    = opengl32.NewProc("wglMakeCurrent")
	procWglGetProcAddress = opengl32.NewProc("wglGetProcAddress")
)

const (
	pfdTypeRGBA      = 0
	pfdDoubleBuffer  = 0x00000001
	pfdDrawToWindow  = 0x00000004
	pfdSupportOpenGL = 0x00000020
	pfdMainPlane     = 0
)

// pixelFormatDescriptor mirrors PIXELFORMATDESCRIPTOR from wingdi.h.
type pixelFormatDescriptor struct {
	Size           uint16
	Version        uint16
	Flags          uint32
	PixelType      byte
	ColorBits      byte
	RedBits        byte
	RedShift       byte
	GreenBits      byte
	GreenShift     byte
	BlueBits       byte
	BlueShift      byte
	AlphaBits      byte
	AlphaShift     byte
	AccumBits      byte
	AccumRedBits   byte
	AccumGreenBits byte
	AccumBlueBits  byte
	AccumAlphaBits byte
	DepthBits      byte
	StencilBits    byte
	AuxBuffers     byte
	LayerType      byte
	Reserved       byte
	LayerMask      uint32
	VisibleMask    uint32
	DamageMask     uint32
}

// winSurface bundles the drawable, its device context and the WGL rendering
// context. After bootstrap only the render goroutine makes it current.
type winSurface struct {
	hwnd  uintptr
	hdc   uintptr
	hglrc uintptr
	glTarget
}

// createSurface bootstraps a WGL context on the drawable supplied by the
// host window system and builds the off-screen framebuffer at the viewport
// size. The context is made current only long enough to load GL function
// pointers and create the FBO, then released so the render goroutine can
// claim currency. Leaving it current here would corrupt later renders.
func createSurface(handle uintptr, bounds Bounds) (Surface, error) {
	width, height := viewportSize(bounds)

	hdc, _, _ := procGetDC.Call(handle)
	if hdc == 0 {
		return nil, &InitializationError{Stage: "device context", Err: ErrNoSurface}
	}

	s := &winSurface{hwnd: handle, hdc: hdc}

	pfd := pixelFormatDescriptor{
		Size:      uint16(unsafe.Sizeof(pixelFormatDescriptor{})),
		Version:   1,
		Flags:     pfdDrawToWindow | pfdSupportOpenGL | pfdDoubleBuffer,
		PixelType: pfdTypeRGBA,
		ColorBits: 24,
		AlphaBits: 8,
		DepthBits: 24,
		LayerType: pfdMainPlane,
	}

	format, _, _ := procChoosePixelFormat.Call(hdc, uintptr(unsafe.Pointer(&pfd)))
	if format == 0 {
		s.releaseDC()
		return nil, &InitializationError{Stage: "pixel format selection", Err: ErrNoSurface}
	}
	if ok, _, _ := procSetPixelFormat.Call(hdc, format, uintptr(unsafe.Pointer(&pfd))); ok == 0 {
		s.releaseDC()
		return nil, &InitializationError{Stage: "pixel format application", Err: ErrNoSurface}
	}

	hglrc, _, _ := procWglCreateContext.Call(hdc)
	if hglrc == 0 {
		s.releaseDC()
		return nil, &InitializationError{Stage: "rendering context", Err: ErrNoSurface}
	}
	s.hglrc = hglrc

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

func (s *winSurface) MakeCurrent() error {
	if ok, _, _ := procWglMakeCurrent.Call(s.hdc, s.hglrc); ok == 0 {
		return fmt.Errorf("wglMakeCurrent failed")
	}
	return nil
}

func (s *winSurface) DoneCurrent() {
	procWglMakeCurrent.Call(0, 0)
}

// wglProcAddressValid reports whether wglGetProcAddress returned a real
// entry point. Failure is signalled by 0, 1, 2, 3 or -1 depending on the
// driver, not by 0 alone.
func wglProcAddressValid(addr uintptr) bool {
	switch addr {
	case 0, 1, 2, 3, ^uintptr(0):
		return false
	}
	return true
}

// ProcAddress resolves a GL symbol. Extension entry points come from
// wglGetProcAddress; GL 1.1 entry points only resolve through the DLL
// export table, so fall back to opengl32 directly.
func (s *winSurface) ProcAddress(name string) uintptr {
	cname := append([]byte(name), 0)
	addr, _, _ := procWglGetProcAddress.Call(uintptr(unsafe.Pointer(&cname[0])))
	if wglProcAddressValid(addr) {
		return addr
	}
	proc := opengl32.NewProc(name)
	if proc.Find() != nil {
		return 0
	}
	return proc.Addr()
}

func (s *winSurface) Release() {
	if s.hglrc != 0 {
		if s.MakeCurrent() == nil {
			s.destroyTarget()
			s.DoneCurrent()
		}
		procWglDeleteContext.Call(s.hglrc)
		s.hglrc = 0
	}
	s.releaseDC()
}

func (s *winSurface) releaseDC() {
	if s.hdc != 0 {
		procReleaseDC.Call(s.hwnd, s.hdc)
		s.hdc = 0
	}
}
