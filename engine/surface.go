package engine

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// The video viewport occupies a fixed share of the host window, matching
// the layout convention of the surrounding editor shell.
const (
	viewportWidthRatio  = 0.76
	viewportHeightRatio = 0.75
)

// viewportSize computes the framebuffer dimensions from the host bounds.
func viewportSize(b Bounds) (width, height int) {
	width = int(float64(b.Width) * viewportWidthRatio)
	height = int(float64(b.Height) * viewportHeightRatio)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// GL constants, limited to what the off-screen pipeline touches.
const (
	glTexture2D            = 0x0DE1
	glTextureMinFilter     = 0x2801
	glTextureMagFilter     = 0x2800
	glLinear               = 0x2601
	glRGBA8                = 0x8058
	glBGRA                 = 0x80E1
	glUnsignedByte         = 0x1401
	glFramebuffer          = 0x8D40
	glColorAttachment0     = 0x8CE0
	glFramebufferComplete  = 0x8CD5
	glPackAlignment        = 0x0D05
)

// glFuncs holds the GL entry points resolved from the live context. Pointer
// loading requires a current context on some platforms, so this happens
// inside bootstrap while the creating thread still holds currency.
type glFuncs struct {
	genTextures            func(n int32, ids *uint32)
	bindTexture            func(target uint32, id uint32)
	texImage2D             func(target uint32, level, internalFormat, width, height, border int32, format, typ uint32, data uintptr)
	texParameteri          func(target, pname uint32, param int32)
	genFramebuffers        func(n int32, ids *uint32)
	bindFramebuffer        func(target uint32, id uint32)
	framebufferTexture2D   func(target, attachment, textarget uint32, texture uint32, level int32)
	checkFramebufferStatus func(target uint32) uint32
	readPixels             func(x, y, width, height int32, format, typ uint32, data uintptr)
	pixelStorei            func(pname uint32, param int32)
	deleteFramebuffers     func(n int32, ids *uint32)
	deleteTextures         func(n int32, ids *uint32)
	finish                 func()
}

// loadGLFuncs resolves every required symbol through lookup, failing on the
// first miss so bootstrap aborts cleanly instead of crashing mid-render.
func loadGLFuncs(lookup func(name string) uintptr) (*glFuncs, error) {
	gl := &glFuncs{}
	symbols := []struct {
		fn   any
		name string
	}{
		{&gl.genTextures, "glGenTextures"},
		{&gl.bindTexture, "glBindTexture"},
		{&gl.texImage2D, "glTexImage2D"},
		{&gl.texParameteri, "glTexParameteri"},
		{&gl.genFramebuffers, "glGenFramebuffers"},
		{&gl.bindFramebuffer, "glBindFramebuffer"},
		{&gl.framebufferTexture2D, "glFramebufferTexture2D"},
		{&gl.checkFramebufferStatus, "glCheckFramebufferStatus"},
		{&gl.readPixels, "glReadPixels"},
		{&gl.pixelStorei, "glPixelStorei"},
		{&gl.deleteFramebuffers, "glDeleteFramebuffers"},
		{&gl.deleteTextures, "glDeleteTextures"},
		{&gl.finish, "glFinish"},
	}
	for _, s := range symbols {
		addr := lookup(s.name)
		if addr == 0 {
			return nil, fmt.Errorf("GL symbol %s not found", s.name)
		}
		purego.RegisterFunc(s.fn, addr)
	}
	return gl, nil
}

// glTarget bundles the off-screen framebuffer shared by both platform
// surface implementations.
type glTarget struct {
	gl       *glFuncs
	fbo      uint32
	tex      uint32
	width    int
	height   int
	complete bool
}

// createTarget builds the FBO and backing texture at the viewport size.
// An incomplete framebuffer is reported but the ids are kept: rendering
// will silently no-op until the condition clears, per the degrade policy.
func (t *glTarget) createTarget(gl *glFuncs, width, height int) error {
	t.gl = gl
	t.width = width
	t.height = height

	gl.genTextures(1, &t.tex)
	gl.bindTexture(glTexture2D, t.tex)
	gl.texParameteri(glTexture2D, glTextureMinFilter, glLinear)
	gl.texParameteri(glTexture2D, glTextureMagFilter, glLinear)
	gl.texImage2D(glTexture2D, 0, glRGBA8, int32(width), int32(height), 0, glBGRA, glUnsignedByte, 0)

	gl.genFramebuffers(1, &t.fbo)
	gl.bindFramebuffer(glFramebuffer, t.fbo)
	gl.framebufferTexture2D(glFramebuffer, glColorAttachment0, glTexture2D, t.tex, 0)
	status := gl.checkFramebufferStatus(glFramebuffer)
	gl.bindFramebuffer(glFramebuffer, 0)
	gl.bindTexture(glTexture2D, 0)

	if status != glFramebufferComplete {
		return fmt.Errorf("framebuffer incomplete: status 0x%04X", status)
	}
	t.complete = true
	return nil
}

func (t *glTarget) Viewport() (int, int) {
	return t.width, t.height
}

func (t *glTarget) Framebuffer() (uint32, int, int) {
	return t.fbo, t.width, t.height
}

func (t *glTarget) Ready() bool {
	return t.complete
}

// ReadPixels copies the framebuffer into dst in BGRA byte order. The GL
// context must be current on the calling thread.
func (t *glTarget) ReadPixels(dst []byte) error {
	need := t.width * t.height * 4
	if len(dst) < need {
		return fmt.Errorf("pixel buffer too small: %d < %d", len(dst), need)
	}
	t.gl.bindFramebuffer(glFramebuffer, t.fbo)
	t.gl.pixelStorei(glPackAlignment, 1)
	t.gl.readPixels(0, 0, int32(t.width), int32(t.height), glBGRA, glUnsignedByte, uintptr(unsafe.Pointer(&dst[0])))
	t.gl.bindFramebuffer(glFramebuffer, 0)
	return nil
}

// destroyTarget frees the FBO and texture. The context must be current.
func (t *glTarget) destroyTarget() {
	if t.gl == nil {
		return
	}
	if t.fbo != 0 {
		t.gl.deleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.tex != 0 {
		t.gl.deleteTextures(1, &t.tex)
		t.tex = 0
	}
}
