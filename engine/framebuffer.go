package engine

import "sync"

// FrameBuffer is the shared pixel buffer between the render goroutine
// (writer, once per rendered frame) and the GUI compositor (reader, at its
// own cadence). The whole buffer is written under one lock acquisition, so
// readers may see a stale frame but never a torn one. There is no
// generation counter; staleness is acceptable for display.
type FrameBuffer struct {
	mu     sync.Mutex
	pix    []byte // BGRA, width*height*4
	width  int
	height int
}

func newFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		pix:    make([]byte, width*height*4),
		width:  width,
		height: height,
	}
}

// Dimensions returns the fixed pixel dimensions of the buffer.
func (f *FrameBuffer) Dimensions() (width, height int) {
	return f.width, f.height
}

// Snapshot copies the current frame into dst and returns it. A new slice is
// allocated when dst is too small. The copy happens under the buffer lock.
func (f *FrameBuffer) Snapshot(dst []byte) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(dst) < len(f.pix) {
		dst = make([]byte, len(f.pix))
	}
	copy(dst, f.pix)
	return dst[:len(f.pix)]
}

// fill runs fn on the backing pixel slice under the buffer lock. The render
// goroutine uses it to read GL pixels directly into the shared buffer
// without an intermediate copy.
func (f *FrameBuffer) fill(fn func(pix []byte) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f.pix)
}
