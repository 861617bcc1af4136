package engine

import (
	"runtime"
	"time"

	"github.com/cliplab/cliplab/log"
)

// renderLoop owns the graphics context for its lifetime. The context is
// claimed once on entry and released on exit; no other goroutine may touch
// GL while this loop runs. Frames are rendered only when the native engine
// signalled one via the update callback, otherwise the loop idles.
func (e *Engine) renderLoop(surface Surface, rctx Renderer, frame *FrameBuffer) {
	defer e.wg.Done()

	// GL context currency is per OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := surface.MakeCurrent(); err != nil {
		log.Errorf("engine: render thread cannot claim context: %v", err)
		return
	}
	defer surface.DoneCurrent()

	fbo, width, height := surface.Framebuffer()

	for !e.shutdown.Load() {
		if !e.needsRender.CompareAndSwap(true, false) {
			time.Sleep(renderIdleInterval)
			continue
		}

		if !surface.Ready() {
			// Incomplete framebuffer, drop the frame.
			time.Sleep(renderIdleInterval)
			continue
		}

		if err := rctx.Render(fbo, width, height, false); err != nil {
			log.Warnf("engine: render pass failed: %v", err)
			continue
		}
		frame.fill(surface.ReadPixels)
	}
}
