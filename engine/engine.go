package engine

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"github.com/cliplab/cliplab/config"
	"github.com/cliplab/cliplab/libmpv"
	"github.com/cliplab/cliplab/log"
)

// Engine is the single entry point for all playback commands. One instance
// is created at application start and shared by every GUI component issuing
// transport commands; command issuance needs no extra lock because the
// native handle's own contract covers concurrent calls. The engine mutex
// guards lifecycle state only (lazy init, surface attachment, teardown).
type Engine struct {
	native Native
	state  *PlaybackState

	mu          sync.Mutex
	initialized bool
	surface     Surface
	rctx        Renderer
	frame       *FrameBuffer
	closed      bool

	shutdown    atomic.Bool
	needsRender atomic.Bool

	wg sync.WaitGroup

	// Constructor indirection so tests can substitute fakes.
	newSurface  func(handle uintptr, bounds Bounds) (Surface, error)
	newRenderer func(getProc func(name string) uintptr) (Renderer, error)
}

// New allocates and initializes the native engine with the given playback
// options. A nil cfg uses the defaults. Failure here is unrecoverable for
// the application: there is no degraded mode without an engine handle.
func New(cfg *config.Playback) (*Engine, error) {
	if cfg == nil {
		cfg = config.LoadPlayback()
	}

	handle, err := libmpv.NewHandle()
	if err != nil {
		return nil, &InitializationError{Stage: "handle allocation", Err: err}
	}

	applyOptions(handle, cfg)

	if err := handle.Initialize(); err != nil {
		handle.TerminateDestroy()
		return nil, &InitializationError{Stage: "native initialization", Err: err}
	}

	e := newWithNative(handle)
	e.newRenderer = func(getProc func(name string) uintptr) (Renderer, error) {
		return libmpv.NewRenderContext(handle, getProc)
	}
	return e, nil
}

// newWithNative wires an Engine around an already-initialized native
// handle. Split out so tests can inject fakes.
func newWithNative(native Native) *Engine {
	return &Engine{
		native:     native,
		state:      &PlaybackState{},
		newSurface: createSurface,
		newRenderer: func(func(name string) uintptr) (Renderer, error) {
			return nil, fmt.Errorf("no render context constructor")
		},
	}
}

// applyOptions sets pre-initialization options. Individual option failures
// are logged and skipped; an unknown option must not take the engine down.
func applyOptions(handle *libmpv.Handle, cfg *config.Playback) {
	set := func(name, value string) {
		if err := handle.SetOptionString(name, value); err != nil {
			log.Warnf("engine: option %s=%s rejected: %v", name, value, err)
		}
	}

	// The render API owns video output; no window is ever created by mpv.
	set("vo", "libmpv")
	set("idle", "yes")
	set("input-default-bindings", "no")
	set("input-vo-keyboard", "no")
	set("osc", "no")
	set("hwdec", cfg.HWDec)
	set("volume", strconv.Itoa(cfg.Volume))
	if cfg.KeepOpen {
		// Playback holds the last frame at end-of-file instead of
		// unloading, so the editor keeps a valid position/duration.
		set("keep-open", "yes")
	}

	set("sub-font-size", strconv.Itoa(cfg.Subtitle.FontSize))
	set("sub-color", cfg.Subtitle.Color)
	set("sub-border-color", cfg.Subtitle.BorderColor)
	set("sub-border-size", strconv.FormatFloat(cfg.Subtitle.BorderSize, 'f', 1, 64))
	set("sub-pos", strconv.Itoa(cfg.Subtitle.Position))
}

// LoadFile loads the media file at path and leaves it paused, so the
// post-load state is deterministic regardless of previous transport state.
// The first successful call performs one-time initialization: the event
// goroutine starts, and if a surface is already attached, the render
// bridge comes up as well.
func (e *Engine) LoadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFilePath, path)
	}

	if err := e.ensureInitialized(); err != nil {
		return err
	}

	if err := e.native.Command("loadfile", path); err != nil {
		return &CommandError{Cmd: "loadfile", Err: err}
	}
	if err := e.native.SetPropertyFlag("pause", true); err != nil {
		return &CommandError{Cmd: "pause", Err: err}
	}
	return nil
}

// ensureInitialized starts the event goroutine on first use and brings up
// the render bridge when a surface is attached. The check is lock-based,
// not atomic: initialization ordering matters and races here would double
// start goroutines. Refuses after Close so no goroutine is ever added past
// teardown's join and no command reaches the destroyed handle.
func (e *Engine) ensureInitialized() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	if !e.initialized {
		e.initialized = true
		e.observeProperties()
		e.wg.Add(1)
		go e.eventLoop()
	}
	if e.surface != nil && e.rctx == nil {
		e.startRenderLocked()
	}
	return nil
}

func (e *Engine) observeProperties() {
	for _, prop := range []struct {
		name   string
		format libmpv.Format
	}{
		{"time-pos", libmpv.FormatDouble},
		{"duration", libmpv.FormatDouble},
		{"pause", libmpv.FormatFlag},
	} {
		if err := e.native.ObserveProperty(0, prop.name, prop.format); err != nil {
			log.Warnf("engine: observe %s: %v", prop.name, err)
		}
	}
}

// startRenderLocked creates the render context and spawns the render
// goroutine. Caller holds e.mu. Requires an attached surface and an
// initialized engine; mpv's render API can only be queried after init.
func (e *Engine) startRenderLocked() {
	rctx, err := e.newRenderer(e.surface.ProcAddress)
	if err != nil {
		log.Errorf("engine: render bridge unavailable: %v", err)
		return
	}
	e.rctx = rctx

	// Frame-ready handoff: mpv invokes this on an internal thread, so it
	// only flips the flag. The render goroutine does the heavy work.
	rctx.SetUpdateCallback(func() {
		e.needsRender.Store(true)
	})

	e.wg.Add(1)
	go e.renderLoop(e.surface, rctx, e.frame)
}

// Play resumes playback. mpv decides what this means with no file loaded.
func (e *Engine) Play() error {
	if err := e.native.SetPropertyFlag("pause", false); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

// Pause pauses playback. Idempotent: pausing twice is the same as once.
func (e *Engine) Pause() error {
	if err := e.native.SetPropertyFlag("pause", true); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	return nil
}

// Stop stops playback and returns the engine to idle.
func (e *Engine) Stop() error {
	if err := e.native.Command("stop"); err != nil {
		return &CommandError{Cmd: "stop", Err: err}
	}
	return nil
}

// Seek jumps to an absolute position. Out-of-range targets are clamped by
// the native engine, not here.
func (e *Engine) Seek(t time.Duration) error {
	secs := strconv.FormatFloat(t.Seconds(), 'f', 3, 64)
	if err := e.native.Command("seek", secs, "absolute"); err != nil {
		return &CommandError{Cmd: "seek", Err: err}
	}
	return nil
}

// PositionDuration returns the latest transport counters. Always succeeds;
// both are zero before any file is loaded. The two values are not a
// consistent snapshot of each other.
func (e *Engine) PositionDuration() (position, duration time.Duration) {
	return e.state.Position(), e.state.Duration()
}

// IsPlaying reports whether playback is currently advancing.
func (e *Engine) IsPlaying() bool {
	return !e.state.Paused()
}

// SetVolume sets the output volume as a percentage, clamped to mpv's
// accepted 0-150 range.
func (e *Engine) SetVolume(percent int) error {
	percent = lo.Clamp(percent, 0, 150)
	if err := e.native.SetPropertyDouble("volume", float64(percent)); err != nil {
		return fmt.Errorf("set volume %d: %w", percent, err)
	}
	return nil
}

// Volume returns the current output volume percentage.
func (e *Engine) Volume() (int, error) {
	v, err := e.native.GetPropertyDouble("volume")
	if err != nil {
		return 0, fmt.Errorf("get volume: %w", err)
	}
	return int(v), nil
}

// SetMute mutes or unmutes audio output without touching the volume level.
func (e *Engine) SetMute(muted bool) error {
	if err := e.native.SetPropertyFlag("mute", muted); err != nil {
		return fmt.Errorf("set mute: %w", err)
	}
	return nil
}

// Muted reports whether audio output is muted.
func (e *Engine) Muted() (bool, error) {
	m, err := e.native.GetPropertyFlag("mute")
	if err != nil {
		return false, fmt.Errorf("get mute: %w", err)
	}
	return m, nil
}

// SetSubtitleTrack selects the subtitle track with the given 1-based index.
func (e *Engine) SetSubtitleTrack(track int) error {
	if err := e.native.SetPropertyString("sid", strconv.Itoa(track)); err != nil {
		return fmt.Errorf("set subtitle track %d: %w", track, err)
	}
	return nil
}

// SetSubtitleDisplay enables subtitles on the given track, or disables them
// entirely. Enabling requires a valid track index.
func (e *Engine) SetSubtitleDisplay(enabled bool, track int) error {
	if !enabled {
		if err := e.native.SetPropertyString("sid", "no"); err != nil {
			return fmt.Errorf("disable subtitles: %w", err)
		}
		return nil
	}
	if track < 1 {
		return ErrSubtitleTrackRequired
	}
	return e.SetSubtitleTrack(track)
}

// SetSubtitleStyle applies subtitle appearance properties at runtime.
func (e *Engine) SetSubtitleStyle(style config.SubtitleStyle) error {
	props := []struct{ name, value string }{
		{"sub-font-size", strconv.Itoa(style.FontSize)},
		{"sub-color", style.Color},
		{"sub-border-color", style.BorderColor},
		{"sub-border-size", strconv.FormatFloat(style.BorderSize, 'f', 1, 64)},
		{"sub-pos", strconv.Itoa(style.Position)},
	}
	for _, p := range props {
		if err := e.native.SetPropertyString(p.name, p.value); err != nil {
			return fmt.Errorf("set %s: %w", p.name, err)
		}
	}
	return nil
}

// SetWindowHandle attaches the host-supplied drawable surface and
// bootstraps the graphics context. Deferred creation: if no file was loaded
// yet, the render bridge waits for the first LoadFile, because the native
// engine must be initialized before its render API is queried.
//
// The framebuffer is sized once from the bounds given here; later window
// resizes change the host surface geometry but not the video resolution.
func (e *Engine) SetWindowHandle(handle uintptr, bounds Bounds) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.surface != nil {
		return nil
	}

	surface, err := e.newSurface(handle, bounds)
	if err != nil {
		log.Errorf("engine: graphics bootstrap failed: %v", err)
		return fmt.Errorf("%w: %v", ErrNoSurface, err)
	}
	e.surface = surface

	width, height := surface.Viewport()
	e.frame = newFrameBuffer(width, height)

	if e.initialized && e.rctx == nil {
		e.startRenderLocked()
	}
	return nil
}

// FrameBuffer returns the shared pixel buffer the GUI composites each paint
// cycle, or nil when no surface was ever attached.
func (e *Engine) FrameBuffer() *FrameBuffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// VideoDimensions returns the fixed framebuffer size, zero before bootstrap.
func (e *Engine) VideoDimensions() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.frame == nil {
		return 0, 0
	}
	return e.frame.Dimensions()
}

// Close tears the engine down: both goroutines are joined, then native
// resources are freed in dependency order: render context before engine
// handle before graphics context. Idempotent. Teardown failures are logged,
// never propagated; nothing can act on them.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.shutdown.Store(true)
	e.native.Wakeup()
	e.wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rctx != nil {
		e.rctx.Free()
		e.rctx = nil
	}
	e.native.TerminateDestroy()
	if e.surface != nil {
		e.surface.Release()
		e.surface = nil
	}
}
