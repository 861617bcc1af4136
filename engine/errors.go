package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilePath is returned by LoadFile when the target does not exist.
	ErrInvalidFilePath = errors.New("file does not exist")

	// ErrNoSurface is returned when graphics bootstrap fails; the engine
	// stays fully controllable but produces no video output.
	ErrNoSurface = errors.New("no rendering surface created")

	// ErrSubtitleTrackRequired is returned when subtitles are enabled
	// without naming a track.
	ErrSubtitleTrackRequired = errors.New("subtitle track index required to enable subtitles")

	// ErrEngineClosed is returned by lifecycle operations that arrive
	// after Close; the native handle is already destroyed.
	ErrEngineClosed = errors.New("engine closed")
)

// CommandError reports a specific native command that mpv rejected,
// distinct from generic engine errors for diagnostic clarity.
type CommandError struct {
	Cmd string
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Cmd, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// InitializationError reports a failure to bring the engine or one of its
// graphics resources into a usable state.
type InitializationError struct {
	Stage string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialization failed at %s: %v", e.Stage, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }
