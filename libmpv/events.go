package libmpv

import "unsafe"

// EventID identifies the kind of an event (mpv_event_id).
type EventID int32

const (
	EventNone            EventID = 0
	EventShutdown        EventID = 1
	EventLogMessage      EventID = 2
	EventStartFile       EventID = 6
	EventEndFile         EventID = 7
	EventFileLoaded      EventID = 8
	EventVideoReconfig   EventID = 17
	EventAudioReconfig   EventID = 18
	EventSeek            EventID = 20
	EventPlaybackRestart EventID = 21
	EventPropertyChange  EventID = 22
)

// Event is a decoded entry from the mpv event queue. Property payloads are
// copied out of mpv-owned memory before WaitEvent returns, so an Event stays
// valid after the next queue poll.
type Event struct {
	ID  EventID
	Err error

	// Property-change payload, valid when ID == EventPropertyChange.
	Name   string
	Format Format
	Double float64
	Flag   bool
	Int64  int64
	String string
}

// C struct mirrors, 64-bit layout.
type cEvent struct {
	id            int32
	err           int32
	replyUserdata uint64
	data          uintptr
}

type cEventProperty struct {
	name   uintptr
	format int32
	_      int32
	data   uintptr
}

// WaitEvent blocks for up to timeout seconds and returns the next event,
// or an Event with ID EventNone when the timeout expires.
func (h *Handle) WaitEvent(timeout float64) *Event {
	raw := mpvWaitEvent(h.ptr, timeout)
	if raw == 0 {
		return &Event{ID: EventNone}
	}
	ce := (*cEvent)(unsafe.Pointer(raw))
	ev := &Event{
		ID:  EventID(ce.id),
		Err: errorFrom(ce.err),
	}
	if ev.ID == EventPropertyChange && ce.data != 0 {
		cp := (*cEventProperty)(unsafe.Pointer(ce.data))
		ev.Name = goString(cp.name)
		ev.Format = Format(cp.format)
		if cp.data != 0 {
			switch ev.Format {
			case FormatDouble:
				ev.Double = *(*float64)(unsafe.Pointer(cp.data))
			case FormatFlag:
				ev.Flag = *(*int32)(unsafe.Pointer(cp.data)) == 1
			case FormatInt64:
				ev.Int64 = *(*int64)(unsafe.Pointer(cp.data))
			case FormatString:
				ev.String = goString(*(*uintptr)(unsafe.Pointer(cp.data)))
			}
		}
	}
	return ev
}

// goString copies a NUL-terminated C string into a Go string.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}
