package engine

import (
	"github.com/cliplab/cliplab/libmpv"
	"github.com/cliplab/cliplab/log"
)

// eventLoop drains the native event queue for the lifetime of the engine.
// It is the sole writer of PlaybackState. The wait uses a bounded timeout
// so the shutdown flag is re-checked even if no wakeup arrives.
func (e *Engine) eventLoop() {
	defer e.wg.Done()

	for !e.shutdown.Load() {
		ev := e.native.WaitEvent(eventWaitTimeout)
		if ev == nil {
			continue
		}

		switch ev.ID {
		case libmpv.EventNone:
			// Timeout, loop around to re-check shutdown.
		case libmpv.EventShutdown:
			return
		case libmpv.EventPropertyChange:
			e.handlePropertyChange(ev)
		case libmpv.EventEndFile:
			// With keep-open the engine holds the last frame; position
			// and duration stay at their final observed values.
			log.Debugf("engine: end of file")
		case libmpv.EventFileLoaded:
			log.Debugf("engine: file loaded")
		default:
		}
	}
}

func (e *Engine) handlePropertyChange(ev *libmpv.Event) {
	switch ev.Name {
	case "time-pos":
		if ev.Format == libmpv.FormatDouble {
			e.state.setPosition(secondsToDuration(ev.Double))
		}
	case "duration":
		if ev.Format == libmpv.FormatDouble {
			e.state.setDuration(secondsToDuration(ev.Double))
		}
	case "pause":
		if ev.Format == libmpv.FormatFlag {
			e.state.setPaused(ev.Flag)
		}
	}
}
