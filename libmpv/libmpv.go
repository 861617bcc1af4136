// Package libmpv provides a dynamic binding to the libmpv client API using purego.
//
// The library is loaded once, lazily, on first handle creation. All symbols
// used by the engine (client commands, property access, the event queue and
// the OpenGL render API) are resolved up front so a partially usable library
// is rejected instead of failing at call time.
package libmpv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

var (
	libOnce    sync.Once
	libHandle  uintptr
	libInitErr error
)

// libmpv function pointers
var (
	mpvClientAPIVersion func() uint64
	mpvCreate           func() uintptr
	mpvInitialize       func(handle uintptr) int32
	mpvTerminateDestroy func(handle uintptr)
	mpvWakeup           func(handle uintptr)

	mpvCommandRaw        func(handle uintptr, args uintptr) int32
	mpvSetOptionString   func(handle uintptr, name, value string) int32
	mpvSetPropertyString func(handle uintptr, name, value string) int32
	mpvSetProperty       func(handle uintptr, name string, format int32, data uintptr) int32
	mpvGetProperty       func(handle uintptr, name string, format int32, data uintptr) int32
	mpvObserveProperty   func(handle uintptr, userdata uint64, name string, format int32) int32
	mpvWaitEvent         func(handle uintptr, timeout float64) uintptr

	mpvRenderContextCreate            func(out uintptr, handle uintptr, params uintptr) int32
	mpvRenderContextSetUpdateCallback func(rctx uintptr, callback uintptr, userdata uintptr)
	mpvRenderContextRender            func(rctx uintptr, params uintptr) int32
	mpvRenderContextFree              func(rctx uintptr)
)

// Format identifies the wire format of a property value (mpv_format).
type Format int32

const (
	FormatNone   Format = 0
	FormatString Format = 1
	FormatFlag   Format = 3
	FormatInt64  Format = 4
	FormatDouble Format = 5
)

// load loads libmpv and resolves all required symbols exactly once.
func load() error {
	libOnce.Do(func() {
		libInitErr = loadLibrary()
	})
	return libInitErr
}

func loadLibrary() error {
	var lastErr error
	for _, path := range candidatePaths() {
		handle, err := openLibrary(path)
		if err != nil {
			lastErr = err
			continue
		}
		libHandle = handle
		registerSymbols()
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("failed to load libmpv: %w", lastErr)
	}
	return errors.New("libmpv not found in any standard location")
}

// candidatePaths returns library names/paths to try, most specific first.
// CLIPLAB_MPV_LIB overrides the search entirely.
func candidatePaths() []string {
	var paths []string
	if env := os.Getenv("CLIPLAB_MPV_LIB"); env != "" {
		paths = append(paths, env)
	}

	switch runtime.GOOS {
	case "windows":
		names := []string{"mpv-2.dll", "libmpv-2.dll", "mpv-1.dll"}
		if exe, err := os.Executable(); err == nil {
			dir := filepath.Dir(exe)
			for _, n := range names {
				paths = append(paths, filepath.Join(dir, n))
			}
		}
		paths = append(paths, names...)
	case "darwin":
		paths = append(paths,
			"libmpv.2.dylib",
			"libmpv.dylib",
			"/opt/homebrew/lib/libmpv.2.dylib",
			"/opt/homebrew/lib/libmpv.dylib",
			"/usr/local/lib/libmpv.2.dylib",
			"/usr/local/lib/libmpv.dylib",
		)
	default:
		paths = append(paths,
			"libmpv.so.2",
			"libmpv.so.1",
			"libmpv.so",
			"/usr/local/lib/libmpv.so",
		)
	}
	return paths
}

func registerSymbols() {
	purego.RegisterLibFunc(&mpvClientAPIVersion, libHandle, "mpv_client_api_version")
	purego.RegisterLibFunc(&mpvCreate, libHandle, "mpv_create")
	purego.RegisterLibFunc(&mpvInitialize, libHandle, "mpv_initialize")
	purego.RegisterLibFunc(&mpvTerminateDestroy, libHandle, "mpv_terminate_destroy")
	purego.RegisterLibFunc(&mpvWakeup, libHandle, "mpv_wakeup")

	purego.RegisterLibFunc(&mpvCommandRaw, libHandle, "mpv_command")
	purego.RegisterLibFunc(&mpvSetOptionString, libHandle, "mpv_set_option_string")
	purego.RegisterLibFunc(&mpvSetPropertyString, libHandle, "mpv_set_property_string")
	purego.RegisterLibFunc(&mpvSetProperty, libHandle, "mpv_set_property")
	purego.RegisterLibFunc(&mpvGetProperty, libHandle, "mpv_get_property")
	purego.RegisterLibFunc(&mpvObserveProperty, libHandle, "mpv_observe_property")
	purego.RegisterLibFunc(&mpvWaitEvent, libHandle, "mpv_wait_event")

	purego.RegisterLibFunc(&mpvRenderContextCreate, libHandle, "mpv_render_context_create")
	purego.RegisterLibFunc(&mpvRenderContextSetUpdateCallback, libHandle, "mpv_render_context_set_update_callback")
	purego.RegisterLibFunc(&mpvRenderContextRender, libHandle, "mpv_render_context_render")
	purego.RegisterLibFunc(&mpvRenderContextFree, libHandle, "mpv_render_context_free")
}

// APIVersion returns the loaded client API version, loading the library if needed.
func APIVersion() (uint64, error) {
	if err := load(); err != nil {
		return 0, err
	}
	return mpvClientAPIVersion(), nil
}
