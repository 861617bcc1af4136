//go:build !windows && !darwin

package engine

// createSurface is a stub on platforms without a graphics bootstrap
// implementation. The engine stays fully controllable through the transport
// API; it just produces no video frames.
func createSurface(handle uintptr, bounds Bounds) (Surface, error) {
	return nil, &InitializationError{Stage: "graphics bootstrap", Err: ErrNoSurface}
}
