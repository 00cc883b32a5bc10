//go:build !linux || !cgo

package ring

// sfence is a no-op off Linux and in builds without cgo; kept so the
// minimal ring doesn't need a second build tag of its own.
func sfence() {}
