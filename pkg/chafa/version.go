package chafa

import "github.com/termgfx/chafa-go/pkg/chafa/internal/backend"

var (
	Version       = "v0.0.0-in-progress"
	NativePinned  = "1.14"
	NativePackage = "chafa"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// NativeVersion returns the chafa version the bindings were compiled
// against if they are linked in; otherwise it falls back to the pinned
// minimum version.
func NativeVersion() string {
	if v := backend.Version(); v != "" {
		return v
	}
	return NativePinned
}
