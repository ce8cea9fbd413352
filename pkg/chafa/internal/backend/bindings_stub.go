//go:build !cgo || !chafa

package backend

// Stub for builds without cgo or without the chafa build tag. The package
// still compiles so callers can be built and tested against a fake Native.

// Load reports ErrNotBuilt because no native library is linked.
func Load() (Native, error) {
	return nil, ErrNotBuilt
}

// Version returns the version string from the native headers, or empty if
// not available.
func Version() string { return "" }
