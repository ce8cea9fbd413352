// Package backend hosts the thin cgo layer that links the Go API to the
// native chafa library. It mirrors the C ABI one function at a time and adds
// no policy of its own: callers validate arguments, own handles, and
// interpret results.
//
// The real implementation lives behind the `chafa` build tag (and cgo) so
// that the rest of the repository compiles and tests without the native
// library installed. Without it, Load reports ErrNotBuilt.
package backend
