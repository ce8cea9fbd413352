// Package internalcheck holds policy tests for the chafa module.
//
// The tests load the module's packages with golang.org/x/tools/go/packages
// and fail when the native boundary leaks: cgo may only appear in the raw
// backend package, and no exported API of pkg/chafa may expose a native
// pointer.
//
// It is not intended for external use.
package internalcheck
