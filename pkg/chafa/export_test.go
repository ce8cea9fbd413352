package chafa

import (
	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
	"github.com/termgfx/chafa-go/pkg/chafa/logging"
)

// SetNativeForTest marks the library initialized with n as its backend and
// returns a func restoring the previous state.
func SetNativeForTest(n backend.Native) func() {
	stateMu.Lock()
	defer stateMu.Unlock()
	prevInit, prevNative, prevErr, prevLog := initialized, native, loadErr, log
	initialized, native, loadErr = true, n, nil
	return func() {
		stateMu.Lock()
		defer stateMu.Unlock()
		initialized, native, loadErr, log = prevInit, prevNative, prevErr, prevLog
	}
}

// ResetForTest returns the library to its uninitialized state with load as
// the backend loader, and returns a func restoring the previous state.
func ResetForTest(load func() (backend.Native, error)) func() {
	stateMu.Lock()
	defer stateMu.Unlock()
	prevInit, prevNative, prevErr, prevLog, prevLoad := initialized, native, loadErr, log, loadNative
	initialized, native, loadErr, log, loadNative = false, nil, nil, logging.Nop(), load
	return func() {
		stateMu.Lock()
		defer stateMu.Unlock()
		initialized, native, loadErr, log, loadNative = prevInit, prevNative, prevErr, prevLog, prevLoad
	}
}

// SetLoggerForTest replaces the library logger until the returned func runs.
func SetLoggerForTest(l logging.Logger) func() {
	stateMu.Lock()
	defer stateMu.Unlock()
	prev := log
	log = l
	return func() {
		stateMu.Lock()
		defer stateMu.Unlock()
		log = prev
	}
}

// NativeForTest exposes the native handle so tests can inspect mock state.
func (m *SymbolMap) NativeForTest() backend.Handle {
	m.h.mu.Lock()
	defer m.h.mu.Unlock()
	return m.h.ptr
}
