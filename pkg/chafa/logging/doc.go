// Package logging provides a minimal logging facade for the chafa wrapper.
//
// The wrapper logs through the small Logger interface so applications can
// route its diagnostics into whatever they already use:
//
//	// slog, with slog.Default() when nil
//	chafa.Init(chafa.Config{Logger: logging.New(nil)})
//
//	// zap
//	z, _ := zap.NewDevelopment()
//	chafa.Init(chafa.Config{Logger: logging.NewZap(z)})
//
// Until a logger is configured the wrapper uses Nop.
//
// # What gets logged
//
//   - Debug: initialization (features, thread counts), native handle
//     creation and release, failed native operations with their code.
//   - Warn: native handles released by a finalizer instead of Close, and a
//     native library that could not be loaded.
//
// Pixel data and rendered output are never logged.
package logging
