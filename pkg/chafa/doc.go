// Package chafa is a memory-safe Go binding for the chafa terminal graphics
// library. It converts pixel data into text art and terminal graphics
// protocols (sixels, kitty, iTerm2).
//
// Native objects are wrapped in Go values that own exactly one reference.
// Close releases it; a finalizer releases objects that were never closed
// and logs a warning. Every method of a closed value returns ErrClosed.
// Calls on one value are serialized, so values may be shared between
// goroutines.
//
// Arguments are checked before any native call. Invalid values return
// ErrInvalidArgument, short pixel buffers ErrBufferTooSmall, and failures
// reported by the library an *OperationError that matches
// ErrOperationFailed.
//
// The native library is linked only when building with cgo and the chafa
// build tag:
//
//	go build -tags chafa ./...
//
// Without it every constructor returns ErrNotBuilt.
//
// A minimal render:
//
//	canvas, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 40, Height: 20})
//	if err != nil {
//		return err
//	}
//	defer canvas.Close()
//
//	px, err := chafa.PixelsFromImage(img)
//	if err != nil {
//		return err
//	}
//	if err := canvas.DrawPixels(px); err != nil {
//		return err
//	}
//	out, err := canvas.Print(nil)
package chafa
