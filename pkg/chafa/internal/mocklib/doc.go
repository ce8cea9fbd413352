// Package mocklib provides an in-memory implementation of backend.Native for
// tests.
//
// Lib records every call with a copy of its arguments, keeps per-handle state
// (configs, canvases, symbol maps, term infos) and counts releases so tests
// can assert on ownership without linking libchafa.
//
// # Usage
//
//	lib := mocklib.New()
//	restore := chafa.SetNativeForTest(lib) // from the chafa package tests
//	defer restore()
//
//	canvas, _ := chafa.NewCanvas(chafa.CanvasConfig{Width: 10, Height: 5})
//	_ = canvas.Close()
//	lib.Released(mocklib.KindCanvas) // 1
//
// # Failure Injection
//
// Fail makes the named operation fail until Recover is called. Allocation
// functions return a nil handle, fallible functions return false, and
// functions with an error out-parameter also return a *backend.GError.
//
//	lib.Fail("CanvasNew")
//	_, err := chafa.NewCanvas(cfg) // errors.Is(err, chafa.ErrAllocationFailed)
//
// # Limitations
//
// Rendering is simulated: drawing fills every cell with a block symbol and
// printing joins the cell runes row by row. Output is deterministic but does
// not match the native renderer.
package mocklib
