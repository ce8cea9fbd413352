package chafa_test

import (
	"bytes"
	"math"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/termgfx/chafa-go/pkg/chafa"
	"github.com/termgfx/chafa-go/pkg/chafa/internal/mocklib"
	"github.com/termgfx/chafa-go/pkg/chafa/logging"
)

func TestCanvasRenderAndRelease(t *testing.T) {
	lib := newMock(t)

	c, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 10, Height: 5, PixelMode: chafa.PixelModeSymbols})
	require.NoError(t, err)

	px := solidRGBA(10, 5, 0x11, 0x22, 0x33)
	require.Len(t, px.Data, 200)
	require.NoError(t, c.DrawPixels(px))

	out, err := c.Print(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.Equal(t, 1, lib.CallCount("CanvasUnref"))
	assert.Equal(t, 1, lib.Released(mocklib.KindCanvas))
	assert.Equal(t, 1, lib.Released(mocklib.KindCanvasConfig), "transient config must be released")
	assert.Zero(t, lib.Live(""))
	assert.Empty(t, lib.Invalid())
}

func TestNewCanvasRejectsInvalidConfig(t *testing.T) {
	cases := map[string]chafa.CanvasConfig{
		"zero width":          {Width: 0, Height: 5},
		"negative height":     {Width: 10, Height: -1},
		"oversized width":     {Width: chafa.MaxCanvasDimension + 1, Height: 5},
		"half cell geometry":  {Width: 10, Height: 5, CellWidth: 8},
		"oversized cell":      {Width: 10, Height: 5, CellWidth: 8, CellHeight: chafa.MaxCellDimension + 1},
		"canvas mode":         {Width: 10, Height: 5, CanvasMode: chafa.CanvasModeMax},
		"pixel mode":          {Width: 10, Height: 5, PixelMode: chafa.PixelModeMax},
		"color extractor":     {Width: 10, Height: 5, ColorExtractor: chafa.ColorExtractorMax},
		"color space":         {Width: 10, Height: 5, ColorSpace: chafa.ColorSpaceMax},
		"dither mode":         {Width: 10, Height: 5, DitherMode: chafa.DitherModeMax},
		"passthrough":         {Width: 10, Height: 5, Passthrough: chafa.PassthroughMax},
		"grain not pow2":      {Width: 10, Height: 5, DitherGrainWidth: 3, DitherGrainHeight: 3},
		"half grain":          {Width: 10, Height: 5, DitherGrainHeight: 2},
		"intensity NaN":       {Width: 10, Height: 5, DitherIntensity: ptr(float32(math.NaN()))},
		"intensity too large": {Width: 10, Height: 5, DitherIntensity: ptr(float32(chafa.MaxDitherIntensity + 1))},
		"threshold negative":  {Width: 10, Height: 5, AlphaThreshold: ptr(float32(-0.1))},
		"work factor inf":     {Width: 10, Height: 5, WorkFactor: ptr(float32(math.Inf(1)))},
		"fg color":            {Width: 10, Height: 5, FgColor: ptr(uint32(chafa.MaxColor + 1))},
		"bg color":            {Width: 10, Height: 5, BgColor: ptr(uint32(0xFF000000))},
		"optimizations":       {Width: 10, Height: 5, Optimizations: ptr(chafa.Optimizations(1 << 31))},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			lib := newMock(t)
			c, err := chafa.NewCanvas(cfg)
			require.ErrorIs(t, err, chafa.ErrInvalidArgument)
			assert.Nil(t, c)
			assert.Zero(t, lib.CallCount(""), "validation must not reach the native library")
		})
	}
}

func TestNewCanvasAllocationFailure(t *testing.T) {
	lib := newMock(t)
	lib.Fail("CanvasNew")

	c, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 4, Height: 4})
	require.ErrorIs(t, err, chafa.ErrAllocationFailed)
	assert.Nil(t, c)
	assert.Equal(t, 1, lib.Released(mocklib.KindCanvasConfig))
	assert.Zero(t, lib.Live(""))
}

func TestNewCanvasAppliesOnlySetFields(t *testing.T) {
	lib := newMock(t)
	mustCanvas(t, chafa.CanvasConfig{Width: 4, Height: 3})

	call, ok := lib.LastCall("CanvasConfigSetGeometry")
	require.True(t, ok)
	assert.Equal(t, []any{int32(4), int32(3)}, call.Args)
	for _, op := range []string{
		"CanvasConfigSetCellGeometry",
		"CanvasConfigSetDitherGrainSize",
		"CanvasConfigSetDitherIntensity",
		"CanvasConfigSetFgColor",
		"CanvasConfigSetPreprocessingEnabled",
		"CanvasConfigSetSymbolMap",
	} {
		assert.Zero(t, lib.CallCount(op), op)
	}
}

func TestCanvasConfigReadback(t *testing.T) {
	newMock(t)
	c := mustCanvas(t, chafa.CanvasConfig{
		Width:             12,
		Height:            6,
		CellWidth:         10,
		CellHeight:        20,
		CanvasMode:        chafa.CanvasModeIndexed256,
		DitherMode:        chafa.DitherModeOrdered,
		DitherGrainWidth:  2,
		DitherGrainHeight: 8,
		DitherIntensity:   ptr(float32(2.5)),
		FgColor:           ptr(uint32(0x102030)),
		Preprocessing:     ptr(false),
		FgOnly:            true,
		Optimizations:     ptr(chafa.OptimizationSkipCells),
	})

	got, err := c.Config()
	require.NoError(t, err)
	assert.Equal(t, 12, got.Width)
	assert.Equal(t, 6, got.Height)
	assert.Equal(t, 10, got.CellWidth)
	assert.Equal(t, 20, got.CellHeight)
	assert.Equal(t, chafa.CanvasModeIndexed256, got.CanvasMode)
	assert.Equal(t, chafa.DitherModeOrdered, got.DitherMode)
	assert.Equal(t, 2, got.DitherGrainWidth)
	assert.Equal(t, 8, got.DitherGrainHeight)
	assert.Equal(t, float32(2.5), *got.DitherIntensity)
	assert.Equal(t, uint32(0x102030), *got.FgColor)
	assert.False(t, *got.Preprocessing)
	assert.True(t, got.FgOnly)
	assert.Equal(t, chafa.OptimizationSkipCells, *got.Optimizations)
	assert.Equal(t, float32(0.5), *got.AlphaThreshold, "unset fields report the native default")
	assert.Nil(t, got.Symbols)
	require.NoError(t, got.Validate())

	w, h := c.Geometry()
	assert.Equal(t, 12, w)
	assert.Equal(t, 6, h)
}

func TestDrawPixelsBufferTooSmall(t *testing.T) {
	lib := newMock(t)
	c := mustCanvas(t, chafa.CanvasConfig{Width: 10, Height: 5})

	px := solidRGBA(10, 5, 0, 0, 0)
	px.Data = px.Data[:199]
	err := c.DrawPixels(px)
	require.ErrorIs(t, err, chafa.ErrBufferTooSmall)
	assert.Zero(t, lib.CallCount("CanvasDrawAllPixels"))
}

func TestDrawPixelsPassesAddressedBytes(t *testing.T) {
	lib := newMock(t)
	c := mustCanvas(t, chafa.CanvasConfig{Width: 2, Height: 2})

	// Two rows of two RGBA pixels, padded to 12 bytes, plus trailing slack.
	data := make([]byte, 30)
	for i := range data {
		data[i] = byte(i)
	}
	px := chafa.Pixels{Data: data, Type: chafa.PixelRGBA8Unassociated, Width: 2, Height: 2, RowStride: 12}
	require.NoError(t, c.DrawPixels(px))

	call, ok := lib.LastCall("CanvasDrawAllPixels")
	require.True(t, ok)
	assert.Equal(t, []any{
		uint32(chafa.PixelRGBA8Unassociated),
		data[:20],
		int32(2), int32(2), int32(12),
	}, call.Args)
}

func TestCanvasUseAfterClose(t *testing.T) {
	lib := newMock(t)
	c, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 3, Height: 3})
	require.NoError(t, err)
	require.NoError(t, c.Close())
	lib.Reset()

	require.ErrorIs(t, c.DrawPixels(solidRGBA(3, 3, 0, 0, 0)), chafa.ErrClosed)
	_, err = c.Print(nil)
	require.ErrorIs(t, err, chafa.ErrClosed)
	_, err = c.PrintRows(nil)
	require.ErrorIs(t, err, chafa.ErrClosed)
	_, err = c.CharAt(0, 0)
	require.ErrorIs(t, err, chafa.ErrClosed)
	_, err = c.Config()
	require.ErrorIs(t, err, chafa.ErrClosed)
	assert.Empty(t, c.String())
	assert.Zero(t, lib.CallCount(""))
}

func TestCanvasCellAccess(t *testing.T) {
	newMock(t)
	c := mustCanvas(t, chafa.CanvasConfig{Width: 4, Height: 2})

	n, err := c.SetCharAt(3, 1, 'A')
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	r, err := c.CharAt(3, 1)
	require.NoError(t, err)
	assert.Equal(t, 'A', r)

	require.NoError(t, c.SetColorsAt(0, 0, 0x102030, -1))
	fg, bg, err := c.ColorsAt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0x102030, fg)
	assert.Equal(t, -1, bg)

	require.NoError(t, c.SetRawColorsAt(1, 0, 0xFFFFFF, 256))
	fg, bg, err = c.RawColorsAt(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0xFFFFFF, fg)
	assert.Equal(t, 256, bg)

	for _, tc := range []struct {
		name string
		err  error
	}{
		{"x past width", func() error { _, err := c.CharAt(4, 0); return err }()},
		{"negative y", func() error { _, _, err := c.ColorsAt(0, -1); return err }()},
		{"nul symbol", func() error { _, err := c.SetCharAt(0, 0, 0); return err }()},
		{"surrogate symbol", func() error { _, err := c.SetCharAt(0, 0, 0xD800); return err }()},
		{"color too large", c.SetColorsAt(0, 0, chafa.MaxColor+1, 0)},
		{"color below -1", c.SetColorsAt(0, 0, 0, -2)},
	} {
		assert.ErrorIs(t, tc.err, chafa.ErrInvalidArgument, tc.name)
	}
}

func TestSetRawColorsIndexedRange(t *testing.T) {
	lib := newMock(t)
	c := mustCanvas(t, chafa.CanvasConfig{Width: 2, Height: 2, CanvasMode: chafa.CanvasModeIndexed256})
	lib.Reset()

	require.NoError(t, c.SetRawColorsAt(0, 0, 255, -1))
	require.ErrorIs(t, c.SetRawColorsAt(0, 0, 256, 0), chafa.ErrInvalidArgument)
	assert.Equal(t, 1, lib.CallCount("CanvasSetRawColorsAt"))
}

func TestCanvasPrintRowsAndWriters(t *testing.T) {
	newMock(t)
	c := mustCanvas(t, chafa.CanvasConfig{Width: 10, Height: 5})
	require.NoError(t, c.DrawPixels(solidRGBA(20, 10, 0xff, 0, 0)))

	rows, err := c.PrintRows(nil)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Equal(t, 10, utf8.RuneCountInString(row))
		assert.NotContains(t, row, "\n")
	}

	out, err := c.Print(nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(rows, "\n"), out)
	assert.Equal(t, out, c.String())

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(out)), n)
	assert.Equal(t, out, buf.String())

	fg, _, err := c.ColorsAt(9, 4)
	require.NoError(t, err)
	assert.Equal(t, 0xff0000, fg)
}

func TestCanvasPrintFailureIsOperationError(t *testing.T) {
	lib := newMock(t)
	c := mustCanvas(t, chafa.CanvasConfig{Width: 2, Height: 2})
	lib.Fail("CanvasPrint")

	_, err := c.Print(nil)
	require.ErrorIs(t, err, chafa.ErrOperationFailed)
	var opErr *chafa.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "chafa_canvas_print", opErr.Op)
	assert.Equal(t, int32(-1), opErr.Code)
}

func TestCanvasPrintWithTermInfo(t *testing.T) {
	lib := newMock(t)
	c := mustCanvas(t, chafa.CanvasConfig{Width: 2, Height: 2})
	ti, err := chafa.NewTermInfo()
	require.NoError(t, err)

	_, err = c.Print(ti)
	require.NoError(t, err)
	call, ok := lib.LastCall("CanvasPrint")
	require.True(t, ok)
	assert.Equal(t, []any{true}, call.Args)

	require.NoError(t, ti.Close())
	lib.Reset()
	_, err = c.Print(ti)
	require.ErrorIs(t, err, chafa.ErrInvalidArgument)
	require.ErrorIs(t, err, chafa.ErrClosed)
	assert.Zero(t, lib.CallCount("CanvasPrint"))
}

func TestCanvasWithSymbolMaps(t *testing.T) {
	lib := newMock(t)
	sm, err := chafa.NewSymbolMap()
	require.NoError(t, err)
	require.NoError(t, sm.AddByTags(chafa.SymbolTagBraille))

	c, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 4, Height: 4, Symbols: sm, FillSymbols: sm})
	require.NoError(t, err)
	assert.Equal(t, 1, lib.CallCount("CanvasConfigSetSymbolMap"))
	assert.Equal(t, 1, lib.CallCount("CanvasConfigSetFillSymbolMap"))

	// The canvas keeps its own copy.
	require.NoError(t, sm.Close())
	require.NoError(t, c.DrawPixels(solidRGBA(4, 4, 1, 2, 3)))
	require.NoError(t, c.Close())

	lib.Reset()
	_, err = chafa.NewCanvas(chafa.CanvasConfig{Width: 4, Height: 4, Symbols: sm})
	require.ErrorIs(t, err, chafa.ErrInvalidArgument)
	require.ErrorIs(t, err, chafa.ErrClosed)
	assert.Zero(t, lib.CallCount("CanvasConfigNew"))
	assert.Zero(t, lib.Live(""))
}

func TestCanvasSetPlacementKeepsReferences(t *testing.T) {
	lib := newMock(t)
	c, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 8, Height: 4, PixelMode: chafa.PixelModeKitty})
	require.NoError(t, err)

	frame, err := chafa.NewFrame(solidRGBA(16, 16, 9, 9, 9))
	require.NoError(t, err)
	img, err := chafa.NewImage()
	require.NoError(t, err)
	require.NoError(t, img.SetFrame(frame))
	pl, err := chafa.NewPlacement(img, 0)
	require.NoError(t, err)
	require.NoError(t, c.SetPlacement(pl))

	require.NoError(t, pl.Close())
	require.NoError(t, img.Close())
	require.NoError(t, frame.Close())
	assert.Equal(t, 1, lib.Live(mocklib.KindPlacement), "canvas holds the placement")
	assert.Equal(t, 1, lib.Live(mocklib.KindFrame), "image holds the frame")

	require.NoError(t, c.Close())
	assert.Zero(t, lib.Live(""))
	assert.Empty(t, lib.Invalid())

	require.ErrorIs(t, c.SetPlacement(nil), chafa.ErrInvalidArgument)
}

func TestCanvasConcurrentUse(t *testing.T) {
	lib := newMock(t)
	c, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 8, Height: 4})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := c.DrawPixels(solidRGBA(8, 8, byte(i), 0, 0)); err != nil {
				errs <- err
				return
			}
			if _, err := c.Print(nil); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var closers sync.WaitGroup
	for i := 0; i < workers; i++ {
		closers.Add(1)
		go func() {
			defer closers.Done()
			_ = c.Close()
		}()
	}
	closers.Wait()
	assert.Equal(t, 1, lib.CallCount("CanvasUnref"))
	assert.Empty(t, lib.Invalid())
}

func TestFinalizerReleasesLeakedCanvas(t *testing.T) {
	lib := newMock(t)
	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(chafa.SetLoggerForTest(logging.NewZap(zap.New(core))))

	func() {
		_, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 2, Height: 2})
		require.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return lib.Released(mocklib.KindCanvas) == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, lib.CallCount("CanvasUnref"))
	require.Eventually(t, func() bool { return logs.Len() > 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "canvas", logs.All()[0].ContextMap()["kind"])
}
