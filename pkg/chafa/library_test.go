package chafa_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgfx/chafa-go/pkg/chafa"
	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
	"github.com/termgfx/chafa-go/pkg/chafa/internal/mocklib"
)

// countingLoader returns a loader yielding lib (or err) and a counter of
// how many times it ran.
func countingLoader(lib *mocklib.Lib, err error) (func() (backend.Native, error), *int) {
	var mu sync.Mutex
	calls := new(int)
	return func() (backend.Native, error) {
		mu.Lock()
		defer mu.Unlock()
		*calls++
		if err != nil {
			return nil, err
		}
		return lib, nil
	}, calls
}

func TestInitAppliesConfigOnce(t *testing.T) {
	lib := mocklib.New()
	load, loads := countingLoader(lib, nil)
	t.Cleanup(chafa.ResetForTest(load))

	require.NoError(t, chafa.Init(chafa.Config{Threads: ptr(4)}))
	call, ok := lib.LastCall("SetNThreads")
	require.True(t, ok)
	assert.Equal(t, []any{int32(4)}, call.Args)

	require.ErrorIs(t, chafa.Init(chafa.Config{}), chafa.ErrAlreadyInitialized)
	assert.Equal(t, 1, *loads)
	assert.Equal(t, 1, lib.CallCount("SetNThreads"))
}

func TestInitRejectsInvalidThreads(t *testing.T) {
	load, loads := countingLoader(mocklib.New(), nil)
	t.Cleanup(chafa.ResetForTest(load))

	for _, n := range []int{0, -2, chafa.MaxThreads + 1} {
		require.ErrorIs(t, chafa.Init(chafa.Config{Threads: ptr(n)}), chafa.ErrInvalidArgument, "threads=%d", n)
	}
	assert.Zero(t, *loads)
	require.NoError(t, chafa.Init(chafa.Config{Threads: ptr(-1)}))
}

func TestLazyInitOnFirstConstructor(t *testing.T) {
	lib := mocklib.New()
	load, loads := countingLoader(lib, nil)
	t.Cleanup(chafa.ResetForTest(load))

	sm, err := chafa.NewSymbolMap()
	require.NoError(t, err)
	require.NoError(t, sm.Close())
	ti, err := chafa.NewTermInfo()
	require.NoError(t, err)
	require.NoError(t, ti.Close())

	assert.Equal(t, 1, *loads)
	assert.Zero(t, lib.CallCount("SetNThreads"), "lazy init keeps the native thread default")
	require.ErrorIs(t, chafa.Init(chafa.Config{}), chafa.ErrAlreadyInitialized)
}

func TestLoadErrorIsSticky(t *testing.T) {
	load, loads := countingLoader(nil, chafa.ErrNotBuilt)
	t.Cleanup(chafa.ResetForTest(load))

	_, err := chafa.NewCanvas(chafa.CanvasConfig{Width: 1, Height: 1})
	require.ErrorIs(t, err, chafa.ErrNotBuilt)
	_, err = chafa.NewImage()
	require.ErrorIs(t, err, chafa.ErrNotBuilt)
	require.ErrorIs(t, chafa.Init(chafa.Config{}), chafa.ErrNotBuilt)
	_, err = chafa.BuiltinFeatures()
	require.ErrorIs(t, err, chafa.ErrNotBuilt)
	assert.Equal(t, 1, *loads)
}

func TestInitReportsABIMismatch(t *testing.T) {
	load, _ := countingLoader(nil, chafa.ErrABIMismatch)
	t.Cleanup(chafa.ResetForTest(load))

	err := chafa.Init(chafa.Config{})
	require.ErrorIs(t, err, chafa.ErrABIMismatch)
	assert.False(t, errors.Is(err, chafa.ErrAlreadyInitialized))
}

func TestConcurrentLazyInit(t *testing.T) {
	lib := mocklib.New()
	load, loads := countingLoader(lib, nil)
	t.Cleanup(chafa.ResetForTest(load))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := chafa.NewImage()
			if assert.NoError(t, err) {
				_ = img.Close()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, *loads)
	assert.Equal(t, 16, lib.Released(mocklib.KindImage))
}

func TestFeatures(t *testing.T) {
	lib := newMock(t)

	builtin, err := chafa.BuiltinFeatures()
	require.NoError(t, err)
	assert.Equal(t, chafa.FeatureMMX|chafa.FeatureSSE41, builtin)
	assert.Equal(t, "mmx|sse4.1", builtin.String())

	supported, err := chafa.SupportedFeatures()
	require.NoError(t, err)
	assert.Equal(t, chafa.FeatureMMX, supported)

	desc, err := chafa.DescribeFeatures(chafa.FeatureMMX | chafa.FeatureAVX2)
	require.NoError(t, err)
	assert.Equal(t, "mmx avx2", desc)

	lib.Fail("DescribeFeatures")
	_, err = chafa.DescribeFeatures(chafa.FeatureMMX)
	require.ErrorIs(t, err, chafa.ErrOperationFailed)
}

func TestThreads(t *testing.T) {
	lib := newMock(t)

	n, err := chafa.Threads()
	require.NoError(t, err)
	assert.Equal(t, -1, n)
	actual, err := chafa.ActualThreads()
	require.NoError(t, err)
	assert.Equal(t, 4, actual)

	require.NoError(t, chafa.SetThreads(8))
	n, err = chafa.Threads()
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	actual, err = chafa.ActualThreads()
	require.NoError(t, err)
	assert.Equal(t, 8, actual)

	lib.Reset()
	require.ErrorIs(t, chafa.SetThreads(0), chafa.ErrInvalidArgument)
	require.ErrorIs(t, chafa.SetThreads(chafa.MaxThreads+1), chafa.ErrInvalidArgument)
	assert.Zero(t, lib.CallCount(""))
}

func TestCalcCanvasGeometry(t *testing.T) {
	lib := newMock(t)

	w, h, err := chafa.CalcCanvasGeometry(chafa.GeometryRequest{
		SrcWidth: 100, SrcHeight: 50, DestWidth: 40, DestHeight: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, w)
	assert.Equal(t, 10, h)

	call, ok := lib.LastCall("CalcCanvasGeometry")
	require.True(t, ok)
	assert.Equal(t, []any{int32(100), int32(50), int32(40), int32(-1), float32(chafa.DefaultFontRatio), false, false}, call.Args)

	w, h, err = chafa.CalcCanvasGeometry(chafa.GeometryRequest{
		SrcWidth: 100, SrcHeight: 50, DestWidth: 30, DestHeight: 20, Stretch: true, Zoom: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, h)
}

func TestCalcCanvasGeometryValidation(t *testing.T) {
	lib := newMock(t)

	for name, req := range map[string]chafa.GeometryRequest{
		"zero source":      {SrcWidth: 0, SrcHeight: 10, DestWidth: 10, DestHeight: 10},
		"huge source":      {SrcWidth: chafa.MaxImageDimension + 1, SrcHeight: 10, DestWidth: 10, DestHeight: 10},
		"zero destination": {SrcWidth: 10, SrcHeight: 10, DestWidth: 0, DestHeight: 10},
		"dest below -1":    {SrcWidth: 10, SrcHeight: 10, DestWidth: -2, DestHeight: 10},
		"negative ratio":   {SrcWidth: 10, SrcHeight: 10, DestWidth: 10, DestHeight: 10, FontRatio: -1},
	} {
		_, _, err := chafa.CalcCanvasGeometry(req)
		assert.ErrorIs(t, err, chafa.ErrInvalidArgument, name)
	}
	assert.Zero(t, lib.CallCount(""))
}
