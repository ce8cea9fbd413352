package chafa

import (
	"math"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

// BuiltinFeatures returns the CPU features the native library was compiled
// with.
func BuiltinFeatures() (Features, error) {
	var f Features
	err := global(func(n backend.Native) error {
		f = Features(n.GetBuiltinFeatures())
		return nil
	})
	return f, err
}

// SupportedFeatures returns the built-in features the running CPU supports.
func SupportedFeatures() (Features, error) {
	var f Features
	err := global(func(n backend.Native) error {
		f = Features(n.GetSupportedFeatures())
		return nil
	})
	return f, err
}

// DescribeFeatures returns the native library's description of f.
func DescribeFeatures(f Features) (string, error) {
	var desc string
	err := global(func(n backend.Native) error {
		s, ok := n.DescribeFeatures(uint32(f))
		if !ok {
			return opError("chafa_describe_features", nil)
		}
		desc = s
		return nil
	})
	return desc, err
}

// Threads returns the configured worker thread count, -1 meaning automatic.
func Threads() (int, error) {
	var t int
	err := global(func(n backend.Native) error {
		t = int(n.GetNThreads())
		return nil
	})
	return t, err
}

// SetThreads sets the worker thread count: -1 for automatic or 1 to
// MaxThreads.
func SetThreads(threads int) error {
	if err := validateThreads(threads); err != nil {
		return err
	}
	return global(func(n backend.Native) error {
		n.SetNThreads(int32(threads))
		return nil
	})
}

// ActualThreads returns the number of worker threads in use.
func ActualThreads() (int, error) {
	var t int
	err := global(func(n backend.Native) error {
		t = int(n.GetNActualThreads())
		return nil
	})
	return t, err
}

// DefaultFontRatio is the cell width to height ratio of a typical
// terminal font.
const DefaultFontRatio = 0.5

// GeometryRequest is the input to CalcCanvasGeometry.
type GeometryRequest struct {
	// SrcWidth and SrcHeight are the image size in pixels.
	SrcWidth, SrcHeight int
	// DestWidth and DestHeight bound the canvas in cells. -1 leaves a side
	// unconstrained.
	DestWidth, DestHeight int
	// FontRatio is cell width divided by cell height. Zero selects
	// DefaultFontRatio.
	FontRatio float32
	// Zoom allows the result to exceed the source size.
	Zoom bool
	// Stretch ignores the aspect ratio and fills the destination box.
	Stretch bool
}

func (r GeometryRequest) validate() error {
	if r.SrcWidth < 1 || r.SrcWidth > MaxImageDimension || r.SrcHeight < 1 || r.SrcHeight > MaxImageDimension {
		return invalidf("source size %dx%d outside [1,%d]", r.SrcWidth, r.SrcHeight, MaxImageDimension)
	}
	for _, d := range []int{r.DestWidth, r.DestHeight} {
		if d != -1 && (d < 1 || d > MaxCanvasDimension) {
			return invalidf("destination size %dx%d: each side is -1 or in [1,%d]", r.DestWidth, r.DestHeight, MaxCanvasDimension)
		}
	}
	f := float64(r.FontRatio)
	if math.IsNaN(f) || math.IsInf(f, 0) || r.FontRatio < 0 {
		return invalidf("font ratio %v must be finite and positive", r.FontRatio)
	}
	return nil
}

// CalcCanvasGeometry computes the canvas size in cells that best shows an
// image of the requested size within the destination box.
func CalcCanvasGeometry(r GeometryRequest) (width, height int, err error) {
	if err := r.validate(); err != nil {
		return 0, 0, err
	}
	ratio := r.FontRatio
	if ratio == 0 {
		ratio = DefaultFontRatio
	}
	w, h := int32(r.DestWidth), int32(r.DestHeight)
	err = global(func(n backend.Native) error {
		n.CalcCanvasGeometry(int32(r.SrcWidth), int32(r.SrcHeight), &w, &h, ratio, r.Zoom, r.Stretch)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	if w < 1 || h < 1 {
		return 0, 0, opError("chafa_calc_canvas_geometry", nil)
	}
	return int(w), int(h), nil
}
