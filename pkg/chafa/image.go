package chafa

import (
	"math"
	"runtime"

	"github.com/termgfx/chafa-go/pkg/chafa/internal/backend"
)

// Frame is one still image held in native memory.
type Frame struct {
	h handle
}

// NewFrame copies p into a new native frame. p may be reused once NewFrame
// returns.
func NewFrame(p Pixels) (*Frame, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n, err := lib()
	if err != nil {
		return nil, err
	}
	ptr := n.FrameNew(p.Data[:p.RequiredLen()], uint32(p.Type), int32(p.Width), int32(p.Height), int32(p.Stride()))
	if ptr == nil {
		return nil, allocError("chafa_frame_new")
	}
	f := &Frame{}
	f.h.adopt("frame", n, ptr, backend.Native.FrameUnref)
	runtime.SetFinalizer(f, func(f *Frame) { f.h.finalize() })
	return f, nil
}

// Close releases the caller's reference. An image holding the frame keeps
// its own.
func (f *Frame) Close() error {
	if f == nil {
		return nil
	}
	runtime.SetFinalizer(f, nil)
	f.h.close()
	return nil
}

// Image is a container for frames that can be shown through a Placement.
type Image struct {
	h handle
}

func NewImage() (*Image, error) {
	n, err := lib()
	if err != nil {
		return nil, err
	}
	p := n.ImageNew()
	if p == nil {
		return nil, allocError("chafa_image_new")
	}
	img := &Image{}
	img.h.adopt("image", n, p, backend.Native.ImageUnref)
	runtime.SetFinalizer(img, func(img *Image) { img.h.finalize() })
	return img, nil
}

// Close releases the caller's reference. Placements keep their own.
func (img *Image) Close() error {
	if img == nil {
		return nil
	}
	runtime.SetFinalizer(img, nil)
	img.h.close()
	return nil
}

// SetFrame makes f the image's current frame. The image takes its own
// reference to f.
func (img *Image) SetFrame(f *Frame) error {
	if f == nil {
		return invalidf("nil frame")
	}
	return img.h.useWith(&f.h, func(n backend.Native, h, fh backend.Handle) error {
		n.ImageSetFrame(h, fh)
		return nil
	})
}

// Placement positions an image on a canvas.
type Placement struct {
	h handle
}

// NewPlacement creates a placement for img. An id <= 0 lets the library
// assign one.
func NewPlacement(img *Image, id int) (*Placement, error) {
	if img == nil {
		return nil, invalidf("nil image")
	}
	if id > math.MaxInt32 || id < math.MinInt32 {
		return nil, invalidf("placement id %d out of range", id)
	}
	n, err := lib()
	if err != nil {
		return nil, err
	}

	ptrs, unlock, err := borrow(&img.h)
	if err != nil {
		return nil, err
	}
	p := n.PlacementNew(ptrs[0], int32(id))
	unlock()
	if p == nil {
		return nil, allocError("chafa_placement_new")
	}

	pl := &Placement{}
	pl.h.adopt("placement", n, p, backend.Native.PlacementUnref)
	runtime.SetFinalizer(pl, func(pl *Placement) { pl.h.finalize() })
	return pl, nil
}

func (pl *Placement) Close() error {
	if pl == nil {
		return nil
	}
	runtime.SetFinalizer(pl, nil)
	pl.h.close()
	return nil
}

func (pl *Placement) Tuck() (Tuck, error) {
	var t Tuck
	err := pl.h.use(func(n backend.Native, h backend.Handle) error {
		t = Tuck(n.PlacementGetTuck(h))
		return nil
	})
	return t, err
}

func (pl *Placement) SetTuck(t Tuck) error {
	if t >= TuckMax {
		return invalidf("tuck %d out of range", uint32(t))
	}
	return pl.h.use(func(n backend.Native, h backend.Handle) error {
		n.PlacementSetTuck(h, uint32(t))
		return nil
	})
}

func (pl *Placement) HAlign() (Align, error) {
	var a Align
	err := pl.h.use(func(n backend.Native, h backend.Handle) error {
		a = Align(n.PlacementGetHAlign(h))
		return nil
	})
	return a, err
}

func (pl *Placement) SetHAlign(a Align) error {
	if a >= AlignMax {
		return invalidf("alignment %d out of range", uint32(a))
	}
	return pl.h.use(func(n backend.Native, h backend.Handle) error {
		n.PlacementSetHAlign(h, uint32(a))
		return nil
	})
}

func (pl *Placement) VAlign() (Align, error) {
	var a Align
	err := pl.h.use(func(n backend.Native, h backend.Handle) error {
		a = Align(n.PlacementGetVAlign(h))
		return nil
	})
	return a, err
}

func (pl *Placement) SetVAlign(a Align) error {
	if a >= AlignMax {
		return invalidf("alignment %d out of range", uint32(a))
	}
	return pl.h.use(func(n backend.Native, h backend.Handle) error {
		n.PlacementSetVAlign(h, uint32(a))
		return nil
	})
}
