package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

// Mask is a single-channel selection raster. 0 is unselected, 255 fully
// selected; anti-aliased strokes leave values in between.
type Mask struct {
	img *image.Gray
}

// NewMask allocates an all-zero w x h mask.
func NewMask(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Mask{img: image.NewGray(image.Rect(0, 0, w, h))}
}

// Size returns the mask dimensions.
func (m *Mask) Size() image.Point { return m.img.Bounds().Size() }

// Bounds returns the zero-origin pixel rectangle.
func (m *Mask) Bounds() image.Rectangle { return m.img.Bounds() }

// At returns the selection value at (x, y), 0 outside the grid.
func (m *Mask) At(x, y int) uint8 {
	if !image.Pt(x, y).In(m.img.Bounds()) {
		return 0
	}
	return m.img.GrayAt(x, y).Y
}

// Set writes v at (x, y); out-of-range writes are dropped.
func (m *Mask) Set(x, y int, v uint8) {
	if !image.Pt(x, y).In(m.img.Bounds()) {
		return
	}
	m.img.SetGray(x, y, color.Gray{Y: v})
}

// Reset clears every value to 0.
func (m *Mask) Reset() {
	for i := range m.img.Pix {
		m.img.Pix[i] = 0
	}
}

// Selected reports whether any value is non-zero.
func (m *Mask) Selected() bool {
	for _, v := range m.img.Pix {
		if v != 0 {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.Size().X, m.Size().Y)
	copy(out.img.Pix, m.img.Pix)
	return out
}

// Equal reports whether o holds the same values.
func (m *Mask) Equal(o *Mask) bool {
	if o == nil || m.Size() != o.Size() {
		return false
	}
	return bytes.Equal(m.img.Pix, o.img.Pix)
}

// Cover adds the alpha coverage of src on top of the mask using normal
// over blending: v = v + a*(255-v)/255. src must match the mask size.
func (m *Mask) Cover(src *Buffer) bool {
	if src == nil || src.Size() != m.Size() {
		return false
	}
	w := m.Size().X
	for y := 0; y < m.Size().Y; y++ {
		for x := 0; x < w; x++ {
			a := src.img.Pix[src.img.PixOffset(x, y)+3]
			if a == 0 {
				continue
			}
			i := m.img.PixOffset(x, y)
			v := float64(m.img.Pix[i])
			m.img.Pix[i] = uint8(math.Round(v + float64(a)*(255-v)/255))
		}
	}
	return true
}

// PNG encodes the mask as an 8-bit grayscale PNG.
func (m *Mask) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, m.img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Gray exposes the backing image for display code. Callers must not mutate it.
func (m *Mask) Gray() *image.Gray { return m.img }
