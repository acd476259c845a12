// Package raster holds the pixel containers shared by the editing engine.
package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// Buffer is a zero-origin grid of premultiplied RGBA pixels.
type Buffer struct {
	img *image.RGBA
}

// New allocates a transparent w x h buffer. Negative sizes are treated as 0.
func New(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// NewFilled allocates a w x h buffer painted with c.
func NewFilled(w, h int, c color.Color) *Buffer {
	b := New(w, h)
	b.Fill(c)
	return b
}

// FromImage copies img into a new buffer rebased to the origin.
func FromImage(img image.Image) *Buffer {
	if img == nil {
		return New(0, 0)
	}
	r := img.Bounds()
	b := New(r.Dx(), r.Dy())
	draw.Draw(b.img, b.img.Bounds(), img, r.Min, draw.Src)
	return b
}

// Bounds returns the pixel rectangle, always anchored at (0,0).
func (b *Buffer) Bounds() image.Rectangle { return b.img.Bounds() }

// Size returns width and height as a point.
func (b *Buffer) Size() image.Point { return b.img.Bounds().Size() }

// Width is the number of columns.
func (b *Buffer) Width() int { return b.img.Bounds().Dx() }

// Height is the number of rows.
func (b *Buffer) Height() int { return b.img.Bounds().Dy() }

// SameSize reports whether o has the same dimensions as b.
func (b *Buffer) SameSize(o *Buffer) bool {
	return o != nil && b.Size() == o.Size()
}

// In reports whether (x, y) addresses a pixel of b.
func (b *Buffer) In(x, y int) bool {
	return image.Pt(x, y).In(b.img.Bounds())
}

// At returns the pixel at (x, y), or transparent black outside the grid.
func (b *Buffer) At(x, y int) color.RGBA {
	return b.img.RGBAAt(x, y)
}

// Set writes c at (x, y). Writes outside the grid are dropped.
func (b *Buffer) Set(x, y int, c color.RGBA) {
	if !b.In(x, y) {
		return
	}
	b.img.SetRGBA(x, y, c)
}

// Fill paints every pixel with c.
func (b *Buffer) Fill(c color.Color) {
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Clear makes every pixel transparent.
func (b *Buffer) Clear() {
	for i := range b.img.Pix {
		b.img.Pix[i] = 0
	}
}

// Empty reports whether every pixel is fully transparent.
func (b *Buffer) Empty() bool {
	for i := 3; i < len(b.img.Pix); i += 4 {
		if b.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of b.
func (b *Buffer) Clone() *Buffer {
	out := New(b.Width(), b.Height())
	copy(out.img.Pix, b.img.Pix)
	return out
}

// CopyFrom overwrites b with the pixels of src. Both must be the same size.
func (b *Buffer) CopyFrom(src *Buffer) bool {
	if !b.SameSize(src) {
		return false
	}
	copy(b.img.Pix, src.img.Pix)
	return true
}

// Equal reports whether o holds exactly the same pixels.
func (b *Buffer) Equal(o *Buffer) bool {
	if !b.SameSize(o) {
		return false
	}
	for i := range b.img.Pix {
		if b.img.Pix[i] != o.img.Pix[i] {
			return false
		}
	}
	return true
}

// RGBA exposes the backing image for rasterisers that draw in place.
// Only the owner of b may call it.
func (b *Buffer) RGBA() *image.RGBA { return b.img }
