package raster

import (
	"image"
	"image/draw"
	"math"
)

// Over alpha-composites src onto b (Porter-Duff source-over). It is used to
// flatten a scratch overlay onto its layer. Sizes must match.
func (b *Buffer) Over(src *Buffer) bool {
	if !b.SameSize(src) {
		return false
	}
	draw.Draw(b.img, b.img.Bounds(), src.img, image.Point{}, draw.Over)
	return true
}

// Blend composites src onto b at the given opacity in [0,1]:
//
//	dst = src*alpha + dst*(1-alpha)
//
// For translucent source pixels alpha is scaled by the pixel's own alpha so
// fully transparent source pixels leave dst untouched.
func (b *Buffer) Blend(src *Buffer, alpha float64) bool {
	if !b.SameSize(src) {
		return false
	}
	if alpha <= 0 {
		return true
	}
	if alpha > 1 {
		alpha = 1
	}
	d := b.img.Pix
	s := src.img.Pix
	for i := 0; i+3 < len(s); i += 4 {
		sa := s[i+3]
		if sa == 0 {
			continue
		}
		keep := 1 - alpha*float64(sa)/255
		d[i+0] = channel(float64(s[i+0])*alpha + float64(d[i+0])*keep)
		d[i+1] = channel(float64(s[i+1])*alpha + float64(d[i+1])*keep)
		d[i+2] = channel(float64(s[i+2])*alpha + float64(d[i+2])*keep)
		d[i+3] = channel(float64(sa)*alpha + float64(d[i+3])*keep)
	}
	return true
}

// Erase removes destination coverage where src is opaque (destination-out).
// Colour in src is ignored; only its alpha matters.
func (b *Buffer) Erase(src *Buffer) bool {
	if !b.SameSize(src) {
		return false
	}
	d := b.img.Pix
	s := src.img.Pix
	for i := 0; i+3 < len(s); i += 4 {
		sa := s[i+3]
		if sa == 0 {
			continue
		}
		keep := 1 - float64(sa)/255
		d[i+0] = channel(float64(d[i+0]) * keep)
		d[i+1] = channel(float64(d[i+1]) * keep)
		d[i+2] = channel(float64(d[i+2]) * keep)
		d[i+3] = channel(float64(d[i+3]) * keep)
	}
	return true
}

func channel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
