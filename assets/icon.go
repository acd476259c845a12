// Package assets provides the application icon, drawn at the requested size.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
)

// IconSizes lists the sizes IconPNG is normally asked for.
var IconSizes = []int{16, 32, 48, 64, 128, 256}

var (
	iconMu    sync.Mutex
	iconCache = map[int][]byte{}
)

var (
	paletteColor = color.RGBA{0xd9, 0xb3, 0x82, 0xff}
	rimColor     = color.RGBA{0x5c, 0x40, 0x1f, 0xff}
	dotColors    = []color.RGBA{
		{0xe0, 0x3a, 0x3e, 0xff},
		{0x2f, 0x80, 0xed, 0xff},
		{0x27, 0xae, 0x60, 0xff},
		{0xf2, 0xc9, 0x4c, 0xff},
	}
)

// Icon draws the palette icon at size x size pixels.
func Icon(size int) (image.Image, error) {
	if size < 8 {
		return nil, fmt.Errorf("icon size %d too small", size)
	}
	s := float64(size)
	dc := gg.NewContext(size, size)
	dc.DrawEllipse(s/2, s/2, s*0.46, s*0.40)
	dc.SetColor(paletteColor)
	dc.FillPreserve()
	dc.SetColor(rimColor)
	dc.SetLineWidth(max(1, s/32))
	dc.Stroke()

	// thumb hole
	clearDisc(dc.Image().(*image.RGBA), s*0.66, s*0.64, s*0.08)

	for i, c := range dotColors {
		x := s * (0.28 + 0.14*float64(i))
		y := s * (0.36 + 0.06*float64(i%2))
		dc.DrawCircle(x, y, s*0.07)
		dc.SetColor(c)
		dc.Fill()
	}
	return dc.Image(), nil
}

func clearDisc(img *image.RGBA, cx, cy, r float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, color.RGBA{})
			}
		}
	}
}

// IconPNG returns the PNG encoding of the icon at the requested size. The
// result is cached and a fresh copy is returned on every call.
func IconPNG(size int) ([]byte, error) {
	iconMu.Lock()
	defer iconMu.Unlock()
	data, ok := iconCache[size]
	if !ok {
		img, err := Icon(size)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		data = buf.Bytes()
		iconCache[size] = data
	}
	return append([]byte(nil), data...), nil
}
