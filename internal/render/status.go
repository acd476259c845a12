package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	messageOnce sync.Once
	messageFace font.Face
)

// MessageFace is the face used for transient banners. It falls back to
// basicfont if the embedded Go font cannot be parsed.
func MessageFace() font.Face {
	messageOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err == nil {
			messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 20, DPI: 72, Hinting: font.HintingFull})
		}
		if err != nil {
			log.Printf("message font: %v", err)
			messageFace = basicfont.Face7x13
		}
	})
	return messageFace
}

// Banner draws msg centred in dst on a translucent box.
func Banner(dst *image.RGBA, msg string, fg color.RGBA) {
	if msg == "" {
		return
	}
	face := MessageFace()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: face}
	wmsg := d.MeasureString(msg).Ceil()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	b := dst.Bounds()
	px := b.Min.X + (b.Dx()-wmsg)/2
	py := b.Min.Y + (b.Dy()-ascent-descent)/2 + ascent
	box := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	bg := color.RGBA{255 - fg.R, 255 - fg.G, 255 - fg.B, 220}
	draw.Draw(dst, box, image.NewUniform(bg), image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

// StatusLine writes a single line of small text along the bottom edge.
func StatusLine(dst *image.RGBA, text string, fg color.RGBA) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	b := dst.Bounds()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: face}
	d.Dot = fixed.P(b.Min.X+4, b.Max.Y-face.Descent-2)
	d.DrawString(text)
}
