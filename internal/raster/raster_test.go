package raster

import (
	"bytes"
	"errors"
	"image/color"
	"testing"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestBlendHalfOpacity(t *testing.T) {
	dst := NewFilled(2, 2, red)
	src := NewFilled(2, 2, blue)
	if !dst.Blend(src, 0.5) {
		t.Fatal("blend rejected equal sizes")
	}
	want := color.RGBA{R: 128, G: 0, B: 128, A: 255}
	if got := dst.At(1, 1); got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestBlendFullOpacityOntoTransparentIsIdentity(t *testing.T) {
	src := New(3, 3)
	src.Set(0, 0, red)
	src.Set(1, 2, color.RGBA{R: 10, G: 20, B: 30, A: 40})
	dst := New(3, 3)
	dst.Blend(src, 1)
	if !dst.Equal(src) {
		t.Fatal("expected identical pixels")
	}
}

func TestBlendSkipsTransparentSource(t *testing.T) {
	dst := NewFilled(1, 1, red)
	dst.Blend(New(1, 1), 0.5)
	if dst.At(0, 0) != red {
		t.Fatalf("transparent source changed dst: %+v", dst.At(0, 0))
	}
}

func TestBlendSizeMismatch(t *testing.T) {
	if NewFilled(2, 2, red).Blend(New(3, 3), 1) {
		t.Fatal("expected size mismatch to be rejected")
	}
}

func TestOverAndErase(t *testing.T) {
	base := NewFilled(2, 1, red)
	overlay := New(2, 1)
	overlay.Set(0, 0, blue)
	base.Over(overlay)
	if base.At(0, 0) != blue || base.At(1, 0) != red {
		t.Fatalf("unexpected flatten result %+v %+v", base.At(0, 0), base.At(1, 0))
	}
	cut := New(2, 1)
	cut.Set(1, 0, color.RGBA{R: 1, A: 255})
	base.Erase(cut)
	if base.At(1, 0).A != 0 {
		t.Fatalf("erase left alpha %d", base.At(1, 0).A)
	}
	if base.At(0, 0) != blue {
		t.Fatal("erase touched uncovered pixel")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := NewFilled(2, 2, red)
	b := a.Clone()
	b.Set(0, 0, blue)
	if a.At(0, 0) != red {
		t.Fatal("clone aliases source")
	}
}

func TestSetOutsideIsDropped(t *testing.T) {
	b := New(2, 2)
	b.Set(-1, 0, red)
	b.Set(2, 2, red)
	if !b.Empty() {
		t.Fatal("out of range write landed")
	}
}

func TestEncodeDecodePNG(t *testing.T) {
	b := NewFilled(4, 3, red)
	data, err := b.PNG()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(b) {
		t.Fatal("decoded pixels differ")
	}
}

func TestEncodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFilled(8, 8, red).Encode(&buf, FormatJPEG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Width() != 8 || got.Height() != 8 {
		t.Fatalf("unexpected size %v", got.Size())
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"png", ".JPG", "jpeg", ""} {
		if _, err := ParseFormat(in); err != nil {
			t.Errorf("ParseFormat(%q): %v", in, err)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestMaskCover(t *testing.T) {
	m := NewMask(2, 1)
	stroke := New(2, 1)
	stroke.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	stroke.Set(1, 0, color.RGBA{R: 128, G: 128, B: 128, A: 128})
	m.Cover(stroke)
	if m.At(0, 0) != 255 {
		t.Fatalf("full coverage gave %d", m.At(0, 0))
	}
	if m.At(1, 0) != 128 {
		t.Fatalf("half coverage gave %d", m.At(1, 0))
	}
	m.Cover(stroke)
	if v := m.At(1, 0); v <= 128 || v == 255 {
		t.Fatalf("second pass should accumulate below 255, got %d", v)
	}
	m.Reset()
	if m.Selected() {
		t.Fatal("reset left selection")
	}
}
