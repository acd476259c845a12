package mask

import (
	"testing"

	"github.com/example/layerpaint/internal/geom"
)

func TestStrokeSelectsUnderBrush(t *testing.T) {
	p := New(10, 10, 4)
	p.Down(geom.Pt(0, 5))
	p.Move(geom.Pt(9, 5))
	m, ok := p.Up(geom.Pt(9, 5))
	if !ok {
		t.Fatal("up returned no mask")
	}
	if m.At(5, 5) != 255 {
		t.Fatalf("centre value %d", m.At(5, 5))
	}
	if m.At(5, 0) != 0 {
		t.Fatal("stroke selected pixels away from the brush")
	}
}

func TestReturnedMaskIsACopy(t *testing.T) {
	p := New(6, 6, 2)
	p.Down(geom.Pt(3, 3))
	m, _ := p.Up(geom.Pt(3, 3))
	if !m.Selected() {
		t.Fatal("tap selected nothing")
	}
	p.Reset()
	if !m.Selected() {
		t.Fatal("reset cleared a handed-out mask")
	}
	if p.Mask().Selected() {
		t.Fatal("reset left selection behind")
	}
}

func TestUpWithoutDown(t *testing.T) {
	p := New(4, 4, 2)
	if p.Move(geom.Pt(1, 1)) {
		t.Fatal("move without down")
	}
	if _, ok := p.Up(geom.Pt(1, 1)); ok {
		t.Fatal("up without down")
	}
	if p.Mask().Selected() {
		t.Fatal("mask changed without a stroke")
	}
}

func TestResize(t *testing.T) {
	p := New(4, 4, 2)
	p.Down(geom.Pt(1, 1))
	p.Resize(8, 3)
	if p.Drawing() {
		t.Fatal("resize kept the stroke")
	}
	if sz := p.Mask().Size(); sz.X != 8 || sz.Y != 3 {
		t.Fatalf("size %v", sz)
	}
}
