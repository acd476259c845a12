package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/paint"
	"github.com/example/layerpaint/internal/raster"
	"github.com/example/layerpaint/internal/theme"
)

func TestFitLetterboxes(t *testing.T) {
	got := Fit(image.Pt(200, 100), image.Pt(232, 232))
	want := image.Rect(16, 66, 216, 166)
	if got != want {
		t.Fatalf("Fit = %v, want %v", got, want)
	}
	got = Fit(image.Pt(1000, 500), image.Pt(532, 532))
	if got.Dx() != 500 || got.Dy() != 250 {
		t.Fatalf("downscaled fit %v", got)
	}
	if !Fit(image.Pt(0, 10), image.Pt(100, 100)).Empty() {
		t.Fatal("empty source should give empty rect")
	}
}

func TestToDisplayInvertsScale(t *testing.T) {
	rect := image.Rect(10, 20, 60, 70)
	s := geom.ScaleFor(image.Pt(100, 100), rect.Size())
	got := ToDisplay(geom.Pt(40, 60), s, rect)
	if got != image.Pt(30, 50) {
		t.Fatalf("ToDisplay = %v", got)
	}
	if p := Local(30, 50, rect); p != geom.Pt(20, 30) {
		t.Fatalf("Local = %v", p)
	}
}

func TestCheckerboardAlternates(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 16, 8))
	light := color.RGBA{255, 255, 255, 255}
	dark := color.RGBA{0, 0, 0, 255}
	Checkerboard(dst, dst.Bounds(), 8, light, dark)
	if dst.RGBAAt(0, 0) != light || dst.RGBAAt(8, 0) != dark || dst.RGBAAt(7, 7) != light {
		t.Fatalf("unexpected pattern %v %v %v", dst.RGBAAt(0, 0), dst.RGBAAt(8, 0), dst.RGBAAt(7, 7))
	}
}

func TestCanvasDrawsImageAndShadow(t *testing.T) {
	th := theme.Default()
	img := raster.NewFilled(10, 10, color.RGBA{R: 255, A: 255}).RGBA()
	dst := image.NewRGBA(image.Rect(0, 0, 60, 60))
	rect := Fit(img.Bounds().Size(), dst.Bounds().Size())
	Canvas(dst, img, rect, th)
	if got := dst.RGBAAt(rect.Min.X+1, rect.Min.Y+1); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("canvas pixel %v", got)
	}
	if got := dst.RGBAAt(0, 0); got != th.Background {
		t.Fatalf("background %v", got)
	}
	under := dst.RGBAAt(rect.Max.X+1, rect.Max.Y+1)
	if under == th.Background {
		t.Fatal("expected shadow below-right of the canvas")
	}
}

func TestBlurSpreads(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 5, 1))
	g.Pix[2] = 255
	out := blurGray(g, 1)
	if out.Pix[1] == 0 || out.Pix[3] == 0 || out.Pix[0] != 0 {
		t.Fatalf("unexpected blur %v", out.Pix)
	}
}

func TestMaskTintOnlyWhereSelected(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 2))
	m := raster.NewMask(2, 1)
	m.Set(0, 0, 255)
	MaskTint(dst, dst.Bounds(), m, color.RGBA{R: 255, A: 255})
	if dst.RGBAAt(0, 0).R != 255 || dst.RGBAAt(1, 1).R != 255 {
		t.Fatal("selected area not tinted")
	}
	if dst.RGBAAt(3, 0).A != 0 {
		t.Fatal("unselected area tinted")
	}
}

func TestCropSelectionShadesOutside(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	CropSelection(dst, dst.Bounds(), geom.Box{X: 5, Y: 5, Width: 10, Height: 10}, color.RGBA{A: 255}, color.RGBA{A: 128})
	if dst.RGBAAt(1, 1).A == 0 {
		t.Fatal("outside not shaded")
	}
	if dst.RGBAAt(10, 10).A != 0 {
		t.Fatal("inside shaded")
	}
	if dst.RGBAAt(5, 5).A != 255 {
		t.Fatal("missing outline")
	}
}

func TestShapeOutlineDraws(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	pv := paint.Preview{Tool: paint.ToolLine, Anchor: geom.Pt(2, 20), Current: geom.Pt(38, 20)}
	ShapeOutline(dst, dst.Bounds(), pv, geom.Identity, color.RGBA{B: 255, A: 255})
	if dst.RGBAAt(3, 20).A == 0 && dst.RGBAAt(3, 19).A == 0 {
		t.Fatal("outline not drawn")
	}
}

func TestBannerIgnoresEmpty(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	Banner(dst, "", color.RGBA{A: 255})
	for _, v := range dst.Pix {
		if v != 0 {
			t.Fatal("empty banner drew")
		}
	}
	Banner(dst, "hi", color.RGBA{A: 255})
}
