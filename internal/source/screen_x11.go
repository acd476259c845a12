//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/example/layerpaint/internal/raster"
)

// Screen grabs the X11 root window, or region of it when non-empty.
func Screen(region image.Rectangle) (*raster.Buffer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}
	full := image.Rect(0, 0, int(screen.WidthInPixels), int(screen.HeightInPixels))
	r := full
	if !region.Empty() {
		r = region.Intersect(full)
		if r.Empty() {
			return nil, fmt.Errorf("region %v is outside the %dx%d screen", region, full.Dx(), full.Dy())
		}
	}
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root),
		int16(r.Min.X), int16(r.Min.Y), uint16(r.Dx()), uint16(r.Dy()), 0xffffffff).Reply()
	if err != nil {
		return nil, fmt.Errorf("screen pixels: %w", err)
	}
	return zpixmapToBuffer(setup, reply.Depth, reply.Data, r.Dx(), r.Dy())
}

// zpixmapToBuffer converts BGRx/BGRA scanlines to an opaque buffer. X
// root windows carry no meaningful alpha, so the fourth byte is ignored.
func zpixmapToBuffer(setup *xproto.SetupInfo, depth byte, data []byte, width, height int) (*raster.Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("screen has empty geometry")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("screen pixels: empty image data")
	}
	bpp := 0
	for _, f := range setup.PixmapFormats {
		if f.Depth == depth {
			bpp = int(f.BitsPerPixel) / 8
			break
		}
	}
	if bpp < 3 {
		return nil, fmt.Errorf("unsupported screen depth %d", depth)
	}
	stride := len(data) / height
	if stride*height != len(data) || stride < width*bpp {
		return nil, fmt.Errorf("screen pixels: unexpected stride")
	}
	out := raster.New(width, height)
	img := out.RGBA()
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			src := row[x*bpp:]
			i := img.PixOffset(x, y)
			img.Pix[i+0] = src[2]
			img.Pix[i+1] = src[1]
			img.Pix[i+2] = src[0]
			img.Pix[i+3] = 0xff
		}
	}
	return out, nil
}
