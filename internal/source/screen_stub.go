//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package source

import (
	"errors"
	"image"

	"github.com/example/layerpaint/internal/raster"
)

// Screen is only implemented for X11 platforms.
func Screen(image.Rectangle) (*raster.Buffer, error) {
	return nil, errors.New("screen capture requires X11")
}
