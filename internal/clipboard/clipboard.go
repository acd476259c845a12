// Package clipboard moves composites to and from the system clipboard as
// PNG data.
package clipboard

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/example/layerpaint/internal/raster"
)

// WriteBuffer publishes b to the clipboard as a PNG.
func WriteBuffer(b *raster.Buffer) error {
	data, err := b.PNG()
	if err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return writePNG(data)
}

// ReadBuffer decodes the clipboard's PNG contents.
func ReadBuffer() (*raster.Buffer, error) {
	data, err := readPNG()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return raster.FromImage(img), nil
}
