package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
)

// Format names an encoded image format understood by the editor and the
// processing service.
type Format string

const (
	FormatPNG  Format = "PNG"
	FormatJPG  Format = "JPG"
	FormatJPEG Format = "JPEG"
)

// ErrFormat reports an image format outside PNG/JPG/JPEG.
var ErrFormat = errors.New("unsupported image format")

// ParseFormat accepts PNG, JPG and JPEG in any case, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch f {
	case FormatPNG, FormatJPG, FormatJPEG:
		return f, nil
	case "":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPG, FormatJPEG:
		return ".jpg"
	}
	return ".png"
}

// MIME returns the media type for f.
func (f Format) MIME() string {
	switch f {
	case FormatJPG, FormatJPEG:
		return "image/jpeg"
	}
	return "image/png"
}

// Encode writes b to w in format f. JPEG output drops transparency.
func (b *Buffer) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatPNG, "":
		return png.Encode(w, b.img)
	case FormatJPG, FormatJPEG:
		return jpeg.Encode(w, b.img, &jpeg.Options{Quality: 92})
	}
	return fmt.Errorf("%w: %q", ErrFormat, string(f))
}

// PNG returns b encoded as PNG bytes.
func (b *Buffer) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.Encode(&buf, FormatPNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a PNG or JPEG image into a new buffer.
func Decode(r io.Reader) (*Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img), nil
}

// DecodeBytes is Decode over an in-memory encoding.
func DecodeBytes(data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode image: empty data")
	}
	return Decode(bytes.NewReader(data))
}
