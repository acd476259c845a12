// Package export writes the composited image to disk as PNG, JPEG or PDF.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/layerpaint/internal/raster"
)

// Kind is an output container.
type Kind string

const (
	KindPNG  Kind = "png"
	KindJPEG Kind = "jpeg"
	KindPDF  Kind = "pdf"
)

// DefaultName is the file name used when saving without an explicit path.
const DefaultName = "edited_image.png"

// KindFor picks the output kind from a format name or file extension.
func KindFor(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimPrefix(name, "."))
	if ext := filepath.Ext(n); ext != "" {
		n = strings.TrimPrefix(ext, ".")
	}
	switch n {
	case "png", "":
		return KindPNG, nil
	case "jpg", "jpeg":
		return KindJPEG, nil
	case "pdf":
		return KindPDF, nil
	}
	return "", fmt.Errorf("%w: %q", raster.ErrFormat, name)
}

// Write encodes b to w.
func Write(w io.Writer, b *raster.Buffer, k Kind) error {
	switch k {
	case KindPNG:
		return b.Encode(w, raster.FormatPNG)
	case KindJPEG:
		return b.Encode(w, raster.FormatJPEG)
	case KindPDF:
		return writePDF(w, b)
	}
	return fmt.Errorf("%w: %q", raster.ErrFormat, string(k))
}

// File writes b to path, choosing the encoding from its extension.
func File(path string, b *raster.Buffer) error {
	k, err := KindFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, b, k); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// writePDF places the image on a single page sized to it, one point per
// pixel.
func writePDF(w io.Writer, b *raster.Buffer) error {
	data, err := b.PNG()
	if err != nil {
		return err
	}
	wd, ht := float64(b.Width()), float64(b.Height())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("composite", opts, bytes.NewReader(data))
	pdf.ImageOptions("composite", 0, 0, wd, ht, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return pdf.Output(w)
}
