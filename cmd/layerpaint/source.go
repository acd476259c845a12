package main

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/example/layerpaint/internal/clipboard"
	"github.com/example/layerpaint/internal/export"
	"github.com/example/layerpaint/internal/raster"
	"github.com/example/layerpaint/internal/source"
)

// loadSource reads the base image named by arg. The processing service is
// only contacted for remote: paths and new:WxH blank canvases.
func (r *root) loadSource(ctx context.Context, arg string) (*raster.Buffer, error) {
	if size, ok := strings.CutPrefix(arg, "new:"); ok {
		return r.blankCanvas(ctx, size)
	}
	spec, err := source.Parse(arg)
	if err != nil {
		return nil, err
	}
	var opener source.Opener
	if spec.Kind == source.KindRemote {
		c, err := r.client(ctx)
		if err != nil {
			return nil, err
		}
		opener = c
	}
	b, err := source.Load(ctx, spec, opener)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", arg, err)
	}
	return b, nil
}

// blankCanvas asks the processing service for a white canvas of size WxH.
func (r *root) blankCanvas(ctx context.Context, size string) (*raster.Buffer, error) {
	rect, err := source.ParseRegion(size)
	if err != nil {
		return nil, err
	}
	c, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	data, err := c.EmptyLayer(ctx, rect.Dx(), rect.Dy())
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}
	return raster.DecodeBytes(data)
}

// writableSource reports whether arg names a local file that can double
// as the output path.
func writableSource(arg string) bool {
	if arg == "-" || strings.HasPrefix(arg, "new:") {
		return false
	}
	spec, err := source.Parse(arg)
	return err == nil && spec.Kind == source.KindFile
}

// outputPath returns name, or the default file name inside the configured
// save directory.
func (r *root) outputPath(name string) string {
	if name != "" {
		return name
	}
	if r == nil || r.config == nil {
		return export.DefaultName
	}
	return filepath.Join(r.config.SaveDir, export.DefaultName)
}

// writeResult saves b to path and, when asked, copies it to the clipboard.
func (r *root) writeResult(b *raster.Buffer, path string, toClipboard bool) error {
	if path != "" {
		if err := export.File(path, b); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		fmt.Println(path)
		if r != nil {
			r.notifier.Save(path)
		}
	}
	if toClipboard {
		if err := clipboard.WriteBuffer(b); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		if r != nil {
			r.notifier.Export("clipboard")
		}
	}
	return nil
}

// imageOf avoids handing a typed nil to image.Image consumers.
func imageOf(b *raster.Buffer) image.Image {
	if b == nil {
		return nil
	}
	return b.RGBA()
}
