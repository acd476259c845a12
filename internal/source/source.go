// Package source resolves where a base image comes from: a local file,
// the clipboard, the X11 screen or a path on the processing service.
package source

import (
	"context"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/example/layerpaint/internal/clipboard"
	"github.com/example/layerpaint/internal/raster"
)

// Kind identifies a source.
type Kind int

const (
	KindFile Kind = iota
	KindClipboard
	KindScreen
	KindRemote
)

// Spec is a parsed source argument.
//
//	photo.png           local file
//	-                   standard input
//	clipboard           clipboard image
//	screen[:WxH+X+Y]    X11 root window, optionally a region
//	remote:/srv/a.png   file opened by the processing service
type Spec struct {
	Kind   Kind
	Path   string
	Region image.Rectangle
}

// Opener fetches an image by path from the processing service.
type Opener interface {
	Open(ctx context.Context, path string) ([]byte, error)
}

// Parse interprets a source argument.
func Parse(arg string) (Spec, error) {
	switch {
	case arg == "":
		return Spec{}, fmt.Errorf("empty image source")
	case arg == "clipboard":
		return Spec{Kind: KindClipboard}, nil
	case arg == "screen":
		return Spec{Kind: KindScreen}, nil
	case strings.HasPrefix(arg, "screen:"):
		r, err := ParseRegion(strings.TrimPrefix(arg, "screen:"))
		if err != nil {
			return Spec{}, err
		}
		return Spec{Kind: KindScreen, Region: r}, nil
	case strings.HasPrefix(arg, "remote:"):
		p := strings.TrimPrefix(arg, "remote:")
		if p == "" {
			return Spec{}, fmt.Errorf("remote source needs a path")
		}
		return Spec{Kind: KindRemote, Path: p}, nil
	}
	return Spec{Kind: KindFile, Path: arg}, nil
}

// ParseRegion reads a WxH+X+Y geometry string.
func ParseRegion(s string) (image.Rectangle, error) {
	size, off, _ := strings.Cut(s, "+")
	ws, hs, ok := strings.Cut(size, "x")
	if !ok {
		return image.Rectangle{}, fmt.Errorf("region %q: want WxH+X+Y", s)
	}
	w, err1 := strconv.Atoi(ws)
	h, err2 := strconv.Atoi(hs)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("region %q: bad size", s)
	}
	x, y := 0, 0
	if off != "" {
		xs, ys, ok := strings.Cut(off, "+")
		if !ok {
			return image.Rectangle{}, fmt.Errorf("region %q: want WxH+X+Y", s)
		}
		x, err1 = strconv.Atoi(xs)
		y, err2 = strconv.Atoi(ys)
		if err1 != nil || err2 != nil {
			return image.Rectangle{}, fmt.Errorf("region %q: bad offset", s)
		}
	}
	return image.Rect(x, y, x+w, y+h), nil
}

// Load reads the image described by spec. remote may be nil unless the
// spec is a remote path.
func Load(ctx context.Context, spec Spec, remote Opener) (*raster.Buffer, error) {
	switch spec.Kind {
	case KindFile:
		return loadFile(spec.Path)
	case KindClipboard:
		return clipboard.ReadBuffer()
	case KindScreen:
		return Screen(spec.Region)
	case KindRemote:
		if remote == nil {
			return nil, fmt.Errorf("remote source %q: no processing service configured", spec.Path)
		}
		data, err := remote.Open(ctx, spec.Path)
		if err != nil {
			return nil, err
		}
		return raster.DecodeBytes(data)
	}
	return nil, fmt.Errorf("unknown source kind %d", spec.Kind)
}

func loadFile(path string) (*raster.Buffer, error) {
	if path == "-" {
		return raster.Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := raster.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
