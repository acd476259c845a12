package source

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/layerpaint/internal/raster"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Spec
	}{
		{"a.png", Spec{Kind: KindFile, Path: "a.png"}},
		{"clipboard", Spec{Kind: KindClipboard}},
		{"screen", Spec{Kind: KindScreen}},
		{"screen:10x20+3+4", Spec{Kind: KindScreen, Region: image.Rect(3, 4, 13, 24)}},
		{"remote:/srv/x.jpg", Spec{Kind: KindRemote, Path: "/srv/x.jpg"}},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil || got != c.want {
			t.Errorf("Parse(%q) = %+v, %v", c.in, got, err)
		}
	}
	for _, bad := range []string{"", "remote:", "screen:10", "screen:0x5", "screen:4x4+1"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) accepted", bad)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	src := raster.NewFilled(3, 2, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	data, err := src.PNG()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(context.Background(), Spec{Kind: KindFile, Path: path}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Equal(src) {
		t.Fatal("loaded pixels differ")
	}
}

type openerFunc func(ctx context.Context, path string) ([]byte, error)

func (f openerFunc) Open(ctx context.Context, path string) ([]byte, error) { return f(ctx, path) }

func TestLoadRemote(t *testing.T) {
	src := raster.NewFilled(2, 2, color.RGBA{B: 255, A: 255})
	var asked string
	op := openerFunc(func(_ context.Context, path string) ([]byte, error) {
		asked = path
		return src.PNG()
	})
	got, err := Load(context.Background(), Spec{Kind: KindRemote, Path: "/srv/b.png"}, op)
	if err != nil || !got.Equal(src) || asked != "/srv/b.png" {
		t.Fatalf("remote load: %v asked=%q", err, asked)
	}
	boom := errors.New("boom")
	_, err = Load(context.Background(), Spec{Kind: KindRemote, Path: "x"}, openerFunc(func(context.Context, string) ([]byte, error) {
		return nil, boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if _, err := Load(context.Background(), Spec{Kind: KindRemote, Path: "x"}, nil); err == nil {
		t.Fatal("remote load without a service succeeded")
	}
}
