//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"errors"
	"sync"
	"testing"

	"github.com/example/layerpaint/internal/raster"
)

func resetInit(t *testing.T) {
	t.Helper()
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	initOnce = sync.Once{}
	initErr = nil
	t.Cleanup(func() {
		initOnce = sync.Once{}
		initErr = nil
	})
}

func TestWriteWithoutDisplay(t *testing.T) {
	resetInit(t)
	if err := WriteBuffer(raster.New(2, 2)); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
}

func TestReadWithoutDisplay(t *testing.T) {
	resetInit(t)
	if _, err := ReadBuffer(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
}
