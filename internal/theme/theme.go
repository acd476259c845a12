package theme

import (
	"image/color"
	"sort"
	"strings"
)

// Theme defines the colours used when presenting the canvas.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Letterbox area around the image
	Foreground color.RGBA // Status text

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Overlays
	CropLine    color.RGBA // Dashed crop rectangle
	CropShade   color.RGBA // Area outside a pending crop
	MaskTint    color.RGBA // Painted mask, drawn with its own alpha
	PreviewLine color.RGBA // Outline of a shape being dragged
	BusyTint    color.RGBA // Veil shown while a remote call runs
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:         "Default",
		Background:   color.RGBA{220, 220, 220, 255},
		Foreground:   color.RGBA{0, 0, 0, 255},
		CheckerLight: color.RGBA{220, 220, 220, 255},
		CheckerDark:  color.RGBA{192, 192, 192, 255},
		CropLine:     color.RGBA{0, 0, 0, 255},
		CropShade:    color.RGBA{0, 0, 0, 96},
		MaskTint:     color.RGBA{128, 0, 0, 128},
		PreviewLine:  color.RGBA{0, 120, 215, 255},
		BusyTint:     color.RGBA{96, 96, 96, 96},
	}
}

// Dark is the built-in dark palette.
func Dark() *Theme {
	return &Theme{
		Name:         "Dark",
		Background:   color.RGBA{40, 40, 40, 255},
		Foreground:   color.RGBA{230, 230, 230, 255},
		CheckerLight: color.RGBA{90, 90, 90, 255},
		CheckerDark:  color.RGBA{64, 64, 64, 255},
		CropLine:     color.RGBA{255, 255, 255, 255},
		CropShade:    color.RGBA{0, 0, 0, 128},
		MaskTint:     color.RGBA{128, 32, 32, 128},
		PreviewLine:  color.RGBA{120, 190, 255, 255},
		BusyTint:     color.RGBA{0, 0, 0, 96},
	}
}

// HighContrast trades subtlety for visibility.
func HighContrast() *Theme {
	return &Theme{
		Name:         "HighContrast",
		Background:   color.RGBA{0, 0, 0, 255},
		Foreground:   color.RGBA{255, 255, 0, 255},
		CheckerLight: color.RGBA{255, 255, 255, 255},
		CheckerDark:  color.RGBA{128, 128, 128, 255},
		CropLine:     color.RGBA{255, 255, 0, 255},
		CropShade:    color.RGBA{0, 0, 0, 160},
		MaskTint:     color.RGBA{160, 0, 160, 160},
		PreviewLine:  color.RGBA{0, 255, 255, 255},
		BusyTint:     color.RGBA{0, 0, 0, 128},
	}
}

var builtin = map[string]func() *Theme{
	"default":       Default,
	"dark":          Dark,
	"high_contrast": HighContrast,
}

// Builtin returns a fresh copy of the named built-in theme.
func Builtin(name string) (*Theme, bool) {
	f, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names lists the built-in theme names.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
