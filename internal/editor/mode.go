package editor

import (
	"fmt"
	"strings"
)

// Mode selects which component receives pointer input.
type Mode int

const (
	ModeView Mode = iota
	ModeDraw
	ModeMask
	ModeCrop
)

func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeMask:
		return "mask"
	case ModeCrop:
		return "crop"
	}
	return "view"
}

// ParseMode resolves a mode by name.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeView, ModeDraw, ModeMask, ModeCrop} {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return ModeView, fmt.Errorf("unknown mode %q", s)
}
