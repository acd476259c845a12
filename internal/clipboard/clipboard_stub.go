//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard images are not supported on this platform")

func writePNG([]byte) error { return errUnsupported }

func readPNG() ([]byte, error) { return nil, errUnsupported }
