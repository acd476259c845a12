// Package remote talks to the image-processing service that implements
// filters, AI edits and format conversion.
package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/layerpaint/internal/raster"
)

// Format is an encoded image format accepted by the service.
type Format = raster.Format

// Operation identifiers used by the editor itself. The service accepts
// any namespaced identifier of the form category.function.
const (
	OpCrop            = "geometric_transformations.crop"
	OpInpaint         = "object_removal.inpaint"
	OpAdjustments     = "adjustments"
	OpAutoColor       = "auto_color"
	OpRemoveBG        = "background_removal"
	OpSuperResolution = "super_resolution.realesrgan"
)

// Request is one operation invocation. Params is sent as JSON; Mask is
// optional and only used by selective operations.
type Request struct {
	Image     []byte
	Operation string
	Params    map[string]any
	Mask      []byte
}

// Processor runs an operation and returns the encoded result.
type Processor interface {
	Process(ctx context.Context, req Request) ([]byte, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, req Request) ([]byte, error)

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}

// Error is a failed remote operation. Status is the HTTP status when the
// service answered, 0 for transport failures and timeouts.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Timeouts bounds operation latency by class.
type Timeouts struct {
	Filter time.Duration
	Heavy  time.Duration
}

// DefaultTimeouts are 30s for ordinary filters and 10 minutes for
// super-resolution and inpainting.
var DefaultTimeouts = Timeouts{Filter: 30 * time.Second, Heavy: 10 * time.Minute}

// Heavy reports whether op is one of the slow model-backed operations.
func Heavy(op string) bool {
	return strings.Contains(op, "super_resolution") || strings.Contains(op, "inpaint")
}

// For returns the timeout for op. Zero fields fall back to the defaults.
func (t Timeouts) For(op string) time.Duration {
	if Heavy(op) {
		if t.Heavy > 0 {
			return t.Heavy
		}
		return DefaultTimeouts.Heavy
	}
	if t.Filter > 0 {
		return t.Filter
	}
	return DefaultTimeouts.Filter
}
