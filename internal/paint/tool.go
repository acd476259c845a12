// Package paint implements the drawing tools that write into a layer's
// scratch overlay.
package paint

import (
	"fmt"
	"strings"
)

// Tool selects what a pointer gesture produces.
type Tool int

const (
	ToolFreehand Tool = iota
	ToolEraser
	ToolRectangle
	ToolCircle
	ToolOval
	ToolTriangle
	ToolLine
	ToolText
	ToolFill
)

var toolNames = []string{
	ToolFreehand:  "freehand",
	ToolEraser:    "eraser",
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolOval:      "oval",
	ToolTriangle:  "triangle",
	ToolLine:      "line",
	ToolText:      "text",
	ToolFill:      "fill",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("tool(%d)", int(t))
	}
	return toolNames[t]
}

// Stroked reports whether the tool paints continuously while the pointer
// moves rather than on release.
func (t Tool) Stroked() bool { return t == ToolFreehand || t == ToolEraser }

// Tools lists every tool in declaration order.
func Tools() []Tool {
	out := make([]Tool, len(toolNames))
	for i := range toolNames {
		out[i] = Tool(i)
	}
	return out
}

// ParseTool resolves a tool by name. "pen" and "draw" are accepted for
// freehand, "rect" for rectangle and "ellipse" for oval.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pen", "draw":
		return ToolFreehand, nil
	case "rect":
		return ToolRectangle, nil
	case "ellipse":
		return ToolOval, nil
	}
	for i, n := range toolNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// State is the engine's gesture state.
type State int

const (
	StateIdle State = iota
	StateStroke
	StateShape
)

func (s State) String() string {
	switch s {
	case StateStroke:
		return "stroke"
	case StateShape:
		return "shape"
	}
	return "idle"
}
