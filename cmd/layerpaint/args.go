package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/layerpaint/internal/geom"
)

// splitArgs separates flags known to fs from positionals so flags may
// follow the positional arguments. Unknown dash arguments such as negative
// numbers stay positional.
func splitArgs(fs *flag.FlagSet, args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		base, value, hasValue := strings.Cut(name, "=")
		f := fs.Lookup(strings.ToLower(base))
		if base == "" || f == nil {
			positionals = append(positionals, arg)
			continue
		}
		norm := "-" + f.Name
		if hasValue {
			flags = append(flags, norm+"="+value)
			continue
		}
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}

func expectInts(args []string, n int, what string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", what, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

// parsePoints reads an even number of coordinates as x y pairs.
func parsePoints(args []string, what string) ([]geom.Point, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, fmt.Errorf("%s requires x y coordinate pairs", what)
	}
	pts := make([]geom.Point, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", args[i])
		}
		y, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", args[i+1])
		}
		pts = append(pts, geom.Pt(x, y))
	}
	return pts, nil
}

// paramFlag collects repeated -param key=value flags. Numbers and booleans
// are decoded so the service receives typed JSON.
type paramFlag map[string]any

func (p paramFlag) String() string {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		keys = append(keys, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(keys, ",")
}

func (p paramFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("param %q: want key=value", s)
	}
	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		p[k] = n
		return nil
	}
	if b, err := strconv.ParseBool(v); err == nil {
		p[k] = b
		return nil
	}
	p[k] = v
	return nil
}
