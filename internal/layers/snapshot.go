package layers

import "image"

// Snapshot is an independently owned deep copy of a stack at one instant.
type Snapshot struct {
	layers []*Layer
	active int
	size   image.Point
}

// Snapshot captures the current stack.
func (s *Stack) Snapshot() Snapshot {
	snap := Snapshot{active: s.active, size: s.size, layers: make([]*Layer, len(s.layers))}
	for i, l := range s.layers {
		snap.layers[i] = l.clone()
	}
	return snap
}

// Restore replaces the stack contents with a copy of snap.
func (s *Stack) Restore(snap Snapshot) {
	c := snap.Clone()
	s.layers = c.layers
	s.active = c.active
	s.size = c.size
}

// Clone deep-copies the snapshot.
func (sn Snapshot) Clone() Snapshot {
	out := Snapshot{active: sn.active, size: sn.size, layers: make([]*Layer, len(sn.layers))}
	for i, l := range sn.layers {
		out.layers[i] = l.clone()
	}
	return out
}

// Len returns the number of captured layers.
func (sn Snapshot) Len() int { return len(sn.layers) }

// Active returns the captured active index.
func (sn Snapshot) Active() int { return sn.active }

// Equal reports whether two snapshots hold the same layers, attributes and
// pixels, bit for bit.
func (sn Snapshot) Equal(o Snapshot) bool {
	if sn.active != o.active || sn.size != o.size || len(sn.layers) != len(o.layers) {
		return false
	}
	for i, a := range sn.layers {
		b := o.layers[i]
		if a.ID != b.ID || a.Name != b.Name || a.Visible != b.Visible || a.Opacity != b.Opacity {
			return false
		}
		if !a.pixels.Equal(b.pixels) {
			return false
		}
		if (a.overlay == nil) != (b.overlay == nil) {
			return false
		}
		if a.overlay != nil && !a.overlay.Equal(b.overlay) {
			return false
		}
	}
	return true
}
