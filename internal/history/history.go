// Package history keeps a linear undo/redo list of layer stack snapshots.
package history

import "github.com/example/layerpaint/internal/layers"

// Manager holds committed snapshots and a cursor into them. Entries after
// the cursor are redo states and are dropped by the next Commit.
type Manager struct {
	entries []layers.Snapshot
	cursor  int
	limit   int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit caps the number of retained snapshots. The oldest entries are
// discarded first. A limit of zero or less keeps everything.
func WithLimit(n int) Option {
	return func(m *Manager) { m.limit = n }
}

// New returns an empty manager.
func New(opts ...Option) *Manager {
	m := &Manager{cursor: -1}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Commit stores a deep copy of snap after the cursor, discarding any redo
// entries, and moves the cursor onto it.
func (m *Manager) Commit(snap layers.Snapshot) {
	m.entries = append(m.entries[:m.cursor+1], snap.Clone())
	if m.limit > 0 && len(m.entries) > m.limit {
		drop := len(m.entries) - m.limit
		m.entries = append(m.entries[:0:0], m.entries[drop:]...)
	}
	m.cursor = len(m.entries) - 1
}

// CanUndo reports whether an earlier state exists.
func (m *Manager) CanUndo() bool { return m.cursor > 0 }

// CanRedo reports whether a later state exists.
func (m *Manager) CanRedo() bool { return m.cursor >= 0 && m.cursor < len(m.entries)-1 }

// Undo steps back one entry and returns a copy of it. At the oldest entry
// it does nothing and returns false.
func (m *Manager) Undo() (layers.Snapshot, bool) {
	if !m.CanUndo() {
		return layers.Snapshot{}, false
	}
	m.cursor--
	return m.entries[m.cursor].Clone(), true
}

// Redo steps forward one entry.
func (m *Manager) Redo() (layers.Snapshot, bool) {
	if !m.CanRedo() {
		return layers.Snapshot{}, false
	}
	m.cursor++
	return m.entries[m.cursor].Clone(), true
}

// Current returns a copy of the entry under the cursor.
func (m *Manager) Current() (layers.Snapshot, bool) {
	if m.cursor < 0 {
		return layers.Snapshot{}, false
	}
	return m.entries[m.cursor].Clone(), true
}

// Len is the number of stored entries.
func (m *Manager) Len() int { return len(m.entries) }

// Cursor is the index of the current entry, -1 when empty.
func (m *Manager) Cursor() int { return m.cursor }

// Reset forgets every entry.
func (m *Manager) Reset() {
	m.entries = nil
	m.cursor = -1
}
