package editor

import (
	"github.com/example/layerpaint/internal/layers"
)

// mutate runs fn on the stack under the lock. When fn reports a change
// the new state is committed to history and the engine re-attached.
func (s *Session) mutate(fn func(st *layers.Stack) bool) bool {
	s.mu.Lock()
	if s.busy || !s.stack.Loaded() {
		s.mu.Unlock()
		return false
	}
	s.cancelGestures()
	if !fn(s.stack) {
		s.mu.Unlock()
		return false
	}
	s.hist.Commit(s.stack.Snapshot())
	s.attach()
	fire := s.changed()
	s.mu.Unlock()
	fire()
	return true
}

// AddLayer appends a copy of the active layer and selects it.
func (s *Session) AddLayer() (int, bool) {
	idx := -1
	ok := s.mutate(func(st *layers.Stack) bool {
		var added bool
		idx, added = st.Add()
		return added
	})
	return idx, ok
}

// DeleteLayer removes layer i. The sole layer cannot be deleted.
func (s *Session) DeleteLayer(i int) bool {
	return s.mutate(func(st *layers.Stack) bool { return st.Delete(i) })
}

// SetOpacity sets layer i's opacity, clamped to [0,100].
func (s *Session) SetOpacity(i, opacity int) bool {
	return s.mutate(func(st *layers.Stack) bool { return st.SetOpacity(i, opacity) })
}

// SetVisibility shows or hides layer i.
func (s *Session) SetVisibility(i int, visible bool) bool {
	return s.mutate(func(st *layers.Stack) bool { return st.SetVisibility(i, visible) })
}

// ToggleVisibility flips layer i's visibility.
func (s *Session) ToggleVisibility(i int) bool {
	return s.mutate(func(st *layers.Stack) bool {
		info, ok := st.Info(i)
		return ok && st.SetVisibility(i, !info.Visible)
	})
}

// RenameLayer changes a layer's display name.
func (s *Session) RenameLayer(i int, name string) bool {
	return s.mutate(func(st *layers.Stack) bool { return st.Rename(i, name) })
}

// ClearOverlay discards the active layer's unflattened drawing.
func (s *Session) ClearOverlay() bool {
	return s.mutate(func(st *layers.Stack) bool {
		info, ok := st.Info(st.Active())
		return ok && info.HasOverlay && st.ClearOverlay(st.Active())
	})
}

// SelectLayer makes layer i active. Selection is not an undoable change.
func (s *Session) SelectLayer(i int) bool {
	s.mu.Lock()
	if s.busy || !s.stack.Loaded() {
		s.mu.Unlock()
		return false
	}
	s.cancelGestures()
	if !s.stack.Select(i) {
		s.mu.Unlock()
		return false
	}
	s.attach()
	fire := s.changed()
	s.mu.Unlock()
	fire()
	return true
}

// Layers describes the stack bottom first.
func (s *Session) Layers() []layers.Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Infos()
}

// Active returns the active layer index, -1 before Load.
func (s *Session) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Active()
}

// Undo restores the previous history entry.
func (s *Session) Undo() bool {
	return s.step(s.hist.Undo)
}

// Redo restores the next history entry.
func (s *Session) Redo() bool {
	return s.step(s.hist.Redo)
}

func (s *Session) step(move func() (layers.Snapshot, bool)) bool {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return false
	}
	snap, ok := move()
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.cancelGestures()
	before := s.stack.Size()
	s.stack.Restore(snap)
	if s.stack.Size() != before {
		s.masks.Resize(s.stack.Size().X, s.stack.Size().Y)
		s.rescale()
	}
	s.attach()
	fire := s.changed()
	s.mu.Unlock()
	fire()
	return true
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && s.hist.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && s.hist.CanRedo()
}
