package history

import (
	"image/color"
	"testing"

	"github.com/example/layerpaint/internal/layers"
	"github.com/example/layerpaint/internal/raster"
)

func stackWith(c color.RGBA) *layers.Stack {
	s := layers.New()
	s.Load(raster.NewFilled(2, 2, c), "")
	return s
}

func TestUndoRestoresEveryCommit(t *testing.T) {
	s := stackWith(color.RGBA{R: 255, A: 255})
	m := New()
	var snaps []layers.Snapshot
	m.Commit(s.Snapshot())
	snaps = append(snaps, s.Snapshot())
	for i := 0; i < 4; i++ {
		s.Add()
		s.SetOpacity(s.Active(), 10*i)
		m.Commit(s.Snapshot())
		snaps = append(snaps, s.Snapshot())
	}
	for i := len(snaps) - 2; i >= 0; i-- {
		got, ok := m.Undo()
		if !ok {
			t.Fatalf("undo %d refused", i)
		}
		if !got.Equal(snaps[i]) {
			t.Fatalf("undo to %d differs", i)
		}
	}
	if _, ok := m.Undo(); ok {
		t.Fatal("undo past the first entry should be a no-op")
	}
	if m.Cursor() != 0 {
		t.Fatalf("cursor moved to %d", m.Cursor())
	}
	for i := 1; i < len(snaps); i++ {
		got, ok := m.Redo()
		if !ok || !got.Equal(snaps[i]) {
			t.Fatalf("redo to %d failed", i)
		}
	}
	if _, ok := m.Redo(); ok {
		t.Fatal("redo past the last entry should be a no-op")
	}
}

func TestCommitAfterUndoDropsRedo(t *testing.T) {
	s := stackWith(color.RGBA{G: 255, A: 255})
	m := New()
	m.Commit(s.Snapshot())
	s.Add()
	m.Commit(s.Snapshot())
	s.Add()
	m.Commit(s.Snapshot())
	m.Undo()
	m.Undo()
	s.SetVisibility(0, false)
	m.Commit(s.Snapshot())
	if m.CanRedo() {
		t.Fatal("redo entries survived a new commit")
	}
	if m.Len() != 2 || m.Cursor() != 1 {
		t.Fatalf("len=%d cursor=%d", m.Len(), m.Cursor())
	}
}

func TestEntriesAreIsolated(t *testing.T) {
	s := stackWith(color.RGBA{B: 255, A: 255})
	m := New()
	snap := s.Snapshot()
	m.Commit(snap)
	s.SetOpacity(0, 1)
	m.Commit(s.Snapshot())
	back, _ := m.Undo()
	s.Restore(back)
	s.SetOpacity(0, 77)
	cur, _ := m.Current()
	if !cur.Equal(snap) {
		t.Fatal("stored entry was mutated through a restored stack")
	}
}

func TestEmptyManager(t *testing.T) {
	m := New()
	if m.CanUndo() || m.CanRedo() {
		t.Fatal("empty manager claims history")
	}
	if _, ok := m.Current(); ok {
		t.Fatal("empty manager has a current entry")
	}
}

func TestLimit(t *testing.T) {
	s := stackWith(color.RGBA{A: 255})
	m := New(WithLimit(3))
	for i := 0; i < 5; i++ {
		s.SetOpacity(0, i)
		m.Commit(s.Snapshot())
	}
	if m.Len() != 3 || m.Cursor() != 2 {
		t.Fatalf("len=%d cursor=%d", m.Len(), m.Cursor())
	}
	m.Undo()
	m.Undo()
	if m.CanUndo() {
		t.Fatal("trimmed entries are still reachable")
	}
}
