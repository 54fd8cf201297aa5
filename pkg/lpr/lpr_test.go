package lpr

import (
	"os"
	"strings"
	"testing"
)

func newMemRuntime(t *testing.T) *Runtime {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestExecAndRepr(t *testing.T) {
	r := newMemRuntime(t)
	if !r.Exec("3 4 +") {
		t.Fatal("exec failed")
	}
	if r.Depth() != 1 {
		t.Fatalf("depth = %d", r.Depth())
	}
	s, ok := r.Repr(1)
	if !ok || s != "7" {
		t.Errorf("Repr(1) = %q, %v", s, ok)
	}
	if _, ok := r.Repr(2); ok {
		t.Error("Repr(2) should fail on a depth-1 stack")
	}
}

func TestExecFailureLeavesError(t *testing.T) {
	r := newMemRuntime(t)
	if r.Exec("5 0 /") {
		t.Fatal("exec should fail")
	}
	s, ok := r.Repr(1)
	if !ok || !strings.HasPrefix(s, "Error 4:") {
		t.Errorf("Repr(1) = %q, want division-by-zero error", s)
	}
}

func TestUndoRedoState(t *testing.T) {
	r := newMemRuntime(t)
	r.Exec("1")
	r.Exec("2")

	st := r.State()
	if st.UndoLevels != 2 || st.RedoLevels != 0 {
		t.Errorf("state = %+v", st)
	}

	if !r.Undo() {
		t.Fatal("Undo failed")
	}
	st = r.State()
	if st.UndoLevels != 1 || st.RedoLevels != 1 {
		t.Errorf("state after undo = %+v", st)
	}

	if !r.Redo() {
		t.Fatal("Redo failed")
	}
	if r.Depth() != 2 {
		t.Errorf("depth after redo = %d", r.Depth())
	}
}

func TestSetting(t *testing.T) {
	r := newMemRuntime(t)
	if _, ok := r.Setting("no_such_key"); ok {
		t.Error("missing setting should report absent")
	}
	// current_dir is written on first open.
	if _, ok := r.Setting("current_dir"); !ok {
		t.Error("current_dir should be present")
	}
	r.Exec("GRAD")
	mode, ok := r.Setting("angle_mode")
	if !ok || mode != "GRAD" {
		t.Errorf("angle_mode = %q, %v", mode, ok)
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	f, err := os.CreateTemp("", "lpr-session-*.db")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	r, err := New(WithStorePath(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.Exec("42 'X' STO")
	r.Exec("1 2 +")
	r.Close()

	r2, err := New(WithStorePath(path))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()

	if r2.Depth() != 1 {
		t.Fatalf("depth after reopen = %d", r2.Depth())
	}
	s, _ := r2.Repr(1)
	if s != "3" {
		t.Errorf("Repr(1) = %q", s)
	}
	if !r2.Exec("X") {
		t.Fatal("recall after reopen failed")
	}
	s, _ = r2.Repr(1)
	if s != "42" {
		t.Errorf("X after reopen = %q", s)
	}

	// Undo history survives the restart too.
	if !r2.Undo() {
		t.Error("Undo after reopen failed")
	}
}
