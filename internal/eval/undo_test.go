package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUndoRestoresPreviousState(t *testing.T) {
	c := newTestContext(t)
	mustExec(t, c, "42")
	if c.Depth() != 1 {
		t.Fatalf("depth = %d", c.Depth())
	}
	mustExec(t, c, "DROP")
	if c.Depth() != 0 {
		t.Fatalf("depth after drop = %d", c.Depth())
	}
	if !c.Undo() {
		t.Fatal("Undo failed")
	}
	checkStack(t, c, "42")
}

func TestRedoReappliesUndone(t *testing.T) {
	c := newTestContext(t)
	mustExec(t, c, "42")
	mustExec(t, c, "DROP")
	if !c.Undo() {
		t.Fatal("Undo failed")
	}
	if !c.Redo() {
		t.Fatal("Redo failed")
	}
	if c.Depth() != 0 {
		t.Errorf("depth after redo = %d, want 0", c.Depth())
	}
}

func TestUndoAtBirthFails(t *testing.T) {
	c := newTestContext(t)
	if c.Undo() {
		t.Error("Undo on fresh context should fail")
	}
	if c.Redo() {
		t.Error("Redo on fresh context should fail")
	}
}

func TestMultipleUndoSteps(t *testing.T) {
	c := newTestContext(t)
	mustExec(t, c, "1")
	mustExec(t, c, "2")
	mustExec(t, c, "3")
	if c.Depth() != 3 {
		t.Fatalf("depth = %d", c.Depth())
	}

	if !c.Undo() {
		t.Fatal("first Undo failed")
	}
	if c.Depth() != 2 {
		t.Errorf("depth = %d, want 2", c.Depth())
	}

	if !c.Undo() {
		t.Fatal("second Undo failed")
	}
	checkStack(t, c, "1")

	if !c.Undo() {
		t.Fatal("third Undo failed")
	}
	if c.Depth() != 0 {
		t.Errorf("depth = %d, want 0", c.Depth())
	}

	if c.Undo() {
		t.Error("Undo past the beginning should fail")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	c := newTestContext(t)
	inputs := []string{"1 2 +", "4 *", "DUP", "1 -"}
	for _, input := range inputs {
		mustExec(t, c, input)
	}
	original := stack(t, c)

	k := len(inputs)
	for i := 0; i < k; i++ {
		if !c.Undo() {
			t.Fatalf("Undo %d failed", i+1)
		}
	}
	if c.Depth() != 0 {
		t.Fatalf("depth after %d undos = %d", k, c.Depth())
	}
	for i := 0; i < k; i++ {
		if !c.Redo() {
			t.Fatalf("Redo %d failed", i+1)
		}
	}
	if diff := cmp.Diff(original, stack(t, c)); diff != "" {
		t.Errorf("undo/redo round trip (-want +got):\n%s", diff)
	}
}

func TestRedoInvalidatedByNewExec(t *testing.T) {
	c := newTestContext(t)
	mustExec(t, c, "1")
	mustExec(t, c, "2")
	if !c.Undo() {
		t.Fatal("Undo failed")
	}
	// A new eval moves the pointer to the new max; nothing to redo.
	mustExec(t, c, "9")
	if c.Redo() {
		t.Error("Redo after a fresh exec should fail")
	}
	checkStack(t, c, "9", "1")
}

func TestUndoAfterFailedExec(t *testing.T) {
	c := newTestContext(t)
	mustExec(t, c, "7")
	execError(t, c, "FROB")
	// The failed eval appended no snapshots; undo steps back over the
	// successful one and clears the Error with it.
	if !c.Undo() {
		t.Fatal("Undo failed")
	}
	if c.Depth() != 0 {
		t.Errorf("depth = %d, want 0", c.Depth())
	}
}

func TestStateLevels(t *testing.T) {
	c := newTestContext(t)
	undo, redo := c.State()
	if undo != 0 || redo != 0 {
		t.Errorf("fresh state = %d/%d", undo, redo)
	}

	mustExec(t, c, "1")
	mustExec(t, c, "2")
	mustExec(t, c, "3")
	undo, redo = c.State()
	if undo != 3 || redo != 0 {
		t.Errorf("state after 3 execs = %d/%d, want 3/0", undo, redo)
	}

	c.Undo()
	undo, redo = c.State()
	if undo != 2 || redo != 1 {
		t.Errorf("state after undo = %d/%d, want 2/1", undo, redo)
	}

	c.Undo()
	c.Undo()
	undo, redo = c.State()
	if undo != 0 || redo != 3 {
		t.Errorf("state after 3 undos = %d/%d, want 0/3", undo, redo)
	}

	c.Redo()
	undo, redo = c.State()
	if undo != 1 || redo != 2 {
		t.Errorf("state after redo = %d/%d, want 1/2", undo, redo)
	}
}
