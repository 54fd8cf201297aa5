// Package lpr provides the public embedding API for the calculator
// runtime: enough surface to build an interactive prompt.
package lpr

import (
	"github.com/lennyitb/lpr-runtime/internal/eval"
	"github.com/lennyitb/lpr-runtime/internal/store"
)

// Runtime is one calculator session over one persistent store.
type Runtime struct {
	ctx   *eval.Context
	store *store.Store
}

// New creates a runtime with the given options. With no store option,
// the runtime is in-memory.
func New(opts ...Option) (*Runtime, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	s, err := store.New(cfg.path)
	if err != nil {
		return nil, err
	}
	return &Runtime{ctx: eval.New(s), store: s}, nil
}

// Close releases the store handle.
func (r *Runtime) Close() error {
	return r.store.Close()
}

// Exec evaluates one input, reporting success. On failure an Error
// value is the stack top and the rest of the stack is the pre-state.
func (r *Runtime) Exec(input string) bool {
	return r.ctx.Exec(input)
}

// Depth returns the stack depth.
func (r *Runtime) Depth() int {
	return r.ctx.Depth()
}

// Repr returns the display form of the value at a 1-based stack level.
func (r *Runtime) Repr(level int) (string, bool) {
	return r.ctx.ReprAt(level)
}

// Undo restores the stack to the pre-state of the most recent
// evaluation.
func (r *Runtime) Undo() bool {
	return r.ctx.Undo()
}

// Redo re-applies the most recently undone evaluation.
func (r *Runtime) Redo() bool {
	return r.ctx.Redo()
}

// State reports the available undo and redo levels.
type State struct {
	UndoLevels int
	RedoLevels int
}

// State returns the undo/redo navigation state.
func (r *Runtime) State() State {
	undo, redo := r.ctx.State()
	return State{UndoLevels: undo, RedoLevels: redo}
}

// Setting returns a metadata value (current directory id, angle mode,
// undo pointer, ...), reporting whether it is present.
func (r *Runtime) Setting(key string) (string, bool) {
	return r.ctx.Setting(key)
}
