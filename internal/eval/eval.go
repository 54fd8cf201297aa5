// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the interpreter: token execution, local
// scopes, control flow, the command catalog, and undo/redo.
package eval

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lennyitb/lpr-runtime/internal/expr"
	"github.com/lennyitb/lpr-runtime/internal/parser"
	"github.com/lennyitb/lpr-runtime/internal/value"
)

// Store is the persistence interface the interpreter runs against.
// *store.Store implements it.
type Store interface {
	Push(v value.Value) error
	Pop() (value.Value, error)
	Peek(level int) (value.Value, error)
	Depth() (int, error)
	ClearStack() error

	Snapshot() (int, error)
	Restore(seq int) (bool, error)
	MaxSeq() (int, error)
	UndoSeq() (int, error)
	SetUndoSeq(seq int) error

	StoreVar(dir int64, name string, v value.Value) error
	RecallVar(dir int64, name string) (value.Value, error)
	PurgeVar(dir int64, name string) (bool, error)
	ListVars(dir int64) ([]string, error)

	HomeDir() (int64, error)
	CreateDir(parent int64, name string) (int64, error)
	FindDir(parent int64, name string) (int64, bool, error)
	CurrentDir() (int64, error)
	SetCurrentDir(dir int64) error

	Meta(key string) (string, error)
	SetMeta(key, val string) error

	Begin() error
	Commit() error
	Rollback() error
	Close() error
}

// Context executes token streams against a store and its own stack of
// local frames. Local frames are process-lifetime only.
type Context struct {
	store  Store
	locals []map[string]value.Value
}

// New creates a Context over a store.
func New(s Store) *Context {
	return &Context{store: s}
}

// Store returns the underlying store.
func (c *Context) Store() Store { return c.store }

// Exec parses and evaluates one top-level input inside a transaction,
// taking a pre- and a post-snapshot. On failure the transaction is
// rolled back and an Error value is committed on top of the pre-state.
func (c *Context) Exec(input string) bool {
	if err := c.store.Begin(); err != nil {
		return false
	}
	err := c.run(input)
	if err == nil {
		if err = c.store.Commit(); err == nil {
			return true
		}
	}
	c.store.Rollback()

	c.store.Begin()
	c.store.Push(asError(err))
	c.store.Commit()
	return false
}

func (c *Context) run(input string) error {
	if _, err := c.store.Snapshot(); err != nil {
		return err
	}
	if err := c.executeTokens(parser.Parse(input)); err != nil {
		return err
	}
	_, err := c.store.Snapshot()
	return err
}

func asError(err error) value.Error {
	var ve value.Error
	if errors.As(err, &ve) {
		return ve
	}
	return value.Errf(value.CodeRuntime, "%v", err)
}

// Depth returns the current stack depth, 0 on storage failure.
func (c *Context) Depth() int {
	d, err := c.store.Depth()
	if err != nil {
		return 0
	}
	return d
}

// ReprAt returns the display form of the value at a 1-based level.
func (c *Context) ReprAt(level int) (string, bool) {
	v, err := c.store.Peek(level)
	if err != nil {
		return "", false
	}
	return v.Repr(), true
}

// Setting returns a metadata value, reporting whether it is present.
func (c *Context) Setting(key string) (string, bool) {
	v, err := c.store.Meta(key)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

// --- Undo / redo ---

// Undo restores the pre-state of the most recent evaluation. Each eval
// records two snapshots (pre, post) and the pointer rests on the post
// one; undo restores cur-1 and parks the pointer on cur-2, the post
// snapshot of the previous eval.
func (c *Context) Undo() bool {
	cur, err := c.store.UndoSeq()
	if err != nil || cur <= 1 {
		return false
	}
	target := cur - 1
	if err := c.store.Begin(); err != nil {
		return false
	}
	ok, err := c.store.Restore(target)
	if err == nil && ok {
		err = c.store.SetUndoSeq(target - 1)
	}
	if err != nil {
		c.store.Rollback()
		return false
	}
	c.store.Commit()
	return ok
}

// Redo restores the post-state of the next evaluation forward: cur+2
// when it exists.
func (c *Context) Redo() bool {
	cur, err := c.store.UndoSeq()
	if err != nil {
		return false
	}
	max, err := c.store.MaxSeq()
	if err != nil || cur+2 > max {
		return false
	}
	target := cur + 2
	if err := c.store.Begin(); err != nil {
		return false
	}
	ok, err := c.store.Restore(target)
	if err != nil {
		c.store.Rollback()
		return false
	}
	c.store.Commit()
	return ok
}

// State reports how many undo and redo steps are available.
func (c *Context) State() (undoLevels, redoLevels int) {
	cur, err := c.store.UndoSeq()
	if err != nil {
		return 0, 0
	}
	max, err := c.store.MaxSeq()
	if err != nil {
		return 0, 0
	}
	return cur / 2, (max - cur) / 2
}

// --- Local frames ---

func (c *Context) pushLocals(frame map[string]value.Value) {
	c.locals = append(c.locals, frame)
}

func (c *Context) popLocals() {
	if len(c.locals) > 0 {
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// resolveLocal searches frames innermost first.
func (c *Context) resolveLocal(name string) (value.Value, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if v, ok := c.locals[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// exprResolver resolves expression names: local frames as written, then
// the current directory with the name uppercased.
func (c *Context) exprResolver(name string) (value.Value, error) {
	if v, ok := c.resolveLocal(name); ok {
		return v, nil
	}
	dir, err := c.store.CurrentDir()
	if err != nil {
		return nil, err
	}
	return c.store.RecallVar(dir, strings.ToUpper(name))
}

// --- Stack helpers for commands ---

func (c *Context) need(n int) error {
	d, err := c.store.Depth()
	if err != nil {
		return err
	}
	if d < n {
		return value.ErrTooFew()
	}
	return nil
}

func (c *Context) push(v value.Value) error  { return c.store.Push(v) }
func (c *Context) pop() (value.Value, error) { return c.store.Pop() }

// pushBack restores popped operands, deepest first, before a command
// fails; the pre-state observed by undo then matches the user's input.
func (c *Context) pushBack(vs ...value.Value) {
	for _, v := range vs {
		c.store.Push(v)
	}
}

func isArrow(cmd string) bool { return cmd == "->" || cmd == "→" }

// --- Token execution ---

func (c *Context) executeTokens(tokens []value.Token) error {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind == value.TokenLiteral {
			if err := c.push(tok.Lit); err != nil {
				return err
			}
			continue
		}

		var err error
		switch {
		case isArrow(tok.Command):
			err = c.execArrow(tokens, &i)
		case tok.Command == "IF":
			err = c.execIf(tokens, &i)
		case tok.Command == "CASE":
			err = c.execCase(tokens, &i)
		case tok.Command == "FOR":
			err = c.execFor(tokens, &i)
		case tok.Command == "START":
			err = c.execStart(tokens, &i)
		case tok.Command == "WHILE":
			err = c.execWhile(tokens, &i)
		case tok.Command == "DO":
			err = c.execDo(tokens, &i)
		default:
			err = c.dispatch(tok.Command)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// dispatch resolves a command token: built-in first, then innermost
// local frame, then current-directory variable (programs execute,
// everything else pushes).
func (c *Context) dispatch(cmd string) error {
	if fn := getBuiltin(cmd); fn != nil {
		return fn(c)
	}
	if v, ok := c.resolveLocal(cmd); ok {
		return c.push(v)
	}
	dir, err := c.store.CurrentDir()
	if err != nil {
		return err
	}
	v, err := c.store.RecallVar(dir, cmd)
	if err != nil {
		var ve value.Error
		if errors.As(err, &ve) && ve.Code == value.CodeUndefinedName {
			return value.Errf(value.CodeUnknownCommand, "Unknown command: %s", cmd)
		}
		return err
	}
	if p, ok := v.(value.Program); ok {
		return c.executeTokens(p.Tokens)
	}
	return c.push(v)
}

// collectUntil gathers tokens from *i until one of the stop keywords at
// nesting depth zero. Openers push the closer they expect: END for
// IF/CASE/WHILE/DO, NEXT or STEP for FOR/START.
func collectUntil(tokens []value.Token, i *int, stops ...string) ([]value.Token, error) {
	var collected []value.Token
	var nest []byte
	for *i < len(tokens) {
		t := tokens[*i]
		if t.Kind == value.TokenCommand {
			if len(nest) == 0 {
				for _, kw := range stops {
					if t.Command == kw {
						return collected, nil
					}
				}
			}
			switch t.Command {
			case "IF", "CASE", "WHILE", "DO":
				nest = append(nest, 'E')
			case "FOR", "START":
				nest = append(nest, 'N')
			}
			if len(nest) > 0 {
				last := nest[len(nest)-1]
				if last == 'E' && t.Command == "END" {
					nest = nest[:len(nest)-1]
				} else if last == 'N' && (t.Command == "NEXT" || t.Command == "STEP") {
					nest = nest[:len(nest)-1]
				}
			}
		}
		collected = append(collected, t)
		*i++
	}
	return nil, value.Errf(value.CodeStructural, "unexpected end of input in control structure")
}

// popCondition pops a numeric value and reports its truthiness.
func (c *Context) popCondition(construct string) (bool, error) {
	d, err := c.store.Depth()
	if err != nil {
		return false, err
	}
	if d < 1 {
		return false, value.Errf(value.CodeStructural, "%s: missing condition result", construct)
	}
	v, err := c.pop()
	if err != nil {
		return false, err
	}
	if !value.IsNumeric(v) {
		return false, value.ErrBadType()
	}
	return value.IsTruthy(v), nil
}

// --- Arrow binding ---

// execArrow binds runstream parameters: command tokens after the arrow
// name the parameters, the first following literal (Symbol or Program)
// is the body. One value pops per name; the first name binds deepest.
func (c *Context) execArrow(tokens []value.Token, i *int) error {
	var names []string
	*i++
	for *i < len(tokens) && tokens[*i].Kind == value.TokenCommand {
		names = append(names, tokens[*i].Command)
		*i++
	}
	if *i >= len(tokens) {
		return value.Errf(value.CodeStructural, "-> missing body")
	}
	if len(names) == 0 {
		return value.Errf(value.CodeStructural, "-> requires at least one variable name")
	}
	if err := c.need(len(names)); err != nil {
		return err
	}

	vals := make([]value.Value, len(names))
	for j := len(names) - 1; j >= 0; j-- {
		v, err := c.pop()
		if err != nil {
			return err
		}
		vals[j] = v
	}
	frame := make(map[string]value.Value, len(names))
	for j, name := range names {
		frame[name] = vals[j]
	}

	body := tokens[*i].Lit
	c.pushLocals(frame)
	defer c.popLocals()

	switch b := body.(type) {
	case value.Program:
		return c.executeTokens(b.Tokens)
	case value.Symbol:
		if err := c.push(b); err != nil {
			return err
		}
		return c.evalValue()
	default:
		return value.Errf(value.CodeStructural, "-> body must be a symbol or program")
	}
}

// --- Structured control flow ---

func (c *Context) execIf(tokens []value.Token, i *int) error {
	*i++
	cond, err := collectUntil(tokens, i, "THEN")
	if err != nil {
		return err
	}
	*i++ // THEN
	thenBody, err := collectUntil(tokens, i, "ELSE", "END")
	if err != nil {
		return err
	}
	var elseBody []value.Token
	if *i < len(tokens) && tokens[*i].Kind == value.TokenCommand && tokens[*i].Command == "ELSE" {
		*i++
		elseBody, err = collectUntil(tokens, i, "END")
		if err != nil {
			return err
		}
	}
	// *i rests on END; the caller's loop steps past it.

	if err := c.executeTokens(cond); err != nil {
		return err
	}
	truthy, err := c.popCondition("IF")
	if err != nil {
		return err
	}
	if truthy {
		return c.executeTokens(thenBody)
	}
	if len(elseBody) > 0 {
		return c.executeTokens(elseBody)
	}
	return nil
}

func (c *Context) execCase(tokens []value.Token, i *int) error {
	*i++
	matched := false
	for *i < len(tokens) {
		t := tokens[*i]
		if t.Kind == value.TokenCommand && t.Command == "END" {
			return nil // closes CASE
		}
		test, err := collectUntil(tokens, i, "THEN", "END")
		if err != nil {
			return err
		}
		if *i < len(tokens) && tokens[*i].Kind == value.TokenCommand && tokens[*i].Command == "END" {
			// No THEN before END: this is the default clause.
			if !matched {
				if err := c.executeTokens(test); err != nil {
					return err
				}
			}
			return nil
		}
		*i++ // THEN
		body, err := collectUntil(tokens, i, "END")
		if err != nil {
			return err
		}
		*i++ // END closing this clause

		if !matched {
			if err := c.executeTokens(test); err != nil {
				return err
			}
			truthy, err := c.popCondition("CASE")
			if err != nil {
				return err
			}
			if truthy {
				if err := c.executeTokens(body); err != nil {
					return err
				}
				matched = true
			}
		}
	}
	return value.Errf(value.CodeStructural, "CASE: missing END")
}

// loopCounter pops end then start and converts both for counting.
func (c *Context) loopCounter(construct string) (start, end decimal.Decimal, useInt bool, err error) {
	if err = c.need(2); err != nil {
		return
	}
	endObj, err := c.pop()
	if err != nil {
		return
	}
	startObj, err := c.pop()
	if err != nil {
		return
	}
	toCounter := func(v value.Value) (decimal.Decimal, error) {
		switch n := v.(type) {
		case value.Integer:
			return decimal.NewFromBigInt(n.X, 0), nil
		case value.Real:
			return n.X, nil
		}
		return decimal.Zero, value.ErrBadType()
	}
	if end, err = toCounter(endObj); err != nil {
		c.pushBack(startObj, endObj)
		return
	}
	if start, err = toCounter(startObj); err != nil {
		c.pushBack(startObj, endObj)
		return
	}
	_, useInt = startObj.(value.Integer)
	return
}

// popStep pops the step value pushed by the loop body.
func (c *Context) popStep() (decimal.Decimal, error) {
	d, err := c.store.Depth()
	if err != nil {
		return decimal.Zero, err
	}
	if d < 1 {
		return decimal.Zero, value.Errf(value.CodeStructural, "STEP: missing step value")
	}
	v, err := c.pop()
	if err != nil {
		return decimal.Zero, err
	}
	s, err := value.ToReal(v)
	if err != nil {
		return decimal.Zero, err
	}
	return s, nil
}

func crossed(counter, end, step decimal.Decimal) bool {
	if step.Sign() > 0 {
		return counter.Cmp(end) > 0
	}
	if step.Sign() < 0 {
		return counter.Cmp(end) < 0
	}
	return false
}

func (c *Context) execFor(tokens []value.Token, i *int) error {
	*i++
	if *i >= len(tokens) || tokens[*i].Kind != value.TokenCommand {
		return value.Errf(value.CodeStructural, "FOR: expected variable name")
	}
	varName := tokens[*i].Command
	*i++
	body, err := collectUntil(tokens, i, "NEXT", "STEP")
	if err != nil {
		return err
	}
	hasStep := tokens[*i].Command == "STEP"

	start, end, useInt, err := c.loopCounter("FOR")
	if err != nil {
		return err
	}
	counter := start
	step := decimal.NewFromInt(1)
	first := true

	for {
		// With STEP the increment is unknown on entry, so the first
		// iteration always runs.
		if !first || !hasStep {
			if crossed(counter, end, step) {
				break
			}
		}
		first = false

		frame := map[string]value.Value{}
		if useInt {
			frame[varName] = value.Integer{X: counter.BigInt()}
		} else {
			frame[varName] = value.Real{X: counter}
		}
		c.pushLocals(frame)
		err := c.executeTokens(body)
		c.popLocals()
		if err != nil {
			return err
		}

		if hasStep {
			if step, err = c.popStep(); err != nil {
				return err
			}
		}
		counter = counter.Add(step)
	}
	return nil
}

func (c *Context) execStart(tokens []value.Token, i *int) error {
	*i++
	body, err := collectUntil(tokens, i, "NEXT", "STEP")
	if err != nil {
		return err
	}
	hasStep := tokens[*i].Command == "STEP"

	start, end, _, err := c.loopCounter("START")
	if err != nil {
		return err
	}
	counter := start
	step := decimal.NewFromInt(1)
	first := true

	for {
		if !first || !hasStep {
			if crossed(counter, end, step) {
				break
			}
		}
		first = false

		if err := c.executeTokens(body); err != nil {
			return err
		}
		if hasStep {
			if step, err = c.popStep(); err != nil {
				return err
			}
		}
		counter = counter.Add(step)
	}
	return nil
}

func (c *Context) execWhile(tokens []value.Token, i *int) error {
	*i++
	cond, err := collectUntil(tokens, i, "REPEAT")
	if err != nil {
		return err
	}
	*i++ // REPEAT
	body, err := collectUntil(tokens, i, "END")
	if err != nil {
		return err
	}

	for {
		if err := c.executeTokens(cond); err != nil {
			return err
		}
		truthy, err := c.popCondition("WHILE")
		if err != nil {
			return err
		}
		if !truthy {
			return nil
		}
		if err := c.executeTokens(body); err != nil {
			return err
		}
	}
}

func (c *Context) execDo(tokens []value.Token, i *int) error {
	*i++
	body, err := collectUntil(tokens, i, "UNTIL")
	if err != nil {
		return err
	}
	*i++ // UNTIL
	cond, err := collectUntil(tokens, i, "END")
	if err != nil {
		return err
	}

	for {
		if err := c.executeTokens(body); err != nil {
			return err
		}
		if err := c.executeTokens(cond); err != nil {
			return err
		}
		truthy, err := c.popCondition("UNTIL")
		if err != nil {
			return err
		}
		if truthy {
			return nil
		}
	}
}

// evalValue implements EVAL: programs execute, names recall and
// re-dispatch, symbols run the expression evaluator, everything else
// pushes back unchanged.
func (c *Context) evalValue() error {
	if err := c.need(1); err != nil {
		return err
	}
	v, err := c.pop()
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case value.Program:
		return c.executeTokens(x.Tokens)
	case value.Name:
		dir, err := c.store.CurrentDir()
		if err != nil {
			return err
		}
		val, err := c.store.RecallVar(dir, x.Value)
		if err != nil {
			c.pushBack(v)
			return err
		}
		if p, ok := val.(value.Program); ok {
			return c.executeTokens(p.Tokens)
		}
		return c.push(val)
	case value.Symbol:
		result, err := expr.Eval(x.Value, c.exprResolver)
		if err != nil {
			return err
		}
		return c.push(result)
	default:
		return c.push(v)
	}
}
