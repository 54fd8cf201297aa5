package eval

import (
	"strings"

	"github.com/lennyitb/lpr-runtime/internal/value"
)

// popName pops a Name operand, restoring the stack when the operand has
// the wrong variant.
func (c *Context) popName() (string, error) {
	nameObj, err := c.pop()
	if err != nil {
		return "", err
	}
	name, ok := nameObj.(value.Name)
	if !ok {
		c.pushBack(nameObj)
		return "", value.ErrBadType()
	}
	return name.Value, nil
}

// STO: ( value 'name' -- ), upserts.
func builtinSto(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	nameObj, err := c.pop()
	if err != nil {
		return err
	}
	val, err := c.pop()
	if err != nil {
		return err
	}
	name, ok := nameObj.(value.Name)
	if !ok {
		c.pushBack(val, nameObj)
		return value.ErrBadType()
	}
	dir, err := c.store.CurrentDir()
	if err != nil {
		return err
	}
	return c.store.StoreVar(dir, name.Value, val)
}

func builtinRcl(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	name, err := c.popName()
	if err != nil {
		return err
	}
	dir, err := c.store.CurrentDir()
	if err != nil {
		return err
	}
	v, err := c.store.RecallVar(dir, name)
	if err != nil {
		c.pushBack(value.Name{Value: name})
		return err
	}
	return c.push(v)
}

func builtinPurge(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	name, err := c.popName()
	if err != nil {
		return err
	}
	dir, err := c.store.CurrentDir()
	if err != nil {
		return err
	}
	_, err = c.store.PurgeVar(dir, name)
	return err
}

func builtinHome(c *Context) error {
	home, err := c.store.HomeDir()
	if err != nil {
		return err
	}
	return c.store.SetCurrentDir(home)
}

// PATH pushes "HOME"; there is no traversal beyond the current
// directory and HOME.
func builtinPath(c *Context) error {
	return c.push(value.String{Value: "HOME"})
}

func builtinCrdir(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	name, err := c.popName()
	if err != nil {
		return err
	}
	dir, err := c.store.CurrentDir()
	if err != nil {
		return err
	}
	_, err = c.store.CreateDir(dir, name)
	return err
}

func builtinVars(c *Context) error {
	dir, err := c.store.CurrentDir()
	if err != nil {
		return err
	}
	names, err := c.store.ListVars(dir)
	if err != nil {
		return err
	}
	return c.push(value.String{Value: "{ " + strings.Join(names, " ") + " }"})
}

// --- Program ops ---

func builtinEval(c *Context) error {
	return c.evalValue()
}

// IFT: ( then cond -- ), executes then when cond is truthy.
func builtinIft(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	cond, err := c.pop()
	if err != nil {
		return err
	}
	thenObj, err := c.pop()
	if err != nil {
		return err
	}
	if !value.IsNumeric(cond) {
		c.pushBack(thenObj, cond)
		return value.ErrBadType()
	}
	if !value.IsTruthy(cond) {
		return nil
	}
	if p, ok := thenObj.(value.Program); ok {
		return c.executeTokens(p.Tokens)
	}
	return c.push(thenObj)
}

// IFTE: ( else then cond -- ), picks by truthiness of cond.
func builtinIfte(c *Context) error {
	if err := c.need(3); err != nil {
		return err
	}
	cond, err := c.pop()
	if err != nil {
		return err
	}
	thenObj, err := c.pop()
	if err != nil {
		return err
	}
	elseObj, err := c.pop()
	if err != nil {
		return err
	}
	if !value.IsNumeric(cond) {
		c.pushBack(elseObj, thenObj, cond)
		return value.ErrBadType()
	}
	chosen := elseObj
	if value.IsTruthy(cond) {
		chosen = thenObj
	}
	if p, ok := chosen.(value.Program); ok {
		return c.executeTokens(p.Tokens)
	}
	return c.push(chosen)
}
