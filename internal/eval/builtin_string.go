package eval

import (
	"strings"

	"github.com/lennyitb/lpr-runtime/internal/value"
)

// popString pops a String operand. On a wrong variant it restores the
// stack: the popped operand goes back first, then the shallower
// operands in `also` in their original order.
func (c *Context) popString(also ...value.Value) (string, value.Value, error) {
	a, err := c.pop()
	if err != nil {
		return "", nil, err
	}
	s, ok := a.(value.String)
	if !ok {
		c.pushBack(a)
		c.pushBack(also...)
		return "", nil, value.ErrBadType()
	}
	return s.Value, a, nil
}

func builtinSize(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	s, _, err := c.popString()
	if err != nil {
		return err
	}
	return c.push(value.NewInt(int64(len(s))))
}

func builtinHead(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	s, obj, err := c.popString()
	if err != nil {
		return err
	}
	if s == "" {
		c.pushBack(obj)
		return value.ErrBadValue()
	}
	return c.push(value.String{Value: s[:1]})
}

func builtinTail(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	s, obj, err := c.popString()
	if err != nil {
		return err
	}
	if s == "" {
		c.pushBack(obj)
		return value.ErrBadValue()
	}
	return c.push(value.String{Value: s[1:]})
}

// SUB: ( "str" start end -- "substr" ), 1-based inclusive, clamped;
// start > end yields the empty string.
func builtinSubstr(c *Context) error {
	if err := c.need(3); err != nil {
		return err
	}
	endObj, err := c.pop()
	if err != nil {
		return err
	}
	startObj, err := c.pop()
	if err != nil {
		return err
	}
	strObj, err := c.pop()
	if err != nil {
		return err
	}
	s, sOk := strObj.(value.String)
	startI, startOk := startObj.(value.Integer)
	endI, endOk := endObj.(value.Integer)
	if !sOk || !startOk || !endOk || !startI.X.IsInt64() || !endI.X.IsInt64() {
		c.pushBack(strObj, startObj, endObj)
		return value.ErrBadType()
	}
	start := int(startI.X.Int64())
	end := int(endI.X.Int64())
	if start < 1 {
		start = 1
	}
	if end > len(s.Value) {
		end = len(s.Value)
	}
	if start > end {
		return c.push(value.String{Value: ""})
	}
	return c.push(value.String{Value: s.Value[start-1 : end]})
}

// POS: ( "str" "search" -- pos ), 1-based, 0 when absent.
func builtinPos(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	search, searchObj, err := c.popString()
	if err != nil {
		return err
	}
	s, _, err := c.popString(searchObj)
	if err != nil {
		return err
	}
	return c.push(value.NewInt(int64(strings.Index(s, search) + 1)))
}

// REPL: ( "str" "search" "replace" -- "result" ), first occurrence.
func builtinRepl(c *Context) error {
	if err := c.need(3); err != nil {
		return err
	}
	repl, replObj, err := c.popString()
	if err != nil {
		return err
	}
	search, searchObj, err := c.popString(replObj)
	if err != nil {
		return err
	}
	s, _, err := c.popString(searchObj, replObj)
	if err != nil {
		return err
	}
	return c.push(value.String{Value: strings.Replace(s, search, repl, 1)})
}

// NUM: ( "str" -- codepoint ), first byte.
func builtinNum(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	s, obj, err := c.popString()
	if err != nil {
		return err
	}
	if s == "" {
		c.pushBack(obj)
		return value.ErrBadValue()
	}
	return c.push(value.NewInt(int64(s[0])))
}

// CHR: ( codepoint -- "c" ), 7-bit only.
func builtinChr(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	n, ok := a.(value.Integer)
	if !ok {
		c.pushBack(a)
		return value.ErrBadType()
	}
	if !n.X.IsInt64() || n.X.Int64() < 0 || n.X.Int64() > 127 {
		c.pushBack(a)
		return value.ErrBadValue()
	}
	return c.push(value.String{Value: string(byte(n.X.Int64()))})
}
