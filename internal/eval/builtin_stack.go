package eval

import (
	"github.com/lennyitb/lpr-runtime/internal/value"
)

func builtinDup(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	top, err := c.store.Peek(1)
	if err != nil {
		return err
	}
	return c.push(top)
}

func builtinDrop(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	_, err := c.pop()
	return err
}

func builtinSwap(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	a, err := c.pop() // level 1
	if err != nil {
		return err
	}
	b, err := c.pop() // level 2
	if err != nil {
		return err
	}
	c.pushBack(a, b)
	return nil
}

func builtinOver(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	lv2, err := c.store.Peek(2)
	if err != nil {
		return err
	}
	return c.push(lv2)
}

// ROT: ( a b c -- b c a )
func builtinRot(c *Context) error {
	if err := c.need(3); err != nil {
		return err
	}
	z, _ := c.pop()
	y, _ := c.pop()
	x, err := c.pop()
	if err != nil {
		return err
	}
	c.pushBack(y, z, x)
	return nil
}

// UNROT: ( a b c -- c a b )
func builtinUnrot(c *Context) error {
	if err := c.need(3); err != nil {
		return err
	}
	z, _ := c.pop()
	y, _ := c.pop()
	x, err := c.pop()
	if err != nil {
		return err
	}
	c.pushBack(z, x, y)
	return nil
}

func builtinClear(c *Context) error {
	return c.store.ClearStack()
}

func builtinDepth(c *Context) error {
	d, err := c.store.Depth()
	if err != nil {
		return err
	}
	return c.push(value.NewInt(int64(d)))
}

// DUP2: ( a b -- a b a b )
func builtinDup2(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	lv2, err := c.store.Peek(2)
	if err != nil {
		return err
	}
	lv1, err := c.store.Peek(1)
	if err != nil {
		return err
	}
	c.pushBack(lv2, lv1)
	return nil
}

func builtinDrop2(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	if _, err := c.pop(); err != nil {
		return err
	}
	_, err := c.pop()
	return err
}

// popCount pops a non-negative Integer count/index from the top.
func (c *Context) popCount(min int) (int, value.Value, error) {
	if err := c.need(1); err != nil {
		return 0, nil, err
	}
	nObj, err := c.pop()
	if err != nil {
		return 0, nil, err
	}
	n, ok := nObj.(value.Integer)
	if !ok || !n.X.IsInt64() {
		c.pushBack(nObj)
		return 0, nil, value.ErrBadType()
	}
	k := int(n.X.Int64())
	if k < min {
		c.pushBack(nObj)
		return 0, nil, value.ErrTooFew()
	}
	d, err := c.store.Depth()
	if err != nil {
		return 0, nil, err
	}
	if d < k {
		c.pushBack(nObj)
		return 0, nil, value.ErrTooFew()
	}
	return k, nObj, nil
}

// DUPN: ( x1..xn n -- x1..xn x1..xn )
func builtinDupN(c *Context) error {
	n, _, err := c.popCount(0)
	if err != nil {
		return err
	}
	items := make([]value.Value, 0, n)
	for i := n; i >= 1; i-- {
		v, err := c.store.Peek(i)
		if err != nil {
			return err
		}
		items = append(items, v)
	}
	for _, v := range items {
		if err := c.push(v); err != nil {
			return err
		}
	}
	return nil
}

// DROPN: ( x1..xn n -- )
func builtinDropN(c *Context) error {
	n, _, err := c.popCount(0)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, err := c.pop(); err != nil {
			return err
		}
	}
	return nil
}

// PICK: ( ..xn..x1 n -- ..xn..x1 xn )
func builtinPick(c *Context) error {
	n, _, err := c.popCount(1)
	if err != nil {
		return err
	}
	v, err := c.store.Peek(n)
	if err != nil {
		return err
	}
	return c.push(v)
}

// ROLL: ( xn xn-1..x1 n -- xn-1..x1 xn )
func builtinRoll(c *Context) error {
	n, _, err := c.popCount(1)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	saved := make([]value.Value, 0, n-1)
	for i := 0; i < n-1; i++ {
		v, err := c.pop()
		if err != nil {
			return err
		}
		saved = append(saved, v)
	}
	target, err := c.pop()
	if err != nil {
		return err
	}
	for i := len(saved) - 1; i >= 0; i-- {
		if err := c.push(saved[i]); err != nil {
			return err
		}
	}
	return c.push(target)
}

// ROLLD: ( xn xn-1..x1 n -- x1 xn xn-1..x2 )
func builtinRollD(c *Context) error {
	n, _, err := c.popCount(1)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	top, err := c.pop()
	if err != nil {
		return err
	}
	rest := make([]value.Value, 0, n-1)
	for i := 0; i < n-1; i++ {
		v, err := c.pop()
		if err != nil {
			return err
		}
		rest = append(rest, v)
	}
	if err := c.push(top); err != nil {
		return err
	}
	for i := len(rest) - 1; i >= 0; i-- {
		if err := c.push(rest[i]); err != nil {
			return err
		}
	}
	return nil
}

// UNPICK: ( ..xn..x1 obj n -- ..obj..x1 )
func builtinUnpick(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	nObj, err := c.pop()
	if err != nil {
		return err
	}
	n, ok := nObj.(value.Integer)
	if !ok || !n.X.IsInt64() {
		c.pushBack(nObj)
		return value.ErrBadType()
	}
	k := int(n.X.Int64())
	obj, err := c.pop()
	if err != nil {
		return err
	}
	d, err := c.store.Depth()
	if err != nil {
		return err
	}
	if k < 1 || d < k {
		c.pushBack(obj, nObj)
		return value.ErrTooFew()
	}
	saved := make([]value.Value, 0, k-1)
	for i := 0; i < k-1; i++ {
		v, err := c.pop()
		if err != nil {
			return err
		}
		saved = append(saved, v)
	}
	if _, err := c.pop(); err != nil { // discard the item at level k
		return err
	}
	if err := c.push(obj); err != nil {
		return err
	}
	for i := len(saved) - 1; i >= 0; i-- {
		if err := c.push(saved[i]); err != nil {
			return err
		}
	}
	return nil
}
