package eval

import (
	"math/big"

	"github.com/lennyitb/lpr-runtime/internal/value"
)

// popInt2 pops two Integer operands (b was level 1).
func (c *Context) popInt2() (a, b value.Integer, err error) {
	if err = c.need(2); err != nil {
		return
	}
	bObj, err := c.pop()
	if err != nil {
		return
	}
	aObj, err := c.pop()
	if err != nil {
		return
	}
	var aOk, bOk bool
	a, aOk = aObj.(value.Integer)
	b, bOk = bObj.(value.Integer)
	if !aOk || !bOk {
		c.pushBack(aObj, bObj)
		err = value.ErrBadType()
	}
	return
}

func (c *Context) popInt1() (value.Integer, error) {
	if err := c.need(1); err != nil {
		return value.Integer{}, err
	}
	aObj, err := c.pop()
	if err != nil {
		return value.Integer{}, err
	}
	a, ok := aObj.(value.Integer)
	if !ok {
		c.pushBack(aObj)
		return value.Integer{}, value.ErrBadType()
	}
	return a, nil
}

func boolInt(b bool) value.Integer {
	if b {
		return value.NewInt(1)
	}
	return value.NewInt(0)
}

// Boolean logic on integers: zero is false, nonzero true, results 0/1.

func builtinAnd(c *Context) error {
	a, b, err := c.popInt2()
	if err != nil {
		return err
	}
	return c.push(boolInt(a.X.Sign() != 0 && b.X.Sign() != 0))
}

func builtinOr(c *Context) error {
	a, b, err := c.popInt2()
	if err != nil {
		return err
	}
	return c.push(boolInt(a.X.Sign() != 0 || b.X.Sign() != 0))
}

func builtinNot(c *Context) error {
	a, err := c.popInt1()
	if err != nil {
		return err
	}
	return c.push(boolInt(a.X.Sign() == 0))
}

func builtinXor(c *Context) error {
	a, b, err := c.popInt2()
	if err != nil {
		return err
	}
	return c.push(boolInt((a.X.Sign() != 0) != (b.X.Sign() != 0)))
}

// Bitwise on integers.

func builtinBand(c *Context) error {
	a, b, err := c.popInt2()
	if err != nil {
		return err
	}
	return c.push(value.Integer{X: new(big.Int).And(a.X, b.X)})
}

func builtinBor(c *Context) error {
	a, b, err := c.popInt2()
	if err != nil {
		return err
	}
	return c.push(value.Integer{X: new(big.Int).Or(a.X, b.X)})
}

func builtinBxor(c *Context) error {
	a, b, err := c.popInt2()
	if err != nil {
		return err
	}
	return c.push(value.Integer{X: new(big.Int).Xor(a.X, b.X)})
}

func builtinBnot(c *Context) error {
	a, err := c.popInt1()
	if err != nil {
		return err
	}
	return c.push(value.Integer{X: new(big.Int).Not(a.X)})
}

// popShift pops the shift amount for SL/SR/ASR.
func (c *Context) popShift() (x value.Integer, shift uint, err error) {
	a, b, err := c.popInt2()
	if err != nil {
		return
	}
	if b.X.Sign() < 0 || !b.X.IsUint64() {
		c.pushBack(a, b)
		err = value.ErrBadValue()
		return
	}
	return a, uint(b.X.Uint64()), nil
}

func builtinSl(c *Context) error {
	a, shift, err := c.popShift()
	if err != nil {
		return err
	}
	return c.push(value.Integer{X: new(big.Int).Lsh(a.X, shift)})
}

func builtinSr(c *Context) error {
	a, shift, err := c.popShift()
	if err != nil {
		return err
	}
	return c.push(value.Integer{X: new(big.Int).Rsh(a.X, shift)})
}

// ASR is the same as SR on arbitrary-precision integers: the shift is
// sign-extending.
func builtinAsr(c *Context) error {
	return builtinSr(c)
}

func builtinSame(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	b, err := c.pop()
	if err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	return c.push(boolInt(value.Same(a, b)))
}
