package eval

import (
	"math"
	"math/big"

	"github.com/lennyitb/lpr-runtime/internal/parser"
	"github.com/lennyitb/lpr-runtime/internal/value"
)

func isSymbolic(v value.Value) bool {
	switch v.(type) {
	case value.Name, value.Symbol:
		return true
	}
	return false
}

// exprString renders an operand for embedding in a symbolic expression.
func exprString(v value.Value) string {
	switch x := v.(type) {
	case value.Name:
		return x.Value
	case value.Symbol:
		return x.Value
	}
	return v.Repr()
}

// needsParens reports whether an expression must be parenthesized as an
// operand of an operator with the given precedence: it scans the
// top-level operators of the expression for a weaker binding.
func needsParens(expr string, outerPrec int) bool {
	depth := 0
	minPrec := 10
	for _, r := range expr {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '+', '-':
			if depth == 0 && minPrec > 1 {
				minPrec = 1
			}
		case '*', '/':
			if depth == 0 && minPrec > 2 {
				minPrec = 2
			}
		}
	}
	return minPrec < outerPrec
}

// symbolicBinary composes an infix Symbol from two operands.
func symbolicBinary(a, b value.Value, op string) value.Symbol {
	sa := exprString(a)
	sb := exprString(b)
	prec := 2
	if op == "+" || op == "-" {
		prec = 1
	}
	if needsParens(sa, prec) {
		sa = "(" + sa + ")"
	}
	if needsParens(sb, prec) {
		sb = "(" + sb + ")"
	}
	return value.Symbol{Value: sa + op + sb}
}

// binaryOp pops two operands and pushes the result of a numeric op,
// with the symbolic composition overload shared by + - * /.
func (c *Context) binaryOp(op string, apply func(a, b value.Value) (value.Value, error)) error {
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
	if isSymbolic(a) || isSymbolic(b) {
		return c.push(symbolicBinary(a, b, op))
	}
	result, err := apply(a, b)
	if err != nil {
		c.pushBack(a, b)
		return err
	}
	return c.push(result)
}

// With two Strings, + concatenates; mixing a String with anything else
// is a type error rather than a stringification.
func builtinAdd(c *Context) error {
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
	sa, aIsStr := a.(value.String)
	sb, bIsStr := b.(value.String)
	if aIsStr && bIsStr {
		return c.push(value.String{Value: sa.Value + sb.Value})
	}
	if aIsStr || bIsStr {
		c.pushBack(a, b)
		return value.ErrBadType()
	}
	if isSymbolic(a) || isSymbolic(b) {
		return c.push(symbolicBinary(a, b, "+"))
	}
	result, err := value.Add(a, b)
	if err != nil {
		c.pushBack(a, b)
		return err
	}
	return c.push(result)
}

func builtinSub(c *Context) error { return c.binaryOp("-", value.Sub) }
func builtinMul(c *Context) error { return c.binaryOp("*", value.Mul) }
func builtinDiv(c *Context) error { return c.binaryOp("/", value.Div) }

func builtinNeg(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	if isSymbolic(a) {
		// Negation always parenthesizes its operand.
		return c.push(value.Symbol{Value: "-(" + exprString(a) + ")"})
	}
	result, err := value.Neg(a)
	if err != nil {
		c.pushBack(a)
		return err
	}
	return c.push(result)
}

func builtinInv(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	if value.IsNumeric(a) && value.IsZero(a) {
		c.pushBack(a)
		return value.ErrDivZero()
	}
	result, err := value.Div(value.NewInt(1), a)
	if err != nil {
		c.pushBack(a)
		return err
	}
	return c.push(result)
}

func builtinAbs(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	switch x := a.(type) {
	case value.Integer:
		return c.push(value.Integer{X: new(big.Int).Abs(x.X)})
	case value.Rational:
		return c.push(value.Rational{X: new(big.Rat).Abs(x.X)})
	case value.Real:
		return c.push(value.Real{X: x.X.Abs()})
	case value.Complex:
		// |z| = sqrt(re² + im²)
		mag := x.Re.Mul(x.Re).Add(x.Im.Mul(x.Im))
		return c.push(value.RealFromFloat(math.Sqrt(mag.InexactFloat64())))
	}
	c.pushBack(a)
	return value.ErrBadType()
}

func builtinMod(c *Context) error {
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
	ia, aOk := a.(value.Integer)
	ib, bOk := b.(value.Integer)
	if !aOk || !bOk {
		c.pushBack(a, b)
		return value.ErrBadType()
	}
	if ib.X.Sign() == 0 {
		c.pushBack(a, b)
		return value.ErrDivZero()
	}
	return c.push(value.Integer{X: new(big.Int).Rem(ia.X, ib.X)})
}

func builtinSq(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	result, err := value.Mul(a, a)
	if err != nil {
		c.pushBack(a)
		return err
	}
	return c.push(result)
}

// --- Comparison ---

// compareOp pops two numeric operands and pushes Integer 0 or 1.
func (c *Context) compareOp(pred func(cmp int) bool) error {
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
	cmp, err := value.Cmp(a, b)
	if err != nil {
		c.pushBack(a, b)
		return err
	}
	if pred(cmp) {
		return c.push(value.NewInt(1))
	}
	return c.push(value.NewInt(0))
}

func builtinEq(c *Context) error { return c.compareOp(func(n int) bool { return n == 0 }) }
func builtinNe(c *Context) error { return c.compareOp(func(n int) bool { return n != 0 }) }
func builtinLt(c *Context) error { return c.compareOp(func(n int) bool { return n < 0 }) }
func builtinGt(c *Context) error { return c.compareOp(func(n int) bool { return n > 0 }) }
func builtinLe(c *Context) error { return c.compareOp(func(n int) bool { return n <= 0 }) }
func builtinGe(c *Context) error { return c.compareOp(func(n int) bool { return n >= 0 }) }

// --- Type ops ---

func builtinType(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	return c.push(value.NewInt(int64(a.Tag())))
}

func builtinToNum(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	switch a.(type) {
	case value.Integer, value.Rational:
		d, err := value.ToReal(a)
		if err != nil {
			c.pushBack(a)
			return err
		}
		return c.push(value.Real{X: d})
	case value.Real:
		return c.push(a)
	}
	c.pushBack(a)
	return value.ErrBadType()
}

func builtinToStr(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	return c.push(value.String{Value: a.Repr()})
}

// STR→ parses the string operand and executes the resulting tokens in
// the current context.
func builtinStrEval(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	s, ok := a.(value.String)
	if !ok {
		c.pushBack(a)
		return value.ErrBadType()
	}
	return c.executeTokens(parser.Parse(s.Value))
}
