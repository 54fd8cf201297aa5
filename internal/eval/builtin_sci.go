package eval

import (
	"math"
	"math/big"

	"github.com/lennyitb/lpr-runtime/internal/value"
)

// High-precision constants pushed by PI and E.
const (
	piDigits = "3.14159265358979323846264338327950288419716939937510"
	eDigits  = "2.71828182845904523536028747135266249775724709369995"
)

const angleModeKey = "angle_mode"

func builtinDegMode(c *Context) error  { return c.store.SetMeta(angleModeKey, "DEG") }
func builtinRadMode(c *Context) error  { return c.store.SetMeta(angleModeKey, "RAD") }
func builtinGradMode(c *Context) error { return c.store.SetMeta(angleModeKey, "GRAD") }

func (c *Context) angleMode() string {
	mode, err := c.store.Meta(angleModeKey)
	if err != nil || mode == "" {
		return "RAD"
	}
	return mode
}

// toRadians converts from the current angle mode into radians.
func (c *Context) toRadians(v float64) float64 {
	switch c.angleMode() {
	case "DEG":
		return v * math.Pi / 180
	case "GRAD":
		return v * math.Pi / 200
	}
	return v
}

// fromRadians converts radians into the current angle mode.
func (c *Context) fromRadians(v float64) float64 {
	switch c.angleMode() {
	case "DEG":
		return v * 180 / math.Pi
	case "GRAD":
		return v * 200 / math.Pi
	}
	return v
}

// popFloat pops one Integer/Rational/Real operand as a machine float.
func (c *Context) popFloat() (float64, value.Value, error) {
	if err := c.need(1); err != nil {
		return 0, nil, err
	}
	a, err := c.pop()
	if err != nil {
		return 0, nil, err
	}
	f, err := value.ToFloat(a)
	if err != nil {
		c.pushBack(a)
		return 0, nil, err
	}
	return f, a, nil
}

// unaryFloat applies an angle-agnostic float function.
func (c *Context) unaryFloat(fn func(float64) (float64, error)) error {
	f, a, err := c.popFloat()
	if err != nil {
		return err
	}
	r, err := fn(f)
	if err != nil {
		c.pushBack(a)
		return err
	}
	return c.push(value.RealFromFloat(r))
}

// forwardTrig converts the input from the current angle mode to radians.
func (c *Context) forwardTrig(fn func(float64) float64) error {
	return c.unaryFloat(func(f float64) (float64, error) {
		return fn(c.toRadians(f)), nil
	})
}

// inverseTrig converts the radian output into the current angle mode.
func (c *Context) inverseTrig(fn func(float64) float64, domain func(float64) bool) error {
	return c.unaryFloat(func(f float64) (float64, error) {
		if domain != nil && !domain(f) {
			return 0, value.ErrBadValue()
		}
		return c.fromRadians(fn(f)), nil
	})
}

func builtinSin(c *Context) error { return c.forwardTrig(math.Sin) }
func builtinCos(c *Context) error { return c.forwardTrig(math.Cos) }
func builtinTan(c *Context) error { return c.forwardTrig(math.Tan) }

func inUnitInterval(f float64) bool { return f >= -1 && f <= 1 }

func builtinAsin(c *Context) error { return c.inverseTrig(math.Asin, inUnitInterval) }
func builtinAcos(c *Context) error { return c.inverseTrig(math.Acos, inUnitInterval) }
func builtinAtan(c *Context) error { return c.inverseTrig(math.Atan, nil) }

// ATAN2: ( y x -- angle )
func builtinAtan2(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	bObj, err := c.pop()
	if err != nil {
		return err
	}
	aObj, err := c.pop()
	if err != nil {
		return err
	}
	y, errY := value.ToFloat(aObj)
	x, errX := value.ToFloat(bObj)
	if errY != nil || errX != nil {
		c.pushBack(aObj, bObj)
		return value.ErrBadType()
	}
	return c.push(value.RealFromFloat(c.fromRadians(math.Atan2(y, x))))
}

func builtinExp(c *Context) error {
	return c.unaryFloat(func(f float64) (float64, error) { return math.Exp(f), nil })
}

func builtinLn(c *Context) error {
	return c.unaryFloat(func(f float64) (float64, error) {
		if f <= 0 {
			return 0, value.ErrBadValue()
		}
		return math.Log(f), nil
	})
}

func builtinLog(c *Context) error {
	return c.unaryFloat(func(f float64) (float64, error) {
		if f <= 0 {
			return 0, value.ErrBadValue()
		}
		return math.Log10(f), nil
	})
}

func builtinAlog(c *Context) error {
	return c.unaryFloat(func(f float64) (float64, error) { return math.Pow(10, f), nil })
}

func builtinSqrt(c *Context) error {
	return c.unaryFloat(func(f float64) (float64, error) {
		if f < 0 {
			return 0, value.ErrBadValue()
		}
		return math.Sqrt(f), nil
	})
}

func builtinPi(c *Context) error { return c.push(value.NewReal(piDigits)) }
func builtinE(c *Context) error  { return c.push(value.NewReal(eDigits)) }

// popRounded pops a numeric operand and applies a decimal rounding,
// pushing an exact Integer. Integers pass through.
func (c *Context) popRounded(round func(v value.Real) *big.Int) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	switch x := a.(type) {
	case value.Integer:
		return c.push(a)
	case value.Real:
		return c.push(value.Integer{X: round(x)})
	case value.Rational:
		d, err := value.ToReal(a)
		if err != nil {
			c.pushBack(a)
			return err
		}
		return c.push(value.Integer{X: round(value.Real{X: d})})
	}
	c.pushBack(a)
	return value.ErrBadType()
}

func builtinFloor(c *Context) error {
	return c.popRounded(func(v value.Real) *big.Int { return v.X.Floor().BigInt() })
}

func builtinCeil(c *Context) error {
	return c.popRounded(func(v value.Real) *big.Int { return v.X.Ceil().BigInt() })
}

func builtinIp(c *Context) error {
	return c.popRounded(func(v value.Real) *big.Int { return v.X.Truncate(0).BigInt() })
}

func builtinFp(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	switch a.(type) {
	case value.Integer:
		return c.push(value.RealFromFloat(0))
	case value.Real, value.Rational:
		d, err := value.ToReal(a)
		if err != nil {
			c.pushBack(a)
			return err
		}
		return c.push(value.Real{X: d.Sub(d.Truncate(0))})
	}
	c.pushBack(a)
	return value.ErrBadType()
}

// minMax pops two numerics and pushes one of them by comparison.
func (c *Context) minMax(wantGreater bool) error {
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
	if _, aCx := a.(value.Complex); aCx {
		c.pushBack(a, b)
		return value.ErrBadType()
	}
	if _, bCx := b.(value.Complex); bCx {
		c.pushBack(a, b)
		return value.ErrBadType()
	}
	cmp, err := value.Cmp(a, b)
	if err != nil {
		c.pushBack(a, b)
		return err
	}
	if (wantGreater && cmp > 0) || (!wantGreater && cmp < 0) {
		return c.push(a)
	}
	return c.push(b)
}

func builtinMin(c *Context) error { return c.minMax(false) }
func builtinMax(c *Context) error { return c.minMax(true) }

func builtinSign(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	a, err := c.pop()
	if err != nil {
		return err
	}
	var sign int
	switch x := a.(type) {
	case value.Integer:
		sign = x.X.Sign()
	case value.Rational:
		sign = x.X.Sign()
	case value.Real:
		sign = x.X.Sign()
	default:
		c.pushBack(a)
		return value.ErrBadType()
	}
	return c.push(value.NewInt(int64(sign)))
}

// popNonNegInt pops an Integer with a non-negative int64 payload. On
// failure it restores the popped operand, then the shallower operands
// in `also` in their original order.
func (c *Context) popNonNegInt(also ...value.Value) (int64, value.Value, error) {
	a, err := c.pop()
	if err != nil {
		return 0, nil, err
	}
	n, ok := a.(value.Integer)
	if !ok {
		c.pushBack(a)
		c.pushBack(also...)
		return 0, nil, value.ErrBadType()
	}
	if n.X.Sign() < 0 || !n.X.IsInt64() {
		c.pushBack(a)
		c.pushBack(also...)
		return 0, nil, value.ErrBadValue()
	}
	return n.X.Int64(), a, nil
}

func builtinFactorial(c *Context) error {
	if err := c.need(1); err != nil {
		return err
	}
	n, _, err := c.popNonNegInt()
	if err != nil {
		return err
	}
	return c.push(value.Integer{X: new(big.Int).MulRange(1, n)})
}

// COMB: ( n k -- n!/(k!(n-k)!) )
func builtinComb(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	k, kObj, err := c.popNonNegInt()
	if err != nil {
		return err
	}
	n, nObj, err := c.popNonNegInt(kObj)
	if err != nil {
		return err
	}
	if k > n {
		c.pushBack(nObj, kObj)
		return value.ErrBadValue()
	}
	return c.push(value.Integer{X: new(big.Int).Binomial(n, k)})
}

// PERM: ( n k -- n!/(n-k)! )
func builtinPerm(c *Context) error {
	if err := c.need(2); err != nil {
		return err
	}
	k, kObj, err := c.popNonNegInt()
	if err != nil {
		return err
	}
	n, nObj, err := c.popNonNegInt(kObj)
	if err != nil {
		return err
	}
	if k > n {
		c.pushBack(nObj, kObj)
		return value.ErrBadValue()
	}
	result := big.NewInt(1)
	for i := int64(0); i < k; i++ {
		result.Mul(result, big.NewInt(n-i))
	}
	return c.push(value.Integer{X: result})
}

// popFloat2 pops two numeric operands as machine floats.
func (c *Context) popFloat2() (a, b float64, aObj, bObj value.Value, err error) {
	if err = c.need(2); err != nil {
		return
	}
	bObj, err = c.pop()
	if err != nil {
		return
	}
	aObj, err = c.pop()
	if err != nil {
		return
	}
	var errA, errB error
	a, errA = value.ToFloat(aObj)
	b, errB = value.ToFloat(bObj)
	if errA != nil || errB != nil {
		c.pushBack(aObj, bObj)
		err = value.ErrBadType()
	}
	return
}

// %: ( a b -- a*b/100 )
func builtinPercent(c *Context) error {
	a, b, _, _, err := c.popFloat2()
	if err != nil {
		return err
	}
	return c.push(value.RealFromFloat(a * b / 100))
}

// %T: ( total part -- part/total*100 )
func builtinPercentT(c *Context) error {
	a, b, aObj, bObj, err := c.popFloat2()
	if err != nil {
		return err
	}
	if a == 0 {
		c.pushBack(aObj, bObj)
		return value.ErrDivZero()
	}
	return c.push(value.RealFromFloat(b / a * 100))
}

// %CH: ( old new -- (new-old)/old*100 )
func builtinPercentCh(c *Context) error {
	a, b, aObj, bObj, err := c.popFloat2()
	if err != nil {
		return err
	}
	if a == 0 {
		c.pushBack(aObj, bObj)
		return value.ErrDivZero()
	}
	return c.push(value.RealFromFloat((b - a) / a * 100))
}

func builtinDegToRad(c *Context) error {
	return c.unaryFloat(func(f float64) (float64, error) { return f * math.Pi / 180, nil })
}

func builtinRadToDeg(c *Context) error {
	return c.unaryFloat(func(f float64) (float64, error) { return f * 180 / math.Pi, nil })
}
