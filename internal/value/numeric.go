package value

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// RealDigits is the working precision, in decimal places, for inexact
// division on Reals.
const RealDigits = 50

// Rank returns the position of a value in the numeric tower:
// Integer 0, Rational 1, Real 2, Complex 3. Non-numeric values are -1.
// This is the promotion order, not the serialization tag order.
func Rank(v Value) int {
	switch v.(type) {
	case Integer:
		return 0
	case Rational:
		return 1
	case Real:
		return 2
	case Complex:
		return 3
	}
	return -1
}

// IsNumeric reports whether v participates in the numeric tower.
func IsNumeric(v Value) bool { return Rank(v) >= 0 }

// Promote lifts v to the target rank. v must already be numeric and its
// rank must not exceed target.
func Promote(v Value, target int) Value {
	cur := v
	for r := Rank(cur); r < target; r = Rank(cur) {
		switch r {
		case 0:
			cur = Rational{X: new(big.Rat).SetInt(cur.(Integer).X)}
		case 1:
			cur = Real{X: ratToDecimal(cur.(Rational).X)}
		case 2:
			cur = Complex{Re: cur.(Real).X, Im: decimal.Zero}
		}
	}
	return cur
}

func ratToDecimal(r *big.Rat) decimal.Decimal {
	num := decimal.NewFromBigInt(r.Num(), 0)
	den := decimal.NewFromBigInt(r.Denom(), 0)
	return num.DivRound(den, RealDigits)
}

// IsTruthy reports whether a numeric value is nonzero; a Complex is
// truthy when either component is nonzero. Non-numeric values are never
// truthy.
func IsTruthy(v Value) bool {
	switch n := v.(type) {
	case Integer:
		return n.X.Sign() != 0
	case Rational:
		return n.X.Sign() != 0
	case Real:
		return !n.X.IsZero()
	case Complex:
		return !n.Re.IsZero() || !n.Im.IsZero()
	}
	return false
}

// IsZero reports whether a numeric value is structurally zero.
func IsZero(v Value) bool {
	return IsNumeric(v) && !IsTruthy(v)
}

// ToReal converts an Integer, Rational, or Real to its decimal form.
func ToReal(v Value) (decimal.Decimal, error) {
	switch n := v.(type) {
	case Integer:
		return decimal.NewFromBigInt(n.X, 0), nil
	case Rational:
		return ratToDecimal(n.X), nil
	case Real:
		return n.X, nil
	}
	return decimal.Zero, ErrBadType()
}

// ToFloat converts an Integer, Rational, or Real to a machine float.
func ToFloat(v Value) (float64, error) {
	d, err := ToReal(v)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// Add applies numeric promotion and adds.
func Add(a, b Value) (Value, error) {
	return binary(a, b, false,
		func(x, y *big.Int) Value { return Integer{X: new(big.Int).Add(x, y)} },
		func(x, y *big.Rat) Value { return Rational{X: new(big.Rat).Add(x, y)} },
		func(x, y decimal.Decimal) Value { return Real{X: x.Add(y)} },
		func(x, y Complex) Value {
			return Complex{Re: x.Re.Add(y.Re), Im: x.Im.Add(y.Im)}
		})
}

// Sub applies numeric promotion and subtracts.
func Sub(a, b Value) (Value, error) {
	return binary(a, b, false,
		func(x, y *big.Int) Value { return Integer{X: new(big.Int).Sub(x, y)} },
		func(x, y *big.Rat) Value { return Rational{X: new(big.Rat).Sub(x, y)} },
		func(x, y decimal.Decimal) Value { return Real{X: x.Sub(y)} },
		func(x, y Complex) Value {
			return Complex{Re: x.Re.Sub(y.Re), Im: x.Im.Sub(y.Im)}
		})
}

// Mul applies numeric promotion and multiplies.
func Mul(a, b Value) (Value, error) {
	return binary(a, b, false,
		func(x, y *big.Int) Value { return Integer{X: new(big.Int).Mul(x, y)} },
		func(x, y *big.Rat) Value { return Rational{X: new(big.Rat).Mul(x, y)} },
		func(x, y decimal.Decimal) Value { return Real{X: x.Mul(y)} },
		mulComplex)
}

func mulComplex(x, y Complex) Value {
	return Complex{
		Re: x.Re.Mul(y.Re).Sub(x.Im.Mul(y.Im)),
		Im: x.Re.Mul(y.Im).Add(x.Im.Mul(y.Re)),
	}
}

// Div applies numeric promotion and divides. Integer operands are lifted
// to Rational so exactness is preserved. A structurally zero divisor fails.
func Div(a, b Value) (Value, error) {
	if IsNumeric(b) && IsZero(b) {
		return nil, ErrDivZero()
	}
	return binary(a, b, true,
		func(x, y *big.Int) Value { return nil }, // unreachable: lifted to Rational
		func(x, y *big.Rat) Value { return Rational{X: new(big.Rat).Quo(x, y)} },
		func(x, y decimal.Decimal) Value { return Real{X: x.DivRound(y, RealDigits)} },
		func(x, y Complex) Value {
			denom := y.Re.Mul(y.Re).Add(y.Im.Mul(y.Im))
			return Complex{
				Re: x.Re.Mul(y.Re).Add(x.Im.Mul(y.Im)).DivRound(denom, RealDigits),
				Im: x.Im.Mul(y.Re).Sub(x.Re.Mul(y.Im)).DivRound(denom, RealDigits),
			}
		})
}

// Neg negates a numeric value without changing its rank.
func Neg(a Value) (Value, error) {
	switch n := a.(type) {
	case Integer:
		return Integer{X: new(big.Int).Neg(n.X)}, nil
	case Rational:
		return Rational{X: new(big.Rat).Neg(n.X)}, nil
	case Real:
		return Real{X: n.X.Neg()}, nil
	case Complex:
		return Complex{Re: n.Re.Neg(), Im: n.Im.Neg()}, nil
	}
	return nil, ErrBadType()
}

// Pow raises a to the power b at machine precision, returning a Real.
func Pow(a, b Value) (Value, error) {
	base, err := ToFloat(a)
	if err != nil {
		return nil, err
	}
	exp, err := ToFloat(b)
	if err != nil {
		return nil, err
	}
	r := math.Pow(base, exp)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, ErrBadValue()
	}
	return RealFromFloat(r), nil
}

// Cmp compares two numeric values after promotion, returning -1, 0, or 1.
// On Complex only the real parts participate; SAME is the discriminating
// equality for Complex values.
func Cmp(a, b Value) (int, error) {
	ra, rb := Rank(a), Rank(b)
	if ra < 0 || rb < 0 {
		return 0, ErrBadType()
	}
	target := ra
	if rb > target {
		target = rb
	}
	pa, pb := Promote(a, target), Promote(b, target)
	switch target {
	case 0:
		return pa.(Integer).X.Cmp(pb.(Integer).X), nil
	case 1:
		return pa.(Rational).X.Cmp(pb.(Rational).X), nil
	case 2:
		return pa.(Real).X.Cmp(pb.(Real).X), nil
	default:
		return pa.(Complex).Re.Cmp(pb.(Complex).Re), nil
	}
}

// Same is deep structural equality: same variant and equal payload.
// Programs compare by token-by-token display.
func Same(a, b Value) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	switch x := a.(type) {
	case Integer:
		return x.X.Cmp(b.(Integer).X) == 0
	case Rational:
		return x.X.Cmp(b.(Rational).X) == 0
	case Real:
		return x.X.Equal(b.(Real).X)
	case Complex:
		y := b.(Complex)
		return x.Re.Equal(y.Re) && x.Im.Equal(y.Im)
	case String:
		return x.Value == b.(String).Value
	case Name:
		return x.Value == b.(Name).Value
	case Symbol:
		return x.Value == b.(Symbol).Value
	case Error:
		y := b.(Error)
		return x.Code == y.Code && x.Message == y.Message
	case Program:
		return x.Repr() == b.(Program).Repr()
	}
	return false
}

func binary(a, b Value, intDivToRational bool,
	iop func(x, y *big.Int) Value,
	rop func(x, y *big.Rat) Value,
	dop func(x, y decimal.Decimal) Value,
	cop func(x, y Complex) Value,
) (Value, error) {
	ra, rb := Rank(a), Rank(b)
	if ra < 0 || rb < 0 {
		return nil, ErrBadType()
	}
	target := ra
	if rb > target {
		target = rb
	}
	if intDivToRational && target == 0 {
		target = 1
	}
	pa, pb := Promote(a, target), Promote(b, target)
	switch target {
	case 0:
		return iop(pa.(Integer).X, pb.(Integer).X), nil
	case 1:
		return rop(pa.(Rational).X, pb.(Rational).X), nil
	case 2:
		return dop(pa.(Real).X, pb.(Real).X), nil
	default:
		return cop(pa.(Complex), pb.(Complex)), nil
	}
}
