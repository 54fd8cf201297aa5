package value

import (
	"math/big"
	"testing"
)

func TestRepr(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NewInt(42), "42"},
		{NewInt(-7), "-7"},
		{NewReal("3.14"), "3.14"},
		{NewReal("7"), "7."},
		{NewReal("-0.5"), "-0.5"},
		{Rational{X: big.NewRat(355, 113)}, "355/113"},
		{Rational{X: big.NewRat(355, 1)}, "355"},
		{Complex{Re: NewReal("1").X, Im: NewReal("2").X}, "(1., 2.)"},
		{String{Value: "hello"}, `"hello"`},
		{String{Value: "a\"b\\c\nd\te"}, `"a\"b\\c\nd\te"`},
		{Name{Value: "X"}, "'X'"},
		{Symbol{Value: "X*Y"}, "'X*Y'"},
		{Error{Code: 4, Message: "Division by zero"}, "Error 4: Division by zero"},
		{Program{Tokens: []Token{
			LiteralToken(NewInt(1)),
			LiteralToken(NewInt(2)),
			CommandToken("+"),
		}}, "« 1 2 + »"},
	}
	for _, tt := range tests {
		if got := tt.v.Repr(); got != tt.want {
			t.Errorf("Repr() = %q, want %q", got, tt.want)
		}
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		v    Value
		want Tag
	}{
		{NewInt(1), TagInteger},
		{NewReal("1.5"), TagReal},
		{Rational{X: big.NewRat(1, 2)}, TagRational},
		{Complex{}, TagComplex},
		{String{}, TagString},
		{Program{}, TagProgram},
		{Name{}, TagName},
		{Error{}, TagError},
		{Symbol{}, TagSymbol},
	}
	for _, tt := range tests {
		if got := tt.v.Tag(); got != tt.want {
			t.Errorf("%T Tag() = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestPromote(t *testing.T) {
	// Integer -> Rational uses denominator 1.
	r := Promote(NewInt(3), 1)
	if rat, ok := r.(Rational); !ok || rat.X.RatString() != "3" {
		t.Errorf("promote int to rational: got %v", r)
	}
	// Rational -> Real converts via decimal.
	re := Promote(Rational{X: big.NewRat(1, 2)}, 2)
	if real, ok := re.(Real); !ok || real.X.String() != "0.5" {
		t.Errorf("promote rational to real: got %v", re)
	}
	// Real -> Complex uses imaginary 0.
	cx := Promote(NewReal("2.5"), 3)
	if c, ok := cx.(Complex); !ok || !c.Im.IsZero() || c.Re.String() != "2.5" {
		t.Errorf("promote real to complex: got %v", cx)
	}
}

func TestArithmetic(t *testing.T) {
	// Integer + Integer stays Integer.
	v, err := Add(NewInt(3), NewInt(4))
	if err != nil || v.Repr() != "7" {
		t.Errorf("3+4 = %v (%v)", v, err)
	}
	// Integer / Integer lifts to Rational.
	v, err = Div(NewInt(355), NewInt(113))
	if err != nil || v.Repr() != "355/113" {
		t.Errorf("355/113 = %v (%v)", v, err)
	}
	// Mixed Integer + Real promotes to Real.
	v, err = Add(NewInt(1), NewReal("0.5"))
	if err != nil || v.Repr() != "1.5" {
		t.Errorf("1+0.5 = %v (%v)", v, err)
	}
	// Complex multiplication.
	i := Complex{Re: NewReal("0").X, Im: NewReal("1").X}
	v, err = Mul(i, i)
	if err != nil {
		t.Fatalf("i*i: %v", err)
	}
	if v.Repr() != "(-1., 0.)" {
		t.Errorf("i*i = %v", v.Repr())
	}
	// Division by zero fails with its stable code.
	_, err = Div(NewInt(5), NewInt(0))
	if ve, ok := err.(Error); !ok || ve.Code != CodeDivisionByZero {
		t.Errorf("5/0 error = %v, want code %d", err, CodeDivisionByZero)
	}
}

func TestPromotionCommutes(t *testing.T) {
	// a+b and b+a promote to the same rank and value for + and *.
	pairs := []struct{ a, b Value }{
		{NewInt(2), NewReal("1.5")},
		{NewInt(2), Rational{X: big.NewRat(1, 3)}},
		{Rational{X: big.NewRat(1, 3)}, NewReal("0.25")},
	}
	for _, p := range pairs {
		ab, _ := Add(p.a, p.b)
		ba, _ := Add(p.b, p.a)
		if !Same(ab, ba) {
			t.Errorf("a+b != b+a for %v, %v", p.a.Repr(), p.b.Repr())
		}
		ab, _ = Mul(p.a, p.b)
		ba, _ = Mul(p.b, p.a)
		if !Same(ab, ba) {
			t.Errorf("a*b != b*a for %v, %v", p.a.Repr(), p.b.Repr())
		}
	}
}

func TestIntegerDivisionExactness(t *testing.T) {
	// a b / b * equals a as a Rational, for non-zero integers.
	cases := [][2]int64{{7, 3}, {-10, 4}, {100, 100}, {1, 999}}
	for _, cse := range cases {
		a, b := NewInt(cse[0]), NewInt(cse[1])
		q, err := Div(a, b)
		if err != nil {
			t.Fatalf("%d/%d: %v", cse[0], cse[1], err)
		}
		back, err := Mul(q, b)
		if err != nil {
			t.Fatalf("mul back: %v", err)
		}
		want := Promote(a, 1)
		if !Same(back, want) {
			t.Errorf("%d %d / %d * = %s, want %s", cse[0], cse[1], cse[1], back.Repr(), want.Repr())
		}
	}
}

func TestCmpComplexRealPartsOnly(t *testing.T) {
	// The ordering quirk: only real parts participate.
	a := Complex{Re: NewReal("1").X, Im: NewReal("5").X}
	b := Complex{Re: NewReal("1").X, Im: NewReal("-5").X}
	cmp, err := Cmp(a, b)
	if err != nil || cmp != 0 {
		t.Errorf("Cmp(complex) = %d (%v), want 0", cmp, err)
	}
	// SAME remains discriminating.
	if Same(a, b) {
		t.Error("Same should distinguish differing imaginary parts")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{NewInt(0), false},
		{NewInt(-1), true},
		{NewReal("0.0"), false},
		{NewReal("0.1"), true},
		{Rational{X: big.NewRat(0, 5)}, false},
		{Complex{Re: NewReal("0").X, Im: NewReal("1").X}, true},
		{Complex{Re: NewReal("0").X, Im: NewReal("0").X}, false},
		{String{Value: "1"}, false},
	}
	for _, tt := range tests {
		if got := IsTruthy(tt.v); got != tt.want {
			t.Errorf("IsTruthy(%s) = %v, want %v", tt.v.Repr(), got, tt.want)
		}
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		v        Value
		wantTag  Tag
		wantData string
	}{
		{NewInt(42), TagInteger, "42"},
		{Rational{X: big.NewRat(355, 113)}, TagRational, "355/113"},
		{Rational{X: big.NewRat(3, 1)}, TagRational, "3/1"},
		{Complex{Re: NewReal("1").X, Im: NewReal("2").X}, TagComplex, "1|2"},
		{String{Value: "hi"}, TagString, "hi"},
		{Name{Value: "X"}, TagName, "X"},
		{Symbol{Value: "X+1"}, TagSymbol, "X+1"},
		{Error{Code: 4, Message: "Division by zero"}, TagError, "4|Division by zero"},
		{Program{Tokens: []Token{LiteralToken(NewInt(1)), CommandToken("DUP")}}, TagProgram, "1 DUP"},
	}
	for _, tt := range tests {
		tag, data := Encode(tt.v)
		if tag != tt.wantTag || data != tt.wantData {
			t.Errorf("Encode(%s) = (%d, %q), want (%d, %q)",
				tt.v.Repr(), tag, data, tt.wantTag, tt.wantData)
		}
	}
}
