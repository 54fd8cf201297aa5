// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package value defines the tagged calculator value model and its
// display and wire forms.
package value

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Tag identifies a value variant. Tags are stable: they are the on-disk
// discriminator and the result of the TYPE command.
type Tag int

const (
	TagInteger  Tag = 0
	TagReal     Tag = 1
	TagRational Tag = 2
	TagComplex  Tag = 3
	TagString   Tag = 4
	TagProgram  Tag = 5
	TagName     Tag = 6
	TagError    Tag = 7
	TagSymbol   Tag = 8
)

// Value is the interface all calculator values implement.
type Value interface {
	// Tag returns the variant discriminator.
	Tag() Tag
	// Repr returns the display form, re-parseable where possible.
	Repr() string
}

// Integer is an arbitrary-precision signed integer.
type Integer struct {
	X *big.Int
}

// Real is an arbitrary-precision decimal.
type Real struct {
	X decimal.Decimal
}

// Rational is a normalized pair of arbitrary-precision integers.
type Rational struct {
	X *big.Rat
}

// Complex is a pair of Reals.
type Complex struct {
	Re, Im decimal.Decimal
}

// String is a byte sequence.
type String struct {
	Value string
}

// Program is a vector of tokens.
type Program struct {
	Tokens []Token
}

// Name is an identifier bound (or to be bound) in a directory.
type Name struct {
	Value string
}

// Symbol is a textual algebraic expression.
type Symbol struct {
	Value string
}

func (Integer) Tag() Tag  { return TagInteger }
func (Real) Tag() Tag     { return TagReal }
func (Rational) Tag() Tag { return TagRational }
func (Complex) Tag() Tag  { return TagComplex }
func (String) Tag() Tag   { return TagString }
func (Program) Tag() Tag  { return TagProgram }
func (Name) Tag() Tag     { return TagName }
func (Symbol) Tag() Tag   { return TagSymbol }

// NewInt builds an Integer from a machine int.
func NewInt(n int64) Integer {
	return Integer{X: big.NewInt(n)}
}

// NewReal builds a Real from a decimal string. The string must be valid.
func NewReal(s string) Real {
	return Real{X: decimal.RequireFromString(s)}
}

// RealFromFloat builds a Real from a machine float.
func RealFromFloat(f float64) Real {
	return Real{X: decimal.NewFromFloat(f)}
}

func (v Integer) Repr() string  { return v.X.String() }
func (v Rational) Repr() string { return v.X.RatString() }

// realString formats a decimal so that it always carries a decimal point.
func realString(d decimal.Decimal) string {
	s := d.String()
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	return s
}

func (v Real) Repr() string { return realString(v.X) }

func (v Complex) Repr() string {
	return "(" + realString(v.Re) + ", " + realString(v.Im) + ")"
}

var stringEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"\n", "\\n",
	"\t", "\\t",
)

func (v String) Repr() string {
	return "\"" + stringEscaper.Replace(v.Value) + "\""
}

func (v Program) Repr() string {
	return "« " + ReprTokens(v.Tokens) + " »"
}

func (v Name) Repr() string   { return "'" + v.Value + "'" }
func (v Symbol) Repr() string { return "'" + v.Value + "'" }
