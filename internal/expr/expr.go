// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr evaluates the infix algebraic expressions carried by
// Symbol values.
package expr

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lennyitb/lpr-runtime/internal/value"
)

// Resolver maps a variable name to its value. The interpreter supplies
// one that searches local frames first (name as written) and then the
// current-directory variable store (name uppercased).
type Resolver func(name string) (value.Value, error)

type tokenType int

const (
	tokNumber tokenType = iota
	tokName
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	typ tokenType
	val string
}

// Eval evaluates an expression string to a single numeric value.
func Eval(src string, resolve Resolver) (value.Value, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	rpn, err := shuntingYard(tokens)
	if err != nil {
		return nil, err
	}
	return evalRPN(rpn, resolve)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool { return isNameStart(c) || isDigit(c) }

// scanNumber consumes digits with an optional fraction and exponent,
// starting at i. Returns the index one past the number.
func scanNumber(s string, i int) int {
	hasDot, hasExp := false, false
	for i < len(s) {
		c := s[i]
		switch {
		case isDigit(c):
			i++
		case c == '.' && !hasDot && !hasExp:
			hasDot = true
			i++
		case (c == 'E' || c == 'e') && !hasExp:
			hasExp = true
			i++
			if i < len(s) && (s[i] == '+' || s[i] == '-') {
				i++
			}
		default:
			return i
		}
	}
	return i
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '(':
			tokens = append(tokens, token{tokLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")"})
			i++

		case c == '+' || c == '*' || c == '/' || c == '^':
			tokens = append(tokens, token{tokOp, string(c)})
			i++

		case c == '-':
			// Unary at the start of the expression, after an operator,
			// or after an open paren.
			unary := len(tokens) == 0 ||
				tokens[len(tokens)-1].typ == tokOp ||
				tokens[len(tokens)-1].typ == tokLParen
			switch {
			case unary && i+1 < len(src) && (isDigit(src[i+1]) || src[i+1] == '.'):
				end := scanNumber(src, i+1)
				tokens = append(tokens, token{tokNumber, src[i:end]})
				i = end
			case unary:
				tokens = append(tokens, token{tokOp, "NEG"})
				i++
			default:
				tokens = append(tokens, token{tokOp, "-"})
				i++
			}

		case isDigit(c) || c == '.':
			end := scanNumber(src, i)
			tokens = append(tokens, token{tokNumber, src[i:end]})
			i = end

		case isNameStart(c):
			start := i
			for i < len(src) && isNameChar(src[i]) {
				i++
			}
			tokens = append(tokens, token{tokName, src[start:i]})

		default:
			return nil, value.Errf(value.CodeStructural,
				"unexpected character in expression: %c", c)
		}
	}
	return tokens, nil
}

func precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	case "^":
		return 3
	case "NEG":
		return 4
	}
	return 0
}

func rightAssoc(op string) bool { return op == "^" || op == "NEG" }

func shuntingYard(tokens []token) ([]token, error) {
	var output, ops []token
	for _, tok := range tokens {
		switch tok.typ {
		case tokNumber, tokName:
			output = append(output, tok)

		case tokOp:
			for len(ops) > 0 && ops[len(ops)-1].typ == tokOp {
				top := ops[len(ops)-1]
				pop := false
				if rightAssoc(tok.val) {
					pop = precedence(top.val) > precedence(tok.val)
				} else {
					pop = precedence(top.val) >= precedence(tok.val)
				}
				if !pop {
					break
				}
				output = append(output, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)

		case tokLParen:
			ops = append(ops, tok)

		case tokRParen:
			for len(ops) > 0 && ops[len(ops)-1].typ != tokLParen {
				output = append(output, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return nil, value.Errf(value.CodeStructural, "mismatched parentheses")
			}
			ops = ops[:len(ops)-1]
		}
	}
	for len(ops) > 0 {
		if ops[len(ops)-1].typ == tokLParen {
			return nil, value.Errf(value.CodeStructural, "mismatched parentheses")
		}
		output = append(output, ops[len(ops)-1])
		ops = ops[:len(ops)-1]
	}
	return output, nil
}

func evalRPN(rpn []token, resolve Resolver) (value.Value, error) {
	var stack []value.Value
	pop := func() value.Value {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	for _, tok := range rpn {
		switch tok.typ {
		case tokNumber:
			if strings.ContainsAny(tok.val, ".Ee") {
				d, err := decimal.NewFromString(tok.val)
				if err != nil {
					return nil, value.Errf(value.CodeStructural, "bad number: %s", tok.val)
				}
				stack = append(stack, value.Real{X: d})
			} else {
				x, ok := new(big.Int).SetString(tok.val, 10)
				if !ok {
					return nil, value.Errf(value.CodeStructural, "bad number: %s", tok.val)
				}
				stack = append(stack, value.Integer{X: x})
			}

		case tokName:
			v, err := resolve(tok.val)
			if err != nil {
				return nil, err
			}
			stack = append(stack, v)

		case tokOp:
			if tok.val == "NEG" {
				if len(stack) < 1 {
					return nil, value.Errf(value.CodeStructural, "malformed expression")
				}
				v, err := value.Neg(pop())
				if err != nil {
					return nil, err
				}
				stack = append(stack, v)
				continue
			}
			if len(stack) < 2 {
				return nil, value.Errf(value.CodeStructural, "malformed expression")
			}
			b := pop()
			a := pop()
			v, err := applyBinary(tok.val, a, b)
			if err != nil {
				return nil, err
			}
			stack = append(stack, v)
		}
	}

	if len(stack) != 1 {
		return nil, value.Errf(value.CodeStructural, "malformed expression")
	}
	return stack[0], nil
}

func applyBinary(op string, a, b value.Value) (value.Value, error) {
	switch op {
	case "+":
		return value.Add(a, b)
	case "-":
		return value.Sub(a, b)
	case "*":
		return value.Mul(a, b)
	case "/":
		return value.Div(a, b)
	case "^":
		return value.Pow(a, b)
	}
	return nil, value.Errf(value.CodeStructural, "unknown operator: %s", op)
}
