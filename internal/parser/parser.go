// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package parser turns textual input into token vectors.
//
// The parser is total: every input yields a (possibly empty) token
// vector. Unterminated strings and programs close at end of input; the
// interpreter surfaces errors only where semantic use fails.
package parser

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lennyitb/lpr-runtime/internal/value"
)

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isInteger reports an optional minus followed only by digits.
func isInteger(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' {
		start = 1
	}
	if start >= len(s) {
		return false
	}
	for i := start; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isReal reports digits with a '.' and/or an E/e[±]digits exponent.
func isReal(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' {
		start = 1
	}
	if start >= len(s) {
		return false
	}
	hasDot, hasExp := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '.':
			if hasDot || hasExp {
				return false
			}
			hasDot = true
		case c == 'E' || c == 'e':
			if hasExp {
				return false
			}
			hasExp = true
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				i++
			}
		case c < '0' || c > '9':
			return false
		}
	}
	return hasDot || hasExp
}

// Program delimiters: « » (UTF-8 C2 AB / C2 BB) or ASCII << >>.

func progOpenAt(s string, i int) bool {
	if i+1 >= len(s) {
		return false
	}
	if s[i] == '<' && s[i+1] == '<' {
		return true
	}
	return s[i] == 0xC2 && s[i+1] == 0xAB
}

func progCloseAt(s string, i int) bool {
	if i+1 >= len(s) {
		return false
	}
	if s[i] == '>' && s[i+1] == '>' {
		return true
	}
	return s[i] == 0xC2 && s[i+1] == 0xBB
}

// Parse tokenizes input into a token vector, recursing into program
// bodies.
func Parse(input string) []value.Token {
	var tokens []value.Token
	i := 0
	n := len(input)

	for i < n {
		for i < n && isSpace(input[i]) {
			i++
		}
		if i >= n {
			break
		}

		// Program literal: « ... » or << ... >>, nesting honored.
		if progOpenAt(input, i) {
			i += 2
			nesting := 1
			var body strings.Builder
			for i < n && nesting > 0 {
				switch {
				case progOpenAt(input, i):
					body.WriteString(input[i : i+2])
					i += 2
					nesting++
				case progCloseAt(input, i):
					nesting--
					if nesting > 0 {
						body.WriteString(input[i : i+2])
					}
					i += 2
				default:
					body.WriteByte(input[i])
					i++
				}
			}
			inner := strings.TrimSpace(body.String())
			tokens = append(tokens, value.LiteralToken(value.Program{Tokens: Parse(inner)}))
			continue
		}

		// String literal with backslash escapes.
		if input[i] == '"' {
			i++
			var sb strings.Builder
			for i < n && input[i] != '"' {
				if input[i] == '\\' && i+1 < n {
					i++
					switch input[i] {
					case 'n':
						sb.WriteByte('\n')
					case 't':
						sb.WriteByte('\t')
					case '"':
						sb.WriteByte('"')
					case '\\':
						sb.WriteByte('\\')
					default:
						sb.WriteByte(input[i])
					}
				} else {
					sb.WriteByte(input[i])
				}
				i++
			}
			if i < n {
				i++ // closing quote
			}
			tokens = append(tokens, value.LiteralToken(value.String{Value: sb.String()}))
			continue
		}

		// Quoted identifier: Symbol if it carries an operator character
		// or a space, Name otherwise.
		if input[i] == '\'' {
			i++
			start := i
			for i < n && input[i] != '\'' {
				i++
			}
			body := input[start:i]
			if i < n {
				i++ // closing quote
			}
			if strings.ContainsAny(body, "+-*/^= ") {
				tokens = append(tokens, value.LiteralToken(value.Symbol{Value: body}))
			} else {
				tokens = append(tokens, value.LiteralToken(value.Name{Value: body}))
			}
			continue
		}

		// Complex literal: (re, im). Anything else starting with '('
		// falls through to a bare word.
		if input[i] == '(' {
			if tok, next, ok := scanComplex(input, i); ok {
				tokens = append(tokens, tok)
				i = next
				continue
			}
		}

		// Bare word: number or command.
		start := i
		for i < n && !isSpace(input[i]) && !progOpenAt(input, i) && !progCloseAt(input, i) {
			i++
		}
		word := input[start:i]
		if isInteger(word) {
			tokens = append(tokens, value.LiteralToken(value.Integer{X: mustBigInt(word)}))
			continue
		}
		if isReal(word) {
			if d, err := decimal.NewFromString(word); err == nil {
				tokens = append(tokens, value.LiteralToken(value.Real{X: d}))
				continue
			}
		}
		tokens = append(tokens, value.CommandToken(strings.ToUpper(word)))
	}

	return tokens
}

func scanComplex(input string, i int) (value.Token, int, bool) {
	close := strings.IndexByte(input[i:], ')')
	if close < 0 {
		return value.Token{}, 0, false
	}
	close += i
	inner := input[i+1 : close]
	comma := strings.IndexByte(inner, ',')
	if comma < 0 {
		return value.Token{}, 0, false
	}
	re, err := decimal.NewFromString(strings.TrimSpace(inner[:comma]))
	if err != nil {
		return value.Token{}, 0, false
	}
	im, err := decimal.NewFromString(strings.TrimSpace(inner[comma+1:]))
	if err != nil {
		return value.Token{}, 0, false
	}
	return value.LiteralToken(value.Complex{Re: re, Im: im}), close + 1, true
}

func mustBigInt(s string) *big.Int {
	x, _ := new(big.Int).SetString(s, 10)
	return x
}
