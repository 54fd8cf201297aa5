package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lennyitb/lpr-runtime/internal/value"
)

// Decode rebuilds a value from its persisted tag and payload. Programs
// re-parse their textual token form. A tag/payload pair that cannot
// decode is a storage corruption error.
func Decode(tag value.Tag, data string) (value.Value, error) {
	switch tag {
	case value.TagInteger:
		x, ok := new(big.Int).SetString(data, 10)
		if !ok {
			return nil, corrupt(tag, data)
		}
		return value.Integer{X: x}, nil

	case value.TagReal:
		d, err := decimal.NewFromString(data)
		if err != nil {
			return nil, corrupt(tag, data)
		}
		return value.Real{X: d}, nil

	case value.TagRational:
		slash := strings.IndexByte(data, '/')
		if slash < 0 {
			// Legacy form: a bare integer is a denominator-1 rational.
			x, ok := new(big.Int).SetString(data, 10)
			if !ok {
				return nil, corrupt(tag, data)
			}
			return value.Rational{X: new(big.Rat).SetInt(x)}, nil
		}
		num, okN := new(big.Int).SetString(data[:slash], 10)
		den, okD := new(big.Int).SetString(data[slash+1:], 10)
		if !okN || !okD || den.Sign() == 0 {
			return nil, corrupt(tag, data)
		}
		return value.Rational{X: new(big.Rat).SetFrac(num, den)}, nil

	case value.TagComplex:
		bar := strings.IndexByte(data, '|')
		if bar < 0 {
			return nil, corrupt(tag, data)
		}
		re, errRe := decimal.NewFromString(data[:bar])
		im, errIm := decimal.NewFromString(data[bar+1:])
		if errRe != nil || errIm != nil {
			return nil, corrupt(tag, data)
		}
		return value.Complex{Re: re, Im: im}, nil

	case value.TagString:
		return value.String{Value: data}, nil

	case value.TagProgram:
		return value.Program{Tokens: Parse(data)}, nil

	case value.TagName:
		return value.Name{Value: data}, nil

	case value.TagError:
		bar := strings.IndexByte(data, '|')
		if bar < 0 {
			return nil, corrupt(tag, data)
		}
		code, err := strconv.Atoi(data[:bar])
		if err != nil {
			return nil, corrupt(tag, data)
		}
		return value.Error{Code: code, Message: data[bar+1:]}, nil

	case value.TagSymbol:
		return value.Symbol{Value: data}, nil
	}

	return nil, corrupt(tag, data)
}

func corrupt(tag value.Tag, data string) error {
	return value.Errf(value.CodeStorage, "corrupt object: tag %d payload %q", tag, data)
}
