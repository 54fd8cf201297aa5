package value

import "strconv"

// Encode returns the tag and textual payload a value is persisted under.
// Program payloads are the display form of their tokens and round-trip
// through the parser on decode.
func Encode(v Value) (Tag, string) {
	switch x := v.(type) {
	case Integer:
		return TagInteger, x.X.String()
	case Real:
		return TagReal, x.X.String()
	case Rational:
		return TagRational, x.X.Num().String() + "/" + x.X.Denom().String()
	case Complex:
		return TagComplex, x.Re.String() + "|" + x.Im.String()
	case String:
		return TagString, x.Value
	case Program:
		return TagProgram, ReprTokens(x.Tokens)
	case Name:
		return TagName, x.Value
	case Error:
		return TagError, strconv.Itoa(x.Code) + "|" + x.Message
	case Symbol:
		return TagSymbol, x.Value
	}
	return TagError, strconv.Itoa(CodeRuntime) + "|unencodable value"
}
