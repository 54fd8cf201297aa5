package eval

import (
	"strings"
	"testing"
)

func TestStackMovers(t *testing.T) {
	tests := []struct {
		input string
		want  []string // top-down
	}{
		{"1 DUP", []string{"1", "1"}},
		{"1 2 DROP", []string{"1"}},
		{"1 2 SWAP", []string{"1", "2"}},
		{"1 2 OVER", []string{"1", "2", "1"}},
		{"1 2 3 ROT", []string{"1", "3", "2"}},
		{"1 2 3 UNROT", []string{"2", "1", "3"}},
		{"1 2 3 CLEAR", nil},
		{"1 2 DEPTH", []string{"2", "2", "1"}},
		{"1 2 DUP2", []string{"2", "1", "2", "1"}},
		{"1 2 3 DROP2", []string{"1"}},
		{"1 2 3 2 DUPN", []string{"3", "2", "3", "2", "1"}},
		{"1 2 3 2 DROPN", []string{"1"}},
		{"1 2 3 3 PICK", []string{"1", "3", "2", "1"}},
		{"1 2 3 3 ROLL", []string{"1", "3", "2"}},
		{"1 2 3 3 ROLLD", []string{"2", "1", "3"}},
		{"1 2 3 9 2 UNPICK", []string{"3", "9", "1"}},
		{"1 2 3 0 DUPN", []string{"3", "2", "1"}},
		{"1 2 3 0 DROPN", []string{"3", "2", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want...)
		})
	}
}

func TestStackMoverErrors(t *testing.T) {
	cases := []string{
		"DUP",
		"1 SWAP",
		"1 2 ROT",
		"1 2 3 PICK",   // only 2 below the count
		"1 2 5 ROLL",   // out of range
		"1 2 0 PICK",   // index must be >= 1
		"1 2 -1 DROPN", // negative count
	}
	for _, input := range cases {
		c := newTestContext(t)
		top := execError(t, c, input)
		if !strings.HasPrefix(top, "Error 1:") {
			t.Errorf("%q: error = %s, want insufficient-arguments code 1", input, top)
		}
	}

	// Wrong count type.
	c := newTestContext(t)
	top := execError(t, c, `1 2 "x" PICK`)
	if !strings.HasPrefix(top, "Error 2:") {
		t.Errorf("error = %s, want bad-argument-type code 2", top)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3 4 +", "7"},
		{"10 4 -", "6"},
		{"6 7 *", "42"},
		{"6 4 /", "3/2"},
		{"1 2 / 1 3 / +", "5/6"},
		{"5 NEG", "-5"},
		{"-5 ABS", "5"},
		{"2.5 NEG", "-2.5"},
		{"4 INV", "1/4"},
		{"2 3 / INV", "3/2"},
		{"17 5 MOD", "2"},
		{"5 SQ", "25"},
		{"1.5 2 +", "3.5"},
		{"(1, 2) (3, 4) +", "(4., 6.)"},
		{"(0, 1) (0, 1) *", "(-1., 0.)"},
		{`"foo" "bar" +`, `"foobar"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want)
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"5 0 /", "Error 4:"},
		{"0 INV", "Error 4:"},
		{"5 0 MOD", "Error 4:"},
		{`"s" 1 +`, "Error 2:"},
		{`1 "s" +`, "Error 2:"},
		{`"s" DUP -`, "Error 2:"},
		{"1 +", "Error 1:"},
	}
	for _, tt := range tests {
		c := newTestContext(t)
		top := execError(t, c, tt.input)
		if !strings.HasPrefix(top, tt.code) {
			t.Errorf("%q: error = %s, want %s", tt.input, top, tt.code)
		}
	}
}

func TestOperandRestoreOnFailure(t *testing.T) {
	// The failing command pushes its operands back, but the enclosing
	// transaction then rolls the whole eval back, so neither the input
	// literals nor the restored operands remain: only the Error does.
	c := newTestContext(t)
	execError(t, c, "5 0 /")
	got := stack(t, c)
	if len(got) != 1 {
		t.Fatalf("depth = %d, want 1 (error only)", len(got))
	}
}

func TestComparison(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 2 <", "1"},
		{"2 1 <", "0"},
		{"2 2 <=", "1"},
		{"3 2 >", "1"},
		{"2 2 >=", "1"},
		{"2 2 ==", "1"},
		{"2 3 ==", "0"},
		{"2 3 !=", "1"},
		{"1 2 / 0.5 ==", "1"},   // promotion across ranks
		{"1 1.0 ==", "1"},
		{"1 2 / 2 4 / ==", "1"}, // normalized rationals
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want)
		})
	}

	c := newTestContext(t)
	top := execError(t, c, `"a" 1 <`)
	if !strings.HasPrefix(top, "Error 2:") {
		t.Errorf("string comparison error = %s", top)
	}
}

func TestTypeOps(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42 TYPE", "0"},
		{"1.5 TYPE", "1"},
		{"1 2 / TYPE", "2"},
		{"(1, 2) TYPE", "3"},
		{`"s" TYPE`, "4"},
		{"<< >> TYPE", "5"},
		{"'X' TYPE", "6"},
		{"'X+1' TYPE", "8"},
		{"3 ->NUM", "3."},
		{"1 2 / ->NUM", "0.5"},
		{"42 ->STR", `"42"`},
		{"'X' ->STR", `"'X'"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want)
		})
	}
}

func TestVariableOps(t *testing.T) {
	c := newTestContext(t)
	mustExec(t, c, "42 'X' STO")
	if c.Depth() != 0 {
		t.Fatalf("depth after STO = %d", c.Depth())
	}
	mustExec(t, c, "'X' RCL")
	checkStack(t, c, "42")

	// STO upserts.
	mustExec(t, c, "CLEAR 7 'X' STO 'X' RCL")
	checkStack(t, c, "7")

	mustExec(t, c, "CLEAR 1 'A' STO VARS")
	checkStack(t, c, `"{ A X }"`)

	mustExec(t, c, "CLEAR 'X' PURGE")
	top := execError(t, c, "'X' RCL")
	if !strings.HasPrefix(top, "Error 5:") {
		t.Errorf("recall after purge = %s, want undefined-name code 5", top)
	}

	// STO RCL round-trips the display form.
	c2 := newTestContext(t)
	mustExec(t, c2, "<< 1 2 + >> 'P' STO 'P' RCL")
	checkStack(t, c2, "« 1 2 + »")
}

func TestDirectoryOps(t *testing.T) {
	c := newTestContext(t)
	mustExec(t, c, "'WORK' CRDIR")
	mustExec(t, c, "HOME")
	mustExec(t, c, "PATH")
	checkStack(t, c, `"HOME"`)
}

func TestIftIfte(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"42 1 IFT", []string{"42"}},
		{"42 0 IFT", nil},
		{"<< 1 2 + >> 1 IFT", []string{"3"}},
		{"10 20 1 IFTE", []string{"20"}},
		{"10 20 0 IFTE", []string{"10"}},
		{"<< 1 >> << 2 >> 0 IFTE", []string{"1"}},
		{"42 (0, 1) IFT", []string{"42"}}, // complex is truthy when any part is nonzero
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want...)
		})
	}
}

func TestLogic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 1 AND", "1"},
		{"1 0 AND", "0"},
		{"5 3 AND", "1"}, // nonzero is true
		{"0 0 OR", "0"},
		{"0 2 OR", "1"},
		{"0 NOT", "1"},
		{"7 NOT", "0"},
		{"1 1 XOR", "0"},
		{"1 0 XOR", "1"},
		{"12 10 BAND", "8"},
		{"12 10 BOR", "14"},
		{"12 10 BXOR", "6"},
		{"0 BNOT", "-1"},
		{"1 4 SL", "16"},
		{"16 4 SR", "1"},
		{"-16 2 ASR", "-4"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want)
		})
	}
}

func TestSame(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 1 SAME", "1"},
		{"1 1.0 SAME", "0"}, // different variants are never the same
		{`"a" "a" SAME`, "1"},
		{`"a" "b" SAME`, "0"},
		{"'X' 'X' SAME", "1"},
		{"<< 1 2 >> << 1 2 >> SAME", "1"},
		{"<< 1 2 >> << 1 3 >> SAME", "0"},
		{"(1, 2) (1, 2) SAME", "1"},
		{"(1, 2) (1, 3) SAME", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want)
		})
	}
}

func TestTranscendental(t *testing.T) {
	// Results are machine precision; compare through a tolerance check
	// expressed in the language itself.
	trueCases := []string{
		"0 SIN 0 ==",
		"0 COS 1 ==",
		"DEG 90 SIN 1 - ABS 0.000001 < RAD",
		"GRAD 100 SIN 1 - ABS 0.000001 < RAD",
		"1 EXP E - ABS 0.000001 <",
		"E LN 1 - ABS 0.000001 <",
		"100 LOG 2 - ABS 0.000001 <",
		"2 ALOG 100 - ABS 0.000001 <",
		"16 SQRT 4 - ABS 0.000001 <",
		"DEG 1 ASIN 90 - ABS 0.000001 < RAD",
		"1 1 ATAN2 PI 4 / - ABS 0.000001 <",
		"180 D->R PI - ABS 0.000001 <",
		"PI R->D 180 - ABS 0.000001 <",
	}
	for _, input := range trueCases {
		c := newTestContext(t)
		mustExec(t, c, input)
		got := stack(t, c)
		if got[0] != "1" {
			t.Errorf("%q: top = %s, want 1", input, got[0])
		}
	}
}

func TestTranscendentalDomainErrors(t *testing.T) {
	cases := []string{
		"-1 LN",
		"0 LOG",
		"-4 SQRT",
		"2 ASIN",
		"-3 !",
	}
	for _, input := range cases {
		c := newTestContext(t)
		top := execError(t, c, input)
		if !strings.HasPrefix(top, "Error 3:") {
			t.Errorf("%q: error = %s, want bad-argument-value code 3", input, top)
		}
	}
}

func TestRoundingAndParts(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3.7 FLOOR", "3"},
		{"-3.7 FLOOR", "-4"},
		{"3.2 CEIL", "4"},
		{"-3.2 CEIL", "-3"},
		{"3.7 IP", "3"},
		{"-3.7 IP", "-3"},
		{"3.75 FP", "0.75"},
		{"5 FP", "0."},
		{"5 FLOOR", "5"},
		{"3 5 MIN", "3"},
		{"3 5 MAX", "5"},
		{"1.5 1 MAX", "1.5"},
		{"-7 SIGN", "-1"},
		{"0 SIGN", "0"},
		{"42 SIGN", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want)
		})
	}
}

func TestCombinatorics(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0 !", "1"},
		{"5 !", "120"},
		{"20 !", "2432902008176640000"},
		{"5 2 COMB", "10"},
		{"5 2 PERM", "20"},
		{"5 0 COMB", "1"},
		{"5 5 PERM", "120"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want)
		})
	}

	c := newTestContext(t)
	top := execError(t, c, "2 5 COMB")
	if !strings.HasPrefix(top, "Error 3:") {
		t.Errorf("k > n error = %s", top)
	}
}

func TestPercentages(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"200 15 %", "30."},
		{"200 50 %T", "25."},
		{"100 125 %CH", "25."},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want)
		})
	}

	c := newTestContext(t)
	top := execError(t, c, "0 5 %T")
	if !strings.HasPrefix(top, "Error 4:") {
		t.Errorf("%%T by zero = %s", top)
	}
}

func TestStringOps(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello" SIZE`, "5"},
		{`"" SIZE`, "0"},
		{`"hello" HEAD`, `"h"`},
		{`"hello" TAIL`, `"ello"`},
		{`"hello world" 1 5 SUB`, `"hello"`},
		{`"hello" 2 99 SUB`, `"ello"`},  // clamped to bounds
		{`"hello" -3 2 SUB`, `"he"`},    // clamped to 1
		{`"hello" 4 2 SUB`, `""`},       // start > end is empty
		{`"hello world" "world" POS`, "7"},
		{`"hello" "x" POS`, "0"},
		{`"aaa" "a" "b" REPL`, `"baa"`}, // first occurrence only
		{`"abc" "x" "y" REPL`, `"abc"`},
		{`"A" NUM`, "65"},
		{"65 CHR", `"A"`},
		{`"hi" " " + "there" +`, `"hi there"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestContext(t)
			mustExec(t, c, tt.input)
			checkStack(t, c, tt.want)
		})
	}
}

func TestStringOpErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{`"" HEAD`, "Error 3:"},
		{`"" TAIL`, "Error 3:"},
		{`"" NUM`, "Error 3:"},
		{"200 CHR", "Error 3:"},
		{"-1 CHR", "Error 3:"},
		{"42 SIZE", "Error 2:"},
		{`"s" 1 "x" SUB`, "Error 2:"},
	}
	for _, tt := range tests {
		c := newTestContext(t)
		top := execError(t, c, tt.input)
		if !strings.HasPrefix(top, tt.code) {
			t.Errorf("%q: error = %s, want %s", tt.input, top, tt.code)
		}
	}
}
