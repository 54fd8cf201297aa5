package eval

// builtinFunc is the signature for built-in commands. A command checks
// arity, pops its operands, works, and pushes results; on a failure
// detected after popping it pushes the operands back before returning.
type builtinFunc func(c *Context) error

// getBuiltin returns the built-in for name, or nil.
func getBuiltin(name string) builtinFunc {
	switch name {
	// Stack movers
	case "DUP":
		return builtinDup
	case "DROP":
		return builtinDrop
	case "SWAP":
		return builtinSwap
	case "OVER":
		return builtinOver
	case "ROT":
		return builtinRot
	case "UNROT":
		return builtinUnrot
	case "CLEAR":
		return builtinClear
	case "DEPTH":
		return builtinDepth
	case "DUP2":
		return builtinDup2
	case "DROP2":
		return builtinDrop2
	case "DUPN":
		return builtinDupN
	case "DROPN":
		return builtinDropN
	case "PICK":
		return builtinPick
	case "ROLL":
		return builtinRoll
	case "ROLLD":
		return builtinRollD
	case "UNPICK":
		return builtinUnpick

	// Arithmetic
	case "+":
		return builtinAdd
	case "-":
		return builtinSub
	case "*":
		return builtinMul
	case "/":
		return builtinDiv
	case "NEG":
		return builtinNeg
	case "INV":
		return builtinInv
	case "ABS":
		return builtinAbs
	case "MOD":
		return builtinMod
	case "SQ":
		return builtinSq

	// Comparison
	case "==":
		return builtinEq
	case "!=":
		return builtinNe
	case "<":
		return builtinLt
	case ">":
		return builtinGt
	case "<=":
		return builtinLe
	case ">=":
		return builtinGe

	// Type
	case "TYPE":
		return builtinType
	case "→NUM", "->NUM":
		return builtinToNum
	case "→STR", "->STR":
		return builtinToStr
	case "STR→", "STR->":
		return builtinStrEval

	// Directories and variables
	case "STO":
		return builtinSto
	case "RCL":
		return builtinRcl
	case "PURGE":
		return builtinPurge
	case "HOME":
		return builtinHome
	case "PATH":
		return builtinPath
	case "CRDIR":
		return builtinCrdir
	case "VARS":
		return builtinVars

	// Programs
	case "EVAL":
		return builtinEval
	case "IFT":
		return builtinIft
	case "IFTE":
		return builtinIfte

	// Logic and bitwise
	case "AND":
		return builtinAnd
	case "OR":
		return builtinOr
	case "NOT":
		return builtinNot
	case "XOR":
		return builtinXor
	case "BAND":
		return builtinBand
	case "BOR":
		return builtinBor
	case "BXOR":
		return builtinBxor
	case "BNOT":
		return builtinBnot
	case "SL":
		return builtinSl
	case "SR":
		return builtinSr
	case "ASR":
		return builtinAsr
	case "SAME":
		return builtinSame

	// Transcendental and scientific
	case "DEG":
		return builtinDegMode
	case "RAD":
		return builtinRadMode
	case "GRAD":
		return builtinGradMode
	case "SIN":
		return builtinSin
	case "COS":
		return builtinCos
	case "TAN":
		return builtinTan
	case "ASIN":
		return builtinAsin
	case "ACOS":
		return builtinAcos
	case "ATAN":
		return builtinAtan
	case "ATAN2":
		return builtinAtan2
	case "EXP":
		return builtinExp
	case "LN":
		return builtinLn
	case "LOG":
		return builtinLog
	case "ALOG":
		return builtinAlog
	case "SQRT":
		return builtinSqrt
	case "PI":
		return builtinPi
	case "E":
		return builtinE
	case "FLOOR":
		return builtinFloor
	case "CEIL":
		return builtinCeil
	case "IP":
		return builtinIp
	case "FP":
		return builtinFp
	case "MIN":
		return builtinMin
	case "MAX":
		return builtinMax
	case "SIGN":
		return builtinSign
	case "!":
		return builtinFactorial
	case "COMB":
		return builtinComb
	case "PERM":
		return builtinPerm
	case "%":
		return builtinPercent
	case "%T":
		return builtinPercentT
	case "%CH":
		return builtinPercentCh
	case "D→R", "D->R":
		return builtinDegToRad
	case "R→D", "R->D":
		return builtinRadToDeg

	// Strings
	case "SIZE":
		return builtinSize
	case "HEAD":
		return builtinHead
	case "TAIL":
		return builtinTail
	case "SUB":
		return builtinSubstr
	case "POS":
		return builtinPos
	case "REPL":
		return builtinRepl
	case "NUM":
		return builtinNum
	case "CHR":
		return builtinChr
	}
	return nil
}
