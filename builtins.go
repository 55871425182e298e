package cutlang

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// ErrUser is the kind of errors raised by the error builtin.
const ErrUser = "user"

// Contract is a named per-argument predicate. Names follow the predicate
// procedures so error messages read as contracts.
type Contract struct {
	name  string
	check func(Value) bool
}

var (
	anyContract    = Contract{"any", func(Value) bool { return true }}
	numberContract = Contract{"number?", isNum}
	realContract   = Contract{"real?", isReal}
	exactIntContract = Contract{"exact-integer?", func(v Value) bool {
		_, ok := v.(*Int)
		return ok
	}}
	booleanContract = Contract{"boolean?", func(v Value) bool {
		_, ok := v.(*Boolean)
		return ok
	}}
	stringContract = Contract{"string?", func(v Value) bool {
		_, ok := v.(*String)
		return ok
	}}
	charContract = Contract{"char?", func(v Value) bool {
		_, ok := v.(*Char)
		return ok
	}}
	pairContract = Contract{"pair?", func(v Value) bool {
		_, ok := v.(*Pair)
		return ok
	}}
	listContract    = Contract{"list?", isProperList}
	boolarrContract = Contract{"boolarr?", func(v Value) bool {
		_, ok := v.(*BoolArr)
		return ok
	}}
	boolOrArrContract = Contract{"(or/c boolean? boolarr?)", func(v Value) bool {
		switch v.(type) {
		case *Boolean, *BoolArr:
			return true
		}
		return false
	}}
	intOrArrContract = Contract{"(or/c exact-integer? boolarr?)", func(v Value) bool {
		switch v.(type) {
		case *Int, *BoolArr:
			return true
		}
		return false
	}}
)

func isProperList(v Value) bool {
	for {
		switch v := v.(type) {
		case *Null:
			return true
		case *Pair:
			// Acyclic by construction: only list/cons build pairs.
			return isProperList(v.rest)
		default:
			return false
		}
	}
}

func (self *Interpreter) register(name string, minArgs, maxArgs int, contracts []Contract, fn func([]Value) (Value, error)) {
	self.env.Define(name, &Procedure{
		name:      name,
		fn:        fn,
		minArgs:   minArgs,
		maxArgs:   maxArgs,
		contracts: contracts,
	})
}

func (self *Interpreter) registerPredicate(name string, check func(Value) bool) {
	self.register(name, 1, 1, []Contract{anyContract}, func(args []Value) (Value, error) {
		return NewBoolean(check(args[0])), nil
	})
}

// seedEnvironment populates the global environment with the constants and
// builtin procedures of the standard library. This table is the single
// source of truth for dispatch, arity, and contracts.
func (self *Interpreter) seedEnvironment() {
	self.env.Define("true", NewBoolean(true))
	self.env.Define("false", NewBoolean(false))
	self.env.Define("null", TheNull)
	self.env.Define("pi", NewFloat(math.Pi))

	num := []Contract{numberContract}
	realArg := []Contract{realContract}
	exactInt := []Contract{exactIntContract}
	strArg := []Contract{stringContract}
	anyArg := []Contract{anyContract}

	// Arithmetic.
	self.register("+", 0, -1, num, func(args []Value) (Value, error) {
		return foldBinary(NewInt(0), args, opAdd), nil
	})
	self.register("-", 1, -1, num, func(args []Value) (Value, error) {
		if len(args) == 1 {
			return numBinary(NewInt(0), args[0], opSub), nil
		}
		return foldBinary(args[0], args[1:], opSub), nil
	})
	self.register("*", 0, -1, num, func(args []Value) (Value, error) {
		return foldBinary(NewInt(1), args, opMul), nil
	})
	self.register("/", 1, -1, num, func(args []Value) (Value, error) {
		return numDivide(args)
	})
	self.register("add1", 1, 1, num, func(args []Value) (Value, error) {
		return numBinary(args[0], NewInt(1), opAdd), nil
	})
	self.register("sub1", 1, 1, num, func(args []Value) (Value, error) {
		return numBinary(args[0], NewInt(1), opSub), nil
	})
	self.register("expt", 2, 2, num, func(args []Value) (Value, error) {
		return numExpt(args[0], args[1])
	})
	self.register("sqrt", 1, 1, num, func(args []Value) (Value, error) {
		return numSqrt(args[0]), nil
	})
	for _, name := range []string{"mod", "modulo"} {
		self.register(name, 2, 2, exactInt, func(args []Value) (Value, error) {
			return numModulo(args[0].(*Int).value, args[1].(*Int).value)
		})
	}
	self.register("real-part", 1, 1, num, func(args []Value) (Value, error) {
		return numRealPart(args[0]), nil
	})
	self.register("imag-part", 1, 1, num, func(args []Value) (Value, error) {
		return numImagPart(args[0]), nil
	})

	// Rounding.
	rounders := []struct {
		name  string
		mode  int
		exact bool
	}{
		{"round", roundNearest, false},
		{"floor", roundFloor, false},
		{"ceiling", roundCeiling, false},
		{"exact-round", roundNearest, true},
		{"exact-floor", roundFloor, true},
		{"exact-ceiling", roundCeiling, true},
	}
	for _, r := range rounders {
		mode, exact := r.mode, r.exact
		self.register(r.name, 1, 1, realArg, func(args []Value) (Value, error) {
			return numRound(args[0], mode, exact)
		})
	}

	// Comparisons.
	comparisons := map[string]func(int) bool{
		">":  func(c int) bool { return c > 0 },
		">=": func(c int) bool { return c >= 0 },
		"<":  func(c int) bool { return c < 0 },
		"<=": func(c int) bool { return c <= 0 },
	}
	for name, accept := range comparisons {
		accept := accept
		self.register(name, 2, 2, realArg, func(args []Value) (Value, error) {
			return NewBoolean(accept(numCompare(args[0], args[1]))), nil
		})
	}
	self.register("=", 2, 2, num, func(args []Value) (Value, error) {
		return NewBoolean(numEqual(args[0], args[1])), nil
	})
	self.register("equal?", 2, 2, anyArg, func(args []Value) (Value, error) {
		return NewBoolean(args[0].Equal(args[1])), nil
	})

	// Boolean logic over booleans and boolean arrays.
	self.register("not", 1, 1, []Contract{boolOrArrContract}, func(args []Value) (Value, error) {
		if b, ok := args[0].(*Boolean); ok {
			return NewBoolean(!b.value), nil
		}
		arr := args[0].(*BoolArr)
		elements := arr.Elements()
		for i := range elements {
			elements[i] = !elements[i]
		}
		return NewBoolArr(elements), nil
	})
	logic := map[string]func(bool, bool) bool{
		"and": logicalAnd,
		"or":  logicalOr,
		"xor": logicalXor,
	}
	for name, op := range logic {
		name, op := name, op
		self.register(name, 1, -1, []Contract{boolOrArrContract}, func(args []Value) (Value, error) {
			return applyLogic(name, op, args)
		})
	}

	// Predicates.
	self.registerPredicate("number?", isNum)
	self.registerPredicate("real?", isReal)
	self.registerPredicate("exact?", isExact)
	self.registerPredicate("inexact?", func(v Value) bool { return isNum(v) && !isExact(v) })
	self.registerPredicate("integer?", func(v Value) bool {
		if _, ok := v.(*Int); ok {
			return true
		}
		if f, ok := v.(*Float); ok {
			return f.value == math.Trunc(f.value) && !math.IsInf(f.value, 0)
		}
		return false
	})
	self.registerPredicate("exact-integer?", exactIntContract.check)
	self.registerPredicate("boolean?", booleanContract.check)
	self.registerPredicate("string?", stringContract.check)
	self.registerPredicate("char?", charContract.check)
	self.registerPredicate("pair?", pairContract.check)
	self.registerPredicate("null?", func(v Value) bool {
		_, ok := v.(*Null)
		return ok
	})
	self.registerPredicate("list?", isProperList)
	self.registerPredicate("boolarr?", boolarrContract.check)
	self.registerPredicate("procedure?", func(v Value) bool {
		_, ok := v.(*Procedure)
		return ok
	})
	signs := map[string]func(int) bool{
		"positive?": func(c int) bool { return c > 0 },
		"negative?": func(c int) bool { return c < 0 },
		"zero?":     func(c int) bool { return c == 0 },
	}
	for name, accept := range signs {
		accept := accept
		self.register(name, 1, 1, realArg, func(args []Value) (Value, error) {
			return NewBoolean(accept(numCompare(args[0], NewInt(0)))), nil
		})
	}

	// Lists.
	self.register("cons", 2, 2, anyArg, func(args []Value) (Value, error) {
		return NewPair(args[0], args[1]), nil
	})
	self.register("car", 1, 1, []Contract{pairContract}, func(args []Value) (Value, error) {
		return args[0].(*Pair).first, nil
	})
	self.register("cdr", 1, 1, []Contract{pairContract}, func(args []Value) (Value, error) {
		return args[0].(*Pair).rest, nil
	})
	self.register("list", 0, -1, anyArg, func(args []Value) (Value, error) {
		var list Value = TheNull
		for i := len(args) - 1; i >= 0; i -= 1 {
			list = NewPair(args[i], list)
		}
		return list, nil
	})
	self.register("list-ref", 2, 2, []Contract{pairContract, exactIntContract}, func(args []Value) (Value, error) {
		index, ok := asExactInt(args[1])
		if !ok || index < 0 {
			return nil, newRuntimeError(ErrDomain, "list-ref index %s out of range", args[1].String())
		}
		current := args[0]
		for i := int64(0); ; i += 1 {
			pair, ok := current.(*Pair)
			if !ok {
				return nil, newRuntimeError(ErrDomain, "list-ref index %d out of range", index)
			}
			if i == index {
				return pair.first, nil
			}
			current = pair.rest
		}
	})
	self.register("length", 1, 1, []Contract{listContract}, func(args []Value) (Value, error) {
		var n int64
		current := args[0]
		for {
			pair, ok := current.(*Pair)
			if !ok {
				return NewInt(n), nil
			}
			n += 1
			current = pair.rest
		}
	})

	// Strings and characters.
	self.register("string", 0, -1, []Contract{charContract}, func(args []Value) (Value, error) {
		var sb strings.Builder
		for _, arg := range args {
			sb.WriteRune(arg.(*Char).value)
		}
		return NewString(sb.String()), nil
	})
	self.register("string-append", 0, -1, strArg, func(args []Value) (Value, error) {
		var sb strings.Builder
		for _, arg := range args {
			sb.WriteString(arg.(*String).value)
		}
		return NewString(sb.String()), nil
	})
	self.register("string-upcase", 1, 1, strArg, func(args []Value) (Value, error) {
		return NewString(strings.ToUpper(args[0].(*String).value)), nil
	})
	self.register("string-downcase", 1, 1, strArg, func(args []Value) (Value, error) {
		return NewString(strings.ToLower(args[0].(*String).value)), nil
	})
	self.register("string-titlecase", 1, 1, strArg, func(args []Value) (Value, error) {
		return NewString(titlecase(args[0].(*String).value)), nil
	})
	self.register("string-length", 1, 1, strArg, func(args []Value) (Value, error) {
		return NewInt(int64(len([]rune(args[0].(*String).value)))), nil
	})
	self.register("string-ref", 2, 2, []Contract{stringContract, exactIntContract}, func(args []Value) (Value, error) {
		runes := []rune(args[0].(*String).value)
		index, ok := asExactInt(args[1])
		if !ok || index < 0 || index >= int64(len(runes)) {
			return nil, newRuntimeError(ErrDomain, "string-ref index %s out of range", args[1].String())
		}
		return NewChar(runes[index]), nil
	})
	self.register("number->string", 1, 1, num, func(args []Value) (Value, error) {
		return NewString(args[0].String()), nil
	})

	// Boolean-array intervals. The contract table covers every position it
	// can express; only the must-end-with-an-array rule of margin's optional
	// middle argument needs a residual check.
	self.register("margin", 2, 3, []Contract{exactIntContract, intOrArrContract}, func(args []Value) (Value, error) {
		arr, ok := args[len(args)-1].(*BoolArr)
		if !ok {
			return nil, newRuntimeError(ErrWrongType,
				"margin expected boolarr?, got %s", args[len(args)-1].Typename())
		}
		start, ok := asExactInt(args[0])
		if !ok {
			return nil, newRuntimeError(ErrDomain, "margin %s out of range", args[0].String())
		}
		end := start
		if len(args) == 3 {
			end, ok = asExactInt(args[1])
			if !ok {
				if _, isArr := args[1].(*BoolArr); isArr {
					return nil, newRuntimeError(ErrWrongType,
						"margin expected exact-integer?, got boolarr")
				}
				return nil, newRuntimeError(ErrDomain, "margin %s out of range", args[1].String())
			}
		}
		return NewBoolArr(applyMargin(arr.elements, int(start), int(end))), nil
	})
	for _, name := range []string{"mcut", "mincut"} {
		name := name
		self.register(name, 2, 2, []Contract{exactIntContract, boolarrContract}, func(args []Value) (Value, error) {
			lim, ok := asExactInt(args[0])
			if !ok {
				return nil, newRuntimeError(ErrDomain, "%s limit %s out of range", name, args[0].String())
			}
			arr := args[1].(*BoolArr)
			return NewBoolArr(removeSmall(arr.elements, int(lim), false)), nil
		})
	}
	for _, name := range []string{"mclip", "minclip"} {
		name := name
		self.register(name, 2, 2, []Contract{exactIntContract, boolarrContract}, func(args []Value) (Value, error) {
			lim, ok := asExactInt(args[0])
			if !ok {
				return nil, newRuntimeError(ErrDomain, "%s limit %s out of range", name, args[0].String())
			}
			arr := args[1].(*BoolArr)
			return NewBoolArr(removeSmall(arr.elements, int(lim), true)), nil
		})
	}
	self.register("cook", 3, 3, []Contract{exactIntContract, exactIntContract, boolarrContract}, func(args []Value) (Value, error) {
		mincut, okCut := asExactInt(args[0])
		minclip, okClip := asExactInt(args[1])
		if !okCut || !okClip {
			return nil, newRuntimeError(ErrDomain, "cook limit out of range")
		}
		arr := args[2].(*BoolArr)
		return NewBoolArr(cook(arr.elements, int(minclip), int(mincut))), nil
	})
	self.register("boolarr", 1, -1, exactInt, func(args []Value) (Value, error) {
		elements := make([]bool, len(args))
		for i, arg := range args {
			elements[i] = arg.(*Int).value.Sign() != 0
		}
		return NewBoolArr(elements), nil
	})
	self.register("count-nonzero", 1, 1, []Contract{boolarrContract}, func(args []Value) (Value, error) {
		return NewInt(countNonzero(args[0].(*BoolArr).elements)), nil
	})

	// Miscellaneous.
	self.register("display", 1, 1, anyArg, func(args []Value) (Value, error) {
		fmt.Fprint(self.stdout, displayText(args[0]))
		return TheVoid, nil
	})
	self.register("error", 1, 1, strArg, func(args []Value) (Value, error) {
		return nil, newRuntimeError(ErrUser, "%s", args[0].(*String).value)
	})
	self.register("exit", 0, 1, exactInt, func(args []Value) (Value, error) {
		code := int64(0)
		if len(args) == 1 {
			n, ok := asExactInt(args[0])
			if !ok {
				return nil, newRuntimeError(ErrDomain, "exit status %s out of range", args[0].String())
			}
			code = n
		}
		return nil, ExitError{int(code)}
	})
	self.register("begin", 0, -1, anyArg, func(args []Value) (Value, error) {
		if len(args) == 0 {
			return TheVoid, nil
		}
		return args[len(args)-1], nil
	})
}

func foldBinary(identity Value, args []Value, op int) Value {
	acc := identity
	for _, arg := range args {
		acc = numBinary(acc, arg, op)
	}
	return acc
}

// applyLogic folds and/or/xor over all-boolean or all-array operands.
// Mixing the two kinds is a type error.
func applyLogic(name string, op func(bool, bool) bool, args []Value) (Value, error) {
	allBools := true
	allArrs := true
	for _, arg := range args {
		if _, ok := arg.(*Boolean); !ok {
			allBools = false
		}
		if _, ok := arg.(*BoolArr); !ok {
			allArrs = false
		}
	}

	if allBools {
		acc := args[0].(*Boolean).value
		for _, arg := range args[1:] {
			acc = op(acc, arg.(*Boolean).value)
		}
		return NewBoolean(acc), nil
	}
	if allArrs {
		acc := args[0].(*BoolArr).Elements()
		for _, arg := range args[1:] {
			acc = boolop(acc, arg.(*BoolArr).elements, op)
		}
		return NewBoolArr(acc), nil
	}
	return nil, newRuntimeError(ErrWrongType,
		"%s cannot mix booleans and boolean arrays", name)
}

// titlecase uppercases the first letter of every word and lowercases the
// rest, treating any non-letter as a word boundary.
func titlecase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			sb.WriteRune(r)
			prevLetter = false
		}
	}
	return sb.String()
}
