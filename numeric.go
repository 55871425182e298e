package cutlang

import (
	"math"
	"math/big"
	"math/cmplx"
)

func isNum(v Value) bool {
	switch v.(type) {
	case *Int, *Rat, *Float, *Complex:
		return true
	}
	return false
}

func isReal(v Value) bool {
	switch v.(type) {
	case *Int, *Rat, *Float:
		return true
	}
	return false
}

func isExact(v Value) bool {
	switch v.(type) {
	case *Int, *Rat:
		return true
	}
	return false
}

// asExactInt narrows an exact integer to int64 for use as an index, limit,
// or status code. Reports false when the value is not an Int or its
// magnitude does not fit.
func asExactInt(v Value) (int64, bool) {
	i, ok := v.(*Int)
	if !ok || !i.value.IsInt64() {
		return 0, false
	}
	return i.value.Int64(), true
}

// asFloat converts a real value to a float64. Reports false for complexes,
// non-numbers, and nil.
func asFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case *Int:
		f, _ := new(big.Float).SetInt(v.value).Float64()
		return f, true
	case *Rat:
		f, _ := v.value.Float64()
		return f, true
	case *Float:
		return v.value, true
	}
	return 0, false
}

func asComplex(v Value) (complex128, bool) {
	if c, ok := v.(*Complex); ok {
		return c.value, true
	}
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return complex(f, 0), true
}

// asRat converts an exact value to a big.Rat.
func asRat(v Value) (*big.Rat, bool) {
	switch v := v.(type) {
	case *Int:
		return new(big.Rat).SetInt(v.value), true
	case *Rat:
		return new(big.Rat).Set(v.value), true
	}
	return nil, false
}

const (
	opAdd = iota
	opSub
	opMul
)

// numBinary applies +, -, or * to a pair of numbers, promoting to the least
// exact operand's representation. Exact operands stay exact.
func numBinary(a, b Value, op int) Value {
	if _, ok := a.(*Complex); ok {
		return complexBinary(a, b, op)
	}
	if _, ok := b.(*Complex); ok {
		return complexBinary(a, b, op)
	}
	if _, ok := a.(*Float); ok {
		return floatBinary(a, b, op)
	}
	if _, ok := b.(*Float); ok {
		return floatBinary(a, b, op)
	}

	x, _ := asRat(a)
	y, _ := asRat(b)
	switch op {
	case opAdd:
		x.Add(x, y)
	case opSub:
		x.Sub(x, y)
	case opMul:
		x.Mul(x, y)
	}
	return newRatFromBig(x)
}

func floatBinary(a, b Value, op int) Value {
	x, _ := asFloat(a)
	y, _ := asFloat(b)
	switch op {
	case opAdd:
		return NewFloat(x + y)
	case opSub:
		return NewFloat(x - y)
	}
	return NewFloat(x * y)
}

func complexBinary(a, b Value, op int) Value {
	x, _ := asComplex(a)
	y, _ := asComplex(b)
	switch op {
	case opAdd:
		return NewComplex(x + y)
	case opSub:
		return NewComplex(x - y)
	}
	return NewComplex(x * y)
}

// numDivide implements successive division over one or more operands. With
// no float or complex operand the result is exact, collapsing to an integer
// when whole.
func numDivide(args []Value) (Value, error) {
	if len(args) == 1 {
		args = []Value{NewInt(1), args[0]}
	}

	exact := true
	for _, arg := range args {
		if !isExact(arg) {
			exact = false
			break
		}
	}

	if exact {
		acc, _ := asRat(args[0])
		for _, arg := range args[1:] {
			r, _ := asRat(arg)
			if r.Sign() == 0 {
				return nil, newRuntimeError(ErrDomain, "division by zero")
			}
			acc.Quo(acc, r)
		}
		return newRatFromBig(acc), nil
	}

	for _, arg := range args {
		if _, ok := arg.(*Complex); ok {
			return complexDivide(args)
		}
	}

	acc, _ := asFloat(args[0])
	for _, arg := range args[1:] {
		f, _ := asFloat(arg)
		if f == 0 {
			return nil, newRuntimeError(ErrDomain, "division by zero")
		}
		acc /= f
	}
	return NewFloat(acc), nil
}

func complexDivide(args []Value) (Value, error) {
	acc, _ := asComplex(args[0])
	for _, arg := range args[1:] {
		c, _ := asComplex(arg)
		if c == 0 {
			return nil, newRuntimeError(ErrDomain, "division by zero")
		}
		acc /= c
	}
	return NewComplex(acc), nil
}

// numCompare orders two reals: -1, 0, or +1. Exact pairs compare exactly.
func numCompare(a, b Value) int {
	if isExact(a) && isExact(b) {
		x, _ := asRat(a)
		y, _ := asRat(b)
		return x.Cmp(y)
	}
	x, _ := asFloat(a)
	y, _ := asFloat(b)
	if x < y {
		return -1
	}
	if x > y {
		return 1
	}
	return 0
}

// numEqual is numeric =, insensitive to exactness: (= 0 0.0) holds.
func numEqual(a, b Value) bool {
	_, ac := a.(*Complex)
	_, bc := b.(*Complex)
	if ac || bc {
		x, _ := asComplex(a)
		y, _ := asComplex(b)
		return x == y
	}
	return numCompare(a, b) == 0
}

func ratFloor(r *big.Rat) *big.Int {
	// Denominators are positive, so big.Int Euclidean division floors.
	return new(big.Int).Div(r.Num(), r.Denom())
}

func ratCeil(r *big.Rat) *big.Int {
	neg := new(big.Rat).Neg(r)
	return new(big.Int).Neg(ratFloor(neg))
}

// ratRound rounds half to even, matching the rounding of inexact reals.
func ratRound(r *big.Rat) *big.Int {
	floor := ratFloor(r)
	frac := new(big.Rat).Sub(r, new(big.Rat).SetInt(floor))
	switch frac.Cmp(big.NewRat(1, 2)) {
	case -1:
		return floor
	case 1:
		return floor.Add(floor, big.NewInt(1))
	}
	if floor.Bit(0) == 0 {
		return floor
	}
	return floor.Add(floor, big.NewInt(1))
}

const (
	roundNearest = iota
	roundFloor
	roundCeiling
)

// numRound implements round/floor/ceiling and their exact- variants over any
// real. A float input yields a float output unless exact is requested; an
// exact input always yields an exact integer. A non-finite float has no
// exact form.
func numRound(v Value, mode int, exact bool) (Value, error) {
	switch v := v.(type) {
	case *Int:
		return v, nil
	case *Rat:
		switch mode {
		case roundFloor:
			return newIntFromBig(ratFloor(v.value)), nil
		case roundCeiling:
			return newIntFromBig(ratCeil(v.value)), nil
		}
		return newIntFromBig(ratRound(v.value)), nil
	case *Float:
		var f float64
		switch mode {
		case roundFloor:
			f = math.Floor(v.value)
		case roundCeiling:
			f = math.Ceil(v.value)
		default:
			f = math.RoundToEven(v.value)
		}
		if exact {
			if math.IsInf(f, 0) || math.IsNaN(f) {
				return nil, newRuntimeError(ErrDomain, "%s has no exact form", formatFloat(f))
			}
			n, _ := big.NewFloat(f).Int(nil)
			return newIntFromBig(n), nil
		}
		return NewFloat(f), nil
	}
	return v, nil
}

// numSqrt: a perfect square integer has an exact root; other nonnegative
// reals round-trip through float; a negative radicand goes complex.
func numSqrt(v Value) Value {
	if c, ok := v.(*Complex); ok {
		return NewComplex(cmplx.Sqrt(c.value))
	}

	f, _ := asFloat(v)
	if f < 0 {
		return NewComplex(cmplx.Sqrt(complex(f, 0)))
	}

	if i, ok := v.(*Int); ok {
		root := new(big.Int).Sqrt(i.value)
		if new(big.Int).Mul(root, root).Cmp(i.value) == 0 {
			return newIntFromBig(root)
		}
	}
	return NewFloat(math.Sqrt(f))
}

func numExpt(base, exponent Value) (Value, error) {
	if isExact(base) {
		if n, ok := asExactInt(exponent); ok {
			return exactExpt(base, n)
		}
	}

	_, bc := base.(*Complex)
	_, ec := exponent.(*Complex)
	if bc || ec {
		x, _ := asComplex(base)
		y, _ := asComplex(exponent)
		return NewComplex(cmplx.Pow(x, y)), nil
	}

	x, _ := asFloat(base)
	y, _ := asFloat(exponent)
	f := math.Pow(x, y)
	if math.IsNaN(f) && x < 0 {
		// A negative base with a fractional exponent has a complex power.
		return NewComplex(cmplx.Pow(complex(x, 0), complex(y, 0))), nil
	}
	return NewFloat(f), nil
}

func exactExpt(base Value, n int64) (Value, error) {
	r, _ := asRat(base)
	if n < 0 {
		if r.Sign() == 0 {
			return nil, newRuntimeError(ErrDomain, "division by zero")
		}
		r.Inv(r)
		n = -n
	}
	num := new(big.Int).Exp(r.Num(), big.NewInt(n), nil)
	den := new(big.Int).Exp(r.Denom(), big.NewInt(n), nil)
	return newRatFromBig(new(big.Rat).SetFrac(num, den)), nil
}

// numModulo follows the sign-of-divisor convention.
func numModulo(a, b *big.Int) (Value, error) {
	if b.Sign() == 0 {
		return nil, newRuntimeError(ErrDomain, "division by zero")
	}
	// big.Int Mod is Euclidean: 0 <= m < |b|. Shift into the divisor's sign.
	m := new(big.Int).Mod(a, b)
	if m.Sign() != 0 && b.Sign() < 0 {
		m.Add(m, b)
	}
	return newIntFromBig(m), nil
}

func numRealPart(v Value) Value {
	if c, ok := v.(*Complex); ok {
		return NewFloat(real(c.value))
	}
	return v
}

func numImagPart(v Value) Value {
	if c, ok := v.(*Complex); ok {
		return NewFloat(imag(c.value))
	}
	if isExact(v) {
		return NewInt(0)
	}
	return NewFloat(0)
}
