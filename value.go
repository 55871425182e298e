package cutlang

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

func escape(s string) string {
	result := ""
	for _, r := range s {
		if r == '\t' {
			result += "\\t"
			continue
		}
		if r == '\n' {
			result += "\\n"
			continue
		}
		if r == '"' {
			result += "\\\""
			continue
		}
		if r == '\\' {
			result += "\\\\"
			continue
		}
		result += string(r)
	}
	return result
}

// formatFloat renders a float the way the language displays inexact reals:
// whole values keep a trailing ".0" so they stay visually distinct from
// exact integers.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Value is the runtime result of evaluating a node: a closed union over the
// numeric tower, booleans, strings, characters, cons structure, boolean
// arrays, and procedures.
type Value interface {
	Typename() string
	String() string
	Equal(Value) bool
}

// Int is an exact integer of arbitrary magnitude.
type Int struct {
	value *big.Int
}

func NewInt(value int64) *Int {
	return &Int{big.NewInt(value)}
}

func newIntFromBig(value *big.Int) *Int {
	return &Int{new(big.Int).Set(value)}
}

func (self *Int) Typename() string {
	return "integer"
}

func (self *Int) String() string {
	return self.value.String()
}

func (self *Int) Equal(other Value) bool {
	othr, ok := other.(*Int)
	if !ok {
		return false
	}
	return self.value.Cmp(othr.value) == 0
}

// Rat is an exact rational in lowest terms. The denominator is never 1: a
// whole result collapses to an Int at construction time.
type Rat struct {
	value *big.Rat
}

func NewRational(num, den int64) Value {
	return newRatFromBig(big.NewRat(num, den))
}

func newRatFromBig(r *big.Rat) Value {
	if r.IsInt() {
		return newIntFromBig(r.Num())
	}
	return &Rat{new(big.Rat).Set(r)}
}

func (self *Rat) Typename() string {
	return "rational"
}

func (self *Rat) String() string {
	return fmt.Sprintf("%s/%s", self.value.Num().String(), self.value.Denom().String())
}

func (self *Rat) Equal(other Value) bool {
	othr, ok := other.(*Rat)
	if !ok {
		return false
	}
	return self.value.Cmp(othr.value) == 0
}

type Float struct {
	value float64
}

func NewFloat(value float64) *Float {
	return &Float{value}
}

func (self *Float) Typename() string {
	return "float"
}

func (self *Float) String() string {
	return formatFloat(self.value)
}

func (self *Float) Equal(other Value) bool {
	othr, ok := other.(*Float)
	if !ok {
		return false
	}
	return self.value == othr.value
}

type Complex struct {
	value complex128
}

func NewComplex(value complex128) *Complex {
	return &Complex{value}
}

func (self *Complex) Typename() string {
	return "complex"
}

func (self *Complex) String() string {
	join := ""
	if imag(self.value) >= 0 {
		join = "+"
	}
	return fmt.Sprintf("%s%s%si", formatFloat(real(self.value)), join, formatFloat(imag(self.value)))
}

func (self *Complex) Equal(other Value) bool {
	othr, ok := other.(*Complex)
	if !ok {
		return false
	}
	return self.value == othr.value
}

type Boolean struct {
	value bool
}

func NewBoolean(value bool) *Boolean {
	return &Boolean{value}
}

func (self *Boolean) Typename() string {
	return "boolean"
}

func (self *Boolean) String() string {
	if self.value {
		return "#t"
	}
	return "#f"
}

func (self *Boolean) Equal(other Value) bool {
	othr, ok := other.(*Boolean)
	if !ok {
		return false
	}
	return self.value == othr.value
}

type String struct {
	value string
}

func NewString(value string) *String {
	return &String{value}
}

func (self *String) Typename() string {
	return "string"
}

func (self *String) String() string {
	return fmt.Sprintf("\"%s\"", escape(self.value))
}

func (self *String) Equal(other Value) bool {
	othr, ok := other.(*String)
	if !ok {
		return false
	}
	return self.value == othr.value
}

type Char struct {
	value rune
}

func NewChar(value rune) *Char {
	return &Char{value}
}

func (self *Char) Typename() string {
	return "character"
}

func (self *Char) String() string {
	return fmt.Sprintf("#\\%c", self.value)
}

func (self *Char) Equal(other Value) bool {
	othr, ok := other.(*Char)
	if !ok {
		return false
	}
	return self.value == othr.value
}

// Null is the empty-list singleton.
type Null struct{}

var TheNull = &Null{}

func (self *Null) Typename() string {
	return "null"
}

func (self *Null) String() string {
	return "'()"
}

func (self *Null) Equal(other Value) bool {
	_, ok := other.(*Null)
	return ok
}

// Pair is a cons cell. A chain of pairs ending in TheNull is a proper list.
type Pair struct {
	first Value
	rest  Value
}

func NewPair(first, rest Value) *Pair {
	return &Pair{first, rest}
}

func (self *Pair) Typename() string {
	return "pair"
}

func (self *Pair) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(self.first.String())
	rest := self.rest
	for {
		if _, ok := rest.(*Null); ok {
			break
		}
		pair, ok := rest.(*Pair)
		if !ok {
			sb.WriteString(" . ")
			sb.WriteString(rest.String())
			break
		}
		sb.WriteString(" ")
		sb.WriteString(pair.first.String())
		rest = pair.rest
	}
	sb.WriteString(")")
	return sb.String()
}

func (self *Pair) Equal(other Value) bool {
	othr, ok := other.(*Pair)
	if !ok {
		return false
	}
	return self.first.Equal(othr.first) && self.rest.Equal(othr.rest)
}

// Void is the no-value result of define, set!, display, and a false when.
// Front ends print nothing for it.
type Void struct{}

var TheVoid = &Void{}

func (self *Void) Typename() string {
	return "void"
}

func (self *Void) String() string {
	return ""
}

func (self *Void) Equal(other Value) bool {
	_, ok := other.(*Void)
	return ok
}

// BoolArr is a fixed-length sequence of one-bit-per-frame flags:
// true = keep, false = cut.
type BoolArr struct {
	elements []bool
}

func NewBoolArr(elements []bool) *BoolArr {
	return &BoolArr{elements}
}

func (self *BoolArr) Typename() string {
	return "boolarr"
}

func (self *BoolArr) String() string {
	var sb strings.Builder
	sb.WriteString("(boolarr")
	for _, b := range self.elements {
		if b {
			sb.WriteString(" 1")
		} else {
			sb.WriteString(" 0")
		}
	}
	sb.WriteString(")")
	return sb.String()
}

func (self *BoolArr) Equal(other Value) bool {
	othr, ok := other.(*BoolArr)
	if !ok {
		return false
	}
	if len(self.elements) != len(othr.elements) {
		return false
	}
	for i := range self.elements {
		if self.elements[i] != othr.elements[i] {
			return false
		}
	}
	return true
}

func (self *BoolArr) Len() int {
	return len(self.elements)
}

// Elements returns a copy so callers cannot mutate the array in place.
func (self *BoolArr) Elements() []bool {
	elements := make([]bool, len(self.elements))
	copy(elements, self.elements)
	return elements
}

// Procedure is a builtin: a name, a callable, an arity range, and optional
// per-argument contracts. The evaluator validates arity and contracts
// before invoking fn.
type Procedure struct {
	name      string
	fn        func(args []Value) (Value, error)
	minArgs   int
	maxArgs   int // -1 means no upper bound
	contracts []Contract
}

func (self *Procedure) Typename() string {
	return "procedure"
}

func (self *Procedure) String() string {
	return fmt.Sprintf("#<procedure:%s>", self.name)
}

func (self *Procedure) Equal(other Value) bool {
	othr, ok := other.(*Procedure)
	if !ok {
		return false
	}
	return self == othr
}

// displayText is the display form: strings and characters render raw,
// everything else as its written form.
func displayText(v Value) string {
	switch v := v.(type) {
	case *String:
		return v.value
	case *Char:
		return string(v.value)
	}
	return v.String()
}
