package cutlang

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runOne(t *testing.T, source string) Value {
	interp := NewInterpreter(nil)
	results, err := interp.Run(source)
	require.NoError(t, err)
	require.Len(t, results, 1)
	return results[0]
}

func runError(t *testing.T, source string) error {
	interp := NewInterpreter(nil)
	_, err := interp.Run(source)
	require.Error(t, err)
	return err
}

func runtimeKind(t *testing.T, err error) string {
	var re RuntimeError
	require.ErrorAs(t, err, &re)
	return re.Kind
}

func TestEvalArithmetic(t *testing.T) {
	assert.True(t, runOne(t, "(+ 1 2 3)").Equal(NewInt(6)))
	assert.True(t, runOne(t, "(- 10 1 2)").Equal(NewInt(7)))
	assert.True(t, runOne(t, "(- 5)").Equal(NewInt(-5)))
	assert.True(t, runOne(t, "(* 2 3 4)").Equal(NewInt(24)))
	assert.True(t, runOne(t, "(/ 1 3)").Equal(NewRational(1, 3)))
}

func TestEvalIdentityElements(t *testing.T) {
	assert.True(t, runOne(t, "(+)").Equal(NewInt(0)))
	assert.True(t, runOne(t, "(*)").Equal(NewInt(1)))
}

func TestEvalExactDivisionCollapses(t *testing.T) {
	assert.True(t, runOne(t, "(/ 6 3)").Equal(NewInt(2)))
}

// Exact integers carry arbitrary magnitude end to end.
func TestEvalBigExactArithmetic(t *testing.T) {
	assert.Equal(t, "18446744073709551616", runOne(t, "(expt 2 64)").String())
	assert.Equal(t, "9223372036854775808", runOne(t, "(+ 9223372036854775807 1)").String())
	assert.Equal(t, "4294967296", runOne(t, "(sqrt (expt 2 64))").String())
	assert.True(t, runOne(t, "(modulo (expt 10 20) 7)").Equal(NewInt(2)))
	assert.True(t, runOne(t, "(= (expt 2 64) 18446744073709551616)").Equal(NewBoolean(true)))
}

func TestEvalNumericEqualityIgnoresExactness(t *testing.T) {
	assert.True(t, runOne(t, "(= 0 0.0)").Equal(NewBoolean(true)))
	assert.True(t, runOne(t, "(equal? 0 0.0)").Equal(NewBoolean(false)))
	assert.True(t, runOne(t, "(equal? 1/2 2/4)").Equal(NewBoolean(true)))
}

func TestEvalArityErrors(t *testing.T) {
	{
		err := runError(t, "(add1)")
		assert.Equal(t, ErrArity, runtimeKind(t, err))
		assert.ErrorContains(t, err, "add1 expects 1 argument(s), got 0")
	}
	{
		err := runError(t, "(< 1)")
		assert.Equal(t, ErrArity, runtimeKind(t, err))
	}
	{
		err := runError(t, "(-)")
		assert.ErrorContains(t, err, "- expects at least 1 argument(s), got 0")
	}
}

func TestEvalContractErrors(t *testing.T) {
	{
		err := runError(t, `(string-upcase 5)`)
		assert.Equal(t, ErrWrongType, runtimeKind(t, err))
		assert.ErrorContains(t, err, "string-upcase expected string?, got integer")
	}
	{
		err := runError(t, `(+ 1 "two")`)
		assert.ErrorContains(t, err, "+ expected number?, got string")
	}
	{
		// The last contract repeats across variadic positions.
		err := runError(t, `(string-append "a" "b" 3)`)
		assert.ErrorContains(t, err, "string-append expected string?, got integer")
	}
}

func TestEvalUndefinedIdentifier(t *testing.T) {
	err := runError(t, "nonesuch")
	assert.Equal(t, ErrUndefined, runtimeKind(t, err))
	assert.ErrorContains(t, err, "identifier nonesuch is not defined")
}

func TestEvalNonProcedureHead(t *testing.T) {
	err := runError(t, "(1 2 3)")
	assert.Equal(t, ErrNotProcedure, runtimeKind(t, err))
	assert.ErrorContains(t, err, "1 is not a procedure")
}

func TestEvalComputedHead(t *testing.T) {
	assert.True(t, runOne(t, "((if #t + -) 6 2)").Equal(NewInt(8)))
	assert.True(t, runOne(t, "((if #f + -) 6 2)").Equal(NewInt(4)))
}

func TestEvalIfDoesNotTouchUntakenBranch(t *testing.T) {
	// The error builtin would abort the run if the untaken branch were
	// evaluated.
	assert.True(t, runOne(t, `(if #t 1 (error "boom"))`).Equal(NewInt(1)))
	assert.True(t, runOne(t, `(if #f (error "boom") 2)`).Equal(NewInt(2)))
}

func TestEvalIfRequiresBooleanCondition(t *testing.T) {
	err := runError(t, "(if 1 2 3)")
	assert.Equal(t, ErrWrongType, runtimeKind(t, err))
	assert.ErrorContains(t, err, "if expected a boolean condition, got integer")
}

func TestEvalIfArity(t *testing.T) {
	err := runError(t, "(if #t 1)")
	assert.Equal(t, ErrSpecialForm, runtimeKind(t, err))
}

func TestEvalWhen(t *testing.T) {
	assert.True(t, runOne(t, "(when #t 42)").Equal(NewInt(42)))
	assert.Equal(t, TheVoid, runOne(t, "(when #f 42)"))
	assert.True(t, runOne(t, `(when #f (error "boom"))`).Equal(TheVoid))
}

func TestEvalDefineAndSet(t *testing.T) {
	interp := NewInterpreter(nil)
	results, err := interp.Run("(define x 10) (set! x (+ x 1)) x")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, TheVoid, results[0])
	assert.Equal(t, TheVoid, results[1])
	assert.True(t, results[2].Equal(NewInt(11)))
}

func TestEvalDefineOverwrites(t *testing.T) {
	interp := NewInterpreter(nil)
	results, err := interp.Run("(define x 1) (define x 2) x")
	require.NoError(t, err)
	assert.True(t, results[2].Equal(NewInt(2)))
}

func TestEvalSetBeforeDefine(t *testing.T) {
	err := runError(t, "(set! x 1)")
	assert.Equal(t, ErrSetBeforeDefine, runtimeKind(t, err))
	assert.ErrorContains(t, err, "cannot set x before definition")
}

func TestEvalBindingRequiresIdentifier(t *testing.T) {
	err := runError(t, "(define 1 2)")
	assert.Equal(t, ErrWrongType, runtimeKind(t, err))
}

func TestEvalSecondsLiteralUsesTimebase(t *testing.T) {
	interp := NewInterpreter(nil)
	interp.Define("timebase", NewInt(30))
	results, err := interp.Run("2s 1.5s")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Equal(NewInt(60)))
	assert.True(t, results[1].Equal(NewInt(45)))
}

func TestEvalSecondsLiteralRoundsHalfEven(t *testing.T) {
	interp := NewInterpreter(nil)
	interp.Define("timebase", NewRational(30000, 1001))
	results, err := interp.Run("1s")
	require.NoError(t, err)
	// 30000/1001 is just under 30 and rounds to it.
	assert.True(t, results[0].Equal(NewInt(30)))
}

func TestEvalSecondsLiteralWithoutTimebase(t *testing.T) {
	err := runError(t, "2s")
	assert.Equal(t, ErrUndefined, runtimeKind(t, err))
}

func TestEvalDisplay(t *testing.T) {
	interp := NewInterpreter(nil)
	var out bytes.Buffer
	interp.SetOutput(&out)
	results, err := interp.Run(`(display "hi ") (display 42)`)
	require.NoError(t, err)
	assert.Equal(t, "hi 42", out.String())
	assert.Equal(t, TheVoid, results[0])
}

func TestEvalErrorBuiltin(t *testing.T) {
	err := runError(t, `(error "boom")`)
	assert.Equal(t, ErrUser, runtimeKind(t, err))
	assert.EqualError(t, err, "boom")
}

func TestEvalExit(t *testing.T) {
	var exit ExitError
	require.ErrorAs(t, runError(t, "(exit 3)"), &exit)
	assert.Equal(t, 3, exit.Code)

	require.ErrorAs(t, runError(t, "(exit)"), &exit)
	assert.Equal(t, 0, exit.Code)
}

func TestEvalBegin(t *testing.T) {
	assert.True(t, runOne(t, "(begin 1 2 3)").Equal(NewInt(3)))
	assert.Equal(t, TheVoid, runOne(t, "(begin)"))
}

func TestEvalLogicOverBooleans(t *testing.T) {
	assert.True(t, runOne(t, "(and #t #t #f)").Equal(NewBoolean(false)))
	assert.True(t, runOne(t, "(or #f #f #t)").Equal(NewBoolean(true)))
	assert.True(t, runOne(t, "(xor #t #f)").Equal(NewBoolean(true)))
	assert.True(t, runOne(t, "(not #f)").Equal(NewBoolean(true)))
}

func TestEvalLogicOverArraysBroadcasts(t *testing.T) {
	result := runOne(t, "(or (boolarr 1 0) (boolarr 0 0 0 0 0))")
	assert.True(t, result.Equal(NewBoolArr([]bool{true, false, true, false, true})))
}

func TestEvalLogicRejectsMixedOperands(t *testing.T) {
	err := runError(t, "(and #t (boolarr 1 0))")
	assert.Equal(t, ErrWrongType, runtimeKind(t, err))
	assert.ErrorContains(t, err, "cannot mix booleans and boolean arrays")
}

func TestEvalNotOverArray(t *testing.T) {
	result := runOne(t, "(not (boolarr 1 0 1))")
	assert.True(t, result.Equal(NewBoolArr([]bool{false, true, false})))
}

func TestEvalMargin(t *testing.T) {
	{
		result := runOne(t, "(margin 1 (boolarr 0 0 1 0 0))")
		assert.True(t, result.Equal(NewBoolArr([]bool{false, true, true, true, false})))
	}
	{
		result := runOne(t, "(margin 0 1 (boolarr 0 0 1 0 0))")
		assert.True(t, result.Equal(NewBoolArr([]bool{false, false, true, true, false})))
	}
}

// Margin's argument checks run through the contract table like every other
// builtin, so its errors read as contracts.
func TestEvalMarginContractErrors(t *testing.T) {
	{
		err := runError(t, `(margin "x" (boolarr 1))`)
		assert.Equal(t, ErrWrongType, runtimeKind(t, err))
		assert.ErrorContains(t, err, "margin expected exact-integer?, got string")
	}
	{
		err := runError(t, "(margin 1 2)")
		assert.Equal(t, ErrWrongType, runtimeKind(t, err))
		assert.ErrorContains(t, err, "margin expected boolarr?, got integer")
	}
	{
		err := runError(t, "(margin 1 (boolarr 1) (boolarr 1))")
		assert.Equal(t, ErrWrongType, runtimeKind(t, err))
		assert.ErrorContains(t, err, "margin expected exact-integer?, got boolarr")
	}
}

func TestEvalMincutAndMinclip(t *testing.T) {
	{
		result := runOne(t, "(mincut 3 (boolarr 1 1 0 0 1 1))")
		assert.True(t, result.Equal(NewBoolArr([]bool{true, true, true, true, true, true})))
	}
	{
		result := runOne(t, "(minclip 2 (boolarr 1 0 0 1 1 0))")
		assert.True(t, result.Equal(NewBoolArr([]bool{false, false, false, true, true, false})))
	}
	// The short aliases behave identically.
	assert.True(t, runOne(t, "(mcut 3 (boolarr 1 1 0 0 1 1))").
		Equal(runOne(t, "(mincut 3 (boolarr 1 1 0 0 1 1))")))
	assert.True(t, runOne(t, "(mclip 2 (boolarr 1 0 0 1 1 0))").
		Equal(runOne(t, "(minclip 2 (boolarr 1 0 0 1 1 0))")))
}

func TestEvalCook(t *testing.T) {
	// Keeps are smoothed before cuts: (cook mincut minclip arr).
	result := runOne(t, "(cook 3 2 (boolarr 1 0 0 1 1 1))")
	assert.True(t, result.Equal(NewBoolArr([]bool{false, false, false, true, true, true})))
}

func TestEvalBoolarrConstructor(t *testing.T) {
	result := runOne(t, "(boolarr 1 0 2)")
	assert.True(t, result.Equal(NewBoolArr([]bool{true, false, true})))
}

func TestEvalCountNonzero(t *testing.T) {
	assert.True(t, runOne(t, "(count-nonzero (boolarr 1 0 1 1))").Equal(NewInt(3)))
}

func TestEvalListOperations(t *testing.T) {
	assert.Equal(t, "(1 2 3)", runOne(t, "(list 1 2 3)").String())
	assert.True(t, runOne(t, "(car (cons 1 2))").Equal(NewInt(1)))
	assert.True(t, runOne(t, "(cdr (cons 1 2))").Equal(NewInt(2)))
	assert.True(t, runOne(t, "(list-ref (list 10 20 30) 1)").Equal(NewInt(20)))
	assert.True(t, runOne(t, "(length (list 1 2 3))").Equal(NewInt(3)))
	assert.True(t, runOne(t, "(length null)").Equal(NewInt(0)))
}

func TestEvalListRefOutOfRange(t *testing.T) {
	err := runError(t, "(list-ref (list 1) 5)")
	assert.Equal(t, ErrDomain, runtimeKind(t, err))
}

func TestEvalStringOperations(t *testing.T) {
	assert.True(t, runOne(t, `(string #\h #\i)`).Equal(NewString("hi")))
	assert.True(t, runOne(t, `(string-append "foo" "bar")`).Equal(NewString("foobar")))
	assert.True(t, runOne(t, `(string-upcase "mixed Case")`).Equal(NewString("MIXED CASE")))
	assert.True(t, runOne(t, `(string-downcase "Mixed Case")`).Equal(NewString("mixed case")))
	assert.True(t, runOne(t, `(string-titlecase "hello there")`).Equal(NewString("Hello There")))
	assert.True(t, runOne(t, `(string-length "hello")`).Equal(NewInt(5)))
	assert.True(t, runOne(t, `(string-ref "abc" 1)`).Equal(NewChar('b')))
	assert.True(t, runOne(t, "(number->string 1/2)").Equal(NewString("1/2")))
}

func TestEvalPredicates(t *testing.T) {
	cases := map[string]bool{
		"(number? 1)":           true,
		"(number? 3i)":          true,
		"(real? 3i)":            false,
		"(exact? 1/2)":          true,
		"(exact? 0.5)":          false,
		"(inexact? 0.5)":        true,
		"(integer? 2.0)":        true,
		"(integer? 2.5)":        false,
		"(exact-integer? 2.0)":  false,
		"(exact-integer? 2)":    true,
		"(boolean? #t)":         true,
		`(string? "s")`:         true,
		`(char? #\c)`:           true,
		"(pair? (cons 1 2))":    true,
		"(null? null)":          true,
		"(list? (list 1))":      true,
		"(list? (cons 1 2))":    false,
		"(boolarr? (boolarr 1))": true,
		"(procedure? margin)":   true,
		"(positive? 1/2)":       true,
		"(negative? -0.5)":      true,
		"(zero? 0)":             true,
	}
	for source, want := range cases {
		assert.True(t, runOne(t, source).Equal(NewBoolean(want)), "source %s", source)
	}
}

func TestEvalConstants(t *testing.T) {
	assert.True(t, runOne(t, "true").Equal(NewBoolean(true)))
	assert.True(t, runOne(t, "false").Equal(NewBoolean(false)))
	assert.Equal(t, TheNull, runOne(t, "null"))
	assert.Equal(t, "float", runOne(t, "pi").Typename())
}

func TestEvalArrayLiteralWithoutMedia(t *testing.T) {
	err := runError(t, "audio")
	assert.Equal(t, ErrDescriptor, runtimeKind(t, err))
	assert.ErrorContains(t, err, "no media loaded")
}

func TestEvalAbortsOnFirstError(t *testing.T) {
	interp := NewInterpreter(nil)
	var out bytes.Buffer
	interp.SetOutput(&out)
	results, err := interp.Run(`(display "a") nonesuch (display "b")`)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, "a", out.String())
}
