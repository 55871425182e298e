package cutlang

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundValue(t *testing.T, v Value, mode int, exact bool) Value {
	result, err := numRound(v, mode, exact)
	require.NoError(t, err)
	return result
}

func TestNumBinaryStaysExact(t *testing.T) {
	sum := numBinary(NewRational(1, 2), NewRational(1, 3), opAdd)
	assert.True(t, sum.Equal(NewRational(5, 6)))

	product := numBinary(NewRational(2, 3), NewInt(3), opMul)
	assert.True(t, product.Equal(NewInt(2)))
}

func TestNumBinaryPromotesToFloat(t *testing.T) {
	sum := numBinary(NewInt(1), NewFloat(0.5), opAdd)
	assert.True(t, sum.Equal(NewFloat(1.5)))
}

func TestNumBinaryPromotesToComplex(t *testing.T) {
	sum := numBinary(NewInt(1), NewComplex(complex(0, 1)), opAdd)
	assert.True(t, sum.Equal(NewComplex(complex(1, 1))))
}

func TestNumDivideExact(t *testing.T) {
	{
		result, err := numDivide([]Value{NewInt(6), NewInt(3)})
		require.NoError(t, err)
		assert.True(t, result.Equal(NewInt(2)))
	}
	{
		result, err := numDivide([]Value{NewInt(1), NewInt(3)})
		require.NoError(t, err)
		assert.True(t, result.Equal(NewRational(1, 3)))
	}
	{
		// A single operand divides one.
		result, err := numDivide([]Value{NewInt(4)})
		require.NoError(t, err)
		assert.True(t, result.Equal(NewRational(1, 4)))
	}
}

func TestNumDivideInexact(t *testing.T) {
	result, err := numDivide([]Value{NewFloat(1), NewInt(4)})
	require.NoError(t, err)
	assert.True(t, result.Equal(NewFloat(0.25)))
}

func TestNumDivideByZero(t *testing.T) {
	_, err := numDivide([]Value{NewInt(1), NewInt(0)})
	require.Error(t, err)
	assert.Equal(t, ErrDomain, err.(RuntimeError).Kind)
}

func TestNumEqualIgnoresExactness(t *testing.T) {
	assert.True(t, numEqual(NewInt(0), NewFloat(0)))
	assert.True(t, numEqual(NewRational(1, 2), NewFloat(0.5)))
	assert.False(t, numEqual(NewInt(1), NewFloat(0)))
	assert.True(t, numEqual(NewComplex(complex(1, 0)), NewInt(1)))
}

func TestNumCompareExactPairs(t *testing.T) {
	assert.Equal(t, -1, numCompare(NewRational(1, 3), NewRational(1, 2)))
	assert.Equal(t, 0, numCompare(NewRational(2, 4), NewRational(1, 2)))
	assert.Equal(t, 1, numCompare(NewInt(1), NewRational(1, 2)))
}

func TestNumRoundPreservesExactness(t *testing.T) {
	{
		result := roundValue(t, NewFloat(2.5), roundNearest, false)
		assert.Equal(t, "float", result.Typename())
		assert.True(t, result.Equal(NewFloat(2)))
	}
	{
		result := roundValue(t, NewRational(5, 2), roundNearest, false)
		assert.True(t, result.Equal(NewInt(2)))
	}
	{
		result := roundValue(t, NewFloat(2.5), roundNearest, true)
		assert.True(t, result.Equal(NewInt(2)))
	}
}

func TestNumRoundNonFiniteHasNoExactForm(t *testing.T) {
	_, err := numRound(NewFloat(math.Inf(1)), roundNearest, true)
	require.Error(t, err)
	assert.Equal(t, ErrDomain, err.(RuntimeError).Kind)

	_, err = numRound(NewFloat(math.NaN()), roundNearest, true)
	require.Error(t, err)
}

// Rounding is half to even, matching float rounding.
func TestRatRoundHalfEven(t *testing.T) {
	assert.True(t, roundValue(t, NewRational(1, 2), roundNearest, false).Equal(NewInt(0)))
	assert.True(t, roundValue(t, NewRational(3, 2), roundNearest, false).Equal(NewInt(2)))
	assert.True(t, roundValue(t, NewRational(5, 2), roundNearest, false).Equal(NewInt(2)))
	assert.True(t, roundValue(t, NewRational(-1, 2), roundNearest, false).Equal(NewInt(0)))
	assert.True(t, roundValue(t, NewRational(7, 3), roundNearest, false).Equal(NewInt(2)))
}

func TestRatFloorAndCeil(t *testing.T) {
	assert.True(t, roundValue(t, NewRational(7, 2), roundFloor, false).Equal(NewInt(3)))
	assert.True(t, roundValue(t, NewRational(7, 2), roundCeiling, false).Equal(NewInt(4)))
	assert.True(t, roundValue(t, NewRational(-7, 2), roundFloor, false).Equal(NewInt(-4)))
	assert.True(t, roundValue(t, NewRational(-7, 2), roundCeiling, false).Equal(NewInt(-3)))
}

func TestNumSqrtPerfectSquare(t *testing.T) {
	result := numSqrt(NewInt(49))
	assert.Equal(t, "integer", result.Typename())
	assert.True(t, result.Equal(NewInt(7)))
}

func TestNumSqrtInexact(t *testing.T) {
	result := numSqrt(NewInt(2))
	assert.Equal(t, "float", result.Typename())
}

func TestNumSqrtNegativeIsComplex(t *testing.T) {
	result := numSqrt(NewInt(-4))
	assert.True(t, result.Equal(NewComplex(complex(0, 2))))
}

func TestNumExptExact(t *testing.T) {
	{
		result, err := numExpt(NewInt(2), NewInt(10))
		require.NoError(t, err)
		assert.True(t, result.Equal(NewInt(1024)))
	}
	{
		result, err := numExpt(NewInt(2), NewInt(-2))
		require.NoError(t, err)
		assert.True(t, result.Equal(NewRational(1, 4)))
	}
	{
		result, err := numExpt(NewRational(2, 3), NewInt(2))
		require.NoError(t, err)
		assert.True(t, result.Equal(NewRational(4, 9)))
	}
}

// Exact results never truncate: magnitudes past int64 stay exact.
func TestExactTowerIsArbitraryPrecision(t *testing.T) {
	{
		result, err := numExpt(NewInt(2), NewInt(64))
		require.NoError(t, err)
		assert.Equal(t, "18446744073709551616", result.String())
		assert.Equal(t, "integer", result.Typename())
	}
	{
		huge := numBinary(NewInt(math.MaxInt64), NewInt(1), opAdd)
		assert.Equal(t, "9223372036854775808", huge.String())
	}
	{
		square, err := numExpt(NewInt(2), NewInt(64))
		require.NoError(t, err)
		root := numSqrt(square)
		assert.True(t, root.Equal(NewInt(4294967296)))
	}
}

func TestNumExptInexact(t *testing.T) {
	result, err := numExpt(NewFloat(2), NewFloat(0.5))
	require.NoError(t, err)
	assert.Equal(t, "float", result.Typename())
}

func TestNumExptNegativeBaseFractionalExponent(t *testing.T) {
	result, err := numExpt(NewFloat(-8), NewFloat(0.5))
	require.NoError(t, err)
	assert.Equal(t, "complex", result.Typename())
}

// Modulo takes the sign of the divisor.
func TestNumModulo(t *testing.T) {
	check := func(a, b, want int64) {
		result, err := numModulo(big.NewInt(a), big.NewInt(b))
		require.NoError(t, err)
		assert.True(t, result.Equal(NewInt(want)), "%d mod %d", a, b)
	}
	check(7, 3, 1)
	check(-7, 3, 2)
	check(7, -3, -2)
	check(-7, -3, -1)
}

func TestNumModuloByZero(t *testing.T) {
	_, err := numModulo(big.NewInt(1), big.NewInt(0))
	require.Error(t, err)
}

func TestRealAndImagParts(t *testing.T) {
	c := NewComplex(complex(3, 4))
	assert.True(t, numRealPart(c).Equal(NewFloat(3)))
	assert.True(t, numImagPart(c).Equal(NewFloat(4)))
	assert.True(t, numRealPart(NewInt(5)).Equal(NewInt(5)))
	assert.True(t, numImagPart(NewInt(5)).Equal(NewInt(0)))
	assert.True(t, numImagPart(NewFloat(5)).Equal(NewFloat(0)))
}
