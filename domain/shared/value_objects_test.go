package shared

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyArithmetic(t *testing.T) {
	a := MustParseMoney("45.90")
	b := MustParseMoney("38.5")

	assert.Equal(t, "84.40", a.Add(b).String())
	assert.Equal(t, "7.40", a.Subtract(b).String())
	assert.Equal(t, "91.80", a.Multiply(2).String())
	assert.Equal(t, "0.00", a.Multiply(0).String())

	// 0.1 + 0.2 must be exact
	sum := MustParseMoney("0.1").Add(MustParseMoney("0.2"))
	assert.True(t, sum.Equals(MustParseMoney("0.3")))
}

func TestMoneyComparisons(t *testing.T) {
	assert.True(t, MustParseMoney("10.0").Equals(MustParseMoney("10")))
	assert.True(t, MustParseMoney("10.01").IsGreaterThan(MustParseMoney("10")))
	assert.True(t, MustParseMoney("-1").IsNegative())
	assert.False(t, ZeroMoney().IsNegative())
	assert.False(t, ZeroMoney().IsPositive())
}

func TestParseMoneyInvalid(t *testing.T) {
	_, err := ParseMoney("ten")
	require.Error(t, err)
	assert.Panics(t, func() { MustParseMoney("") })
}

func TestParseMoneyScale(t *testing.T) {
	testCases := []struct {
		input string
		valid bool
	}{
		{"45", true},
		{"45.9", true},
		{"45.90", true},
		{"45.900", true},
		{"1.005", false},
		{"0.001", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			m, err := ParseMoney(tc.input)
			if !tc.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Equals(MustParseMoney(m.String())))
		})
	}
}

func TestNewMoneyRoundsToScale(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("1.005"))
	assert.Equal(t, "1.01", m.Amount().String())

	// 舍入后的单价相乘再求和，与逐项展示的金额一致
	total := m.Multiply(1).Add(m.Multiply(1))
	assert.Equal(t, "2.02", total.String())
	assert.True(t, total.Equals(MustParseMoney(m.Multiply(1).String()).Add(MustParseMoney(m.Multiply(1).String()))))
}

type specFunc func(int) bool

func (f specFunc) IsSatisfiedBy(_ context.Context, n int) bool { return f(n) }

func TestSpecificationCombinators(t *testing.T) {
	ctx := context.Background()
	var even Specification[int] = specFunc(func(n int) bool { return n%2 == 0 })
	var positive Specification[int] = specFunc(func(n int) bool { return n > 0 })

	assert.True(t, And(even, positive).IsSatisfiedBy(ctx, 4))
	assert.False(t, And(even, positive).IsSatisfiedBy(ctx, -4))
	assert.True(t, Or(even, positive).IsSatisfiedBy(ctx, -4))
	assert.True(t, Not(even).IsSatisfiedBy(ctx, 3))
	assert.True(t, All[int]{}.IsSatisfiedBy(ctx, 7))
}
