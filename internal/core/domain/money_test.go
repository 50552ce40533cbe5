package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

func TestNewMoney(t *testing.T) {
	m, err := domain.NewMoney(decimal.NewFromInt(100), "BRL")
	require.NoError(t, err)
	assert.Equal(t, "BRL", m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))

	_, err = domain.NewMoney(decimal.NewFromInt(100), "REAIS")
	assert.Error(t, err)

	_, err = domain.NewMoney(decimal.NewFromInt(100), "")
	assert.Error(t, err)
}

func TestMoneyAdd(t *testing.T) {
	a := domain.MustMoney("10.50", "BRL")
	b := domain.MustMoney("4.50", "BRL")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.RequireFromString("15.00")))
	assert.Equal(t, "BRL", sum.Currency())
}

func TestMoneyAddCurrencyMismatch(t *testing.T) {
	a := domain.MustMoney("10.00", "BRL")
	b := domain.MustMoney("10.00", "USD")

	_, err := a.Add(b)
	assert.Error(t, err)

	_, err = a.Sub(b)
	assert.Error(t, err)
}

func TestMoneyMulRateRoundsToCents(t *testing.T) {
	base := domain.MustMoney("1000.00", "BRL")

	pis := base.MulRate(decimal.RequireFromString("0.0165"))
	assert.Equal(t, "16.50", pis.Amount().StringFixed(2))

	cofins := base.MulRate(decimal.RequireFromString("0.076"))
	assert.Equal(t, "76.00", cofins.Amount().StringFixed(2))

	// Half-even cases still land on two decimal places.
	odd := domain.MustMoney("333.33", "BRL").MulRate(decimal.RequireFromString("0.0165"))
	assert.Equal(t, int32(-2), odd.Amount().Exponent())
}

func TestMoneyString(t *testing.T) {
	m := domain.MustMoney("92.5", "BRL")
	assert.Equal(t, "BRL 92.50", m.String())
}

func TestMoneyPredicates(t *testing.T) {
	assert.True(t, domain.ZeroMoney("BRL").IsZero())
	assert.True(t, domain.MustMoney("0.01", "BRL").IsPositive())
	assert.True(t, domain.MustMoney("-5", "BRL").IsNegative())
}
