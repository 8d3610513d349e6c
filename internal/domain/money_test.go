package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney_ToDecimal(t *testing.T) {
	m := NewMoney(1050, "USD") // 10.50 USD
	d := m.ToDecimal()
	assert.Equal(t, "10.5", d.String())
}

func TestFromDecimal(t *testing.T) {
	d := decimal.NewFromFloat(10.50)
	cents := FromDecimal(d)
	assert.Equal(t, int64(1050), cents)
}

func TestMoney_Multiply(t *testing.T) {
	m := NewMoney(10000, "USD") // 100 USD
	scaled := m.Multiply(decimal.NewFromFloat(0.05))
	assert.Equal(t, int64(500), scaled.Amount)
	assert.Equal(t, "USD", scaled.Currency)
}

func TestMoney_String(t *testing.T) {
	m := NewMoney(99, "EUR")
	assert.Equal(t, "0.99 EUR", m.String())
}

func TestFeeSchedule_Apply(t *testing.T) {
	// 0.30 fixed + 2.9% of 100.00 = 3.20
	f := FeeSchedule{
		Fixed:   decimal.NewFromFloat(0.30),
		Percent: decimal.NewFromFloat(2.9),
	}
	fee := f.Apply(NewMoney(10000, "USD"))
	assert.Equal(t, int64(320), fee.Amount)
	assert.Equal(t, "USD", fee.Currency)
}

func TestFeeSchedule_IsZero(t *testing.T) {
	assert.True(t, ZeroFees().IsZero())
	assert.False(t, FeeSchedule{Fixed: decimal.NewFromInt(1), Percent: decimal.Zero}.IsZero())
}

func TestAccountRef(t *testing.T) {
	assert.False(t, NoAccount().Valid())
	assert.Nil(t, NoAccount().Ptr())
	assert.False(t, Account("").Valid())

	r := CollectiveAccount(42)
	assert.True(t, r.Valid())
	assert.Equal(t, "42", r.ID())

	s := Account("stripe")
	assert.Equal(t, "stripe", *s.Ptr())
}
