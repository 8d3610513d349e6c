package domain

import "github.com/shopspring/decimal"

// FeeSchedule is a provider's fee model: a fixed amount in currency units
// plus a percentage of the transaction amount.
type FeeSchedule struct {
	Fixed   decimal.Decimal
	Percent decimal.Decimal
}

// ZeroFees returns an empty schedule, used when a provider is created from a
// legacy reference that carries no fee data.
func ZeroFees() FeeSchedule {
	return FeeSchedule{Fixed: decimal.Zero, Percent: decimal.Zero}
}

// Apply computes the fee owed on the given amount, rounded down to cents.
func (f FeeSchedule) Apply(m Money) Money {
	percentPart := m.ToDecimal().Mul(f.Percent).Div(decimal.NewFromInt(100))
	total := f.Fixed.Add(percentPart)
	return Money{
		Amount:   FromDecimal(total),
		Currency: m.Currency,
	}
}

// IsZero reports whether the schedule charges nothing.
func (f FeeSchedule) IsZero() bool {
	return f.Fixed.IsZero() && f.Percent.IsZero()
}
