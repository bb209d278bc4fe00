package calculation

import (
	"time"

	"github.com/payarrear/arrear-calculator/internal/domain"
	money "github.com/payarrear/arrear-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalTwo     = decimal.NewFromInt(2)
	decimalHundred = decimal.NewFromInt(100)
)

// AllowanceInput is one side's state for one month.
type AllowanceInput struct {
	Side        *domain.SalarySide
	Month       time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	// BasicForMonth is the full-month (unprorated) basic from the tracker step.
	BasicForMonth decimal.Decimal
	// TrackerBasic is the carried basic after this month's step; TA slabs key on it.
	TrackerBasic decimal.Decimal
	// MonthFactor is the share of the month inside the arrear period.
	MonthFactor decimal.Decimal
}

// AllowanceAmounts are unrounded monthly allowance amounts for one side.
type AllowanceAmounts struct {
	DA    decimal.Decimal
	HRA   decimal.Decimal
	NPA   decimal.Decimal
	TA    decimal.Decimal
	Other decimal.Decimal
}

// AllowanceCalculator resolves allowance rates from a rate-table snapshot.
type AllowanceCalculator struct {
	Rates  *domain.RateTables
	Levels PayLevelOrdering
}

// Compute returns every allowance for one side and month. NPA is computed first because
// DA is charged on basic plus NPA.
func (ac AllowanceCalculator) Compute(in AllowanceInput) AllowanceAmounts {
	npa := ac.npa(in)
	return AllowanceAmounts{
		NPA:   npa,
		DA:    ac.da(in, npa),
		HRA:   ac.hra(in),
		TA:    ac.ta(in),
		Other: ac.other(in),
	}
}

func (ac AllowanceCalculator) npa(in AllowanceInput) decimal.Decimal {
	o, ok := ac.window(in, in.Side.NPA)
	if !ok {
		return decimal.Zero
	}
	rate, found := ac.rate(in.Side.NPA.FixedRate, domain.CategoryNPA, o.Start, in.Month, RateCriteria{})
	if !found {
		return decimal.Zero
	}
	return money.NewMoneyFromDecimal(in.BasicForMonth).Percent(rate).Prorate(in.MonthFactor).Decimal
}

func (ac AllowanceCalculator) da(in AllowanceInput, npa decimal.Decimal) decimal.Decimal {
	o, ok := ac.window(in, in.Side.DA)
	if !ok {
		return decimal.Zero
	}
	rate, found := ac.daRate(in.Side, o.Start, in.Month)
	if !found {
		return decimal.Zero
	}
	base := money.Sum(money.NewMoneyFromDecimal(in.BasicForMonth).Prorate(in.MonthFactor), money.NewMoneyFromDecimal(npa))
	return base.Percent(rate).Decimal
}

func (ac AllowanceCalculator) hra(in AllowanceInput) decimal.Decimal {
	o, ok := ac.window(in, in.Side.HRA)
	if !ok {
		return decimal.Zero
	}

	var rate decimal.Decimal
	var floor *decimal.Decimal
	if fixed, active := activeFixed(in.Side.HRA.FixedRate, in.Month); active {
		rate = fixed
	} else {
		daRate, _ := ac.daRate(in.Side, o.Start, in.Month)
		entry, found := SelectRate(ac.table(domain.CategoryHRA), o.Start, RateCriteria{DARate: &daRate}, ac.Levels)
		if !found {
			return decimal.Zero
		}
		rate, floor = entry.Rate, entry.MinAmount
	}

	full := money.NewMoneyFromDecimal(in.BasicForMonth).Percent(rate)
	if floor != nil && full.Decimal.LessThan(*floor) {
		full = money.NewMoneyFromDecimal(*floor)
	}
	return full.Prorate(o.Factor()).Decimal
}

func (ac AllowanceCalculator) ta(in AllowanceInput) decimal.Decimal {
	o, ok := ac.window(in, in.Side.TA)
	if !ok {
		return decimal.Zero
	}

	var base decimal.Decimal
	if fixed, active := activeFixed(in.Side.TA.FixedRate, in.Month); active {
		base = fixed
	} else {
		tracker := in.TrackerBasic
		entry, found := SelectRate(ac.table(domain.CategoryTA), o.Start, RateCriteria{
			BasicPay: &tracker,
			PayLevel: in.Side.PayLevel,
		}, ac.Levels)
		if !found {
			return decimal.Zero
		}
		base = entry.Rate
	}

	daRate, _ := ac.daRate(in.Side, o.Start, in.Month)
	full := money.NewMoneyFromDecimal(base).Mul(decimalOne.Add(daRate.Div(decimalHundred)))
	if in.Side.DoubleTA {
		full = full.Mul(decimalTwo)
	}
	return full.Prorate(o.Factor()).Decimal
}

func (ac AllowanceCalculator) other(in AllowanceInput) decimal.Decimal {
	if !in.Side.Other.Amount.IsPositive() {
		return decimal.Zero
	}
	o := MonthOverlap(in.Month, in.PeriodStart, in.PeriodEnd, in.Side.Other.Window)
	if o.Empty() {
		return decimal.Zero
	}
	return money.NewMoneyFromDecimal(in.Side.Other.Amount).Prorate(o.Factor()).Decimal
}

// daRate is the DA rate in force on date: an active fixed override first, then the table.
// It is resolved whether or not DA is payable to the side, since HRA slabs and TA follow it.
func (ac AllowanceCalculator) daRate(side *domain.SalarySide, date, month time.Time) (decimal.Decimal, bool) {
	return ac.rate(side.DA.FixedRate, domain.CategoryDA, date, month, RateCriteria{})
}

func (ac AllowanceCalculator) rate(fixed *domain.FixedAmount, c domain.RateCategory, date, month time.Time, criteria RateCriteria) (decimal.Decimal, bool) {
	if amount, active := activeFixed(fixed, month); active {
		return amount, true
	}
	entry, found := SelectRate(ac.table(c), date, criteria, ac.Levels)
	if !found {
		return decimal.Zero, false
	}
	return entry.Rate, true
}

// window gates an allowance on its flag and on its window covering part of the month.
func (ac AllowanceCalculator) window(in AllowanceInput, a domain.Allowance) (Overlap, bool) {
	if !a.Applicable {
		return Overlap{}, false
	}
	o := MonthOverlap(in.Month, in.PeriodStart, in.PeriodEnd, a.Window)
	return o, !o.Empty()
}

func (ac AllowanceCalculator) table(c domain.RateCategory) []domain.RateEntry {
	if ac.Rates == nil {
		return nil
	}
	return ac.Rates.Table(c)
}
