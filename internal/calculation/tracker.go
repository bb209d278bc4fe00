package calculation

import (
	"time"

	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// BasicPayStep is the outcome of resolving one side's basic pay for one month.
type BasicPayStep struct {
	// BasicForMonth is the full-month basic, blended by day when an increment or refixation
	// takes effect after the 1st.
	BasicForMonth decimal.Decimal
	// Tracker is the unblended value carried into the next month.
	Tracker decimal.Decimal

	Fixed       bool
	Incremented bool
	Refixed     bool
	// Unresolved is set when an increment fell due but the rule could not advance the pay.
	Unresolved bool
}

// TrackerInput is everything StepBasicPay reads besides the carried tracker.
type TrackerInput struct {
	Side        *domain.SalarySide
	Month       time.Time
	ArrearStart time.Time
	// AllowRefix is true for the due side only.
	AllowRefix bool
	Rule       IncrementRule
}

// InitialTracker seeds a side's tracker. A refixation that took effect before the first
// arrear month already applies to the opening basic.
func InitialTracker(side *domain.SalarySide, allowRefix bool, arrearStart time.Time) decimal.Decimal {
	if allowRefix && side.HasRefixation() &&
		dateutil.Normalize(*side.RefixedBasicPayDate).Before(dateutil.StartOfMonth(arrearStart)) {
		return *side.RefixedBasicPay
	}
	return side.BasicPay
}

// StepBasicPay advances a side's basic pay by one month. It is pure: the carried tracker
// goes in, the next tracker comes out.
func StepBasicPay(in TrackerInput, tracker decimal.Decimal) BasicPayStep {
	side := in.Side
	month := dateutil.StartOfMonth(in.Month)

	if fixed, ok := activeFixed(side.FixedBasicPay, month); ok {
		return BasicPayStep{BasicForMonth: fixed, Tracker: fixed, Fixed: true}
	}

	step := BasicPayStep{BasicForMonth: tracker, Tracker: tracker}

	if trigger, ok := incrementTrigger(side, month, in.ArrearStart); ok {
		next, advanced := tracker, false
		if in.Rule != nil {
			next, advanced = in.Rule.Next(tracker, side.PayLevel)
		}
		if advanced {
			step.Incremented = true
			step.BasicForMonth = blendFrom(tracker, next, trigger)
			step.Tracker = next
		} else {
			step.Unresolved = true
		}
	}

	if in.AllowRefix && side.HasRefixation() {
		refixDate := dateutil.Normalize(*side.RefixedBasicPayDate)
		if dateutil.SameMonth(refixDate, month) {
			step.BasicForMonth = blendFrom(step.BasicForMonth, *side.RefixedBasicPay, refixDate)
			step.Tracker = *side.RefixedBasicPay
			step.Refixed = true
		}
	}

	return step
}

// incrementTrigger finds the increment date falling inside month, if any. An explicit
// increment date fires only in its own month; otherwise the 1st of the increment month
// fires every year on or after the arrear start.
func incrementTrigger(side *domain.SalarySide, month, arrearStart time.Time) (time.Time, bool) {
	if side.IncrementDate != nil {
		d := dateutil.Normalize(*side.IncrementDate)
		return d, dateutil.SameMonth(d, month)
	}
	if side.IncrementMonth < 1 || side.IncrementMonth > 12 {
		return time.Time{}, false
	}
	d := dateutil.Date(month.Year(), time.Month(side.IncrementMonth), 1)
	if !dateutil.SameMonth(d, month) || d.Before(dateutil.Normalize(arrearStart)) {
		return time.Time{}, false
	}
	return d, true
}

// blendFrom weights before by the days preceding effective and after by the rest of the month.
func blendFrom(before, after decimal.Decimal, effective time.Time) decimal.Decimal {
	day := effective.Day()
	if day <= 1 {
		return after
	}
	dim := dateutil.DaysInMonth(effective)
	daysBefore := decimal.NewFromInt(int64(day - 1))
	daysAfter := decimal.NewFromInt(int64(dim - day + 1))
	return before.Mul(daysBefore).Add(after.Mul(daysAfter)).Div(decimal.NewFromInt(int64(dim)))
}

// activeFixed returns an override amount when month falls within its window, month granularity.
func activeFixed(f *domain.FixedAmount, month time.Time) (decimal.Decimal, bool) {
	if f == nil || f.From.IsZero() {
		return decimal.Zero, false
	}
	if month.Before(dateutil.StartOfMonth(f.From)) {
		return decimal.Zero, false
	}
	if f.To != nil && month.After(dateutil.EndOfMonth(*f.To)) {
		return decimal.Zero, false
	}
	return f.Amount, true
}
