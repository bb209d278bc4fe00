package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Breakdown is one side's rounded monthly amounts
type Breakdown struct {
	Basic decimal.Decimal `json:"basic"`
	DA    decimal.Decimal `json:"da"`
	HRA   decimal.Decimal `json:"hra"`
	NPA   decimal.Decimal `json:"npa"`
	TA    decimal.Decimal `json:"ta"`
	Other decimal.Decimal `json:"other"`
	Total decimal.Decimal `json:"total"`
}

// Add sums two breakdowns component by component
func (b Breakdown) Add(o Breakdown) Breakdown {
	return Breakdown{
		Basic: b.Basic.Add(o.Basic),
		DA:    b.DA.Add(o.DA),
		HRA:   b.HRA.Add(o.HRA),
		NPA:   b.NPA.Add(o.NPA),
		TA:    b.TA.Add(o.TA),
		Other: b.Other.Add(o.Other),
		Total: b.Total.Add(o.Total),
	}
}

// MonthlyRow is one calendar month of the statement
type MonthlyRow struct {
	Month       time.Time       `json:"month"`
	Days        int             `json:"days"`
	DaysInMonth int             `json:"days_in_month"`
	Drawn       Breakdown       `json:"drawn"`
	Due         Breakdown       `json:"due"`
	Difference  decimal.Decimal `json:"difference"`
}

// Totals are the statement footer figures
type Totals struct {
	DrawnTotal      decimal.Decimal `json:"drawn_total"`
	DueTotal        decimal.Decimal `json:"due_total"`
	DifferenceTotal decimal.Decimal `json:"difference_total"`
}

// Statement is the month-by-month arrear result
type Statement struct {
	Employee       Employee     `json:"employee"`
	FromDate       time.Time    `json:"from_date"`
	ToDate         time.Time    `json:"to_date"`
	Rows           []MonthlyRow `json:"rows"`
	Totals         Totals       `json:"totals"`
	DrawnBreakdown Breakdown    `json:"drawn_breakdown"`
	DueBreakdown   Breakdown    `json:"due_breakdown"`
}
