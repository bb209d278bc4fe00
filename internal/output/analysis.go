package output

import (
	"time"

	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ComponentDelta is one pay component's drawn, due and difference totals over the statement.
type ComponentDelta struct {
	Name       string
	Drawn      decimal.Decimal
	Due        decimal.Decimal
	Difference decimal.Decimal
}

// Summary condenses a statement for report headers.
type Summary struct {
	Months     int
	Components []ComponentDelta
	// RecoveryMonths counts rows where less was due than was drawn.
	RecoveryMonths    int
	LargestMonth      time.Time
	LargestDifference decimal.Decimal
	NetPayable        decimal.Decimal
}

// AnalyzeStatement derives the per-component totals and the month with the largest difference.
// Extracted from the formatters for testability.
func AnalyzeStatement(st *domain.Statement) Summary {
	s := Summary{
		Months:     len(st.Rows),
		Components: componentDeltas(st.DrawnBreakdown, st.DueBreakdown),
		NetPayable: st.Totals.DifferenceTotal,
	}
	for i, row := range st.Rows {
		if row.Difference.IsNegative() {
			s.RecoveryMonths++
		}
		if i == 0 || row.Difference.Abs().GreaterThan(s.LargestDifference.Abs()) {
			s.LargestMonth = row.Month
			s.LargestDifference = row.Difference
		}
	}
	return s
}

func componentDeltas(drawn, due domain.Breakdown) []ComponentDelta {
	pairs := []struct {
		name       string
		drawn, due decimal.Decimal
	}{
		{"Basic", drawn.Basic, due.Basic},
		{"DA", drawn.DA, due.DA},
		{"HRA", drawn.HRA, due.HRA},
		{"NPA", drawn.NPA, due.NPA},
		{"TA", drawn.TA, due.TA},
		{"Other", drawn.Other, due.Other},
		{"Total", drawn.Total, due.Total},
	}
	out := make([]ComponentDelta, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, ComponentDelta{Name: p.name, Drawn: p.drawn, Due: p.due, Difference: p.due.Sub(p.drawn)})
	}
	return out
}
