package calculation

import (
	"time"

	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Overlap is the part of a calendar month during which something applies.
type Overlap struct {
	Start       time.Time
	End         time.Time
	Days        int
	DaysInMonth int
}

// Empty reports whether no day of the month is covered.
func (o Overlap) Empty() bool { return o.Days == 0 }

// Factor is Days / DaysInMonth.
func (o Overlap) Factor() decimal.Decimal {
	if o.Days == 0 || o.DaysInMonth == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(o.Days)).Div(decimal.NewFromInt(int64(o.DaysInMonth)))
}

// MonthOverlap clamps the window to the arrear period and intersects it with the month
// containing month. A nil window, or a missing bound, defaults to the period.
func MonthOverlap(month, periodStart, periodEnd time.Time, window *domain.DateWindow) Overlap {
	from := dateutil.Normalize(periodStart)
	to := dateutil.Normalize(periodEnd)
	if window != nil {
		if window.From != nil {
			from = dateutil.MaxDate(dateutil.Normalize(*window.From), from)
		}
		if window.To != nil {
			to = dateutil.MinDate(dateutil.Normalize(*window.To), to)
		}
	}

	monthStart := dateutil.StartOfMonth(month)
	monthEnd := dateutil.EndOfMonth(month)
	start := dateutil.MaxDate(from, monthStart)
	end := dateutil.MinDate(to, monthEnd)

	o := Overlap{Start: start, End: end, DaysInMonth: dateutil.DaysInMonth(month)}
	if start.After(end) {
		return o
	}
	o.Days = dateutil.InclusiveDays(start, end)
	return o
}

// ProrationFactor is the fraction of the month, in [0,1], covered by the window within the
// arrear period.
func ProrationFactor(month, periodStart, periodEnd time.Time, window *domain.DateWindow) decimal.Decimal {
	return MonthOverlap(month, periodStart, periodEnd, window).Factor()
}
