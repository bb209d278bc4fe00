// print_prorate prints, for each month of a request, the period overlap and the basic pay
// tracker step of both sides. It is a debugging aid for proration and increment timing.
//
//	go run ./tools/print_prorate test/testdata/example_request.yaml
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/payarrear/arrear-calculator/internal/calculation"
	"github.com/payarrear/arrear-calculator/internal/config"
	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: print_prorate <request.yaml>")
		os.Exit(2)
	}
	req, err := config.NewInputParser().LoadRequest(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rules := calculation.IncrementRules(calculation.DefaultProgression())
	start := dateutil.Normalize(req.FromDate)
	drawn := calculation.InitialTracker(&req.Paid, false, start)
	due := calculation.InitialTracker(&req.ToBePaid, true, start)

	fmt.Printf("%-8s %9s %8s   %-28s %-28s\n", "month", "days", "factor", "drawn basic (month/tracker)", "due basic (month/tracker)")
	for _, month := range dateutil.MonthsBetween(req.FromDate, req.ToDate) {
		o := calculation.MonthOverlap(month, req.FromDate, req.ToDate, nil)
		if o.Empty() {
			continue
		}
		var d, u calculation.BasicPayStep
		d, drawn = step(&req.Paid, false, month, start, rules, drawn)
		u, due = step(&req.ToBePaid, true, month, start, rules, due)
		fmt.Printf("%-8s %4d/%-4d %8s   %-28s %-28s\n", month.Format("2006-01"), o.Days, o.DaysInMonth,
			o.Factor().StringFixed(4), describe(d), describe(u))
	}
}

func step(side *domain.SalarySide, due bool, month, start time.Time, rules map[domain.Commission]calculation.IncrementRule, tracker decimal.Decimal) (calculation.BasicPayStep, decimal.Decimal) {
	st := calculation.StepBasicPay(calculation.TrackerInput{
		Side:        side,
		Month:       month,
		ArrearStart: start,
		AllowRefix:  due,
		Rule:        rules[side.CPC],
	}, tracker)
	return st, st.Tracker
}

func describe(st calculation.BasicPayStep) string {
	s := fmt.Sprintf("%s/%s", st.BasicForMonth.StringFixed(2), st.Tracker.StringFixed(0))
	switch {
	case st.Fixed:
		s += " fixed"
	case st.Unresolved:
		s += " unresolved"
	}
	if st.Incremented {
		s += " inc"
	}
	if st.Refixed {
		s += " refix"
	}
	return s
}
