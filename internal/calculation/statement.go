package calculation

import (
	"fmt"
	"time"

	"github.com/payarrear/arrear-calculator/internal/domain"
	money "github.com/payarrear/arrear-calculator/pkg/decimal"
	"github.com/payarrear/arrear-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Engine builds arrear statements. An Engine holds only read-only configuration, so one
// value may serve concurrent BuildStatement calls.
type Engine struct {
	Levels PayLevelOrdering
	Rules  map[domain.Commission]IncrementRule
	Logger Logger
}

// NewEngine creates an engine with the default pay-level ordering and 7th CPC matrix
func NewEngine() *Engine {
	return NewEngineWithProgression(DefaultProgression())
}

// NewEngineWithProgression creates an engine that increments 7th CPC pay along the given matrix
func NewEngineWithProgression(progression domain.PayProgression) *Engine {
	return &Engine{
		Levels: DefaultPayLevels,
		Rules:  IncrementRules(progression),
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// log returns the engine logger, or a no-op logger when none is set.
func (e *Engine) log() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

// sideState is the only state carried from one month to the next.
type sideState struct {
	drawn decimal.Decimal
	due   decimal.Decimal
}

// BuildStatement computes the month-by-month statement for a request. Rates may be nil,
// in which case every rate-driven allowance is zero. Either a complete statement or an
// error is returned, never both.
func (e *Engine) BuildStatement(req *domain.ArrearRequest, rates *domain.RateTables) (st *domain.Statement, err error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if rates == nil {
		rates = &domain.RateTables{}
	}

	defer func() {
		if r := recover(); r != nil {
			e.log().Errorf("arrear statement for %q aborted: %v", req.Employee.ID, r)
			st = nil
			err = &CalculationError{Cause: fmt.Errorf("%v", r)}
		}
	}()

	from := dateutil.Normalize(req.FromDate)
	to := dateutil.Normalize(req.ToDate)
	calc := AllowanceCalculator{Rates: rates, Levels: e.Levels}

	st = &domain.Statement{
		Employee: req.Employee,
		FromDate: from,
		ToDate:   to,
		Rows:     []domain.MonthlyRow{},
	}
	state := sideState{
		drawn: InitialTracker(&req.Paid, false, from),
		due:   InitialTracker(&req.ToBePaid, true, from),
	}

	for _, month := range dateutil.MonthsBetween(from, to) {
		period := MonthOverlap(month, from, to, nil)
		if period.Empty() {
			continue
		}

		var row domain.MonthlyRow
		row, state = e.monthStep(calc, req, month, period, state)
		e.log().Debugf("%s: drawn=%s due=%s difference=%s",
			month.Format("2006-01"), row.Drawn.Total, row.Due.Total, row.Difference)

		st.Rows = append(st.Rows, row)
		st.Totals.DrawnTotal = st.Totals.DrawnTotal.Add(row.Drawn.Total)
		st.Totals.DueTotal = st.Totals.DueTotal.Add(row.Due.Total)
		st.Totals.DifferenceTotal = st.Totals.DifferenceTotal.Add(row.Difference)
		st.DrawnBreakdown = st.DrawnBreakdown.Add(row.Drawn)
		st.DueBreakdown = st.DueBreakdown.Add(row.Due)
	}

	e.log().Infof("arrear statement for %q: %d months, difference %s",
		req.Employee.ID, len(st.Rows), st.Totals.DifferenceTotal)
	return st, nil
}

// monthStep computes one row from the carried state and returns the next state.
func (e *Engine) monthStep(calc AllowanceCalculator, req *domain.ArrearRequest, month time.Time, period Overlap, state sideState) (domain.MonthlyRow, sideState) {
	drawn, drawnTracker := e.sideMonth(calc, &req.Paid, false, req, month, period, state.drawn)
	due, dueTracker := e.sideMonth(calc, &req.ToBePaid, true, req, month, period, state.due)

	row := domain.MonthlyRow{
		Month:       month,
		Days:        period.Days,
		DaysInMonth: period.DaysInMonth,
		Drawn:       drawn,
		Due:         due,
		Difference:  due.Total.Sub(drawn.Total),
	}
	return row, sideState{drawn: drawnTracker, due: dueTracker}
}

func (e *Engine) sideMonth(calc AllowanceCalculator, side *domain.SalarySide, isDue bool, req *domain.ArrearRequest, month time.Time, period Overlap, tracker decimal.Decimal) (domain.Breakdown, decimal.Decimal) {
	step := StepBasicPay(TrackerInput{
		Side:        side,
		Month:       month,
		ArrearStart: dateutil.Normalize(req.FromDate),
		AllowRefix:  isDue,
		Rule:        e.Rules[side.CPC],
	}, tracker)
	if step.Unresolved {
		e.log().Warnf("%s: no increment step for %s basic %s at %q; basic unchanged",
			month.Format("2006-01"), side.CPC, tracker, side.PayLevel)
	}

	monthFactor := period.Factor()
	amounts := calc.Compute(AllowanceInput{
		Side:          side,
		Month:         month,
		PeriodStart:   req.FromDate,
		PeriodEnd:     req.ToDate,
		BasicForMonth: step.BasicForMonth,
		TrackerBasic:  step.Tracker,
		MonthFactor:   monthFactor,
	})

	b := domain.Breakdown{
		Basic: roundWhole(step.BasicForMonth.Mul(monthFactor)),
		DA:    roundWhole(amounts.DA),
		HRA:   roundWhole(amounts.HRA),
		NPA:   roundWhole(amounts.NPA),
		TA:    roundWhole(amounts.TA),
		Other: roundWhole(amounts.Other),
	}
	b.Total = money.Sum(
		money.NewMoneyFromDecimal(b.Basic),
		money.NewMoneyFromDecimal(b.DA),
		money.NewMoneyFromDecimal(b.HRA),
		money.NewMoneyFromDecimal(b.NPA),
		money.NewMoneyFromDecimal(b.TA),
		money.NewMoneyFromDecimal(b.Other),
	).Decimal
	return b, step.Tracker
}

func roundWhole(d decimal.Decimal) decimal.Decimal {
	return money.NewMoneyFromDecimal(d).RoundWhole().Decimal
}

// ValidateRequest checks the structural fields the engine cannot run without.
func ValidateRequest(req *domain.ArrearRequest) error {
	if req == nil {
		return &ValidationError{Field: "request", Message: "is required"}
	}
	if req.FromDate.IsZero() {
		return &ValidationError{Field: "from_date", Message: "is required"}
	}
	if req.ToDate.IsZero() {
		return &ValidationError{Field: "to_date", Message: "is required"}
	}
	if dateutil.Normalize(req.ToDate).Before(dateutil.Normalize(req.FromDate)) {
		return &ValidationError{Field: "to_date", Message: "cannot be before from_date"}
	}
	sides := []struct {
		name string
		side *domain.SalarySide
	}{{"paid", &req.Paid}, {"to_be_paid", &req.ToBePaid}}
	for _, s := range sides {
		name, side := s.name, s.side
		if !side.CPC.Valid() {
			return fmt.Errorf("%s.cpc: %w: %d", name, ErrUnknownCommission, int(side.CPC))
		}
		if side.RefixedBasicPay != nil && side.RefixedBasicPayDate == nil {
			return &ValidationError{Field: name + ".refixed_basic_pay_date", Message: "is required when refixed_basic_pay is set"}
		}
	}
	return nil
}
