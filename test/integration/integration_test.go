package integration

import (
	"testing"

	"github.com/payarrear/arrear-calculator/internal/calculation"
	"github.com/payarrear/arrear-calculator/internal/config"
	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	requestFile     = "../testdata/example_request.yaml"
	ratesFile       = "../testdata/rates.yaml"
	progressionFile = "../testdata/progression.yaml"
)

// buildExample runs the example request through the engine with the sample rate tables.
func buildExample(t *testing.T) *domain.Statement {
	t.Helper()
	parser := config.NewInputParser()

	req, err := parser.LoadRequest(requestFile)
	require.NoError(t, err)
	rates, err := parser.LoadRateTables(ratesFile)
	require.NoError(t, err)
	progression, err := parser.LoadProgression(progressionFile)
	require.NoError(t, err)

	st, err := calculation.NewEngineWithProgression(progression).BuildStatement(req, rates)
	require.NoError(t, err)
	return st
}

func TestEndToEndCalculation(t *testing.T) {
	st := buildExample(t)

	assert.Equal(t, "EMP-2023-0142", st.Employee.ID)
	require.Len(t, st.Rows, 12)

	drawn, due := decimal.Zero, decimal.Zero
	for i, row := range st.Rows {
		assert.Equal(t, i+1, int(row.Month.Month()), "rows run Jan..Dec in order")
		assert.Equal(t, row.DaysInMonth, row.Days, "every month is fully inside the period")
		assert.True(t, row.Difference.Equal(row.Due.Total.Sub(row.Drawn.Total)), "row %d difference", i)
		drawn = drawn.Add(row.Drawn.Total)
		due = due.Add(row.Due.Total)
	}
	assert.True(t, st.Totals.DrawnTotal.Equal(drawn))
	assert.True(t, st.Totals.DueTotal.Equal(due))
	assert.True(t, st.Totals.DifferenceTotal.Equal(due.Sub(drawn)))
	assert.True(t, st.DueBreakdown.Total.Equal(due))
	assert.True(t, st.DrawnBreakdown.Total.Equal(drawn))
}

func TestEndToEndCalculation_PayEvents(t *testing.T) {
	st := buildExample(t)

	jan := st.Rows[0]
	assert.True(t, jan.Drawn.Basic.Equal(decimal.NewFromInt(39840)), "drawn basic %s", jan.Drawn.Basic)
	assert.True(t, jan.Due.Basic.Equal(decimal.NewFromInt(56100)), "due basic %s", jan.Due.Basic)

	// July increment moves the due side one cell along Level 10.
	assert.True(t, st.Rows[6].Due.Basic.Equal(decimal.NewFromInt(57800)), "jul due basic %s", st.Rows[6].Due.Basic)
	assert.True(t, st.Rows[6].Drawn.Basic.GreaterThan(jan.Drawn.Basic))

	// Refixation on 16 Oct holds from November.
	assert.True(t, st.Rows[10].Due.Basic.Equal(decimal.NewFromInt(59500)), "nov due basic %s", st.Rows[10].Due.Basic)
	assert.True(t, st.Rows[11].Due.Basic.Equal(decimal.NewFromInt(59500)))

	for i, row := range st.Rows {
		inWindow := i >= 3 && i <= 8
		if inWindow {
			assert.True(t, row.Due.Other.Equal(decimal.NewFromInt(1500)), "month %d other %s", i+1, row.Due.Other)
		} else {
			assert.True(t, row.Due.Other.IsZero(), "month %d other %s", i+1, row.Due.Other)
		}
		assert.True(t, row.Due.NPA.IsZero())
		assert.True(t, row.Drawn.Other.IsZero())
	}
}

func TestRequestValidation(t *testing.T) {
	parser := config.NewInputParser()

	req, err := parser.LoadRequest(requestFile)
	require.NoError(t, err)
	assert.NoError(t, parser.ValidateRequest(req))

	req.ToDate = req.FromDate.AddDate(0, 0, -1)
	_, err = calculation.NewEngine().BuildStatement(req, nil)
	require.Error(t, err)
	assert.True(t, calculation.IsClientError(err))
}
