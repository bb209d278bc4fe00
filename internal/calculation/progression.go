package calculation

import (
	"sort"
	"strings"

	"github.com/payarrear/arrear-calculator/internal/domain"
	money "github.com/payarrear/arrear-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// IncrementRule produces the basic pay after one annual increment.
// ok is false when the rule could not advance the value (unknown level, last cell).
type IncrementRule interface {
	Next(current decimal.Decimal, payLevel string) (next decimal.Decimal, ok bool)
}

// PercentIncrement raises pay by a fixed percentage rounded to a whole unit (6th CPC).
type PercentIncrement struct {
	Rate decimal.Decimal
}

func (p PercentIncrement) Next(current decimal.Decimal, _ string) (decimal.Decimal, bool) {
	raised := money.NewMoneyFromDecimal(current).Mul(decimal.NewFromInt(1).Add(p.Rate.Div(decimal.NewFromInt(100))))
	return raised.RoundWhole().Decimal, true
}

// MatrixIncrement moves pay to the next cell of its level's column (7th CPC pay matrix).
type MatrixIncrement struct {
	Cells map[string][]decimal.Decimal
}

func (m MatrixIncrement) Next(current decimal.Decimal, payLevel string) (decimal.Decimal, bool) {
	cells, found := m.lookup(payLevel)
	if !found {
		return current, false
	}
	return NextInProgression(cells, current)
}

// lookup resolves a level's column. Composite keys such as "Level 10/PB-3/5400" are split
// on "/" and each part tried; table keys that are themselves composite match on any part.
func (m MatrixIncrement) lookup(payLevel string) ([]decimal.Decimal, bool) {
	if cells, ok := m.find(payLevel); ok {
		return cells, true
	}
	if strings.Contains(payLevel, "/") {
		for _, part := range strings.Split(payLevel, "/") {
			if cells, ok := m.find(part); ok {
				return cells, true
			}
		}
	}

	want := levelKey(payLevel)
	keys := make([]string, 0, len(m.Cells))
	for k := range m.Cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !strings.Contains(k, "/") {
			continue
		}
		for _, part := range strings.Split(k, "/") {
			if levelKey(part) == want {
				return m.Cells[k], true
			}
		}
	}
	return nil, false
}

func (m MatrixIncrement) find(level string) ([]decimal.Decimal, bool) {
	if cells, ok := m.Cells[level]; ok {
		return cells, true
	}
	want := levelKey(level)
	if want == "" {
		return nil, false
	}
	for k, cells := range m.Cells {
		if levelKey(k) == want {
			return cells, true
		}
	}
	return nil, false
}

// NextInProgression returns the cell after current, or current unchanged when current is
// the last cell or not in the column.
func NextInProgression(cells []decimal.Decimal, current decimal.Decimal) (decimal.Decimal, bool) {
	for i, c := range cells {
		if c.Equal(current) {
			if i+1 < len(cells) {
				return cells[i+1], true
			}
			return current, false
		}
	}
	return current, false
}

// sixthCPCIncrementRate is the flat annual increment under the 6th CPC.
var sixthCPCIncrementRate = decimal.NewFromInt(3)

// IncrementRules builds the per-commission strategies from a progression table.
func IncrementRules(progression domain.PayProgression) map[domain.Commission]IncrementRule {
	return map[domain.Commission]IncrementRule{
		domain.CPC6: PercentIncrement{Rate: sixthCPCIncrementRate},
		domain.CPC7: MatrixIncrement{Cells: progression[domain.CPC7]},
	}
}

// matrixLevel is the entry pay and number of cells of one 7th CPC level.
type matrixLevel struct {
	level string
	entry int64
	cells int
}

var seventhCPCMatrix = []matrixLevel{
	{"Level 1", 18000, 40},
	{"Level 2", 19900, 40},
	{"Level 3", 21700, 40},
	{"Level 4", 25500, 40},
	{"Level 5", 29200, 40},
	{"Level 6", 35400, 40},
	{"Level 7", 44900, 40},
	{"Level 8", 47600, 40},
	{"Level 9", 53100, 40},
	{"Level 10", 56100, 40},
	{"Level 11", 67700, 39},
	{"Level 12", 78800, 34},
	{"Level 13", 123100, 20},
	{"Level 13A", 131100, 19},
	{"Level 14", 144200, 17},
	{"Level 15", 182200, 8},
	{"Level 16", 205400, 4},
	{"Level 17", 225000, 1},
	{"Level 18", 250000, 1},
}

// GenerateMatrixColumn builds a pay matrix column: each cell is the previous one raised by 3%
// and rounded to the nearest hundred.
func GenerateMatrixColumn(entry decimal.Decimal, cells int) []decimal.Decimal {
	if cells <= 0 {
		return nil
	}
	step := decimal.NewFromFloat(1.03)
	column := make([]decimal.Decimal, 0, cells)
	cur := money.NewMoneyFromDecimal(entry)
	column = append(column, cur.Decimal)
	for len(column) < cells {
		cur = cur.Mul(step).RoundToHundred()
		column = append(column, cur.Decimal)
	}
	return column
}

// DefaultProgression returns the built-in 7th CPC pay matrix. Deployments with the gazetted
// matrix load it through config.InputParser.LoadProgression instead.
func DefaultProgression() domain.PayProgression {
	seventh := make(map[string][]decimal.Decimal, len(seventhCPCMatrix))
	for _, l := range seventhCPCMatrix {
		seventh[l.level] = GenerateMatrixColumn(decimal.NewFromInt(l.entry), l.cells)
	}
	return domain.PayProgression{domain.CPC7: seventh}
}
