package calculation

import (
	"testing"
	"time"

	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time { return dateutil.Date(y, m, d) }

func dayp(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decp(v int64) *decimal.Decimal {
	d := dec(v)
	return &d
}

func assertDec(t *testing.T, want int64, got decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s: expected %d, got %s", label, want, got)
}

// side builds a 7th CPC side with no allowances and an increment month that never fires
// inside the short periods most tests use.
func side(basic int64) domain.SalarySide {
	return domain.SalarySide{
		CPC:            domain.CPC7,
		BasicPay:       dec(basic),
		PayLevel:       "Level 10",
		IncrementMonth: 7,
	}
}

func request(from, to time.Time, paid, due domain.SalarySide) *domain.ArrearRequest {
	return &domain.ArrearRequest{
		Employee: domain.Employee{ID: "E-1001", Name: "Test Employee"},
		FromDate: from,
		ToDate:   to,
		Paid:     paid,
		ToBePaid: due,
	}
}
