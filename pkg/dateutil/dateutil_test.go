package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2023, 1, 15, 23, 30, 0, 0, ist)
	assert.Equal(t, Date(2023, 1, 15), Normalize(in))
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		name  string
		date  time.Time
		start time.Time
		end   time.Time
		days  int
	}{
		{"mid January", Date(2023, 1, 15), Date(2023, 1, 1), Date(2023, 1, 31), 31},
		{"February non-leap", Date(2023, 2, 10), Date(2023, 2, 1), Date(2023, 2, 28), 28},
		{"February leap", Date(2024, 2, 29), Date(2024, 2, 1), Date(2024, 2, 29), 29},
		{"April", Date(2023, 4, 1), Date(2023, 4, 1), Date(2023, 4, 30), 30},
		{"December rolls year", Date(2023, 12, 31), Date(2023, 12, 1), Date(2023, 12, 31), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.start, StartOfMonth(tt.date))
			assert.Equal(t, tt.end, EndOfMonth(tt.date))
			assert.Equal(t, tt.days, DaysInMonth(tt.date))
		})
	}
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 17, InclusiveDays(Date(2023, 1, 15), Date(2023, 1, 31)))
	assert.Equal(t, 1, InclusiveDays(Date(2023, 1, 15), Date(2023, 1, 15)))
	assert.Equal(t, 0, InclusiveDays(Date(2023, 1, 16), Date(2023, 1, 15)))
	assert.Equal(t, 0, InclusiveDays(Date(2023, 3, 1), Date(2023, 1, 15)))
	assert.Equal(t, 366, InclusiveDays(Date(2024, 1, 1), Date(2024, 12, 31)))
}

func TestMinMax(t *testing.T) {
	a, b := Date(2023, 1, 1), Date(2023, 6, 30)
	assert.Equal(t, b, MaxDate(a, b))
	assert.Equal(t, a, MinDate(a, b))
}

func TestMonthsBetween(t *testing.T) {
	months := MonthsBetween(Date(2022, 11, 20), Date(2023, 2, 3))
	assert.Equal(t, []time.Time{
		Date(2022, 11, 1), Date(2022, 12, 1), Date(2023, 1, 1), Date(2023, 2, 1),
	}, months)

	assert.Len(t, MonthsBetween(Date(2023, 2, 1), Date(2023, 2, 28)), 1)
	assert.Empty(t, MonthsBetween(Date(2023, 3, 1), Date(2023, 2, 1)))
}

func TestSameMonth(t *testing.T) {
	assert.True(t, SameMonth(Date(2023, 7, 1), Date(2023, 7, 31)))
	assert.False(t, SameMonth(Date(2023, 7, 1), Date(2024, 7, 1)))
	assert.Equal(t, 29, DaysInMonth(Date(2024, 2, 10)))
}
