package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/payarrear/arrear-calculator/internal/calculation"
	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

func snapshotDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func snapshotDec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// TestStatementSnapshot pins the engine output for a mid-month start spanning a DA revision
// and an annual increment.
func TestStatementSnapshot(t *testing.T) {
	juneEnd := snapshotDate(2023, 6, 30)
	rates := &domain.RateTables{
		DA: []domain.RateEntry{
			{FromDate: snapshotDate(2023, 1, 1), ToDate: &juneEnd, Rate: decimal.NewFromInt(42)},
			{FromDate: snapshotDate(2023, 7, 1), Rate: decimal.NewFromInt(46)},
		},
		HRA: []domain.RateEntry{
			{FromDate: snapshotDate(2017, 7, 1), Rate: decimal.NewFromInt(24), DARateFrom: snapshotDec(0), DARateTo: snapshotDec(24)},
			{FromDate: snapshotDate(2017, 7, 1), Rate: decimal.NewFromInt(27), DARateFrom: snapshotDec(25), DARateTo: snapshotDec(49)},
			{FromDate: snapshotDate(2017, 7, 1), Rate: decimal.NewFromInt(30), DARateFrom: snapshotDec(50), DARateTo: snapshotDec(100)},
		},
		TA: []domain.RateEntry{
			{FromDate: snapshotDate(2017, 7, 1), Rate: decimal.NewFromInt(3600), PayLevelFrom: "Level 9", PayLevelTo: "Level 18"},
		},
	}
	req := &domain.ArrearRequest{
		Employee: domain.Employee{ID: "SNAP-1", Name: "Snapshot"},
		FromDate: snapshotDate(2023, 6, 16),
		ToDate:   snapshotDate(2023, 8, 31),
		Paid: domain.SalarySide{
			CPC: domain.CPC6, BasicPay: decimal.NewFromInt(20000), PayLevel: "PB-1/2400", IncrementMonth: 7,
			DA: domain.Allowance{Applicable: true},
		},
		ToBePaid: domain.SalarySide{
			CPC: domain.CPC7, BasicPay: decimal.NewFromInt(56100), PayLevel: "Level 10", IncrementMonth: 7,
			DA:  domain.Allowance{Applicable: true},
			HRA: domain.Allowance{Applicable: true},
			TA:  domain.Allowance{Applicable: true},
		},
	}

	st, err := calculation.NewEngine().BuildStatement(req, rates)
	if err != nil {
		t.Fatalf("build statement: %v", err)
	}

	// Trim to stable figures only
	type row struct {
		Month      string `json:"month"`
		Days       int    `json:"days"`
		DrawnTotal string `json:"drawn_total"`
		DueTotal   string `json:"due_total"`
		Due        string `json:"due_components"`
		Difference string `json:"difference"`
	}
	var out struct {
		Rows       []row  `json:"rows"`
		DrawnTotal string `json:"drawn_total"`
		DueTotal   string `json:"due_total"`
		Difference string `json:"difference_total"`
	}
	for _, r := range st.Rows {
		out.Rows = append(out.Rows, row{
			Month:      r.Month.Format("2006-01"),
			Days:       r.Days,
			DrawnTotal: r.Drawn.Total.String(),
			DueTotal:   r.Due.Total.String(),
			Due:        fmt.Sprintf("%s %s %s %s %s %s", r.Due.Basic, r.Due.DA, r.Due.HRA, r.Due.NPA, r.Due.TA, r.Due.Other),
			Difference: r.Difference.String(),
		})
	}
	out.DrawnTotal = st.Totals.DrawnTotal.String()
	out.DueTotal = st.Totals.DueTotal.String()
	out.Difference = st.Totals.DifferenceTotal.String()
	data, _ := json.MarshalIndent(out, "", "  ")

	goldenPath := filepath.Join("testdata", "statement_snapshot.golden.json")
	if os.Getenv("UPDATE_GOLDEN") == "1" {
		if err := os.WriteFile(goldenPath, data, 0644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
	}
	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	want := strings.TrimSpace(string(golden))
	if want == "" {
		t.Fatalf("empty golden snapshot")
	}
	if want != strings.TrimSpace(string(data)) {
		t.Fatalf("statement snapshot drift; run UPDATE_GOLDEN=1 to accept\n--- have ---\n%s\n--- want ---\n%s", string(data), want)
	}
}
