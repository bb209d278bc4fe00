package output

import (
	"bytes"
	"encoding/csv"

	"github.com/payarrear/arrear-calculator/internal/domain"
)

// CSVDetailedExporter writes one row per month with every component of both sides.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "csv" }

// statementColumns is shared by the CSV and spreadsheet exports.
var statementColumns = []string{
	"Month", "Days", "DaysInMonth",
	"DrawnBasic", "DrawnDA", "DrawnHRA", "DrawnNPA", "DrawnTA", "DrawnOther", "DrawnTotal",
	"DueBasic", "DueDA", "DueHRA", "DueNPA", "DueTA", "DueOther", "DueTotal",
	"Difference", "Recovery",
}

func (c CSVDetailedExporter) Format(st *domain.Statement) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(statementColumns); err != nil {
		return nil, err
	}
	for _, row := range st.Rows {
		record := []string{row.Month.Format("2006-01"), intToString(row.Days), intToString(row.DaysInMonth)}
		record = append(record, breakdownCells(row.Drawn)...)
		record = append(record, breakdownCells(row.Due)...)
		record = append(record, row.Difference.StringFixed(0), boolToString(row.Difference.IsNegative()))
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	total := []string{"TOTAL", "", ""}
	total = append(total, breakdownCells(st.DrawnBreakdown)...)
	total = append(total, breakdownCells(st.DueBreakdown)...)
	total = append(total, st.Totals.DifferenceTotal.StringFixed(0), boolToString(st.Totals.DifferenceTotal.IsNegative()))
	if err := w.Write(total); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func breakdownCells(b domain.Breakdown) []string {
	return []string{
		b.Basic.StringFixed(0), b.DA.StringFixed(0), b.HRA.StringFixed(0), b.NPA.StringFixed(0),
		b.TA.StringFixed(0), b.Other.StringFixed(0), b.Total.StringFixed(0),
	}
}
