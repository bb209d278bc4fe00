package output

import (
	"fmt"

	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// XLSXFormatter writes a workbook with the monthly statement and a component summary sheet.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

const (
	statementSheet = "Statement"
	summarySheet   = "Summary"
)

func (x XLSXFormatter) Format(st *domain.Statement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statementSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	header := make([]interface{}, len(statementColumns))
	for i, c := range statementColumns {
		header[i] = c
	}
	if err := setRow(f, statementSheet, 1, header); err != nil {
		return nil, err
	}

	for i, row := range st.Rows {
		values := []interface{}{row.Month.Format("2006-01"), row.Days, row.DaysInMonth}
		values = append(values, breakdownValues(row.Drawn)...)
		values = append(values, breakdownValues(row.Due)...)
		values = append(values, row.Difference.IntPart(), row.Difference.IsNegative())
		if err := setRow(f, statementSheet, i+2, values); err != nil {
			return nil, err
		}
	}

	totalRow := len(st.Rows) + 2
	totals := []interface{}{"TOTAL", "", ""}
	totals = append(totals, breakdownValues(st.DrawnBreakdown)...)
	totals = append(totals, breakdownValues(st.DueBreakdown)...)
	totals = append(totals, st.Totals.DifferenceTotal.IntPart(), st.Totals.DifferenceTotal.IsNegative())
	if err := setRow(f, statementSheet, totalRow, totals); err != nil {
		return nil, err
	}
	for _, r := range []int{1, totalRow} {
		first, _ := excelize.CoordinatesToCellName(1, r)
		last, err := excelize.CoordinatesToCellName(len(statementColumns), r)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(statementSheet, first, last, bold); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	meta := [][]interface{}{
		{"Employee ID", st.Employee.ID},
		{"Name", st.Employee.Name},
		{"From", FormatDate(st.FromDate)},
		{"To", FormatDate(st.ToDate)},
		{},
		{"Component", "Drawn", "Due", "Difference"},
	}
	for i, values := range meta {
		if err := setRow(f, summarySheet, i+1, values); err != nil {
			return nil, err
		}
	}
	for i, c := range AnalyzeStatement(st).Components {
		values := []interface{}{c.Name, c.Drawn.IntPart(), c.Due.IntPart(), c.Difference.IntPart()}
		if err := setRow(f, summarySheet, len(meta)+i+1, values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func breakdownValues(b domain.Breakdown) []interface{} {
	out := make([]interface{}, 0, 7)
	for _, v := range []decimal.Decimal{b.Basic, b.DA, b.HRA, b.NPA, b.TA, b.Other, b.Total} {
		out = append(out, v.IntPart())
	}
	return out
}
