package output

import (
	"bytes"
	"fmt"

	"github.com/payarrear/arrear-calculator/internal/domain"
)

// ConsoleVerboseFormatter prints every component of both sides for each month, then the
// component summary and the computation notes.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Format(st *domain.Statement) ([]byte, error) {
	var buf bytes.Buffer
	writeHeader(&buf, st)

	for _, row := range st.Rows {
		fmt.Fprintf(&buf, "%s (%d of %d days)\n", FormatMonth(row.Month), row.Days, row.DaysInMonth)
		fmt.Fprintf(&buf, "  %-6s %10s %10s %10s %10s %10s %10s %12s\n", "", "Basic", "DA", "HRA", "NPA", "TA", "Other", "Total")
		writeBreakdownLine(&buf, "Drawn", row.Drawn)
		writeBreakdownLine(&buf, "Due", row.Due)
		fmt.Fprintf(&buf, "  Difference: %s\n\n", FormatAmount(row.Difference))
	}

	summary := AnalyzeStatement(st)
	fmt.Fprintln(&buf, "COMPONENT SUMMARY")
	fmt.Fprintln(&buf, "--------------------------------")
	fmt.Fprintf(&buf, "%-8s %14s %14s %14s\n", "", "Drawn", "Due", "Difference")
	for _, c := range summary.Components {
		fmt.Fprintf(&buf, "%-8s %14s %14s %14s\n", c.Name, FormatAmount(c.Drawn), FormatAmount(c.Due), FormatAmount(c.Difference))
	}
	fmt.Fprintln(&buf)
	if summary.Months > 0 {
		fmt.Fprintf(&buf, "Largest monthly difference: %s in %s\n", FormatCurrency(summary.LargestDifference), FormatMonth(summary.LargestMonth))
	}
	if summary.RecoveryMonths > 0 {
		fmt.Fprintf(&buf, "Months with recovery: %d\n", summary.RecoveryMonths)
	}
	fmt.Fprintf(&buf, "Net arrear payable: %s\n\n", FormatCurrency(summary.NetPayable))

	fmt.Fprintln(&buf, "Notes:")
	for _, n := range StatementNotes {
		fmt.Fprintf(&buf, "  - %s\n", n)
	}
	return buf.Bytes(), nil
}

func writeBreakdownLine(buf *bytes.Buffer, label string, b domain.Breakdown) {
	fmt.Fprintf(buf, "  %-6s %10s %10s %10s %10s %10s %10s %12s\n", label,
		FormatAmount(b.Basic), FormatAmount(b.DA), FormatAmount(b.HRA), FormatAmount(b.NPA),
		FormatAmount(b.TA), FormatAmount(b.Other), FormatAmount(b.Total))
}
