package output

import (
	"bytes"
	"fmt"

	"github.com/payarrear/arrear-calculator/internal/domain"
)

// ConsoleFormatter prints a concise month-by-month table of drawn, due and difference.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(st *domain.Statement) ([]byte, error) {
	var buf bytes.Buffer
	writeHeader(&buf, st)

	fmt.Fprintf(&buf, "%-10s %5s %14s %14s %14s\n", "Month", "Days", "Drawn", "Due", "Difference")
	fmt.Fprintf(&buf, "%-10s %5s %14s %14s %14s\n", "--------", "----", "-----", "---", "----------")
	for _, row := range st.Rows {
		fmt.Fprintf(&buf, "%-10s %2d/%-2d %14s %14s %14s\n",
			FormatMonth(row.Month), row.Days, row.DaysInMonth,
			FormatAmount(row.Drawn.Total), FormatAmount(row.Due.Total), FormatAmount(row.Difference))
	}
	fmt.Fprintf(&buf, "%-10s %5s %14s %14s %14s\n", "TOTAL", "",
		FormatAmount(st.Totals.DrawnTotal), FormatAmount(st.Totals.DueTotal), FormatAmount(st.Totals.DifferenceTotal))
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Net arrear payable: %s\n", FormatCurrency(st.Totals.DifferenceTotal))
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, st *domain.Statement) {
	fmt.Fprintln(buf, "PAY ARREAR STATEMENT")
	fmt.Fprintln(buf, "================================")
	fmt.Fprintf(buf, "Employee: %s (%s)\n", st.Employee.Name, st.Employee.ID)
	if st.Employee.Designation != "" {
		fmt.Fprintf(buf, "Designation: %s\n", st.Employee.Designation)
	}
	if st.Employee.Office != "" {
		fmt.Fprintf(buf, "Office: %s\n", st.Employee.Office)
	}
	fmt.Fprintf(buf, "Period: %s to %s\n", FormatDate(st.FromDate), FormatDate(st.ToDate))
	fmt.Fprintln(buf)
}
