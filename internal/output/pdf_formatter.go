package output

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// PDFFormatter renders the statement as a landscape A4 document for printing.
// The core PDF fonts have no rupee sign, so amounts are printed with "Rs.".
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Month", 20}, {"Days", 12},
	{"Basic", 16}, {"DA", 15}, {"HRA", 15}, {"NPA", 14}, {"TA", 13}, {"Other", 13}, {"Total", 18},
	{"Basic", 16}, {"DA", 15}, {"HRA", 15}, {"NPA", 14}, {"TA", 13}, {"Other", 13}, {"Total", 18},
	{"Diff.", 17},
}

func (p PDFFormatter) Format(st *domain.Statement) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(nowFunc())
	pdf.SetTitle(fmt.Sprintf("Arrear statement %s", st.Employee.ID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Pay Arrear Statement")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Employee: %s (%s)", st.Employee.Name, st.Employee.ID))
	pdf.Ln(5)
	if st.Employee.Designation != "" || st.Employee.Office != "" {
		pdf.Cell(0, 6, fmt.Sprintf("%s  %s", st.Employee.Designation, st.Employee.Office))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", FormatDate(st.FromDate), FormatDate(st.ToDate)))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	sideWidth := 0.0
	for _, c := range pdfColumns[2:9] {
		sideWidth += c.width
	}
	pdf.CellFormat(pdfColumns[0].width+pdfColumns[1].width, 6, "", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sideWidth, 6, "Drawn", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sideWidth, 6, "Due", "1", 0, "C", true, 0, "")
	pdf.CellFormat(pdfColumns[len(pdfColumns)-1].width, 6, "", "1", 1, "C", true, 0, "")
	for i, c := range pdfColumns {
		ln := 0
		if i == len(pdfColumns)-1 {
			ln = 1
		}
		pdf.CellFormat(c.width, 6, c.title, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range st.Rows {
		cells := []string{FormatMonth(row.Month), fmt.Sprintf("%d/%d", row.Days, row.DaysInMonth)}
		cells = append(cells, pdfBreakdown(row.Drawn)...)
		cells = append(cells, pdfBreakdown(row.Due)...)
		cells = append(cells, FormatAmount(row.Difference))
		pdfRow(pdf, cells, false)
	}

	pdf.SetFont("Helvetica", "B", 8)
	totals := []string{"Total", ""}
	totals = append(totals, pdfBreakdown(st.DrawnBreakdown)...)
	totals = append(totals, pdfBreakdown(st.DueBreakdown)...)
	totals = append(totals, FormatAmount(st.Totals.DifferenceTotal))
	pdfRow(pdf, totals, true)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Net arrear payable: Rs. "+FormatAmount(st.Totals.DifferenceTotal))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 8)
	for _, n := range StatementNotes {
		pdf.MultiCell(0, 4, "- "+n, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfBreakdown(b domain.Breakdown) []string {
	out := make([]string, 0, 7)
	for _, v := range []decimal.Decimal{b.Basic, b.DA, b.HRA, b.NPA, b.TA, b.Other, b.Total} {
		out = append(out, FormatAmount(v))
	}
	return out
}

func pdfRow(pdf *gofpdf.Fpdf, cells []string, fill bool) {
	for i, text := range cells {
		align, ln := "R", 0
		if i == 0 {
			align = "L"
		}
		if i == len(cells)-1 {
			ln = 1
		}
		pdf.CellFormat(pdfColumns[i].width, 5, text, "1", ln, align, fill, 0, "")
	}
}
