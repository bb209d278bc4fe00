package output

import (
	"bytes"
	"encoding/csv"

	"github.com/payarrear/arrear-calculator/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per pay component).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "summary-csv" }

func (c CSVSummarizer) Format(st *domain.Statement) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"EmployeeID", "Component", "Drawn", "Due", "Difference"}); err != nil {
		return nil, err
	}
	for _, comp := range AnalyzeStatement(st).Components {
		row := []string{
			st.Employee.ID,
			comp.Name,
			comp.Drawn.StringFixed(0),
			comp.Due.StringFixed(0),
			comp.Difference.StringFixed(0),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
