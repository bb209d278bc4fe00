package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/payarrear/arrear-calculator/internal/domain"
)

// HTMLFormatter produces a printable HTML statement.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/statement.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("statement").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"amt":   FormatAmount,
	"month": FormatMonth,
	"date":  FormatDate,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(st *domain.Statement) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.Statement
		Summary Summary
		Notes   []string
	}{
		Statement: st,
		Summary:   AnalyzeStatement(st),
		Notes:     StatementNotes,
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
