package output

import (
	"encoding/json"

	"github.com/payarrear/arrear-calculator/internal/domain"
)

// JSONFormatter serializes the statement as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(st *domain.Statement) ([]byte, error) {
	return json.MarshalIndent(st, "", "  ")
}
