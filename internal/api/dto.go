package api

import (
	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/internal/store/sqlite"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// StatementResponse is returned by POST /api/statements. ID is set when the statement was archived.
type StatementResponse struct {
	ID        string            `json:"id,omitempty"`
	Statement *domain.Statement `json:"statement"`
}

// StatementListResponse is returned by GET /api/statements.
type StatementListResponse struct {
	Statements []sqlite.StatementRecord `json:"statements"`
}

// RatesResponse is returned by GET /api/rates and PUT /api/rates/{category}.
type RatesResponse struct {
	Rates *domain.RateTables `json:"rates"`
}

// PayLevelsResponse is returned by GET /api/pay-levels.
type PayLevelsResponse struct {
	Levels []string `json:"levels"`
	// Progression lists the pay levels with an increment matrix, by commission number.
	Progression map[int][]string `json:"progression"`
}
