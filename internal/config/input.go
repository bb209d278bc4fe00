package config

import (
	"fmt"
	"os"

	"github.com/payarrear/arrear-calculator/internal/calculation"
	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// InputParser handles parsing of arrear requests, rate tables and pay progression files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadRequest loads and validates an arrear request from a YAML file
func (ip *InputParser) LoadRequest(filename string) (*domain.ArrearRequest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseRequest(data)
}

// ParseRequest decodes and validates an arrear request. JSON documents are accepted too.
func (ip *InputParser) ParseRequest(data []byte) (*domain.ArrearRequest, error) {
	var req domain.ArrearRequest
	if err := decodeDocument(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if err := ip.ValidateRequest(&req); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return &req, nil
}

// ValidateRequest checks the caller guarantees the engine relies on. Errors unwrap to
// calculation.ErrInvalidRequest or calculation.ErrUnknownCommission.
func (ip *InputParser) ValidateRequest(req *domain.ArrearRequest) error {
	if err := calculation.ValidateRequest(req); err != nil {
		return err
	}
	if err := ip.validateSide("paid", &req.Paid); err != nil {
		return err
	}
	if req.Paid.RefixedBasicPay != nil || req.Paid.RefixedBasicPayDate != nil {
		return invalid("paid.refixed_basic_pay", "refixation applies to the to_be_paid side only")
	}
	return ip.validateSide("to_be_paid", &req.ToBePaid)
}

// validateSide validates one salary side
func (ip *InputParser) validateSide(name string, side *domain.SalarySide) error {
	if side.BasicPay.IsNegative() {
		return invalid(name+".basic_pay", "cannot be negative")
	}
	if side.IncrementDate == nil && side.IncrementMonth != 1 && side.IncrementMonth != 7 {
		return invalid(name+".increment_month", fmt.Sprintf("must be 1 or 7, got %d", side.IncrementMonth))
	}
	if side.RefixedBasicPay != nil && side.RefixedBasicPay.IsNegative() {
		return invalid(name+".refixed_basic_pay", "cannot be negative")
	}
	if err := validateFixed(name+".fixed_basic_pay", side.FixedBasicPay); err != nil {
		return err
	}

	allowances := []struct {
		key string
		a   domain.Allowance
	}{{"da", side.DA}, {"hra", side.HRA}, {"npa", side.NPA}, {"ta", side.TA}}
	for _, al := range allowances {
		field := name + "." + al.key
		if err := validateWindow(field+".window", al.a.Window); err != nil {
			return err
		}
		if err := validateFixed(field+".fixed_rate", al.a.FixedRate); err != nil {
			return err
		}
	}

	if side.Other.Amount.IsNegative() {
		return invalid(name+".other.amount", "cannot be negative")
	}
	return validateWindow(name+".other.window", side.Other.Window)
}

func validateWindow(field string, w *domain.DateWindow) error {
	if w == nil || w.From == nil || w.To == nil {
		return nil
	}
	if dateutil.Normalize(*w.To).Before(dateutil.Normalize(*w.From)) {
		return invalid(field, "to_date cannot be before from_date")
	}
	return nil
}

func validateFixed(field string, f *domain.FixedAmount) error {
	if f == nil {
		return nil
	}
	if f.From.IsZero() {
		return invalid(field+".from_date", "is required")
	}
	if f.Amount.IsNegative() {
		return invalid(field+".amount", "cannot be negative")
	}
	if f.To != nil && dateutil.Normalize(*f.To).Before(dateutil.Normalize(f.From)) {
		return invalid(field, "to_date cannot be before from_date")
	}
	return nil
}

func invalid(field, message string) error {
	return &calculation.ValidationError{Field: field, Message: message}
}

// LoadRateTables loads and validates the four allowance rate tables from a YAML file
func (ip *InputParser) LoadRateTables(filename string) (*domain.RateTables, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseRateTables(data)
}

// ParseRateTables decodes and validates rate tables
func (ip *InputParser) ParseRateTables(data []byte) (*domain.RateTables, error) {
	var rt domain.RateTables
	if err := decodeDocument(data, &rt); err != nil {
		return nil, fmt.Errorf("failed to parse rate tables: %w", err)
	}
	if err := ip.ValidateRateTables(&rt); err != nil {
		return nil, fmt.Errorf("rate table validation failed: %w", err)
	}
	return &rt, nil
}

// ParseRateEntries decodes a single category's entries, as sent to the rates API
func (ip *InputParser) ParseRateEntries(c domain.RateCategory, data []byte) ([]domain.RateEntry, error) {
	var entries []domain.RateEntry
	if err := decodeDocument(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s rate entries: %w", c, err)
	}
	if err := ip.ValidateRateEntries(c, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ValidateRateTables validates every category
func (ip *InputParser) ValidateRateTables(rt *domain.RateTables) error {
	for _, c := range domain.RateCategories {
		if err := ip.ValidateRateEntries(c, rt.Table(c)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRateEntries checks one category's entries
func (ip *InputParser) ValidateRateEntries(c domain.RateCategory, entries []domain.RateEntry) error {
	for i, e := range entries {
		field := fmt.Sprintf("%s[%d]", c, i)
		if e.FromDate.IsZero() {
			return invalid(field+".from_date", "is required")
		}
		if e.ToDate != nil && dateutil.Normalize(*e.ToDate).Before(dateutil.Normalize(e.FromDate)) {
			return invalid(field+".to_date", "cannot be before from_date")
		}
		if e.Rate.IsNegative() {
			return invalid(field+".rate", "cannot be negative")
		}
		if e.MinAmount != nil && e.MinAmount.IsNegative() {
			return invalid(field+".min_amount", "cannot be negative")
		}
		if e.DARateFrom != nil || e.DARateTo != nil {
			if c != domain.CategoryHRA {
				return invalid(field+".da_rate_from", "DA bands apply to the hra table only")
			}
		}
	}
	return nil
}

// progressionFile is the on-disk shape of a pay progression table
type progressionFile struct {
	Levels []progressionLevel `yaml:"levels"`
}

type progressionLevel struct {
	CPC   domain.Commission `yaml:"cpc"`
	Level string            `yaml:"level"`
	Cells []decimal.Decimal `yaml:"cells"`
	// Entry and Count generate the column with the pay matrix rule when Cells is empty
	Entry *decimal.Decimal `yaml:"entry,omitempty"`
	Count int              `yaml:"count,omitempty"`
}

// LoadProgression loads a pay progression table from a YAML file
func (ip *InputParser) LoadProgression(filename string) (domain.PayProgression, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseProgression(data)
}

// ParseProgression decodes a progression table and validates that no column decreases
func (ip *InputParser) ParseProgression(data []byte) (domain.PayProgression, error) {
	var file progressionFile
	if err := decodeDocument(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse progression: %w", err)
	}
	if len(file.Levels) == 0 {
		return nil, invalid("levels", "at least one level is required")
	}

	p := domain.PayProgression{}
	for i, l := range file.Levels {
		field := fmt.Sprintf("levels[%d]", i)
		if !l.CPC.Valid() {
			return nil, fmt.Errorf("%s.cpc: %w", field, calculation.ErrUnknownCommission)
		}
		if l.Level == "" {
			return nil, invalid(field+".level", "is required")
		}
		cells := l.Cells
		if len(cells) == 0 && l.Entry != nil {
			cells = calculation.GenerateMatrixColumn(*l.Entry, l.Count)
		}
		if len(cells) == 0 {
			return nil, invalid(field+".cells", "is required")
		}
		for j := range cells {
			if !cells[j].IsPositive() {
				return nil, invalid(fmt.Sprintf("%s.cells[%d]", field, j), "must be positive")
			}
			if j > 0 && cells[j].LessThan(cells[j-1]) {
				return nil, invalid(fmt.Sprintf("%s.cells[%d]", field, j), "must not be less than the previous cell")
			}
		}
		if p[l.CPC] == nil {
			p[l.CPC] = map[string][]decimal.Decimal{}
		}
		p[l.CPC][l.Level] = cells
	}
	return p, nil
}
