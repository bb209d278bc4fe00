package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Commission identifies the pay commission generation a salary side is fixed under
type Commission int

const (
	CPC6 Commission = 6
	CPC7 Commission = 7
)

// Valid reports whether the commission is one the engine understands
func (c Commission) Valid() bool {
	return c == CPC6 || c == CPC7
}

func (c Commission) String() string {
	switch c {
	case CPC6:
		return "6th CPC"
	case CPC7:
		return "7th CPC"
	default:
		return fmt.Sprintf("CPC(%d)", int(c))
	}
}

// DateWindow is an inclusive [From, To] range; a nil bound is open on that side
type DateWindow struct {
	From *time.Time `yaml:"from_date,omitempty" json:"from_date,omitempty"`
	To   *time.Time `yaml:"to_date,omitempty" json:"to_date,omitempty"`
}

// IsZero reports whether neither bound is set
func (w *DateWindow) IsZero() bool {
	return w == nil || (w.From == nil && w.To == nil)
}

// FixedAmount overrides a computed figure (basic pay or an allowance rate) for a window
type FixedAmount struct {
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
	From   time.Time       `yaml:"from_date" json:"from_date"`
	To     *time.Time      `yaml:"to_date,omitempty" json:"to_date,omitempty"`
}

// Allowance configures one rate-table driven allowance on one side
type Allowance struct {
	Applicable bool         `yaml:"applicable" json:"applicable"`
	Window     *DateWindow  `yaml:"window,omitempty" json:"window,omitempty"`
	FixedRate  *FixedAmount `yaml:"fixed_rate,omitempty" json:"fixed_rate,omitempty"`
}

// OtherAllowance is a flat monthly amount with its own window
type OtherAllowance struct {
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
	Window *DateWindow     `yaml:"window,omitempty" json:"window,omitempty"`
}

// SalarySide is one side (drawn or due) of the arrear comparison
type SalarySide struct {
	CPC            Commission      `yaml:"cpc" json:"cpc"`
	BasicPay       decimal.Decimal `yaml:"basic_pay" json:"basic_pay"`
	PayLevel       string          `yaml:"pay_level" json:"pay_level"`
	IncrementMonth int             `yaml:"increment_month" json:"increment_month"`
	IncrementDate  *time.Time      `yaml:"increment_date,omitempty" json:"increment_date,omitempty"`
	FixedBasicPay  *FixedAmount    `yaml:"fixed_basic_pay,omitempty" json:"fixed_basic_pay,omitempty"`

	DA       Allowance      `yaml:"da" json:"da"`
	HRA      Allowance      `yaml:"hra" json:"hra"`
	NPA      Allowance      `yaml:"npa" json:"npa"`
	TA       Allowance      `yaml:"ta" json:"ta"`
	DoubleTA bool           `yaml:"double_ta,omitempty" json:"double_ta,omitempty"`
	Other    OtherAllowance `yaml:"other" json:"other"`

	// Refixation applies to the due side only
	RefixedBasicPay     *decimal.Decimal `yaml:"refixed_basic_pay,omitempty" json:"refixed_basic_pay,omitempty"`
	RefixedBasicPayDate *time.Time       `yaml:"refixed_basic_pay_date,omitempty" json:"refixed_basic_pay_date,omitempty"`
}

// HasRefixation reports whether both the refixed pay and its effective date are set
func (s *SalarySide) HasRefixation() bool {
	return s.RefixedBasicPay != nil && s.RefixedBasicPayDate != nil
}

// Employee carries identity fields echoed on the statement; the engine does not read them
type Employee struct {
	ID          string `yaml:"employee_id" json:"employee_id"`
	Name        string `yaml:"name" json:"name"`
	Designation string `yaml:"designation,omitempty" json:"designation,omitempty"`
	Office      string `yaml:"office,omitempty" json:"office,omitempty"`
}

// ArrearRequest is the immutable input of one statement computation
type ArrearRequest struct {
	Employee Employee   `yaml:"employee" json:"employee"`
	FromDate time.Time  `yaml:"from_date" json:"from_date"`
	ToDate   time.Time  `yaml:"to_date" json:"to_date"`
	Paid     SalarySide `yaml:"paid" json:"paid"`
	ToBePaid SalarySide `yaml:"to_be_paid" json:"to_be_paid"`
}

// ParseCommission accepts a commission either as a number ("7") or a label ("7th", "7th CPC")
func ParseCommission(s string) (Commission, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.TrimSuffix(raw, "cpc")
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "th"))
	switch raw {
	case "6":
		return CPC6, nil
	case "7":
		return CPC7, nil
	}
	return 0, fmt.Errorf("unknown pay commission %q", s)
}

func (c *Commission) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseCommission(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c *Commission) UnmarshalJSON(data []byte) error {
	parsed, err := ParseCommission(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
