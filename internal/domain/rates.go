package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateCategory names one of the rate-table driven allowances
type RateCategory string

const (
	CategoryDA  RateCategory = "da"
	CategoryHRA RateCategory = "hra"
	CategoryNPA RateCategory = "npa"
	CategoryTA  RateCategory = "ta"
)

// RateCategories lists the categories in statement column order
var RateCategories = []RateCategory{CategoryDA, CategoryHRA, CategoryNPA, CategoryTA}

// ParseRateCategory resolves a case-insensitive category name
func ParseRateCategory(s string) (RateCategory, error) {
	c := RateCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range RateCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown rate category %q", s)
}

// RateEntry is one row of a rate table. Rate is a percentage for DA, HRA and NPA and a
// flat monthly amount for TA.
type RateEntry struct {
	FromDate     time.Time        `yaml:"from_date" json:"from_date"`
	ToDate       *time.Time       `yaml:"to_date,omitempty" json:"to_date,omitempty"`
	Rate         decimal.Decimal  `yaml:"rate" json:"rate"`
	BasicFrom    *decimal.Decimal `yaml:"basic_from,omitempty" json:"basic_from,omitempty"`
	BasicTo      *decimal.Decimal `yaml:"basic_to,omitempty" json:"basic_to,omitempty"`
	PayLevelFrom string           `yaml:"pay_level_from,omitempty" json:"pay_level_from,omitempty"`
	PayLevelTo   string           `yaml:"pay_level_to,omitempty" json:"pay_level_to,omitempty"`
	DARateFrom   *decimal.Decimal `yaml:"da_rate_from,omitempty" json:"da_rate_from,omitempty"`
	DARateTo     *decimal.Decimal `yaml:"da_rate_to,omitempty" json:"da_rate_to,omitempty"`
	MinAmount    *decimal.Decimal `yaml:"min_amount,omitempty" json:"min_amount,omitempty"`
}

// RateTables is the read-only snapshot of all four allowance tables used by one computation
type RateTables struct {
	DA  []RateEntry `yaml:"da" json:"da"`
	HRA []RateEntry `yaml:"hra" json:"hra"`
	NPA []RateEntry `yaml:"npa" json:"npa"`
	TA  []RateEntry `yaml:"ta" json:"ta"`
}

// Table returns the entries for a category
func (rt *RateTables) Table(c RateCategory) []RateEntry {
	switch c {
	case CategoryDA:
		return rt.DA
	case CategoryHRA:
		return rt.HRA
	case CategoryNPA:
		return rt.NPA
	case CategoryTA:
		return rt.TA
	}
	return nil
}

// SetTable replaces the entries for a category
func (rt *RateTables) SetTable(c RateCategory, entries []RateEntry) {
	switch c {
	case CategoryDA:
		rt.DA = entries
	case CategoryHRA:
		rt.HRA = entries
	case CategoryNPA:
		rt.NPA = entries
	case CategoryTA:
		rt.TA = entries
	}
}

// PayProgression holds the ordered basic-pay cells for each (commission, pay level)
type PayProgression map[Commission]map[string][]decimal.Decimal

// Levels returns the level keys known for a commission, sorted
func (p PayProgression) Levels(c Commission) []string {
	levels := make([]string, 0, len(p[c]))
	for k := range p[c] {
		levels = append(levels, k)
	}
	sort.Strings(levels)
	return levels
}
