package calculation

import (
	"sort"
	"time"

	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// RateCriteria carries the optional dimensions a lookup filters on. A nil or empty field
// means the caller does not filter on that dimension.
type RateCriteria struct {
	BasicPay *decimal.Decimal
	PayLevel string
	DARate   *decimal.Decimal
}

// SelectRate returns the most applicable entry of a table for a date.
//
// Candidates must cover the date and satisfy every dimension that both the caller and the
// entry specify. Survivors are ordered by FromDate, newest first; when a DA rate is supplied
// they are then re-ordered by DARateFrom, highest band first, keeping date order for ties.
func SelectRate(table []domain.RateEntry, date time.Time, criteria RateCriteria, levels PayLevelOrdering) (domain.RateEntry, bool) {
	var candidates []domain.RateEntry
	for _, entry := range table {
		if entryApplies(entry, date, criteria, levels) {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return domain.RateEntry{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FromDate.After(candidates[j].FromDate)
	})
	if criteria.DARate != nil {
		sort.SliceStable(candidates, func(i, j int) bool {
			return bandFloor(candidates[i]).GreaterThan(bandFloor(candidates[j]))
		})
	}
	return candidates[0], true
}

func entryApplies(entry domain.RateEntry, date time.Time, criteria RateCriteria, levels PayLevelOrdering) bool {
	d := dateutil.Normalize(date)
	if d.Before(dateutil.Normalize(entry.FromDate)) {
		return false
	}
	if entry.ToDate != nil && d.After(dateutil.Normalize(*entry.ToDate)) {
		return false
	}

	if criteria.DARate != nil && entry.DARateFrom != nil && entry.DARateTo != nil {
		if criteria.DARate.LessThan(*entry.DARateFrom) || criteria.DARate.GreaterThan(*entry.DARateTo) {
			return false
		}
	}

	if criteria.BasicPay != nil && hasBasicBand(entry) {
		if criteria.BasicPay.LessThan(*entry.BasicFrom) || criteria.BasicPay.GreaterThan(*entry.BasicTo) {
			return false
		}
	}

	if criteria.PayLevel != "" && entry.PayLevelFrom != "" && entry.PayLevelTo != "" {
		lo, okLo := levels.Ordinal(entry.PayLevelFrom)
		hi, okHi := levels.Ordinal(entry.PayLevelTo)
		if !okLo || !okHi {
			return false
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		at, ok := levels.Ordinal(criteria.PayLevel)
		if !ok || at < lo || at > hi {
			return false
		}
	}
	return true
}

// hasBasicBand treats a band as meaningful only when both bounds are present and positive.
func hasBasicBand(entry domain.RateEntry) bool {
	return entry.BasicFrom != nil && entry.BasicTo != nil &&
		entry.BasicFrom.IsPositive() && entry.BasicTo.IsPositive()
}

func bandFloor(entry domain.RateEntry) decimal.Decimal {
	if entry.DARateFrom == nil {
		return decimal.Zero
	}
	return *entry.DARateFrom
}
