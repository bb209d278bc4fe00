package calculation

import "strings"

// SixthCPCLevels are the 6th pay commission grade-pay levels in ascending order.
var SixthCPCLevels = []string{
	"1S/1300", "1S/1400", "1S/1650",
	"PB-1/1800", "PB-1/1900", "PB-1/2000", "PB-1/2400", "PB-1/2800",
	"PB-2/4200", "PB-2/4600", "PB-2/4800", "PB-2/5400",
	"PB-3/5400", "PB-3/6600", "PB-3/7600",
	"PB-4/8700", "PB-4/8900", "PB-4/10000",
	"HAG", "HAG+", "Apex", "Cabinet Secretary",
}

// SeventhCPCLevels are the 7th pay commission matrix levels in ascending order.
var SeventhCPCLevels = []string{
	"Level 1", "Level 2", "Level 3", "Level 4", "Level 5", "Level 6",
	"Level 7", "Level 8", "Level 9", "Level 10", "Level 11", "Level 12",
	"Level 13", "Level 13A", "Level 14", "Level 15", "Level 16", "Level 17", "Level 18",
}

// PayLevelOrdering maps pay level names onto one global ordinal scale so rate entries
// can be scoped to a level range.
type PayLevelOrdering struct {
	levels []string
	index  map[string]int
}

// NewPayLevelOrdering concatenates the groups in order. A name seen twice keeps its first position.
func NewPayLevelOrdering(groups ...[]string) PayLevelOrdering {
	o := PayLevelOrdering{index: make(map[string]int)}
	for _, group := range groups {
		for _, level := range group {
			key := levelKey(level)
			if _, seen := o.index[key]; seen {
				continue
			}
			o.index[key] = len(o.levels)
			o.levels = append(o.levels, strings.TrimSpace(level))
		}
	}
	return o
}

// DefaultPayLevels is the 6th CPC levels followed by the 7th CPC levels.
var DefaultPayLevels = NewPayLevelOrdering(SixthCPCLevels, SeventhCPCLevels)

// Ordinal returns the position of a level, matching case-insensitively.
func (o PayLevelOrdering) Ordinal(level string) (int, bool) {
	if level == "" {
		return 0, false
	}
	i, ok := o.index[levelKey(level)]
	return i, ok
}

// Levels returns the ordered level names.
func (o PayLevelOrdering) Levels() []string {
	return append([]string(nil), o.levels...)
}

func levelKey(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}
