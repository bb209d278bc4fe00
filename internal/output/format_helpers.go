package output

import (
	"strconv"
	"time"

	money "github.com/payarrear/arrear-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a whole-rupee amount with the rupee sign and lakh/crore grouping.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatAmount is FormatCurrency without the symbol, for table cells and fonts lacking ₹.
func FormatAmount(amount decimal.Decimal) string { return money.GroupIndian(amount.Round(0)) }

// FormatMonth renders a statement row month as "Jan 2023".
func FormatMonth(t time.Time) string { return t.Format("Jan 2006") }

// FormatDate renders a date the way office orders print it.
func FormatDate(t time.Time) string { return t.Format("02-01-2006") }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
