package charge

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders an amount the way it is shown to the payer, e.g. "R$ 4,90".
func FormatBRL(amount decimal.Decimal) string {
	return "R$ " + strings.Replace(amount.StringFixed(2), ".", ",", 1)
}
