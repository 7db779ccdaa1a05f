package discount

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// EveryNthOrder is the loyalty interval: every Nth completed order earns
	// a new code.
	EveryNthOrder = 3
	// CodePrefix starts every generated code; the order number follows,
	// zero-padded to three digits.
	CodePrefix = "SAVE10_"
)

// DefaultRate is the discount granted by generated codes.
var DefaultRate = decimal.RequireFromString("0.1")

// ShouldIssue reports whether completing orderNumber earns a new code.
func ShouldIssue(orderNumber int) bool {
	return orderNumber > 0 && orderNumber%EveryNthOrder == 0
}

// CodeFor returns the code string generated for orderNumber.
func CodeFor(orderNumber int) string {
	return fmt.Sprintf("%s%03d", CodePrefix, orderNumber)
}

// Generate builds an unused code at DefaultRate for orderNumber.
func Generate(orderNumber int, now time.Time) *Code {
	return &Code{
		Code:                  CodeFor(orderNumber),
		Rate:                  DefaultRate,
		CreatedForOrderNumber: orderNumber,
		CreatedAt:             now,
	}
}

// Amount returns subtotal * rate rounded half-up to cents.
func Amount(subtotal, rate decimal.Decimal) decimal.Decimal {
	amount := subtotal.Mul(rate)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Round(2)
}
