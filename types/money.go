package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tallymatic/tallymatic-api/errors"
)

// maxMinorDigits is the widest minor unit in minorUnits. Amounts whose currency is
// unknown are held to it.
const maxMinorDigits int32 = 3

// minorUnits lists currencies whose minor unit differs from two digits.
var minorUnits = map[string]int32{
	"bif": 0, "clp": 0, "djf": 0, "gnf": 0, "jpy": 0, "kmf": 0, "krw": 0,
	"pyg": 0, "rwf": 0, "ugx": 0, "vnd": 0, "vuv": 0, "xaf": 0, "xof": 0, "xpf": 0,
	"bhd": 3, "iqd": 3, "jod": 3, "kwd": 3, "lyd": 3, "omr": 3, "tnd": 3,
}

// CurrencyPrecision returns the number of minor-unit digits for an ISO 4217 code.
func CurrencyPrecision(currency string) int32 {
	if digits, ok := minorUnits[strings.ToLower(currency)]; ok {
		return digits
	}
	return 2
}

// FormatMoney renders an amount with its currency precision and upper-case code,
// e.g. "12.50 USD". An empty currency renders the bare amount.
func FormatMoney(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixedBank(CurrencyPrecision(currency))
	if currency == "" {
		return formatted
	}
	return formatted + " " + strings.ToUpper(currency)
}

// Money is a non-negative amount in a three-letter currency, never finer than the
// currency's minor unit.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates amount against the currency's precision. The currency is
// stored lower-case.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	code := strings.ToLower(strings.TrimSpace(currency))
	if !isCurrencyCode(code) {
		return Money{}, errors.ValidationFailed(
			"Invalid currency",
			fmt.Sprintf("currency %q is not a three-letter code", currency),
		)
	}
	if err := checkAmount(amount, CurrencyPrecision(code)); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: code}, nil
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) String() string {
	return FormatMoney(m.amount, m.currency)
}

func checkAmount(amount decimal.Decimal, digits int32) error {
	if amount.IsNegative() {
		return errors.ValidationFailed("Invalid price", "amount cannot be negative")
	}
	if !amount.Equal(amount.Truncate(digits)) {
		return errors.ValidationFailed(
			"Invalid price",
			fmt.Sprintf("amount cannot have more than %d decimal places", digits),
		)
	}
	return nil
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
