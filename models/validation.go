package models

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ErrValidation is wrapped by every model validation failure.
var ErrValidation = errors.New("validation failed")

// ErrTotalOutOfRange is returned when an order total no longer fits its column.
var ErrTotalOutOfRange = errors.New("order total out of range")

// Money columns are NUMERIC(6,2).
const (
	moneyDigits = 6
	moneyPlaces = 2
)

var moneyLimit = decimal.New(1, moneyDigits-moneyPlaces)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func validateTitle(field, value string, maxLen int) error {
	if value == "" {
		return validationError("%s is required", field)
	}
	if n := utf8.RuneCountInString(value); n > maxLen {
		return validationError("%s must be at most %d characters, got %d", field, maxLen, n)
	}
	return nil
}

// fitsMoney reports whether d can be stored without loss in a money column.
func fitsMoney(d decimal.Decimal) bool {
	if !d.Equal(d.Round(moneyPlaces)) {
		return false
	}
	return d.Abs().LessThan(moneyLimit)
}

func validatePrice(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return validationError("%s must not be negative", field)
	}
	if !fitsMoney(d) {
		return validationError("%s must have at most %d digits and %d decimal places", field, moneyDigits, moneyPlaces)
	}
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
