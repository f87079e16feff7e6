package validation

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leengari/recordstore/internal/domain/types"
)

const dateLayout = "2006-01-02"

// Validate reports whether raw is an admissible value for a field of the
// given type. Parse failures are reported as false, never as errors.
func Validate(raw string, tag types.TypeTag) bool {
	return Check(raw, tag) == nil
}

// Check is Validate with the reason a value was refused
func Check(raw string, tag types.TypeTag) error {
	switch tag {
	case types.TypeInteger:
		return ValidateInteger(raw)
	case types.TypeReal:
		return ValidateReal(raw)
	case types.TypeChar:
		return ValidateChar(raw)
	case types.TypeString:
		return nil
	case types.TypeDate:
		return ValidateDate(raw)
	case types.TypeDateInterval:
		return ValidateDateInterval(raw)
	default:
		return fmt.Errorf("unknown type %q", tag)
	}
}

// ValidateInteger validates a base-10 signed integer of any magnitude
func ValidateInteger(value string) error {
	// big.Int accepts a leading sign and rejects underscores in base 10
	if _, ok := new(big.Int).SetString(value, 10); !ok {
		return fmt.Errorf("invalid integer %q, expected base-10 digits with optional sign", value)
	}
	return nil
}

// ValidateReal validates a finite decimal number. Integers are accepted.
func ValidateReal(value string) error {
	if strings.ContainsAny(value, "xX_") {
		return fmt.Errorf("invalid real %q, expected a decimal number", value)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid real %q, expected a decimal number", value)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("invalid real %q, value is not finite", value)
	}
	return nil
}

// ValidateChar validates a string of exactly one character
func ValidateChar(value string) error {
	if !utf8.ValidString(value) || utf8.RuneCountInString(value) != 1 {
		return fmt.Errorf("invalid char %q, expected exactly one character", value)
	}
	return nil
}

// ValidateDate validates a date string in YYYY-MM-DD format
func ValidateDate(value string) error {
	if _, err := parseDate(value); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD (e.g., '2024-01-13')", value)
	}
	return nil
}

// ValidateDateInterval validates "start/end" where both halves are dates
// and start is not after end
func ValidateDateInterval(value string) error {
	start, end, ok := strings.Cut(value, "/")
	if !ok || strings.Contains(end, "/") {
		return fmt.Errorf("invalid date interval %q, expected YYYY-MM-DD/YYYY-MM-DD", value)
	}

	startDate, err := parseDate(start)
	if err != nil {
		return fmt.Errorf("invalid date interval %q: bad start date", value)
	}
	endDate, err := parseDate(end)
	if err != nil {
		return fmt.Errorf("invalid date interval %q: bad end date", value)
	}

	if startDate.After(endDate) {
		return fmt.Errorf("invalid date interval %q: start is after end", value)
	}
	return nil
}

// parseDate rejects impossible calendar dates such as 2023-02-30
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
