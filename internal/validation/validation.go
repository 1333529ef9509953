// Package validation checks pagination and content arguments before they reach storage.
package validation

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/VitaminP8/hackernews/internal/apperror"
)

const (
	DefaultTake = 30
	MinTake     = 1
	MaxTake     = 50
	DefaultSkip = 0
)

// OutOfRangeError reports a value outside [Min, Max].
type OutOfRangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s argument value '%d' is outside the valid range of %d-%d", e.Field, e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Unwrap() error {
	return apperror.ErrValidation
}

// NegativeValueError reports a value that must not be negative.
type NegativeValueError struct {
	Field string
	Value int
}

func (e *NegativeValueError) Error() string {
	return fmt.Sprintf("%s argument value '%d' must not be negative", e.Field, e.Value)
}

func (e *NegativeValueError) Unwrap() error {
	return apperror.ErrValidation
}

func ValidateRange(field string, value, min, max int) error {
	if value < min || value > max {
		return &OutOfRangeError{Field: field, Value: value, Min: min, Max: max}
	}
	return nil
}

// ValidateTake returns DefaultTake when take is nil.
func ValidateTake(take *int) (int, error) {
	if take == nil {
		return DefaultTake, nil
	}
	if err := ValidateRange("take", *take, MinTake, MaxTake); err != nil {
		return 0, err
	}
	return *take, nil
}

// ValidateSkip returns DefaultSkip when skip is nil.
func ValidateSkip(skip *int) (int, error) {
	if skip == nil {
		return DefaultSkip, nil
	}
	if *skip < 0 {
		return 0, &NegativeValueError{Field: "skip", Value: *skip}
	}
	return *skip, nil
}

// ValidateURL reports whether raw is an absolute http(s) URL with a host.
func ValidateURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ParseEntityID accepts only one or more ASCII digits. Anything else,
// including values that overflow uint, yields false.
func ParseEntityID(raw string) (uint, bool) {
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
