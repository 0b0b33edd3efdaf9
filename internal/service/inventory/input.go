package inventory

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrNotNumber indicates the text is not a decimal number.
	ErrNotNumber = errors.New("not a number")
	// ErrNotInteger indicates the text is not a whole number.
	ErrNotInteger = errors.New("not a whole number")
	// ErrNotPositive indicates a whole number that is zero or negative.
	ErrNotPositive = errors.New("number must be greater than 0")
)

// ParseCost validates operator input for a cost. Any float is accepted.
func ParseCost(input string) (float64, error) {
	cost, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, ErrNotNumber
	}
	return cost, nil
}

// ParseQuantity validates operator input for a quantity. Any integer is accepted.
func ParseQuantity(input string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrNotInteger
	}
	return qty, nil
}

// ParseIncrement validates a restock amount, which must be a positive integer.
func ParseIncrement(input string) (int, error) {
	qty, err := ParseQuantity(input)
	if err != nil {
		return 0, err
	}
	if qty <= 0 {
		return 0, ErrNotPositive
	}
	return qty, nil
}

// ParseConfirmation reports whether the answer is a yes.
func ParseConfirmation(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), "y")
}
