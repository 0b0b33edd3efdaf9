package inventoryfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/warehouse/internal/domain/models"
)

const (
	fieldSeparator = ","
	fieldCount     = 5
)

var (
	// ErrFieldCount indicates a data line does not split into exactly five fields.
	ErrFieldCount = errors.New("wrong field count")
	// ErrBadNumber indicates the cost or quantity field is not numeric.
	ErrBadNumber = errors.New("bad number")
)

// LineError describes a data line that could not be decoded.
type LineError struct {
	Line int
	Raw  string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Raw, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// IsBlank reports whether a raw line carries no data.
func IsBlank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// splitFields trims the line, splits it on commas and trims every field.
func splitFields(raw string) []string {
	parts := strings.Split(strings.TrimSpace(raw), fieldSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Decode parses one data line. lineNo is only used for diagnostics.
func Decode(lineNo int, raw string) (models.Shoe, error) {
	parts := splitFields(raw)
	if len(parts) != fieldCount {
		return models.Shoe{}, &LineError{Line: lineNo, Raw: strings.TrimSpace(raw), Err: fmt.Errorf("%w: got %d", ErrFieldCount, len(parts))}
	}

	country, code, product, costText, qtyText := parts[0], parts[1], parts[2], parts[3], parts[4]

	cost, err := strconv.ParseFloat(costText, 64)
	if err != nil {
		return models.Shoe{}, &LineError{Line: lineNo, Raw: strings.TrimSpace(raw), Err: fmt.Errorf("%w: cost %q", ErrBadNumber, costText)}
	}

	quantity, err := strconv.Atoi(qtyText)
	if err != nil {
		return models.Shoe{}, &LineError{Line: lineNo, Raw: strings.TrimSpace(raw), Err: fmt.Errorf("%w: quantity %q", ErrBadNumber, qtyText)}
	}

	return models.Shoe{
		Country:  country,
		Code:     code,
		Product:  product,
		Cost:     cost,
		Quantity: quantity,
		CostText: costText,
	}, nil
}

// Encode serializes a record as a data line terminated by a newline.
func Encode(s models.Shoe) string {
	return strings.Join([]string{
		s.Country,
		s.Code,
		s.Product,
		s.CostString(),
		strconv.Itoa(s.Quantity),
	}, fieldSeparator) + "\n"
}
