package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind selects the cleaning rules applied to a cell before it is parsed.
type Kind int

const (
	// Number is a plain count such as "1.234" or "10,00".
	Number Kind = iota
	// Currency is a BRL amount such as "R$ 1.234,56".
	Currency
	// Percent is a share such as "12,34%".
	Percent
)

func (k Kind) String() string {
	switch k {
	case Currency:
		return "currency"
	case Percent:
		return "percent"
	default:
		return "number"
	}
}

const currencyPrefix = "R$"

// ErrInvalidValue is returned for cells that are not empty and not a number after cleaning.
var ErrInvalidValue = errors.New("invalid numeric value")

// CellError points at the offending cell of a column.
type CellError struct {
	Row int
	Raw string
	Err error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d: %q: %v", e.Row, e.Raw, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// Clean applies the pt-BR separator rules to raw and returns the text handed to ParseFloat.
func Clean(raw string, kind Kind) string {
	s := raw
	switch kind {
	case Currency:
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, currencyPrefix) {
			// strings.TrimSpace also drops the U+00A0 the exports put after R$
			s = strings.TrimSpace(strings.TrimPrefix(s, currencyPrefix))
		}
		s = strings.ReplaceAll(s, ".", "")
	case Percent:
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	default:
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", ".")
	return strings.TrimSpace(s)
}

// ParseValue cleans and parses one cell. Blank cells are 0.
func ParseValue(raw string, kind Kind) (float64, error) {
	s := Clean(raw, kind)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidValue, kind, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q is not finite", ErrInvalidValue, kind, raw)
	}
	return v, nil
}

// ParseCurrency parses "R$ 1.234,56" style cells.
func ParseCurrency(raw string) (float64, error) { return ParseValue(raw, Currency) }

// ParseNumber parses "1.234,5" style cells.
func ParseNumber(raw string) (float64, error) { return ParseValue(raw, Number) }

// ParsePercent parses "12,3%" style cells into 12.3.
func ParsePercent(raw string) (float64, error) { return ParseValue(raw, Percent) }

// ParseColumn parses every cell of a column, keeping length and order.
// The first invalid cell stops the column with a *CellError.
func ParseColumn(cells []string, kind Kind) ([]float64, error) {
	out := make([]float64, len(cells))
	for i, raw := range cells {
		v, err := ParseValue(raw, kind)
		if err != nil {
			return nil, &CellError{Row: i, Raw: raw, Err: err}
		}
		out[i] = v
	}
	return out, nil
}
