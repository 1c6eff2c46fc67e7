// Package format renders numbers the way the Brazilian reports show them.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// BRL renders a currency amount as "R$ 1.234,56".
func BRL(v float64) string {
	return "R$ " + Decimal(v, 2)
}

// Decimal renders v with the pt-BR separators and the given number of decimals.
func Decimal(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	// avoid "-0,00"
	if math.Abs(v) < 0.5*math.Pow10(-decimals) {
		v = 0
	}
	return printer.Sprintf("%.*f", decimals, v)
}

// Percent renders a share or change with one decimal and a percent sign: "12,3%".
func Percent(v float64) string {
	return Decimal(v, 1) + "%"
}

// Int renders a count with thousands separators: "1.500".
func Int(v float64) string {
	return Decimal(math.Round(v), 0)
}
