// Package money formatea valores en reais con la convención pt-BR (coma decimal, punto de miles).
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format devuelve el valor con dos decimales: 1234.5 → "1.234,50".
func Format(v decimal.Decimal) string {
	s := v.Round(2).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// BRL antepone el símbolo: "R$ 12,50".
func BRL(v decimal.Decimal) string {
	return "R$ " + Format(v)
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
