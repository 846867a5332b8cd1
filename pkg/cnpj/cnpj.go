// Package cnpj normaliza, valida y formatea identificadores fiscales brasileños
// (CNPJ) y los demás campos con máscara del registro de empresas: CEP, IE/IM,
// teléfono y UF.
package cnpj

import (
	"strings"
	"unicode"
)

// Length cantidad de dígitos de un CNPJ normalizado.
const Length = 14

// pesos del módulo 11 para los dos dígitos verificadores (Receita Federal).
var (
	firstWeights  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits devuelve solo los dígitos ASCII de s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize elimina la máscara y limita a 14 dígitos.
func Normalize(s string) string {
	d := Digits(s)
	if len(d) > Length {
		d = d[:Length]
	}
	return d
}

// IsComplete informa si el valor normalizado tiene los 14 dígitos.
func IsComplete(s string) bool {
	return len(Normalize(s)) == Length
}

// IsValid valida longitud y dígitos verificadores. Rechaza secuencias repetidas (00000000000000, ...).
func IsValid(s string) bool {
	d := Digits(s)
	if len(d) != Length {
		return false
	}
	if strings.Count(d, d[:1]) == Length {
		return false
	}
	dv1 := checkDigit(d[:12], firstWeights[:])
	dv2 := checkDigit(d[:12]+string(dv1), secondWeights[:])
	return d[12] == dv1 && d[13] == dv2
}

func checkDigit(base string, weights []int) byte {
	var sum int
	for i := range weights {
		sum += int(base[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + 11 - r)
}

// Format aplica la máscara 00.000.000/0000-00 de forma progresiva (admite entradas parciales).
func Format(s string) string {
	return mask(Normalize(s), []int{2, 3, 3, 4, 2}, []string{".", ".", "/", "-"})
}

// Root devuelve los 8 primeros dígitos (raíz del CNPJ); si hay menos, los que existan.
func Root(s string) string {
	d := Normalize(s)
	if len(d) > 8 {
		return d[:8]
	}
	return d
}

// FormatCEP aplica la máscara 00000-000.
func FormatCEP(s string) string {
	d := Digits(s)
	if len(d) > 8 {
		d = d[:8]
	}
	return mask(d, []int{5, 3}, []string{"-"})
}

// FormatPhone aplica (00) 0000-0000 para fijos y (00) 00000-0000 para móviles.
// Con otra cantidad de dígitos devuelve solo los dígitos.
func FormatPhone(s string) string {
	d := Digits(s)
	switch len(d) {
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	default:
		return d
	}
}

// NormalizeUF deja la sigla del estado en mayúsculas y con dos letras como máximo.
func NormalizeUF(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if b.Len() == 2 {
			break
		}
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// mask intercala separadores entre grupos de tamaño fijo sin exceder los dígitos disponibles.
func mask(d string, groups []int, seps []string) string {
	var b strings.Builder
	pos := 0
	for i, size := range groups {
		if pos >= len(d) {
			break
		}
		if i > 0 {
			b.WriteString(seps[i-1])
		}
		end := pos + size
		if end > len(d) {
			end = len(d)
		}
		b.WriteString(d[pos:end])
		pos = end
	}
	return b.String()
}
