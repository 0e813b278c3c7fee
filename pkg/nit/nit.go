// Package nit valida números de identificación tributaria colombianos (NIT).
// El dígito de verificación se calcula con el algoritmo módulo 11 de la DIAN
// (Orden Administrativa 4 de 1989), aplicado a los 9 primeros dígitos.
package nit

import (
	"fmt"
	"unicode"
)

// Pesos del módulo 11, de izquierda a derecha sobre los 9 dígitos base.
var weights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// ValidateVerificationDigit valida que el NIT (con o sin puntos/guiones) tenga
// un dígito de verificación correcto. Acepta "123456789-1", "123.456.789-1"
// o "1234567891".
func ValidateVerificationDigit(taxID string) error {
	digits := extractDigits(taxID)
	if len(digits) < 9 {
		return fmt.Errorf("nit: debe tener al menos 9 dígitos, se encontraron %d", len(digits))
	}
	expected := checkDigit(digits[:9])
	if len(digits) == 10 {
		if digits[9] != expected {
			return fmt.Errorf("nit: dígito de verificación inválido: esperado %c, recibido %c", expected, digits[9])
		}
		return nil
	}
	return fmt.Errorf("nit: debe incluir dígito de verificación (10 dígitos), se recibieron %d", len(digits))
}

// ComputeVerificationDigit calcula el dígito de verificación para los 9
// primeros dígitos del NIT recibido.
func ComputeVerificationDigit(taxID string) (byte, error) {
	digits := extractDigits(taxID)
	if len(digits) < 9 {
		return 0, fmt.Errorf("nit: se requieren al menos 9 dígitos para calcular el dígito de verificación, se encontraron %d", len(digits))
	}
	return checkDigit(digits[:9]), nil
}

func checkDigit(base []byte) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder)
	}
	return byte('0' + (11 - remainder))
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
