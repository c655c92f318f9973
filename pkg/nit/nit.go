// Package nit valida y normaliza el NIT de las empresas (módulo 11 de la DIAN).
package nit

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// pesos para los 9 dígitos base, de izquierda a derecha
var weights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

var ErrInvalid = errors.New("nit inválido")

// Normalize acepta "900123456", "900.123.456-8" o "9001234568" y devuelve "900123456-8".
// Sin dígito de verificación lo calcula; si viene, debe coincidir.
func Normalize(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: vacío", ErrInvalid)
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != '-' && r != ' ' {
			return "", fmt.Errorf("%w: carácter %q", ErrInvalid, r)
		}
	}
	digits := onlyDigits(s)
	switch len(digits) {
	case 9:
		return string(digits) + "-" + string(CheckDigit(digits)), nil
	case 10:
		base := digits[:9]
		if want := CheckDigit(base); digits[9] != want {
			return "", fmt.Errorf("%w: dígito de verificación esperado %c, recibido %c", ErrInvalid, want, digits[9])
		}
		return string(base) + "-" + string(digits[9]), nil
	default:
		return "", fmt.Errorf("%w: se esperaban 9 dígitos más el de verificación, se encontraron %d", ErrInvalid, len(digits))
	}
}

// CheckDigit dígito de verificación de los 9 dígitos base.
func CheckDigit(base []byte) byte {
	var sum int
	for i, d := range base[:9] {
		sum += int(d-'0') * weights[i]
	}
	r := sum % 11
	if r == 0 || r == 1 {
		return byte('0' + r)
	}
	return byte('0' + (11 - r))
}

func onlyDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
