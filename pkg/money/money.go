// Package money formatea montos en pesos para reportes y notificaciones.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// COP formatea un monto entero en pesos con separador de miles: 1234567 -> "$1.234.567".
func COP(v int64) string {
	if v < 0 {
		return "-$" + printer.Sprintf("%d", -v)
	}
	return "$" + printer.Sprintf("%d", v)
}

// Decimal formatea un monto decimal redondeado a pesos enteros.
func Decimal(d decimal.Decimal) string {
	return COP(d.Round(0).IntPart())
}
