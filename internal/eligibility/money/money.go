// Package money formats KRW amounts for advisory text.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// FormatKRW renders amount with thousands grouping, e.g. "25,882,560 KRW".
func FormatKRW(amount int64) string {
	return printer.Sprintf("%d KRW", amount)
}
