// Package textfmt renders numbers, dates and sizes the way the chat screens show them.
package textfmt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Thousands formats n with comma group separators, e.g. 12,200.
func Thousands(n int64) string {
	return printer.Sprintf("%d", n)
}

// Toman formats an amount as "12,200 تومان".
func Toman(n int64) string {
	return Thousands(n) + " تومان"
}

const gigabyte = 1024 * 1024 * 1024

// GB renders a byte count in gigabytes with two decimals, trailing zeros dropped.
func GB(bytes int64) string {
	s := fmt.Sprintf("%.2f", float64(bytes)/gigabyte)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s
}

// GBToBytes converts a whole gigabyte count to bytes.
func GBToBytes(gb int) int64 {
	return int64(gb) * gigabyte
}

// Watermark appends mark on its own line. An empty mark leaves text unchanged.
func Watermark(text, mark string) string {
	if mark == "" {
		return text
	}
	return strings.TrimRight(text, "\n") + "\n\n" + mark
}
