// Package wizard holds the multi-step input flows as plain state machines.
// Nothing here talks to Telegram or the database; an event either moves the
// machine forward or returns an error and leaves it untouched.
package wizard

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrWrongState   = errors.New("event not expected in current state")
)

var digitFolder = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// ParseNumber accepts a non-negative integer written with ASCII, Persian or
// Arabic-Indic digits. Signs, separators and spaces inside are rejected.
func ParseNumber(s string) (int64, bool) {
	s = digitFolder.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
