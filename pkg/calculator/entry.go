package calculator

import (
	"math"
	"strconv"
	"strings"
)

// ErrorText is the display text of an ErrorEntry.
const ErrorText = "Error"

// Entry is the value currently shown on the display. It is either a
// NumericEntry under construction or an ErrorEntry.
type Entry interface {
	// Text returns the display representation of the entry.
	Text() string
	isEntry()
}

// NumericEntry is a numeric literal being typed or a formatted result.
type NumericEntry string

// Text returns the literal.
func (n NumericEntry) Text() string { return string(n) }

// Value parses the literal. A trailing decimal point ("3.") is accepted.
func (n NumericEntry) Value() float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(string(n), "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// digits counts significant digits, ignoring sign and decimal point.
func (n NumericEntry) digits() int {
	count := 0
	for i := 0; i < len(n); i++ {
		if n[i] >= '0' && n[i] <= '9' {
			count++
		}
	}
	return count
}

// exponent reports whether the literal is a result in exponent form.
func (n NumericEntry) exponent() bool {
	return strings.ContainsRune(string(n), 'e')
}

func (NumericEntry) isEntry() {}

// ErrorEntry marks a failed computation such as division by zero.
type ErrorEntry struct{}

// Text returns ErrorText.
func (ErrorEntry) Text() string { return ErrorText }

func (ErrorEntry) isEntry() {}

// IsError reports whether e is an ErrorEntry.
func IsError(e Entry) bool {
	_, ok := e.(ErrorEntry)
	return ok
}

// FormatNumber renders v the way the display shows results: the shortest
// decimal that round-trips, with exponent notation only for very large or
// very small magnitudes. Negative zero is shown as "0".
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// trimExponent drops the zero padding strconv puts on one-digit exponents,
// so "1e-07" reads "1e-7".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}

	exp := strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return s[:i+2] + exp
}

// resultEntry converts a computed value into an Entry. Non-finite values
// cannot be typed back in, so they are shown as an error.
func resultEntry(v float64, err error) Entry {
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return ErrorEntry{}
	}
	return NumericEntry(FormatNumber(v))
}
