package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatInt renders an integer lexeme the way Python prints the parsed value:
// leading zeros dropped, sign kept, no width limit. A negative zero keeps its
// sign so `x-0` does not collapse into one name.
func formatInt(lexeme string) (string, error) {
	sign := ""
	digits := lexeme
	if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}

	if digits == "" {
		return "", fmt.Errorf("invalid integer literal %q", lexeme)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("invalid integer literal %q", lexeme)
		}
	}

	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return sign + "0", nil
	}
	return sign + digits, nil
}

// formatFloat renders a decimal lexeme as Python's repr of the float: shortest
// round-tripping digits, always with a fractional part or an exponent.
func formatFloat(lexeme string) (string, error) {
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return "", fmt.Errorf("invalid number literal %q", lexeme)
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64), nil
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	if s == "0.0" && math.Signbit(f) {
		s = "-0.0"
	}
	return s, nil
}
