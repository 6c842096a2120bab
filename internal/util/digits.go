package util

import "strings"

// DigitsOnly strips everything but ASCII digits, so masked tax ids like
// "12.345.678/0001-90" reduce to "12345678000190".
func DigitsOnly(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// LeftPadDigits zero-pads digits to width, or keeps the rightmost width digits
// when the input is longer.
func LeftPadDigits(digits string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(digits) >= width {
		return digits[len(digits)-width:]
	}
	return strings.Repeat("0", width-len(digits)) + digits
}

// LastDigits returns up to n trailing characters of digits.
func LastDigits(digits string, n int) string {
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}
