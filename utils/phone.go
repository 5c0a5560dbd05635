package utils

import (
	"strings"
	"unicode"
)

// PhoneLength is the canonical length of a normalized Indian mobile number
const PhoneLength = 10

// NormalizePhone reduces a phone number to its canonical 10-digit form.
// All non-digit characters are stripped, then a leading "91" country code
// is removed when the remainder is 12 digits (the "+91" form reduces to
// the same thing once non-digits are gone).
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}

	normalized := digits.String()
	if len(normalized) == 12 && strings.HasPrefix(normalized, "91") {
		normalized = normalized[2:]
	}

	return normalized
}

// ValidatePhone reports whether the phone number normalizes to a valid
// 10-digit mobile number
func ValidatePhone(phone string) bool {
	return len(NormalizePhone(phone)) == PhoneLength
}
