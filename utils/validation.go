// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]\d{6,14}$`)

// NormalizePhone strips spaces, dashes and parentheses from a phone number.
func NormalizePhone(phone string) string {
	cleaned := strings.TrimSpace(phone)
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")
	return cleaned
}

// ValidatePhone checks if a phone number is in a valid local or international format
func ValidatePhone(phone string) bool {
	// Allows + prefix followed by 7-15 digits; local numbers may start with 0
	return phonePattern.MatchString(NormalizePhone(phone))
}
