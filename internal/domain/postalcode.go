package domain

import "strings"

// CEPLength is the digit length of a Brazilian postal code.
const CEPLength = 8

// NormalizeCEP strips all non-digit characters from raw and validates that
// exactly CEPLength digits remain. The result is the canonical form used as
// the locality cache key. Normalization is idempotent.
func NormalizeCEP(raw string) (string, error) {
	var b strings.Builder
	b.Grow(CEPLength)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) != CEPLength {
		return "", ErrInvalidPostalCode
	}
	return code, nil
}
