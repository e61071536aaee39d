// Package phone normalizes mobile numbers into the ten-digit key used to
// match accounts, households and payments.
package phone

import "strings"

// KeyLength is the number of trailing digits that identify a mobile number.
const KeyLength = 10

// Key strips every non-digit and keeps the last ten digits.
// "+91 98765-43210" and "09876543210" both yield "9876543210".
func Key(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > KeyLength {
		return digits[len(digits)-KeyLength:]
	}
	return digits
}

// Valid reports whether raw carries at least ten digits.
func Valid(raw string) bool {
	return len(Key(raw)) == KeyLength
}

// Same reports whether two raw numbers normalize to the same non-empty key.
func Same(a, b string) bool {
	ka := Key(a)
	return ka != "" && ka == Key(b)
}
