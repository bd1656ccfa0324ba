// Package phone canonicalizes user-entered phone numbers so OTP records and
// membership applications can be matched by exact string comparison.
package phone

import "strings"

const (
	// DefaultCountryCode is the Indian country calling code
	DefaultCountryCode = "91"

	// SubscriberLength is the number of digits in a national mobile number
	SubscriberLength = 10
)

// Normalizer produces country-coded digit strings
type Normalizer struct {
	CountryCode string
}

// NewNormalizer creates a Normalizer for a country code, falling back to DefaultCountryCode
func NewNormalizer(countryCode string) Normalizer {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return Normalizer{CountryCode: countryCode}
}

var defaultNormalizer = NewNormalizer(DefaultCountryCode)

// Digits strips every non-digit character
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize returns the canonical country-coded digit string for raw input.
// A bare national number is always prefixed, even when it happens to start
// with the country code digits.
func (n Normalizer) Normalize(raw string) string {
	digits := Digits(raw)
	if digits == "" {
		return ""
	}
	if len(digits) == SubscriberLength {
		return n.CountryCode + digits
	}
	if strings.HasPrefix(digits, n.CountryCode) {
		return digits
	}
	return n.CountryCode + digits
}

// Subscriber returns the national part of a number, without the country code
func (n Normalizer) Subscriber(raw string) string {
	normalized := n.Normalize(raw)
	return strings.TrimPrefix(normalized, n.CountryCode)
}

// Variants lists the distinct forms an application may have been stored
// under: bare digits, country-coded and national.
func (n Normalizer) Variants(raw string) []string {
	digits := Digits(raw)
	if digits == "" {
		return nil
	}

	candidates := []string{digits, n.Normalize(raw), n.CountryCode + digits, n.Subscriber(raw)}
	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		variants = append(variants, c)
	}
	return variants
}

// Normalize uses the default country code
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Variants uses the default country code
func Variants(raw string) []string {
	return defaultNormalizer.Variants(raw)
}
