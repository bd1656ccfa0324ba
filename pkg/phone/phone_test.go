package phone

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare national number", "9876543210", "919876543210"},
		{"formatted national number", "98765-43210", "919876543210"},
		{"already country coded", "919876543210", "919876543210"},
		{"plus prefix and spaces", "+91 98765 43210", "919876543210"},
		{"national number starting with 91", "9123456789", "919123456789"},
		{"empty", "", ""},
		{"garbage", "call me", ""},
		{"short input is prefixed", "12345", "9112345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeIsIdempotentForTenDigitInputs(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		raw := fmt.Sprintf("%010d", r.Int63n(10_000_000_000))
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(once), "input %s", raw)
		assert.Len(t, once, SubscriberLength+len(DefaultCountryCode))
	}
}

func TestCustomCountryCode(t *testing.T) {
	n := NewNormalizer("44")
	assert.Equal(t, "447700900123", n.Normalize("7700900123"))
	assert.Equal(t, "7700900123", n.Subscriber("+44 7700 900123"))
}

func TestVariants(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"9876543210", "919876543210"},
		Variants("9876543210"),
	)
	assert.ElementsMatch(t,
		[]string{"919876543210", "91919876543210", "9876543210"},
		Variants("+91 98765 43210"),
	)
	assert.Nil(t, Variants("n/a"))
}
