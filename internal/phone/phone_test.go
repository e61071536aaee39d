package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	cases := map[string]string{
		"+91 98765-43210": "9876543210",
		"09876543210":     "9876543210",
		"9876543210":      "9876543210",
		"12345":           "12345",
		"":                "",
		"abc":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Key(in), "input %q", in)
	}
}

func TestValidAndSame(t *testing.T) {
	assert.True(t, Valid("+91 98765 43210"))
	assert.False(t, Valid("98765"))

	assert.True(t, Same("+919876543210", "9876543210"))
	assert.False(t, Same("", ""))
	assert.False(t, Same("9876543210", "9876543211"))
}
