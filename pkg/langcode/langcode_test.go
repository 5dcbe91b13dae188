package langcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"fr-CA", "fr"},
		{"en_US", "en"},
		{"  es ", "es"},
		{"pt-BR", "pt"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Spanish", Name("es"))
	assert.Equal(t, "French", Name("FR-ca"))
	assert.Equal(t, "xx", Name("xx"), "unknown codes pass through")
}

func TestSupportedIsACopy(t *testing.T) {
	supported := Supported()
	supported["en"] = "tampered"

	assert.Equal(t, "English", Name("en"))
}
