package charref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gosvelte/pkg/charref"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "test_plain_text",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "test_named_reference",
			input:    "a &amp; b &lt;c&gt;",
			expected: "a & b <c>",
		},
		{
			name:     "test_numeric_references",
			input:    "&#65;&#x42;&#X43;",
			expected: "ABC",
		},
		{
			name:     "test_astral_reference",
			input:    "&#128512;",
			expected: "😀",
		},
		{
			name:     "test_unknown_reference_is_kept",
			input:    "&nosuchthing; &",
			expected: "&nosuchthing; &",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, charref.Decode(tt.input))
		})
	}
}

func TestCodePointAt(t *testing.T) {
	t.Run("test_bmp_unit", func(t *testing.T) {
		units := charref.CodeUnits("aé")
		assert.Equal(t, 'a', charref.CodePointAt(units, 0))
		assert.Equal(t, 'é', charref.CodePointAt(units, 1))
	})

	t.Run("test_surrogate_pair", func(t *testing.T) {
		units := charref.CodeUnits("x😀")
		require.Len(t, units, 3)
		assert.Equal(t, rune(0x1F600), charref.CodePointAt(units, 1))
	})

	t.Run("test_unit_after_low_band", func(t *testing.T) {
		units := []uint16{0xE000, 0xFFFD}
		assert.Equal(t, rune(0xE000), charref.CodePointAt(units, 0))
	})

	t.Run("test_lone_trailing_surrogate", func(t *testing.T) {
		units := []uint16{0xD83D}
		assert.Equal(t, rune(0xD83D), charref.CodePointAt(units, 0))
	})

	// UTF-8 bytes widened to code units are never in the surrogate bands, so
	// each byte comes back unchanged instead of the encoded character.
	t.Run("test_utf8_bytes_are_not_code_units", func(t *testing.T) {
		raw := "😀"
		units := make([]uint16, len(raw))
		for i := 0; i < len(raw); i++ {
			units[i] = uint16(raw[i])
		}
		assert.Equal(t, rune(0xF0), charref.CodePointAt(units, 0))
		assert.NotEqual(t, rune(0x1F600), charref.CodePointAt(units, 0))
	})
}
