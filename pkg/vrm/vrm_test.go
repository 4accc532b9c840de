package vrm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    VRM
		wantErr bool
	}{
		{"canonical", "WA67YSB", "WA67YSB", false},
		{"lower case", "wa67ysb", "WA67YSB", false},
		{"spaced", " wa67 ysb ", "WA67YSB", false},
		{"tabs and newlines", "WA\t67\nYSB", "WA67YSB", false},
		{"shortest", "A1", "A1", false},
		{"prefix style", "a123 bcd", "A123BCD", false},
		{"dateless", "1 ABC", "1ABC", false},
		{"letters only", "AB", "", true},
		{"letters only long", "ABCDEFG", "", true},
		{"digits only", "1234567", "", true},
		{"too long", "1234567890", "", true},
		{"too long mixed", "WA67YSBX", "", true},
		{"too short", "A", "", true},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"punctuation", "WA-67YS", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				var invalid *InvalidRegistrationError
				require.True(t, errors.As(err, &invalid), "want InvalidRegistrationError, got %v", err)
				assert.Equal(t, tt.input, invalid.Input)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeLengthBounds(t *testing.T) {
	// Every mixed token outside 2..7 characters is rejected.
	base := "A1B2C3D4E5"
	for n := 0; n <= len(base); n++ {
		_, err := Normalize(base[:n])
		if n < MinLength || n > MaxLength {
			assert.Error(t, err, "length %d", n)
		} else {
			assert.NoError(t, err, "length %d", n)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   VRM
		want string
	}{
		{"WA67YSB", "WA67 YSB"},
		{"A123BCD", "A123 BCD"},
		{"ABC123", "ABC 123"},
		{"AB12", "AB 12"},
		{"1ABC", "1 ABC"},
		{"A1", "A 1"},
		{"A1B", "A 1B"},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{"wa67ysb", "A1", "ab 12", "abc123", "1abc", "k9", "p123 abc", "xy12z"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			v, err := Normalize(in)
			require.NoError(t, err)

			again, err := Normalize(Strip(Format(v)))
			require.NoError(t, err)
			assert.Equal(t, v, again)
		})
	}
}
