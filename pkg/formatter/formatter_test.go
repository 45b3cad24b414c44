package formatter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly at limit", "hello", 5, "hello"},
		{"cut ascii", "hello world", 5, "hello"},
		{"zero limit returns input", "hello", 0, "hello"},
		{"negative limit returns input", "hello", -1, "hello"},
		{"empty input", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	// "héllo" has a two-byte rune at index 1; cutting at 2 would split it.
	assert.Equal(t, "h", Truncate("héllo", 2))

	s := strings.Repeat("日本語", 10)
	for max := 1; max < len(s); max++ {
		out := Truncate(s, max)
		assert.LessOrEqual(t, len(out), max)
		assert.True(t, utf8.ValidString(out), "max=%d produced invalid utf8", max)
	}
}
