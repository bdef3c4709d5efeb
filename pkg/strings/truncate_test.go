package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "short key unchanged", input: "netflix|default", maxLen: 20, expected: "netflix|default"},
		{name: "exact length unchanged", input: "hulu", maxLen: 4, expected: "hulu"},
		{name: "long key cut", input: "hulu|season=2,showName=Only Murders", maxLen: 20, expected: "hulu|season=2,sho..."},
		{name: "adb output flattened", input: "error: device\r\n  offline\tretry", maxLen: 80, expected: "error: device offline retry"},
		{name: "flattened before cutting", input: "a\n\n\nbcdefgh", maxLen: 6, expected: "a b..."},
		{name: "multi-byte runes kept whole", input: "Amélie à Paris", maxLen: 8, expected: "Améli..."},
		{name: "tiny max clamped", input: "netflix", maxLen: 1, expected: "n..."},
		{name: "empty", input: "", maxLen: 10, expected: ""},
		{name: "whitespace only", input: " \n\t ", maxLen: 10, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.maxLen))
		})
	}
}
