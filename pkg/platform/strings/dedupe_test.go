package strings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	platformstrings "clinicore/pkg/platform/strings"
)

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "mixed case duplicates collapse",
			input:    []string{"  Monday ", "FRIDAY", "monday"},
			expected: []string{"monday", "friday"},
		},
		{
			name:     "blanks are dropped",
			input:    []string{"", "   ", "tuesday"},
			expected: []string{"tuesday"},
		},
		{
			name:     "first occurrence order wins",
			input:    []string{"b", "a", "B"},
			expected: []string{"b", "a"},
		},
		{
			name:     "nil stays nil",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, platformstrings.DedupeAndTrimLower(tt.input))
		})
	}
}
