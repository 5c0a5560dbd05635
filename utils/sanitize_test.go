package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Title cases a plain name",
			input:    "ravi kumar",
			expected: "Ravi Kumar",
		},
		{
			name:     "Collapses whitespace runs",
			input:    "  asha \t  patil  ",
			expected: "Asha Patil",
		},
		{
			name:     "Strips unusual characters",
			input:    "meena <script>shah</script>",
			expected: "Meena Scriptshah/Script",
		},
		{
			name:     "Keeps common punctuation",
			input:    "flat 4-b, lake view (west)",
			expected: "Flat 4-B, Lake View (West)",
		},
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "Whitespace only",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeText(tt.input))
		})
	}
}
