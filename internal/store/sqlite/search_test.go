package sqlite

import (
	"testing"
)

func TestConvertWebsearchToFTS5(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple term",
			input:    "tavern",
			expected: "tavern",
		},
		{
			name:     "multiple terms",
			input:    "haunted tavern",
			expected: "haunted AND tavern",
		},
		{
			name:     "explicit AND",
			input:    "tavern AND keeper",
			expected: "tavern AND keeper",
		},
		{
			name:     "explicit OR",
			input:    "sword OR dagger",
			expected: "sword OR dagger",
		},
		{
			name:     "negation",
			input:    "forest -elves",
			expected: "forest AND NOT elves",
		},
		{
			name:     "phrase",
			input:    `"cursed blade"`,
			expected: `"cursed blade"`,
		},
		{
			name:     "phrase with other term",
			input:    `"cursed blade" crypt`,
			expected: `"cursed blade" AND crypt`,
		},
		{
			name:     "prefix search",
			input:    "necro*",
			expected: "necro*",
		},
		{
			name:     "complex query",
			input:    `"cursed blade" -fire crypt OR tower`,
			expected: `"cursed blade" AND NOT fire AND crypt OR tower`,
		},
		{
			name:     "NOT operator",
			input:    "crypt NOT spiders",
			expected: "crypt NOT spiders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertWebsearchToFTS5(tt.input)
			if result != tt.expected {
				t.Errorf("convertWebsearchToFTS5(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
