package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain json passes through",
			input:    `{"intent": "purchase"}`,
			expected: `{"intent": "purchase"}`,
		},
		{
			name:     "json fence stripped",
			input:    "```json\n{\"intent\": \"purchase\"}\n```",
			expected: `{"intent": "purchase"}`,
		},
		{
			name:     "bare fence stripped",
			input:    "```\n{\"intent\": \"inquiry\"}\n```",
			expected: `{"intent": "inquiry"}`,
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  \n```json\n{}\n```\n  ",
			expected: `{}`,
		},
		{
			name:     "unterminated fence still yields payload",
			input:    "```json\n{\"orders\": []}",
			expected: `{"orders": []}`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanMarkdownWrapper(tt.input))
		})
	}
}
