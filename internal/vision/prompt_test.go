package vision

import (
	"strings"
	"testing"
)

func TestComposeUserPrompt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty uses default", "", DefaultPrompt},
		{"whitespace uses default", "   \n\t", DefaultPrompt},
		{"custom prompt kept", "focus on the packaging", "focus on the packaging"},
		{"custom prompt trimmed", "  focus on the packaging  ", "focus on the packaging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComposeUserPrompt(tt.input); got != tt.expected {
				t.Errorf("ComposeUserPrompt(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSystemInstructions_Contract(t *testing.T) {
	// The instruction block carries the full response contract; spot-check the
	// parts the parser and link generator depend on.
	required := []string{
		"productName",
		"sustainabilityScore",
		"confidence",
		"alternatives",
		"Unknown Product",
		"reason",
		"Never include shopping, store, or purchase URLs",
		"never brand names",
	}
	for _, fragment := range required {
		if !strings.Contains(SystemInstructions, fragment) {
			t.Errorf("System instructions missing %q", fragment)
		}
	}
}
