package sliceutil

import "testing"

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		slice    []string
		item     string
		expected bool
	}{
		{"item exists", []string{"skills", "hooks", "prompts"}, "hooks", true},
		{"item missing", []string{"skills", "hooks"}, "agents", false},
		{"empty slice", []string{}, "skills", false},
		{"nil slice", nil, "skills", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.slice, tt.item); got != tt.expected {
				t.Errorf("Contains(%v, %q) = %v; want %v", tt.slice, tt.item, got, tt.expected)
			}
		})
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		substr   string
		expected bool
	}{
		{"exact match", "Claude Code", "Claude", true},
		{"case insensitive", "Claude Code", "claude", true},
		{"no match", "Claude Code", "gemini", false},
		{"empty substring", "Claude Code", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsIgnoreCase(tt.s, tt.substr); got != tt.expected {
				t.Errorf("ContainsIgnoreCase(%q, %q) = %v; want %v", tt.s, tt.substr, got, tt.expected)
			}
		})
	}
}
