package domain

import "testing"

func TestIsKnownStyle(t *testing.T) {
	tests := map[string]bool{
		"modern":    true,
		"vintage":   true,
		" abstract": true,
		"realistic": true,
		"Modern":    false,
		"cyberpunk": false,
		"":          false,
	}
	for style, want := range tests {
		if got := IsKnownStyle(style); got != want {
			t.Fatalf("IsKnownStyle(%q) = %v, want %v", style, got, want)
		}
	}
}
