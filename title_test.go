package chatpg

import (
	"strings"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Kyoto Trip Planning", "Kyoto Trip Planning"},
		{"surrounding whitespace", "  Kyoto Trip Planning \n", "Kyoto Trip Planning"},
		{"double quotes", `"Kyoto Trip Planning"`, "Kyoto Trip Planning"},
		{"single quotes", "'Kyoto Trip Planning'", "Kyoto Trip Planning"},
		{"quotes then whitespace inside", "\" Kyoto Trip Planning \"", "Kyoto Trip Planning"},
		{"exactly forty characters kept", strings.Repeat("a", 40), strings.Repeat("a", 40)},
		{"forty one characters truncated", strings.Repeat("a", 41), strings.Repeat("a", 37) + "..."},
		{"long title truncated", strings.Repeat("b", 100), strings.Repeat("b", 37) + "..."},
		{"multibyte runes counted as one", strings.Repeat("ä", 41), strings.Repeat("ä", 37) + "..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeTitle(tt.title); got != tt.want {
				t.Errorf("normalizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
