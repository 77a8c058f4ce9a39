package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Praxis Dr. Weber", "praxis-dr-weber"},
		{"  Zentrum für Therapie  ", "zentrum-für-therapie"},
		{"ABC", "abc"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	if got := ParseInt("15", 1); got != 15 {
		t.Errorf("ParseInt(\"15\") = %d, want 15", got)
	}
	if got := ParseInt("abc", 7); got != 7 {
		t.Errorf("ParseInt fallback = %d, want 7", got)
	}
}
