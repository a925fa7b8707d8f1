package slug_test

import (
	"testing"

	"powerfulchat/internal/slug"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Mia Delacroix", "mia-delacroix"},
		{"  Mia   Delacroix  ", "mia-delacroix"},
		{"Renée Zäunert", "renee-zaunert"},
		{"Jean-Luc Picard", "jean-luc-picard"},
		{"Samuel L. Jackson", "samuel-l-jackson"},
		{"snake_case name", "snake-case-name"},
		{"O'Brien", "obrien"},
		{"Agent 47", "agent-47"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range tests {
		if got := slug.Make(tc.name); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestMakeIsStable(t *testing.T) {
	if slug.Make("Ólafur Darri Ólafsson") != slug.Make("Ólafur Darri Ólafsson") {
		t.Fatal("slug is not stable for identical input")
	}
}
