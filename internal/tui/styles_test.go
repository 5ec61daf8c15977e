package tui

import (
	"testing"

	catppuccin "github.com/catppuccin/go"
)

func TestFlavorFromName(t *testing.T) {
	tests := []struct {
		name string
		want catppuccin.Flavor
	}{
		{"latte", catppuccin.Latte},
		{"frappe", catppuccin.Frappe},
		{"macchiato", catppuccin.Macchiato},
		{"mocha", catppuccin.Mocha},
		{"", catppuccin.Mocha},
		{"solarized", catppuccin.Mocha},
	}
	for _, tt := range tests {
		if got := flavorFromName(tt.name); got.Name() != tt.want.Name() {
			t.Errorf("flavorFromName(%q) = %s, want %s", tt.name, got.Name(), tt.want.Name())
		}
	}
}

func TestStyles_Emphasis(t *testing.T) {
	styles := NewStyles("mocha")

	if !styles.TitleStyle().GetBold() {
		t.Error("TitleStyle should be bold")
	}
	if !styles.GroupStyle().GetBold() {
		t.Error("GroupStyle should be bold")
	}
	if styles.SummaryStyle().GetBold() {
		t.Error("SummaryStyle should not be bold")
	}
	if !styles.MatchStyle().GetUnderline() {
		t.Error("MatchStyle should underline")
	}
}
