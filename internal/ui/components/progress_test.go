package components

import (
	"strings"
	"testing"
)

func TestProgressBar_Segments(t *testing.T) {
	tests := []struct {
		name                     string
		passed, unlocked, total  int
		wantP, wantU, wantLocked int
	}{
		{"empty curriculum", 0, 0, 0, 0, 0, 20},
		{"nothing passed", 0, 5, 10, 0, 10, 10},
		{"half passed", 5, 2, 10, 10, 4, 6},
		{"all passed", 10, 0, 10, 20, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewProgressBar("", tt.passed, tt.unlocked, tt.total, 40)
			p, u, l := bar.Segments(20)
			if p != tt.wantP || u != tt.wantU || l != tt.wantLocked {
				t.Errorf("Segments = (%d, %d, %d), want (%d, %d, %d)", p, u, l, tt.wantP, tt.wantU, tt.wantLocked)
			}
			if p+u+l != 20 {
				t.Errorf("segments cover %d cells, want 20", p+u+l)
			}
		})
	}
}

func TestProgressBar_ViewShowsCount(t *testing.T) {
	view := NewProgressBar("Passed", 3, 1, 12, 60).View()
	for _, want := range []string{"Passed", "3/12", "25%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q: %q", want, view)
		}
	}
}
