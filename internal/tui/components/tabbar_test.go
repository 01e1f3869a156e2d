package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range Tabs {
		pos := 0
		for i, tab := range Tabs {
			w := TabVisualWidth(tab, i == active)
			x := pos + w/2
			if got := TabAtX(x, active); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1
		}
		if got := TabAtX(pos+50, active); got != -1 {
			t.Errorf("far right x -> tab=%d, want -1", got)
		}
	}
}

func TestRenderTabBarMatchesHitboxes(t *testing.T) {
	for active := range Tabs {
		plain := stripANSI(RenderTabBar(active, 200))
		pos := 0
		for i, tab := range Tabs {
			// Each tab is padded by one column on the left.
			if got := strings.Index(plain, tab.Name); got != pos+1 {
				t.Errorf("active=%d: %s starts at %d, want %d", active, tab.Name, got, pos+1)
			}
			pos += TabVisualWidth(tab, i == active) + 1
		}
		if w := lipgloss.Width(plain); w != 200 {
			t.Errorf("active=%d: bar width = %d, want 200", active, w)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('e') != 2 || TabIdxByKey('z') != -1 {
		t.Errorf("TabIdxByKey mismatch")
	}
}

// stripANSI removes CSI sequences so trailing padding can be trimmed.
func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
