package tui

import (
	"strings"
	"testing"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name           string
		width          int
		height         int
		viewportWidth  int
		viewportHeight int
		showLogo       bool
	}{
		{name: "narrow", width: 80, height: 24, viewportWidth: 76, viewportHeight: 16},
		{name: "tiny", width: 30, height: 10, viewportWidth: minViewportWidth, viewportHeight: 6},
		{name: "tall but narrow", width: 90, height: 60, viewportWidth: 86, viewportHeight: 52},
		{name: "wide", width: 200, height: 50, viewportWidth: 196, viewportHeight: 33, showLogo: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.viewportWidth != tc.viewportWidth {
				t.Fatalf("viewport width mismatch: got %d want %d", layout.viewportWidth, tc.viewportWidth)
			}
			if layout.viewportHeight != tc.viewportHeight {
				t.Fatalf("viewport height mismatch: got %d want %d", layout.viewportHeight, tc.viewportHeight)
			}
			if layout.showLogo != tc.showLogo {
				t.Fatalf("logo visibility mismatch: got %v want %v", layout.showLogo, tc.showLogo)
			}
		})
	}
}

func TestContentBuilderTracksFocus(t *testing.T) {
	cb := newContentBuilder()
	cb.write("one")
	cb.gap()
	cb.focus("two\nthree")
	cb.write("four")

	if cb.focusTop != 2 || cb.focusBottom != 4 {
		t.Fatalf("focus range mismatch: got %d-%d want 2-4", cb.focusTop, cb.focusBottom)
	}
	if got := strings.Count(cb.String(), "\n"); got != 4 {
		t.Fatalf("expected 5 lines, got %d newlines", got)
	}
}

func TestSyncViewportScrollsToFocus(t *testing.T) {
	m := newTestModel(t, Config{Gateway: newFakeGateway()})
	m.viewport.Height = 4

	cb := newContentBuilder()
	for i := 0; i < 10; i++ {
		cb.write("filler")
	}
	cb.focus("target")
	m.syncViewport(cb)

	if m.viewport.YOffset != 7 {
		t.Fatalf("expected offset 7, got %d", m.viewport.YOffset)
	}
	if !strings.Contains(m.viewport.View(), "target") {
		t.Fatalf("focused block not visible:\n%s", m.viewport.View())
	}
}
