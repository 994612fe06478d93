package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	showLogo       bool
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 20,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth

	// header, pager line, input line and status bar plus their separators
	const chrome = 8
	logoHeight := len(logoArtLines) + 3
	l.showLogo = height-chrome-logoHeight >= 24 && width >= logoWidth()
	usable := height - chrome
	if l.showLogo {
		usable -= logoHeight
	}
	if usable < 6 {
		usable = 6
	}
	l.viewportHeight = usable
}

// contentBuilder assembles a scrollable body and remembers where the focused
// block sits so the viewport can keep it on screen.
type contentBuilder struct {
	builder     strings.Builder
	lines       int
	focusTop    int
	focusBottom int
}

func newContentBuilder() *contentBuilder {
	return &contentBuilder{focusTop: -1, focusBottom: -1}
}

func (cb *contentBuilder) write(block string) {
	if block == "" {
		return
	}
	cb.builder.WriteString(block)
	cb.builder.WriteRune('\n')
	cb.lines += lipgloss.Height(block)
}

func (cb *contentBuilder) gap() {
	cb.builder.WriteRune('\n')
	cb.lines++
}

func (cb *contentBuilder) focus(block string) {
	cb.focusTop = cb.lines
	cb.write(block)
	cb.focusBottom = cb.lines
}

func (cb *contentBuilder) String() string {
	return strings.TrimRight(cb.builder.String(), "\n")
}

// syncViewport loads content and scrolls just enough to show the focused block.
func (m *model) syncViewport(cb *contentBuilder) {
	m.viewport.SetContent(cb.String())
	if cb.focusTop < 0 {
		return
	}
	switch {
	case cb.focusTop < m.viewport.YOffset:
		m.viewport.SetYOffset(cb.focusTop)
	case cb.focusBottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(cb.focusBottom - m.viewport.Height)
	}
}
