package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/paperscope/internal/papers"
	"github.com/csheth/paperscope/internal/view"
)

func (m *model) View() string {
	top := m.current()
	var cb *contentBuilder
	switch top.kind {
	case screenListing:
		cb = m.listingBody()
	case screenDetail:
		cb = m.detailBody(top.detail)
	case screenSearch:
		cb = m.searchBody()
	}

	body := ""
	if top.kind == screenDetail && top.detail.explainer.IsOpen() {
		body = lipgloss.Place(m.layout.viewportWidth, m.layout.viewportHeight, lipgloss.Center, lipgloss.Center,
			renderExplanationDialog(m.dialogContent(top.detail), m.dialogWidth()))
	} else {
		m.syncViewport(cb)
		body = m.viewport.View()
	}

	parts := []string{m.headerView(), body, m.footerView()}
	if m.inputMode != inputNone {
		parts = append(parts, m.inputView())
	}
	parts = append(parts, m.statusBarView())
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	return joinNonEmpty(parts)
}

func (m *model) headerView() string {
	crumbs := make([]string, 0, len(m.stack))
	for _, f := range m.stack {
		label := f.kind.String()
		if f.kind == screenDetail {
			if paper, ok := f.detail.detail.Paper(); ok {
				label = shortTitle(paper.Title, 28)
			} else {
				label = f.detail.detail.ID()
			}
		}
		crumbs = append(crumbs, label)
	}
	trail := sectionHeaderStyle.Render(strings.Join(crumbs, " › "))
	if !m.layout.showLogo {
		return trail
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), taglineStyle.Render(heroTagline), "", trail)
}

func (m *model) listingBody() *contentBuilder {
	cb := newContentBuilder()
	width := m.layout.viewportWidth
	state := m.listing.State()
	switch state.Status {
	case view.Idle, view.Loading:
		cb.write(helperStyle.Render(m.spinner.View() + " Loading papers…"))
		cb.write(renderSkeletonList(width, 3))
	case view.Error:
		cb.write(errorStyle.Render(state.Message))
		cb.write(helperStyle.Render("Press r to retry."))
	case view.Success:
		if len(state.Data) == 0 {
			cb.write(helperStyle.Render(view.MsgNoListingResults))
			break
		}
		m.writeCards(cb, state.Data, m.listCursor, width)
	}
	return cb
}

func (m *model) searchBody() *contentBuilder {
	cb := newContentBuilder()
	width := m.layout.viewportWidth
	state := m.search.State()
	if query := m.search.Query(); query != "" {
		cb.write(helperStyle.Render(fmt.Sprintf("Results for %q", query)))
		cb.gap()
	}
	switch {
	case m.search.Prompted():
		cb.write(helperStyle.Render(m.search.Message()))
	case state.Status == view.Idle:
		cb.write(helperStyle.Render("Type a query and press enter."))
	case state.IsLoading():
		cb.write(helperStyle.Render(m.spinner.View() + " Searching…"))
		cb.write(renderSkeletonList(width, 2))
	case state.Failed():
		cb.write(errorStyle.Render(m.search.Message()))
		cb.write(helperStyle.Render("Press r to retry."))
	case len(state.Data) == 0:
		cb.write(helperStyle.Render(m.search.Message()))
	default:
		m.writeCards(cb, state.Data, m.searchCursor, width)
	}
	return cb
}

func (m *model) writeCards(cb *contentBuilder, items []papers.Paper, cursor, width int) {
	for idx, paper := range items {
		card := renderPaperCard(paper, cardOptions{width: width, selected: idx == cursor})
		if idx == cursor {
			cb.focus(card)
			continue
		}
		cb.write(card)
	}
}

func (m *model) detailBody(f *detailFrame) *contentBuilder {
	cb := newContentBuilder()
	width := m.layout.viewportWidth
	switch f.detail.Phase() {
	case view.PhaseNotFound:
		cb.write(errorStyle.Render(f.detail.Message()))
		cb.write(helperStyle.Render("Press esc to go back."))
		return cb
	case view.PhaseFailed:
		cb.write(errorStyle.Render(f.detail.Message()))
		cb.write(helperStyle.Render("Press r to retry or esc to go back."))
		return cb
	}

	paper, ok := f.detail.Paper()
	if !ok {
		cb.write(helperStyle.Render(m.spinner.View() + " Loading paper…"))
		cb.write(renderSkeletonCard(width))
		return cb
	}
	cb.write(renderPaperDetail(paper, width))

	if f.showText {
		cb.gap()
		cb.write(sectionHeaderStyle.Render("Full Text"))
		m.writeFullText(cb, f.fulltext.State(), width)
	}

	cb.gap()
	cb.write(sectionHeaderStyle.Render("Similar Papers"))
	recs := f.detail.RecsState()
	switch {
	case recs.IsLoading():
		cb.write(helperStyle.Render(m.spinner.View() + " Finding similar papers…"))
		cb.write(renderSkeletonList(width, 2))
	case recs.Failed():
		cb.write(errorStyle.Render(f.detail.RecsMessage()))
	case len(recs.Data) == 0:
		cb.write(helperStyle.Render(f.detail.RecsMessage()))
	default:
		for idx, rec := range f.explainer.Candidates() {
			card := renderPaperCard(rec.Details, cardOptions{
				width:      width,
				selected:   idx == f.explainer.Cursor(),
				similarity: rec.SimilarityPercent(),
			})
			if idx == f.explainer.Cursor() {
				cb.focus(card)
				continue
			}
			cb.write(card)
		}
	}
	return cb
}

func (m *model) writeFullText(cb *contentBuilder, state view.Remote[string], width int) {
	switch state.Status {
	case view.Loading:
		cb.write(helperStyle.Render(m.spinner.View() + " Downloading PDF…"))
	case view.Error:
		cb.write(errorStyle.Render(state.Message))
	case view.Success:
		text := state.Data
		if runes := []rune(text); len(runes) > fullTextPreviewLimit {
			text = string(runes[:fullTextPreviewLimit]) + "…"
		}
		if strings.TrimSpace(text) == "" {
			text = helperStyle.Render("The PDF has no extractable text.")
		}
		cb.write(wordwrap.String(text, cardInnerWidth(width)))
	}
}

func (m *model) dialogContent(f *detailFrame) dialogContent {
	target, _ := f.explainer.Target()
	return dialogContent{
		source:  f.explainer.Source(),
		target:  target,
		loading: f.explainer.IsExplaining(),
		failed:  f.explainer.Status() == view.ExplainFailed,
		text:    f.explainer.Text(),
		spinner: m.spinner.View(),
	}
}

func (m *model) dialogWidth() int {
	width := m.layout.viewportWidth - 8
	if width > 90 {
		width = 90
	}
	return width
}

func (m *model) footerView() string {
	var parts []string
	switch m.current().kind {
	case screenListing:
		parts = append(parts, m.pagerView())
	case screenDetail:
		f := m.current().detail
		if n := len(f.explainer.Candidates()); n > 0 {
			parts = append(parts, helperStyle.Render(fmt.Sprintf("Similar paper %d of %d", f.explainer.Cursor()+1, n)))
		}
	case screenSearch:
		if n := len(m.search.Results()); n > 0 {
			parts = append(parts, helperStyle.Render(fmt.Sprintf("%d results", n)))
		}
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return strings.Join(parts, "   ")
}

func (m *model) pagerView() string {
	prev := keyDisabledStyle.Render("‹ prev")
	if m.listing.CanPrev() {
		prev = keyStyle.Render("‹ prev")
	}
	next := keyDisabledStyle.Render("next ›")
	if m.listing.CanNext() {
		next = keyStyle.Render("next ›")
	}
	label := m.listing.Label()
	if count := m.listing.Count(); count > 0 {
		label = fmt.Sprintf("%s  (%d papers)", label, count)
	}
	if category := m.listing.Filters().Category; category != "" {
		label += "  category: " + category
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, prev, " ", helperStyle.Render(label), " ", next)
}

func (m *model) inputView() string {
	title := "Search"
	if m.inputMode == inputFilter {
		title = "Filter by category"
	}
	return joinLines(sectionHeaderStyle.Render(title), m.input.View())
}

func (m *model) statusBarView() string {
	stats := []string{"PaperScope", m.current().kind.String()}
	if m.running > 0 {
		stats = append(stats, fmt.Sprintf("%s %d running", m.spinner.View(), m.running))
	} else {
		stats = append(stats, "idle")
	}
	if m.lastFailure != "" {
		stats = append(stats, "last: "+m.lastFailure)
	}
	if m.config.Endpoint != "" {
		stats = append(stats, m.config.Endpoint)
	}
	stats = append(stats, "? help")
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyHints() []keyHint {
	switch m.current().kind {
	case screenDetail:
		return []keyHint{
			{"↑/↓", "Select similar"},
			{"enter", "Open similar"},
			{"x", "Explain"},
			{"f", "Full text"},
			{"r", "Reload"},
			{"/", "Search"},
			{"esc", "Back"},
			{"pgup/pgdn", "Scroll"},
			{"ctrl+c", "Quit"},
		}
	case screenSearch:
		return []keyHint{
			{"/", "Edit query"},
			{"↑/↓", "Move"},
			{"enter", "Open"},
			{"r", "Search again"},
			{"esc", "Back"},
			{"ctrl+c", "Quit"},
		}
	default:
		return []keyHint{
			{"↑/↓", "Move"},
			{"enter", "Open"},
			{"n/→", "Next page"},
			{"p/←", "Prev page"},
			{"/", "Search"},
			{"c", "Category"},
			{"r", "Reload"},
			{"?", "Toggle help"},
			{"ctrl+c", "Quit"},
		}
	}
}

func (m *model) keyLegendView() string {
	hints := m.keyHints()
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Width(18).Render(" " + hint.Description)
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n")
}

func shortenList(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s…", strings.Join(items[:limit], ", "))
}

func shortTitle(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
