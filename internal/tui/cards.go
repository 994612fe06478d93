package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/paperscope/internal/papers"
)

const abstractPreviewLimit = 200

type cardOptions struct {
	width      int
	selected   bool
	similarity string
}

// renderPaperCard is the compact listing entry for a paper.
func renderPaperCard(p papers.Paper, opts cardOptions) string {
	inner := cardInnerWidth(opts.width)

	title := truncate.StringWithTail(strings.TrimSpace(p.Title), uint(inner), "…")
	if title == "" {
		title = "Untitled paper"
	}
	lines := []string{titleStyle.Render(title)}

	var badges []string
	if category := strings.TrimSpace(p.Categories); category != "" {
		badges = append(badges, badgeStyle.Render(category))
	}
	if opts.similarity != "" {
		badges = append(badges, similarityStyle.Render("Similarity: "+opts.similarity))
	}
	if updated, ok := p.Updated(); ok {
		badges = append(badges, helperStyle.Render("Updated "+updated.Format("Jan 2, 2006")))
	}
	if len(badges) > 0 {
		lines = append(lines, strings.Join(badges, " "))
	}

	if abstract := previewAbstract(p.Abstract); abstract != "" {
		lines = append(lines, wordwrap.String(abstract, inner))
	}
	if len(p.Authors) > 0 {
		lines = append(lines, helperStyle.Render(truncate.StringWithTail("Authors: "+shortenList(p.Authors, 3), uint(inner), "…")))
	}

	style := cardStyle
	if opts.selected {
		style = cardActiveStyle
	}
	return style.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

// renderPaperDetail is the full panel for the paper on the detail screen.
func renderPaperDetail(p papers.Paper, width int) string {
	inner := cardInnerWidth(width)
	parts := []string{titleStyle.Render(wordwrap.String(p.Title, inner))}

	var meta []string
	if category := strings.TrimSpace(p.Categories); category != "" {
		meta = append(meta, badgeStyle.Render(category))
	}
	meta = append(meta, helperStyle.Render("arXiv "+p.ID))
	if updated, ok := p.Updated(); ok {
		meta = append(meta, helperStyle.Render("Updated "+updated.Format("Jan 2, 2006")))
	}
	parts = append(parts, strings.Join(meta, " "))

	abstract := strings.TrimSpace(p.Abstract)
	if abstract == "" {
		abstract = helperStyle.Render("No abstract available.")
	} else {
		abstract = wordwrap.String(abstract, inner)
	}
	parts = append(parts, sectionHeaderStyle.Render("Abstract")+"\n"+abstract)

	if len(p.Authors) > 0 {
		parts = append(parts, sectionHeaderStyle.Render("Authors")+"\n"+wordwrap.String(p.Authors.String(), inner))
	}
	if comments := strings.TrimSpace(p.Comments); comments != "" {
		parts = append(parts, sectionHeaderStyle.Render("Comments")+"\n"+helperStyle.Render(wordwrap.String(comments, inner)))
	}
	return joinNonEmpty(parts)
}

type dialogContent struct {
	source  papers.Paper
	target  papers.Paper
	loading bool
	failed  bool
	text    string
	spinner string
}

// renderExplanationDialog draws the recommendation explanation overlay.
func renderExplanationDialog(d dialogContent, width int) string {
	inner := width - 8
	if inner < minCardWidth {
		inner = minCardWidth
	}
	lines := []string{
		dialogTitle.Render("Why This Paper Is Recommended"),
		"",
		helperStyle.Render("From: ") + wordwrap.String(displayTitle(d.source), inner-6),
		helperStyle.Render("Recommended: ") + wordwrap.String(displayTitle(d.target), inner-13),
		"",
	}
	switch {
	case d.loading:
		lines = append(lines, fmt.Sprintf("%s Generating explanation…", d.spinner))
	case d.failed:
		lines = append(lines, warningStyle.Render(wordwrap.String(d.text, inner-2)))
	default:
		lines = append(lines, wordwrap.String(d.text, inner))
	}
	lines = append(lines, "", helperStyle.Render("esc to close"))
	return dialogBoxStyle.Width(inner + 4).Render(strings.Join(lines, "\n"))
}

// renderSkeletonCard stands in for a card while its data loads.
func renderSkeletonCard(width int) string {
	inner := cardInnerWidth(width)
	bar := func(fraction float64) string {
		n := int(float64(inner) * fraction)
		if n < 1 {
			n = 1
		}
		return skeletonStyle.Render(strings.Repeat("░", n))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, bar(0.6), bar(0.25), bar(1), bar(0.9), bar(0.4))
	return cardStyle.Width(inner + 2).Render(body)
}

func renderSkeletonList(width, count int) string {
	cards := make([]string, count)
	for i := range cards {
		cards[i] = renderSkeletonCard(width)
	}
	return strings.Join(cards, "\n")
}

// previewAbstract cuts the abstract to abstractPreviewLimit characters.
func previewAbstract(abstract string) string {
	abstract = strings.Join(strings.Fields(abstract), " ")
	runes := []rune(abstract)
	if len(runes) <= abstractPreviewLimit {
		return abstract
	}
	return string(runes[:abstractPreviewLimit]) + "..."
}

func displayTitle(p papers.Paper) string {
	if title := strings.TrimSpace(p.Title); title != "" {
		return title
	}
	return p.ID
}

func cardInnerWidth(width int) int {
	inner := width - 4
	if inner < minCardWidth {
		inner = minCardWidth
	}
	return inner
}
