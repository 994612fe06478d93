package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csheth/paperscope/internal/papers"
)

func TestPreviewAbstract(t *testing.T) {
	long := strings.Repeat("a", 250)
	got := previewAbstract(long)
	assert.Equal(t, strings.Repeat("a", 200)+"...", got)

	assert.Equal(t, "short and sweet", previewAbstract("  short\n and   sweet "))
	assert.Equal(t, strings.Repeat("b", 200), previewAbstract(strings.Repeat("b", 200)), "exactly the limit is kept whole")
}

func TestRenderPaperCardShowsSimilarity(t *testing.T) {
	p := papers.Paper{
		ID:         "2101.00001",
		Title:      "Sparse Attention",
		Categories: "cs.LG",
		UpdateDate: "2023-04-05",
		Authors:    papers.Authors{"Ada", "Grace", "Edsger", "Barbara"},
	}
	card := renderPaperCard(p, cardOptions{width: 100, similarity: "87.5%"})
	assert.Contains(t, card, "Similarity: 87.5%")
	assert.Contains(t, card, "Updated Apr 5, 2023")
	assert.Contains(t, card, "Ada, Grace, Edsger…")
	assert.NotContains(t, card, "Barbara")
}

func TestRenderPaperCardWithoutTitle(t *testing.T) {
	card := renderPaperCard(papers.Paper{ID: "x"}, cardOptions{width: 80})
	assert.Contains(t, card, "Untitled paper")
}

func TestRenderExplanationDialog(t *testing.T) {
	d := dialogContent{
		source:  papers.Paper{ID: "a", Title: "Source Title"},
		target:  papers.Paper{ID: "b"},
		loading: true,
		spinner: "*",
	}
	out := renderExplanationDialog(d, 90)
	assert.Contains(t, out, "Why This Paper Is Recommended")
	assert.Contains(t, out, "Source Title")
	assert.Contains(t, out, "Generating explanation…")

	d.loading = false
	d.text = "They share a method."
	out = renderExplanationDialog(d, 90)
	assert.Contains(t, out, "They share a method.")
	assert.NotContains(t, out, "Generating explanation")
}

func TestRenderPaperDetailWithoutAbstract(t *testing.T) {
	out := renderPaperDetail(papers.Paper{ID: "2101.00001", Title: "T"}, 80)
	assert.Contains(t, out, "No abstract available.")
	assert.Contains(t, out, "arXiv 2101.00001")
}

func TestShortenList(t *testing.T) {
	assert.Equal(t, "a, b", shortenList([]string{"a", "b"}, 3))
	assert.Equal(t, "a, b, c…", shortenList([]string{"a", "b", "c", "d"}, 3))
}

func TestSkeletonList(t *testing.T) {
	out := renderSkeletonList(60, 3)
	assert.Equal(t, 3, strings.Count(out, "╭"))
}
