package view

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/paperscope/internal/papers"
)

func explainerFixture() (*Explainer, *fakeGateway) {
	gw := newFakeGateway()
	source := papers.Paper{ID: "s", Title: "Source"}
	a := papers.Paper{ID: "a", Title: "Paper A"}
	b := papers.Paper{ID: "b", Title: "Paper B"}
	gw.explain["s/a"] = "A shares the method."
	gw.explain["s/b"] = "B shares the dataset."

	e := NewExplainer(zerolog.Nop())
	e.Reset(source, []papers.Recommendation{
		{ID: "ra", RecommendedPaper: "a", Details: a},
		{ID: "rb", RecommendedPaper: "b", Details: b},
	})
	return e, gw
}

func TestExplainerRoundTrip(t *testing.T) {
	e, gw := explainerFixture()
	assert.False(t, e.IsOpen())

	req, ok := e.ExplainSelected()
	require.True(t, ok)
	assert.True(t, e.IsOpen())
	assert.True(t, e.IsExplaining())
	assert.Empty(t, e.Text())
	target, _ := e.Target()
	assert.Equal(t, "a", target.ID)

	require.True(t, e.Resolve(req.Run(context.Background(), gw)))
	assert.False(t, e.IsExplaining())
	assert.Equal(t, ExplainLoaded, e.Status())
	assert.Equal(t, "A shares the method.", e.Text())
}

func TestExplainerUnavailableUsesAdvisory(t *testing.T) {
	e, gw := explainerFixture()
	req, ok := e.Explain(papers.Paper{ID: "zzz"})
	require.True(t, ok)

	require.True(t, e.Resolve(req.Run(context.Background(), gw)))
	assert.Equal(t, ExplainFailed, e.Status())
	assert.Equal(t, MsgNoExplanation, e.Text())
	assert.False(t, e.IsExplaining())
}

func TestExplainerLatestTargetWinsInEveryOrder(t *testing.T) {
	orders := map[string]bool{"stale first": true, "stale last": false}
	for name, staleFirst := range orders {
		t.Run(name, func(t *testing.T) {
			e, gw := explainerFixture()
			first, _ := e.ExplainSelected()
			e.Move(1)
			second, _ := e.ExplainSelected()

			firstRes := first.Run(context.Background(), gw)
			secondRes := second.Run(context.Background(), gw)
			if staleFirst {
				assert.False(t, e.Resolve(firstRes))
				assert.True(t, e.IsExplaining())
				assert.True(t, e.Resolve(secondRes))
			} else {
				assert.True(t, e.Resolve(secondRes))
				assert.False(t, e.Resolve(firstRes))
			}
			target, _ := e.Target()
			assert.Equal(t, "b", target.ID)
			assert.Equal(t, "B shares the dataset.", e.Text())
		})
	}
}

func TestExplainerCloseDiscardsLateResult(t *testing.T) {
	e, gw := explainerFixture()
	req, _ := e.ExplainSelected()
	e.Close()

	assert.False(t, e.Resolve(req.Run(context.Background(), gw)))
	assert.False(t, e.IsOpen())
	assert.Empty(t, e.Text())
}

func TestExplainerResetClosesDialog(t *testing.T) {
	e, gw := explainerFixture()
	req, _ := e.ExplainSelected()
	e.Reset(papers.Paper{ID: "t"}, nil)

	assert.False(t, e.IsOpen())
	assert.False(t, e.Resolve(req.Run(context.Background(), gw)))
	_, ok := e.ExplainSelected()
	assert.False(t, ok)
}

func TestExplainerRequiresSource(t *testing.T) {
	e := NewExplainer(zerolog.Nop())
	_, ok := e.Explain(papers.Paper{ID: "a"})
	assert.False(t, ok)
	assert.False(t, e.IsOpen())
}

func TestExplainerCursorClamps(t *testing.T) {
	e, _ := explainerFixture()
	e.Move(-3)
	assert.Equal(t, 0, e.Cursor())
	e.Move(10)
	assert.Equal(t, 1, e.Cursor())
	rec, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, "rb", rec.ID)
}
