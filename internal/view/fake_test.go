package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/csheth/paperscope/internal/papers"
)

// fakeGateway serves canned data and counts calls per operation.
type fakeGateway struct {
	mu      sync.Mutex
	count   int
	pages   map[int][]papers.Paper
	papers  map[string]papers.Paper
	recs    map[string][]papers.Recommendation
	search  map[string][]papers.Paper
	explain map[string]string
	listErr error
	recsErr error
	calls   map[string]int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		pages:   map[int][]papers.Paper{},
		papers:  map[string]papers.Paper{},
		recs:    map[string][]papers.Recommendation{},
		search:  map[string][]papers.Paper{},
		explain: map[string]string{},
		calls:   map[string]int{},
	}
}

func (f *fakeGateway) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeGateway) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGateway) ListPapers(_ context.Context, page int, _ papers.ListFilters) (papers.Page, error) {
	f.record("list")
	if f.listErr != nil {
		return papers.Page{}, f.listErr
	}
	return papers.Page{Count: f.count, Results: f.pages[page]}, nil
}

func (f *fakeGateway) GetPaper(_ context.Context, id string) (papers.Paper, error) {
	f.record("paper")
	paper, ok := f.papers[id]
	if !ok {
		return papers.Paper{}, fmt.Errorf("%w: %s", papers.ErrNotFound, id)
	}
	return paper, nil
}

func (f *fakeGateway) GetRecommendations(_ context.Context, id string) ([]papers.Recommendation, error) {
	f.record("recs")
	if f.recsErr != nil {
		return nil, f.recsErr
	}
	return f.recs[id], nil
}

func (f *fakeGateway) SearchPapers(_ context.Context, query string) ([]papers.Paper, error) {
	f.record("search")
	return f.search[query], nil
}

func (f *fakeGateway) GetExplanation(_ context.Context, sourceID, recommendedID string) (string, error) {
	f.record("explain")
	text, ok := f.explain[sourceID+"/"+recommendedID]
	if !ok {
		return "", papers.ErrExplanationUnavailable
	}
	return text, nil
}

func samplePapers(prefix string, n int) []papers.Paper {
	out := make([]papers.Paper, n)
	for i := range out {
		out[i] = papers.Paper{ID: fmt.Sprintf("%s%d", prefix, i), Title: fmt.Sprintf("Paper %s%d", prefix, i)}
	}
	return out
}
