package tui

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/csheth/paperscope/internal/papers"
)

type fakeGateway struct {
	mu      sync.Mutex
	count   int
	pages   map[int][]papers.Paper
	papers  map[string]papers.Paper
	recs    map[string][]papers.Recommendation
	search  map[string][]papers.Paper
	explain map[string]string
	listErr error
	filters []papers.ListFilters
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		pages:   map[int][]papers.Paper{},
		papers:  map[string]papers.Paper{},
		recs:    map[string][]papers.Recommendation{},
		search:  map[string][]papers.Paper{},
		explain: map[string]string{},
	}
}

func (f *fakeGateway) ListPapers(_ context.Context, page int, filters papers.ListFilters) (papers.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filters)
	if f.listErr != nil {
		return papers.Page{}, f.listErr
	}
	return papers.Page{Count: f.count, Results: f.pages[page]}, nil
}

func (f *fakeGateway) GetPaper(_ context.Context, id string) (papers.Paper, error) {
	paper, ok := f.papers[id]
	if !ok {
		return papers.Paper{}, fmt.Errorf("%w: %s", papers.ErrNotFound, id)
	}
	return paper, nil
}

func (f *fakeGateway) GetRecommendations(_ context.Context, id string) ([]papers.Recommendation, error) {
	return f.recs[id], nil
}

func (f *fakeGateway) SearchPapers(_ context.Context, query string) ([]papers.Paper, error) {
	return f.search[query], nil
}

func (f *fakeGateway) GetExplanation(_ context.Context, sourceID, recommendedID string) (string, error) {
	text, ok := f.explain[sourceID+"/"+recommendedID]
	if !ok {
		return "", papers.ErrExplanationUnavailable
	}
	return text, nil
}

func (f *fakeGateway) lastFilters() papers.ListFilters {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.filters) == 0 {
		return papers.ListFilters{}
	}
	return f.filters[len(f.filters)-1]
}

type stubTexts struct {
	text string
	err  error
}

func (s stubTexts) FetchText(context.Context, string) (string, error) {
	return s.text, s.err
}

// seededGateway serves a two page catalogue where paper a0 has two
// recommendations.
func seededGateway() *fakeGateway {
	gw := newFakeGateway()
	gw.count = 15
	gw.pages[1] = samplePapers("a", 10)
	gw.pages[2] = samplePapers("b", 5)
	for _, p := range append(gw.pages[1], gw.pages[2]...) {
		gw.papers[p.ID] = p
	}
	gw.recs["a0"] = []papers.Recommendation{
		{ID: "1", SourcePaper: "a0", RecommendedPaper: "b0", SimilarityScore: 0.91, Details: gw.papers["b0"]},
		{ID: "2", SourcePaper: "a0", RecommendedPaper: "b1", SimilarityScore: 0.62, Details: gw.papers["b1"]},
	}
	gw.explain["a0/b0"] = "Both papers study sparse attention."
	return gw
}

func samplePapers(prefix string, n int) []papers.Paper {
	out := make([]papers.Paper, n)
	for i := range out {
		out[i] = papers.Paper{
			ID:         fmt.Sprintf("%s%d", prefix, i),
			Title:      fmt.Sprintf("Paper %s%d", prefix, i),
			Abstract:   "An abstract.",
			Categories: "cs.LG",
		}
	}
	return out
}

func newTestModel(t *testing.T, cfg Config) *model {
	t.Helper()
	cfg.Logger = zerolog.Nop()
	teaModel, ok := New(cfg).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	teaModel.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return teaModel
}

var cmdType = reflect.TypeOf((tea.Cmd)(nil))

// drive executes cmd and every command it produces, feeding the messages back
// into m until nothing is left. Spinner ticks are dropped so the loop ends.
func drive(t *testing.T, m *model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("command queue did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg := msg.(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		}
		if v := reflect.ValueOf(msg); v.Kind() == reflect.Slice && v.Type().Elem() == cmdType {
			for i := 0; i < v.Len(); i++ {
				queue = append(queue, v.Index(i).Interface().(tea.Cmd))
			}
			continue
		}
		_, produced := m.Update(msg)
		queue = append(queue, produced)
	}
}

func press(t *testing.T, m *model, key string) {
	t.Helper()
	drive(t, m, func() tea.Msg { return keyMsg(key) })
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}
