package view

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csheth/paperscope/internal/papers"
)

type SearchRequest struct {
	Ticket Ticket
	Query  string
}

func (r SearchRequest) Run(ctx context.Context, gw papers.Gateway) SearchResult {
	results, err := gw.SearchPapers(ctx, r.Query)
	return SearchResult{Ticket: r.Ticket, Results: results, Err: err}
}

type SearchResult struct {
	Ticket  Ticket
	Results []papers.Paper
	Err     error
}

// Search tracks the free-text search screen.
type Search struct {
	query    string
	prompted bool
	state    Remote[[]papers.Paper]
	tickets  tracker
	log      zerolog.Logger
}

func NewSearch(logger zerolog.Logger) *Search {
	return &Search{log: logger.With().Str("view", "search").Logger()}
}

// Submit trims query and starts a search. A blank query settles immediately
// into the prompt state, retires any in-flight search and returns ok == false.
func (s *Search) Submit(query string) (SearchRequest, bool) {
	query = strings.TrimSpace(query)
	s.query = query
	if query == "" {
		s.tickets.invalidate()
		s.prompted = true
		s.state.succeed([]papers.Paper{})
		return SearchRequest{}, false
	}
	s.prompted = false
	s.state.start()
	return SearchRequest{Ticket: s.tickets.issue(query), Query: query}, true
}

// Resolve commits res if it answers the latest submission.
func (s *Search) Resolve(res SearchResult) bool {
	if !s.tickets.matches(res.Ticket) {
		return false
	}
	s.tickets.invalidate()
	if res.Err != nil {
		s.log.Warn().Err(res.Err).Str("query", s.query).Msg("search failed")
		s.state.fail(res.Err, MsgSearchFailed)
		return true
	}
	results := res.Results
	if results == nil {
		results = []papers.Paper{}
	}
	s.state.succeed(results)
	return true
}

func (s *Search) Query() string { return s.query }

func (s *Search) State() Remote[[]papers.Paper] { return s.state }

func (s *Search) Results() []papers.Paper { return s.state.Data }

// Prompted reports whether the last submission was blank.
func (s *Search) Prompted() bool { return s.prompted }

// Message is the text shown in place of results, empty when there are results.
func (s *Search) Message() string {
	switch {
	case s.prompted:
		return MsgSearchPrompt
	case s.state.Failed():
		return s.state.Message
	case s.state.Loaded() && len(s.state.Data) == 0:
		return NoSearchResults(s.query)
	}
	return ""
}
