package view

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csheth/paperscope/internal/observability"
	"github.com/csheth/paperscope/internal/papers"
)

// DetailPhase is the screen-level state of a paper detail view.
type DetailPhase int

const (
	PhaseIdle DetailPhase = iota
	PhaseLoading
	PhaseNotFound
	PhaseFailed
	PhaseReady
)

func (p DetailPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseNotFound:
		return "not found"
	case PhaseFailed:
		return "failed"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// DetailRequest carries the two concurrent fetches issued when a detail view opens.
type DetailRequest struct {
	PaperID string
	Paper   Ticket
	Recs    Ticket
}

// FetchPaper runs the paper half of the request.
func (r DetailRequest) FetchPaper(ctx context.Context, gw papers.Gateway) PaperResult {
	paper, err := gw.GetPaper(ctx, r.PaperID)
	return PaperResult{Ticket: r.Paper, Paper: paper, Err: err}
}

// FetchRecommendations runs the recommendations half of the request.
func (r DetailRequest) FetchRecommendations(ctx context.Context, gw papers.Gateway) RecsResult {
	recs, err := gw.GetRecommendations(ctx, r.PaperID)
	return RecsResult{Ticket: r.Recs, Recs: recs, Err: err}
}

type PaperResult struct {
	Ticket Ticket
	Paper  papers.Paper
	Err    error
}

type RecsResult struct {
	Ticket Ticket
	Recs   []papers.Recommendation
	Err    error
}

// Detail tracks one paper and its similar papers.
type Detail struct {
	id       string
	paper    Remote[papers.Paper]
	recs     Remote[[]papers.Recommendation]
	paperTix tracker
	recsTix  tracker
	log      zerolog.Logger
}

func NewDetail(logger zerolog.Logger) *Detail {
	return &Detail{log: logger.With().Str("view", "detail").Logger()}
}

// Open starts loading id. Any fetch still in flight for a previous id is made stale.
func (d *Detail) Open(id string) DetailRequest {
	d.id = strings.TrimSpace(id)
	d.paper.start()
	d.recs.start()
	return DetailRequest{
		PaperID: d.id,
		Paper:   d.paperTix.issue(d.id),
		Recs:    d.recsTix.issue(d.id),
	}
}

// Reload reopens the current paper.
func (d *Detail) Reload() DetailRequest {
	return d.Open(d.id)
}

// ResolvePaper commits the paper fetch. A failed paper also retires the
// recommendations fetch so its late result cannot change the screen.
func (d *Detail) ResolvePaper(res PaperResult) bool {
	if !d.paperTix.matches(res.Ticket) {
		return false
	}
	d.paperTix.invalidate()
	if res.Err != nil {
		message := MsgDetailFailed
		if papers.IsNotFound(res.Err) {
			message = MsgNotFound
		}
		logger := observability.WithPaper(d.log, d.id)
		logger.Warn().Err(res.Err).Msg("paper fetch failed")
		d.paper.fail(res.Err, message)
		d.recsTix.invalidate()
		d.recs = Remote[[]papers.Recommendation]{}
		return true
	}
	d.paper.succeed(res.Paper)
	return true
}

// ResolveRecommendations commits the recommendations fetch.
func (d *Detail) ResolveRecommendations(res RecsResult) bool {
	if !d.recsTix.matches(res.Ticket) {
		return false
	}
	d.recsTix.invalidate()
	if res.Err != nil {
		logger := observability.WithPaper(d.log, d.id)
		logger.Warn().Err(res.Err).Msg("recommendations fetch failed")
		d.recs.fail(res.Err, MsgRecsFailed)
		return true
	}
	recs := res.Recs
	if recs == nil {
		recs = []papers.Recommendation{}
	}
	d.recs.succeed(recs)
	return true
}

// Phase summarises both fetches for the screen.
func (d *Detail) Phase() DetailPhase {
	switch {
	case d.paper.Status == Idle:
		return PhaseIdle
	case d.paper.Failed() && papers.IsNotFound(d.paper.Err):
		return PhaseNotFound
	case d.paper.Failed():
		return PhaseFailed
	case d.paper.IsLoading() || d.recs.IsLoading():
		return PhaseLoading
	default:
		return PhaseReady
	}
}

func (d *Detail) ID() string { return d.id }

// Paper returns the paper once its fetch succeeded, even while recommendations load.
func (d *Detail) Paper() (papers.Paper, bool) {
	return d.paper.Data, d.paper.Loaded()
}

func (d *Detail) PaperState() Remote[papers.Paper] { return d.paper }

func (d *Detail) Recommendations() []papers.Recommendation { return d.recs.Data }

func (d *Detail) RecsState() Remote[[]papers.Recommendation] { return d.recs }

// Message is the paper-level error text, empty unless the paper failed.
func (d *Detail) Message() string { return d.paper.Message }

// RecsMessage is the section-level text for the similar papers list.
func (d *Detail) RecsMessage() string {
	switch {
	case d.recs.Failed():
		return d.recs.Message
	case d.recs.Loaded() && len(d.recs.Data) == 0:
		return MsgNoRecs
	}
	return ""
}
