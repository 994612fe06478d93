package view

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csheth/paperscope/internal/papers"
)

// ExplainStatus is the state of an open explanation dialog.
type ExplainStatus int

const (
	ExplainLoading ExplainStatus = iota
	ExplainLoaded
	ExplainFailed
)

type ExplainRequest struct {
	Ticket   Ticket
	SourceID string
	TargetID string
}

func (r ExplainRequest) Run(ctx context.Context, gw papers.Gateway) ExplainResult {
	text, err := gw.GetExplanation(ctx, r.SourceID, r.TargetID)
	return ExplainResult{Ticket: r.Ticket, Text: text, Err: err}
}

type ExplainResult struct {
	Ticket Ticket
	Text   string
	Err    error
}

// dialog is an open explanation session. A closed dialog is a nil *dialog, so an
// open dialog always has a target.
type dialog struct {
	target papers.Paper
	status ExplainStatus
	text   string
}

// Explainer drives the "why was this recommended" dialog for one detail screen.
type Explainer struct {
	source     papers.Paper
	candidates []papers.Recommendation
	cursor     int
	open       *dialog
	tickets    tracker
	log        zerolog.Logger
}

func NewExplainer(logger zerolog.Logger) *Explainer {
	return &Explainer{log: logger.With().Str("view", "explainer").Logger()}
}

// Reset binds the explainer to a new source paper and its recommendations and
// closes any open dialog.
func (e *Explainer) Reset(source papers.Paper, candidates []papers.Recommendation) {
	e.source = source
	e.candidates = candidates
	e.cursor = 0
	e.Close()
}

// RefreshSource swaps in a fuller copy of the same source paper, eg. once its
// metadata arrives after the recommendations. Other ids are ignored.
func (e *Explainer) RefreshSource(source papers.Paper) {
	if source.ID != "" && source.ID == e.source.ID {
		e.source = source
	}
}

// Move shifts the cursor over the candidates, clamped to the list.
func (e *Explainer) Move(delta int) {
	if len(e.candidates) == 0 {
		e.cursor = 0
		return
	}
	e.cursor += delta
	if e.cursor < 0 {
		e.cursor = 0
	}
	if e.cursor >= len(e.candidates) {
		e.cursor = len(e.candidates) - 1
	}
}

func (e *Explainer) Cursor() int { return e.cursor }

func (e *Explainer) Candidates() []papers.Recommendation { return e.candidates }

func (e *Explainer) Source() papers.Paper { return e.source }

// Selected returns the recommendation under the cursor.
func (e *Explainer) Selected() (papers.Recommendation, bool) {
	if e.cursor < 0 || e.cursor >= len(e.candidates) {
		return papers.Recommendation{}, false
	}
	return e.candidates[e.cursor], true
}

// Explain opens the dialog for target and supersedes any earlier request.
// ok is false when there is no source paper or the target has no id.
func (e *Explainer) Explain(target papers.Paper) (ExplainRequest, bool) {
	if strings.TrimSpace(e.source.ID) == "" || strings.TrimSpace(target.ID) == "" {
		return ExplainRequest{}, false
	}
	e.open = &dialog{target: target, status: ExplainLoading}
	return ExplainRequest{
		Ticket:   e.tickets.issue(e.source.ID + "->" + target.ID),
		SourceID: e.source.ID,
		TargetID: target.ID,
	}, true
}

// ExplainSelected explains the recommendation under the cursor.
func (e *Explainer) ExplainSelected() (ExplainRequest, bool) {
	rec, ok := e.Selected()
	if !ok {
		return ExplainRequest{}, false
	}
	return e.Explain(rec.Details)
}

// Resolve commits res when the dialog is open and res answers its latest
// request. Every failure collapses into the same advisory text.
func (e *Explainer) Resolve(res ExplainResult) bool {
	if e.open == nil || !e.tickets.matches(res.Ticket) {
		return false
	}
	e.tickets.invalidate()
	if res.Err != nil {
		e.log.Warn().Err(res.Err).Str("source", e.source.ID).Str("target", e.open.target.ID).Msg("explanation failed")
		e.open.status = ExplainFailed
		e.open.text = MsgNoExplanation
		return true
	}
	e.open.status = ExplainLoaded
	e.open.text = res.Text
	return true
}

// Close dismisses the dialog. A request still in flight is left to finish and
// its result is discarded.
func (e *Explainer) Close() {
	e.open = nil
	e.tickets.invalidate()
}

func (e *Explainer) IsOpen() bool { return e.open != nil }

func (e *Explainer) IsExplaining() bool {
	return e.open != nil && e.open.status == ExplainLoading
}

// Status is meaningful only while the dialog is open.
func (e *Explainer) Status() ExplainStatus {
	if e.open == nil {
		return ExplainLoading
	}
	return e.open.status
}

// Text is the explanation, or the advisory text when it is unavailable.
func (e *Explainer) Text() string {
	if e.open == nil {
		return ""
	}
	return e.open.text
}

// Target returns the paper being explained.
func (e *Explainer) Target() (papers.Paper, bool) {
	if e.open == nil {
		return papers.Paper{}, false
	}
	return e.open.target, true
}
