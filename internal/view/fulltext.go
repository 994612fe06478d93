package view

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csheth/paperscope/internal/observability"
)

// TextSource fetches the extracted full text of a paper.
type TextSource interface {
	FetchText(ctx context.Context, paperID string) (string, error)
}

type FullTextRequest struct {
	Ticket  Ticket
	PaperID string
}

func (r FullTextRequest) Run(ctx context.Context, src TextSource) FullTextResult {
	text, err := src.FetchText(ctx, r.PaperID)
	return FullTextResult{Ticket: r.Ticket, Text: text, Err: err}
}

type FullTextResult struct {
	Ticket Ticket
	Text   string
	Err    error
}

// FullText tracks the full-text preview of the paper on the detail screen.
type FullText struct {
	paperID string
	state   Remote[string]
	tickets tracker
	log     zerolog.Logger
}

func NewFullText(logger zerolog.Logger) *FullText {
	return &FullText{log: logger.With().Str("view", "fulltext").Logger()}
}

// Load starts fetching the text of paperID.
func (f *FullText) Load(paperID string) (FullTextRequest, bool) {
	paperID = strings.TrimSpace(paperID)
	if paperID == "" {
		return FullTextRequest{}, false
	}
	f.paperID = paperID
	f.state.start()
	return FullTextRequest{Ticket: f.tickets.issue(paperID), PaperID: paperID}, true
}

func (f *FullText) Resolve(res FullTextResult) bool {
	if !f.tickets.matches(res.Ticket) {
		return false
	}
	f.tickets.invalidate()
	if res.Err != nil {
		logger := observability.WithPaper(f.log, f.paperID)
		logger.Warn().Err(res.Err).Msg("full text failed")
		f.state.fail(res.Err, MsgFullTextFailed)
		return true
	}
	f.state.succeed(res.Text)
	return true
}

// Clear forgets the preview and retires any in-flight fetch.
func (f *FullText) Clear() {
	f.paperID = ""
	f.state = Remote[string]{}
	f.tickets.invalidate()
}

func (f *FullText) PaperID() string { return f.paperID }

func (f *FullText) State() Remote[string] { return f.state }
