package view

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/csheth/paperscope/internal/papers"
)

// DefaultPageSize is the backend's page size. The listing endpoint does not
// report it, so it is configured client side.
const DefaultPageSize = 10

// ListRequest is a page fetch handed out by Listing.
type ListRequest struct {
	Ticket  Ticket
	Page    int
	Filters papers.ListFilters
}

// Run executes the request. It is safe to call from any goroutine.
func (r ListRequest) Run(ctx context.Context, gw papers.Gateway) ListResult {
	page, err := gw.ListPapers(ctx, r.Page, r.Filters)
	return ListResult{Ticket: r.Ticket, Page: page, Err: err}
}

// ListResult is the outcome of a ListRequest.
type ListResult struct {
	Ticket Ticket
	Page   papers.Page
	Err    error
}

// Listing tracks the paged paper listing.
type Listing struct {
	pageSize int
	page     int
	count    int
	known    bool
	filters  papers.ListFilters
	state    Remote[[]papers.Paper]
	tickets  tracker
	log      zerolog.Logger
}

// NewListing returns a listing on page 1 that has not fetched anything yet.
func NewListing(pageSize int, logger zerolog.Logger) *Listing {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Listing{
		pageSize: pageSize,
		page:     1,
		log:      logger.With().Str("view", "listing").Logger(),
	}
}

// Load requests page, clamped to [1, TotalPages] once a count is known.
func (l *Listing) Load(page int) ListRequest {
	page = l.clamp(page)
	l.page = page
	l.state.start()
	return ListRequest{
		Ticket:  l.tickets.issue(strconv.Itoa(page) + "|" + l.filters.Key()),
		Page:    page,
		Filters: l.filters,
	}
}

// Next moves forward one page. ok is false when the control is disabled.
func (l *Listing) Next() (ListRequest, bool) {
	if !l.CanNext() {
		return ListRequest{}, false
	}
	return l.Load(l.page + 1), true
}

// Prev moves back one page. ok is false when the control is disabled.
func (l *Listing) Prev() (ListRequest, bool) {
	if !l.CanPrev() {
		return ListRequest{}, false
	}
	return l.Load(l.page - 1), true
}

// Reload refetches the current page.
func (l *Listing) Reload() ListRequest {
	return l.Load(l.page)
}

// SetFilters replaces the filters and restarts from page 1. The previous count
// no longer applies.
func (l *Listing) SetFilters(filters papers.ListFilters) ListRequest {
	l.filters = filters
	l.count = 0
	l.known = false
	return l.Load(1)
}

// Resolve commits res if it answers the latest request.
func (l *Listing) Resolve(res ListResult) bool {
	if !l.tickets.matches(res.Ticket) {
		l.log.Debug().Str("ticket", res.Ticket.Key()).Msg("discarding stale page")
		return false
	}
	l.tickets.invalidate()
	if res.Err != nil {
		l.log.Warn().Err(res.Err).Int("page", l.page).Msg("listing failed")
		l.state.fail(res.Err, MsgListFailed)
		return true
	}

	l.count = res.Page.Count
	l.known = true
	results := res.Page.Results
	if results == nil {
		results = []papers.Paper{}
	}
	if n := len(results); n > l.pageSize || (res.Page.HasNext() && n != l.pageSize) {
		l.log.Warn().Int("configured", l.pageSize).Int("received", n).Msg("page size does not match backend pagination")
	}
	l.state.succeed(results)
	return true
}

func (l *Listing) clamp(page int) int {
	if page < 1 {
		page = 1
	}
	if l.known {
		if total := l.TotalPages(); page > total {
			page = total
		}
	}
	return page
}

// TotalPages is max(1, ceil(count/pageSize)).
func (l *Listing) TotalPages() int {
	total := (l.count + l.pageSize - 1) / l.pageSize
	if total < 1 {
		return 1
	}
	return total
}

func (l *Listing) CanPrev() bool { return l.page > 1 }

func (l *Listing) CanNext() bool { return l.page < l.TotalPages() }

// Label renders the pager caption, eg. "Page 2 of 3".
func (l *Listing) Label() string {
	return fmt.Sprintf("Page %d of %d", l.page, l.TotalPages())
}

func (l *Listing) Page() int { return l.page }

func (l *Listing) PageSize() int { return l.pageSize }

// Count is the server-reported total, zero until the first successful fetch.
func (l *Listing) Count() int { return l.count }

func (l *Listing) Filters() papers.ListFilters { return l.filters }

func (l *Listing) State() Remote[[]papers.Paper] { return l.state }

func (l *Listing) Papers() []papers.Paper { return l.state.Data }
