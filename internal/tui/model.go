package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/csheth/paperscope/internal/papers"
	"github.com/csheth/paperscope/internal/view"
)

// Config wires the TUI to its collaborators.
type Config struct {
	Gateway papers.Gateway
	// Texts backs the full-text preview. Nil disables it.
	Texts    view.TextSource
	PageSize int
	// Timeout bounds every background job. Zero leaves it to the gateway.
	Timeout time.Duration
	// Endpoint is shown in the status bar.
	Endpoint string
	Logger   zerolog.Logger
}

// detailFrame is the state of one detail screen on the stack.
type detailFrame struct {
	detail    *view.Detail
	explainer *view.Explainer
	fulltext  *view.FullText
	showText  bool
}

type frame struct {
	kind   screen
	detail *detailFrame
}

type model struct {
	config Config
	log    zerolog.Logger
	jobs   *jobBus

	listing      *view.Listing
	search       *view.Search
	stack        []frame
	listCursor   int
	searchCursor int

	input       textinput.Model
	inputMode   inputMode
	spinner     spinner.Model
	viewport    viewport.Model
	layout      pageLayout
	helpVisible bool

	running     int
	lastFailure string
	infoMessage string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	logger := config.Logger.With().Str("component", "tui").Logger()

	input := textinput.New()
	input.CharLimit = 200
	input.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return &model{
		config:   config,
		log:      logger,
		jobs:     newJobBus(config.Timeout, logger),
		listing:  view.NewListing(config.PageSize, logger),
		search:   view.NewSearch(logger),
		stack:    []frame{{kind: screenListing}},
		input:    input,
		spinner:  spin,
		viewport: vp,
		layout:   newPageLayout(),
	}
}

func (m *model) Init() tea.Cmd {
	return m.loadListing(m.listing.Load(1))
}

func (m *model) current() frame {
	return m.stack[len(m.stack)-1]
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.input.Width = m.layout.viewportWidth - 4
		return m, nil
	case spinner.TickMsg:
		if m.running > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.running++
		if m.running == 1 {
			return m, m.spinner.Tick
		}
		return m, nil
	case jobResultEnvelope:
		if m.running > 0 {
			m.running--
		}
		if msg.Snapshot.Status == jobStatusFailed {
			m.lastFailure = fmt.Sprintf("%s failed after %s", msg.Snapshot.Kind, msg.Snapshot.Duration.Round(time.Millisecond))
		}
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case listResultMsg:
		if m.listing.Resolve(msg.res) {
			m.listCursor = clampCursor(m.listCursor, len(m.listing.Papers()))
		}
		return m, nil
	case searchResultMsg:
		if m.search.Resolve(msg.res) {
			m.searchCursor = clampCursor(m.searchCursor, len(m.search.Results()))
		}
		return m, nil
	case paperResultMsg:
		if !msg.frame.detail.ResolvePaper(msg.res) {
			return m, nil
		}
		if paper, ok := msg.frame.detail.Paper(); ok {
			msg.frame.explainer.RefreshSource(paper)
			return m, nil
		}
		switch msg.frame.detail.Phase() {
		case view.PhaseNotFound, view.PhaseFailed:
			msg.frame.explainer.Reset(papers.Paper{ID: msg.frame.detail.ID()}, nil)
		}
		return m, nil
	case recsResultMsg:
		if msg.frame.detail.ResolveRecommendations(msg.res) {
			source, ok := msg.frame.detail.Paper()
			if !ok {
				source = papers.Paper{ID: msg.frame.detail.ID()}
			}
			msg.frame.explainer.Reset(source, msg.frame.detail.Recommendations())
		}
		return m, nil
	case explainResultMsg:
		msg.frame.explainer.Resolve(msg.res)
		return m, nil
	case fullTextResultMsg:
		msg.frame.fulltext.Resolve(msg.res)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.inputMode != inputNone {
		return m, m.handleInputKey(msg)
	}

	top := m.current()
	if top.kind == screenDetail && top.detail.explainer.IsOpen() {
		switch msg.String() {
		case "esc", "x", "enter", "q":
			top.detail.explainer.Close()
		}
		return m, nil
	}

	switch msg.String() {
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "q":
		return m, tea.Quit
	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	case "esc", "backspace":
		if top.kind == screenDetail && top.detail.showText {
			top.detail.showText = false
			return m, nil
		}
		m.back()
		return m, nil
	}

	m.infoMessage = ""
	switch top.kind {
	case screenListing:
		return m, m.listingKey(msg)
	case screenDetail:
		return m, m.detailKey(top.detail, msg)
	case screenSearch:
		return m, m.searchKey(msg)
	}
	return m, nil
}

func (m *model) listingKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.listCursor = clampCursor(m.listCursor-1, len(m.listing.Papers()))
	case "down", "j":
		m.listCursor = clampCursor(m.listCursor+1, len(m.listing.Papers()))
	case "enter":
		items := m.listing.Papers()
		if m.listCursor < len(items) {
			return m.openPaper(items[m.listCursor].ID)
		}
	case "n", "right":
		req, ok := m.listing.Next()
		if !ok {
			return nil
		}
		return m.loadListing(req)
	case "p", "left":
		req, ok := m.listing.Prev()
		if !ok {
			return nil
		}
		return m.loadListing(req)
	case "r":
		return m.loadListing(m.listing.Reload())
	case "/":
		return m.openSearch()
	case "c":
		m.startInput(inputFilter, m.listing.Filters().Category)
	}
	return nil
}

func (m *model) detailKey(f *detailFrame, msg tea.KeyMsg) tea.Cmd {
	_, loaded := f.detail.Paper()
	switch msg.String() {
	case "up", "k", "down", "j", "enter", "x":
		if !loaded {
			return nil
		}
	}
	switch msg.String() {
	case "up", "k":
		f.explainer.Move(-1)
	case "down", "j":
		f.explainer.Move(1)
	case "enter":
		if rec, ok := f.explainer.Selected(); ok {
			return m.openPaper(rec.RecommendedPaper)
		}
	case "x":
		req, ok := f.explainer.ExplainSelected()
		if !ok {
			m.infoMessage = "Select a similar paper to explain."
			return nil
		}
		return m.jobs.Start(jobKindExplain, explainJob(m.config.Gateway, f, req))
	case "f":
		return m.toggleFullText(f)
	case "r":
		f.explainer.Close()
		return m.loadDetail(f, f.detail.Reload())
	case "/":
		return m.openSearch()
	}
	return nil
}

func (m *model) searchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.searchCursor = clampCursor(m.searchCursor-1, len(m.search.Results()))
	case "down", "j":
		m.searchCursor = clampCursor(m.searchCursor+1, len(m.search.Results()))
	case "enter":
		items := m.search.Results()
		if m.searchCursor < len(items) {
			return m.openPaper(items[m.searchCursor].ID)
		}
	case "/":
		m.startInput(inputSearch, m.search.Query())
	case "r":
		return m.submitSearch(m.search.Query())
	}
	return nil
}

func (m *model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		mode := m.inputMode
		m.stopInput()
		if mode == inputSearch && m.search.State().Status == view.Idle && !m.search.Prompted() {
			m.back()
		}
		return nil
	case tea.KeyEnter:
		value := m.input.Value()
		switch m.inputMode {
		case inputSearch:
			if strings.TrimSpace(value) != "" {
				m.stopInput()
			}
			return m.submitSearch(value)
		case inputFilter:
			m.stopInput()
			filters := m.listing.Filters()
			filters.Category = strings.TrimSpace(value)
			m.listCursor = 0
			return m.loadListing(m.listing.SetFilters(filters))
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *model) startInput(mode inputMode, value string) {
	m.inputMode = mode
	switch mode {
	case inputSearch:
		m.input.Placeholder = searchPlaceholder
	case inputFilter:
		m.input.Placeholder = filterPlaceholder
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *model) stopInput() {
	m.inputMode = inputNone
	m.input.Blur()
}

func (m *model) loadListing(req view.ListRequest) tea.Cmd {
	return m.jobs.Start(jobKindList, listJob(m.config.Gateway, req))
}

func (m *model) submitSearch(query string) tea.Cmd {
	req, ok := m.search.Submit(query)
	m.searchCursor = 0
	if !ok {
		return nil
	}
	return m.jobs.Start(jobKindSearch, searchJob(m.config.Gateway, req))
}

func (m *model) openSearch() tea.Cmd {
	if m.current().kind != screenSearch {
		m.stack = append(m.stack, frame{kind: screenSearch})
		m.viewport.GotoTop()
	}
	m.startInput(inputSearch, m.search.Query())
	return textinput.Blink
}

func (m *model) openPaper(id string) tea.Cmd {
	f := &detailFrame{
		detail:    view.NewDetail(m.log),
		explainer: view.NewExplainer(m.log),
		fulltext:  view.NewFullText(m.log),
	}
	req := f.detail.Open(id)
	f.explainer.Reset(papers.Paper{ID: req.PaperID}, nil)
	m.stack = append(m.stack, frame{kind: screenDetail, detail: f})
	m.viewport.GotoTop()
	return m.loadDetail(f, req)
}

func (m *model) loadDetail(f *detailFrame, req view.DetailRequest) tea.Cmd {
	return tea.Batch(
		m.jobs.Start(jobKindPaper, paperJob(m.config.Gateway, f, req)),
		m.jobs.Start(jobKindRecs, recsJob(m.config.Gateway, f, req)),
	)
}

func (m *model) toggleFullText(f *detailFrame) tea.Cmd {
	if f.showText {
		f.showText = false
		return nil
	}
	if m.config.Texts == nil {
		m.infoMessage = "Full-text preview is not configured."
		return nil
	}
	f.showText = true
	state := f.fulltext.State()
	if f.fulltext.PaperID() == f.detail.ID() && (state.Loaded() || state.IsLoading()) {
		return nil
	}
	req, ok := f.fulltext.Load(f.detail.ID())
	if !ok {
		return nil
	}
	return m.jobs.Start(jobKindFullText, fullTextJob(m.config.Texts, f, req))
}

// back pops the current screen. The root listing stays put.
func (m *model) back() {
	if len(m.stack) == 1 {
		m.infoMessage = "Press ctrl+c to quit."
		return
	}
	if top := m.current(); top.kind == screenDetail {
		top.detail.explainer.Close()
	}
	m.stack = m.stack[:len(m.stack)-1]
	m.viewport.GotoTop()
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
