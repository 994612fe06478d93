package tui

type screen int

const (
	screenListing screen = iota
	screenDetail
	screenSearch
)

func (s screen) String() string {
	switch s {
	case screenListing:
		return "Papers"
	case screenDetail:
		return "Paper"
	case screenSearch:
		return "Search"
	default:
		return ""
	}
}

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputFilter
)

const heroTagline = "Discover research papers and why they belong together."

const (
	minViewportWidth          = 40
	minCardWidth              = 30
	viewportHorizontalPadding = 4
	fullTextPreviewLimit      = 2400
)

const (
	searchPlaceholder = "Search titles and abstracts…"
	filterPlaceholder = "Category, eg. cs.LG (empty clears)"
)
