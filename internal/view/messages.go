package view

import "fmt"

const (
	MsgListFailed       = "Failed to load papers. Please try again later."
	MsgDetailFailed     = "Failed to load paper details. Please try again later."
	MsgNotFound         = "Paper not found."
	MsgRecsFailed       = "Failed to load similar papers. Please try again later."
	MsgNoRecs           = "No recommendations found for this paper."
	MsgSearchFailed     = "Failed to search papers. Please try again later."
	MsgSearchPrompt     = "Please enter a search term to find papers."
	MsgNoExplanation    = "No explanation available for this recommendation. This usually happens when one of the papers could not be found."
	MsgFullTextFailed   = "Failed to load the full text. Please try again later."
	MsgNoListingResults = "No papers found."
)

// NoSearchResults is shown when a search succeeds with zero matches.
func NoSearchResults(query string) string {
	return fmt.Sprintf("No papers found matching %q. Please try a different search term.", query)
}
