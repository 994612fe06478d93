// Package papers is the typed gateway to the paper discovery backend.
package papers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Paper mirrors the backend's paper payload. Values are never mutated after decoding.
// Timestamps are kept as sent since the backend may omit the zone offset.
type Paper struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Abstract   string  `json:"abstract"`
	Authors    Authors `json:"authors"`
	Categories string  `json:"categories"`
	Comments   string  `json:"comments,omitempty"`
	UpdateDate string  `json:"update_date,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
	UpdatedAt  string  `json:"updated_at,omitempty"`
}

const updateDateLayout = "2006-01-02"

// Updated parses the optional update_date field.
func (p Paper) Updated() (time.Time, bool) {
	value := strings.TrimSpace(p.UpdateDate)
	if value == "" {
		return time.Time{}, false
	}
	if len(value) > len(updateDateLayout) {
		value = value[:len(updateDateLayout)]
	}
	t, err := time.Parse(updateDateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Authors is the ordered author list. The backend sends either a JSON array or,
// for rows that were never split, a single string.
type Authors []string

// UnmarshalJSON accepts both encodings.
func (a *Authors) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = nil
		return nil
	}
	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		single = strings.TrimSpace(single)
		if single == "" {
			*a = nil
			return nil
		}
		*a = Authors{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("authors: %w", err)
	}
	*a = Authors(list)
	return nil
}

func (a Authors) String() string {
	return strings.Join(a, ", ")
}

// Recommendation is a directed similarity edge computed by the backend.
type Recommendation struct {
	ID                 string  `json:"id"`
	SourcePaper        string  `json:"source_paper"`
	RecommendedPaper   string  `json:"recommended_paper"`
	Details            Paper   `json:"recommended_paper_details"`
	SimilarityScore    float64 `json:"similarity_score"`
	RecommendationDate string  `json:"recommendation_date,omitempty"`
	ModelName          string  `json:"model_name"`
}

// SimilarityPercent renders the score the way the cards show it, eg. "87.5%".
func (r Recommendation) SimilarityPercent() string {
	return fmt.Sprintf("%.1f%%", r.SimilarityScore*100)
}

// Page is one slice of the paper listing.
type Page struct {
	Count    int     `json:"count"`
	Next     *string `json:"next,omitempty"`
	Previous *string `json:"previous,omitempty"`
	Results  []Paper `json:"results"`
}

// HasNext reports whether the backend advertised a following page.
func (p Page) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// ListFilters are the optional, additive listing filters.
type ListFilters struct {
	Category string
	Search   string
}

// Key is a stable representation used to tag in-flight listing requests.
func (f ListFilters) Key() string {
	return strings.TrimSpace(f.Category) + "\x1f" + strings.TrimSpace(f.Search)
}

// IsZero reports whether no filter is set.
func (f ListFilters) IsZero() bool {
	return strings.TrimSpace(f.Category) == "" && strings.TrimSpace(f.Search) == ""
}

type explainRequest struct {
	SourcePaperID      string `json:"source_paper_id"`
	RecommendedPaperID string `json:"recommended_paper_id"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}
