package papers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorsUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Authors
	}{
		{name: "array", raw: `["A","B"]`, want: Authors{"A", "B"}},
		{name: "string", raw: `"A and B"`, want: Authors{"A and B"}},
		{name: "blank string", raw: `"  "`, want: nil},
		{name: "null", raw: `null`, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Authors
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorsUnmarshalRejectsObjects(t *testing.T) {
	var got Authors
	require.Error(t, json.Unmarshal([]byte(`{"name":"A"}`), &got))
}

func TestPaperUpdated(t *testing.T) {
	_, ok := Paper{}.Updated()
	assert.False(t, ok)

	_, ok = Paper{UpdateDate: "yesterday"}.Updated()
	assert.False(t, ok)

	updated, ok := Paper{UpdateDate: "2024-02-29T10:00:00Z"}.Updated()
	require.True(t, ok)
	assert.Equal(t, "2024-02-29", updated.Format("2006-01-02"))
}

func TestSimilarityPercent(t *testing.T) {
	assert.Equal(t, "87.5%", Recommendation{SimilarityScore: 0.875}.SimilarityPercent())
	assert.Equal(t, "100.0%", Recommendation{SimilarityScore: 1}.SimilarityPercent())
	assert.Equal(t, "0.0%", Recommendation{}.SimilarityPercent())
}

func TestListFiltersKey(t *testing.T) {
	assert.True(t, ListFilters{Category: " "}.IsZero())
	assert.Equal(t, ListFilters{Category: "cs.AI"}.Key(), ListFilters{Category: " cs.AI "}.Key())
	assert.NotEqual(t, ListFilters{Category: "cs.AI"}.Key(), ListFilters{Search: "cs.AI"}.Key())
}

func TestPaperKeepsNaiveTimestamps(t *testing.T) {
	raw := `{"id":"p1","created_at":"2024-01-02T03:04:05","updated_at":"2024-01-02T03:04:05.123456"}`
	var paper Paper
	require.NoError(t, json.Unmarshal([]byte(raw), &paper))
	assert.Equal(t, "2024-01-02T03:04:05", paper.CreatedAt)

	raw = `{"id":"r1","recommended_paper":"p1","recommendation_date":"2024-01-02 03:04:05","similarity_score":0.5}`
	var rec Recommendation
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	assert.Equal(t, "2024-01-02 03:04:05", rec.RecommendationDate)
}
