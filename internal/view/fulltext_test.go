package view

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubText map[string]string

func (s stubText) FetchText(_ context.Context, id string) (string, error) {
	text, ok := s[id]
	if !ok {
		return "", errors.New("no pdf")
	}
	return text, nil
}

func TestFullTextLoad(t *testing.T) {
	src := stubText{"2101.00001": "Introduction..."}
	f := NewFullText(zerolog.Nop())

	_, ok := f.Load(" ")
	assert.False(t, ok)

	req, ok := f.Load("2101.00001")
	require.True(t, ok)
	assert.True(t, f.State().IsLoading())
	require.True(t, f.Resolve(req.Run(context.Background(), src)))
	assert.Equal(t, "Introduction...", f.State().Data)
}

func TestFullTextFailureAndStale(t *testing.T) {
	src := stubText{"b": "B"}
	f := NewFullText(zerolog.Nop())

	stale, _ := f.Load("a")
	req, _ := f.Load("missing")
	assert.False(t, f.Resolve(stale.Run(context.Background(), src)))
	require.True(t, f.Resolve(req.Run(context.Background(), src)))
	assert.Equal(t, MsgFullTextFailed, f.State().Message)

	req, _ = f.Load("b")
	f.Clear()
	assert.False(t, f.Resolve(req.Run(context.Background(), src)))
	assert.Equal(t, Idle, f.State().Status)
}
