package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperscope/internal/papers"
	"github.com/csheth/paperscope/internal/view"
)

type listResultMsg struct {
	res view.ListResult
}

type searchResultMsg struct {
	res view.SearchResult
}

type paperResultMsg struct {
	frame *detailFrame
	res   view.PaperResult
}

type recsResultMsg struct {
	frame *detailFrame
	res   view.RecsResult
}

type explainResultMsg struct {
	frame *detailFrame
	res   view.ExplainResult
}

type fullTextResultMsg struct {
	frame *detailFrame
	res   view.FullTextResult
}

func listJob(gw papers.Gateway, req view.ListRequest) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		res := req.Run(ctx, gw)
		return listResultMsg{res: res}, res.Err
	}
}

func searchJob(gw papers.Gateway, req view.SearchRequest) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		res := req.Run(ctx, gw)
		return searchResultMsg{res: res}, res.Err
	}
}

func paperJob(gw papers.Gateway, frame *detailFrame, req view.DetailRequest) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		res := req.FetchPaper(ctx, gw)
		return paperResultMsg{frame: frame, res: res}, res.Err
	}
}

func recsJob(gw papers.Gateway, frame *detailFrame, req view.DetailRequest) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		res := req.FetchRecommendations(ctx, gw)
		return recsResultMsg{frame: frame, res: res}, res.Err
	}
}

func explainJob(gw papers.Gateway, frame *detailFrame, req view.ExplainRequest) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		res := req.Run(ctx, gw)
		return explainResultMsg{frame: frame, res: res}, res.Err
	}
}

func fullTextJob(src view.TextSource, frame *detailFrame, req view.FullTextRequest) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		res := req.Run(ctx, src)
		return fullTextResultMsg{frame: frame, res: res}, res.Err
	}
}
