package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/muesli/reflow/truncate"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/csheth/paperscope/internal/papers"
)

const titleColumnWidth = 60

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func renderPaperTable(w io.Writer, items []papers.Paper) error {
	table := newTable(w)
	table.Header([]string{"ID", "Title", "Category", "Updated"})
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		updated := ""
		if t, ok := p.Updated(); ok {
			updated = t.Format("2006-01-02")
		}
		rows = append(rows, []string{p.ID, shortTitle(p.Title), p.Categories, updated})
	}
	return render(table, rows)
}

func renderRecommendationTable(w io.Writer, recs []papers.Recommendation) error {
	table := newTable(w)
	table.Header([]string{"#", "ID", "Title", "Similarity"})
	rows := make([][]string, 0, len(recs))
	for i, rec := range recs {
		rows = append(rows, []string{strconv.Itoa(i + 1), rec.RecommendedPaper, shortTitle(rec.Details.Title), rec.SimilarityPercent()})
	}
	return render(table, rows)
}

func render(table *tablewriter.Table, rows [][]string) error {
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("build table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

func shortTitle(title string) string {
	return truncate.StringWithTail(title, titleColumnWidth, "…")
}
