package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/csheth/paperscope/internal/observability"
	"github.com/csheth/paperscope/internal/papers"
	"github.com/csheth/paperscope/internal/view"
)

const textWidth = 80

// headless returns the stderr logger and gateway the scripting commands share.
func (a *app) headless(cmd *cobra.Command) (zerolog.Logger, *papers.Client, error) {
	logger := observability.NewLogger(a.logging(), cmd.ErrOrStderr())
	gw, err := a.gateway(logger)
	return logger, gw, err
}

func (a *app) newListCmd() *cobra.Command {
	var (
		page    int
		filters papers.ListFilters
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the paper listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, gw, err := a.headless(cmd)
			if err != nil {
				return err
			}
			listing := view.NewListing(a.cfg.Listing.PageSize, logger)
			// The first page supplies the count that --page is clamped against.
			listing.Resolve(listing.SetFilters(filters).Run(cmd.Context(), gw))
			if page != 1 && !listing.State().Failed() {
				if req := listing.Load(page); req.Page != 1 {
					listing.Resolve(req.Run(cmd.Context(), gw))
				}
			}

			state := listing.State()
			if state.Failed() {
				return fmt.Errorf("%s: %w", state.Message, state.Err)
			}
			out := cmd.OutOrStdout()
			if len(state.Data) == 0 {
				fmt.Fprintln(out, view.MsgNoListingResults)
				return nil
			}
			if err := renderPaperTable(out, state.Data); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s (%d papers)\n", listing.Label(), listing.Count())
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&filters.Category, "category", "", "only papers in this category, eg. cs.LG")
	cmd.Flags().StringVar(&filters.Search, "search", "", "only papers whose title matches")
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <paper-id>",
		Short: "Print a paper and its similar papers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, gw, err := a.headless(cmd)
			if err != nil {
				return err
			}
			detail := view.NewDetail(logger)
			req := detail.Open(args[0])

			var (
				paperRes view.PaperResult
				recsRes  view.RecsResult
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				paperRes = req.FetchPaper(ctx, gw)
				return paperRes.Err
			})
			g.Go(func() error {
				recsRes = req.FetchRecommendations(ctx, gw)
				return nil
			})
			if err := g.Wait(); err != nil {
				logger.Debug().Err(err).Str("paper_id", req.PaperID).Msg("paper fetch failed")
			}
			detail.ResolvePaper(paperRes)
			detail.ResolveRecommendations(recsRes)

			switch detail.Phase() {
			case view.PhaseNotFound, view.PhaseFailed:
				return errors.New(detail.Message())
			}
			paper, _ := detail.Paper()
			out := cmd.OutOrStdout()
			writePaper(out, paper)

			fmt.Fprintln(out, "\nSimilar Papers")
			if recs := detail.Recommendations(); len(recs) > 0 {
				return renderRecommendationTable(out, recs)
			}
			fmt.Fprintln(out, detail.RecsMessage())
			return nil
		},
	}
}

func (a *app) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Search paper titles and abstracts",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, gw, err := a.headless(cmd)
			if err != nil {
				return err
			}
			search := view.NewSearch(logger)
			out := cmd.OutOrStdout()
			req, ok := search.Submit(strings.Join(args, " "))
			if !ok {
				fmt.Fprintln(out, search.Message())
				return nil
			}
			search.Resolve(req.Run(cmd.Context(), gw))

			state := search.State()
			if state.Failed() {
				return fmt.Errorf("%s: %w", state.Message, state.Err)
			}
			if len(state.Data) == 0 {
				fmt.Fprintln(out, search.Message())
				return nil
			}
			return renderPaperTable(out, state.Data)
		},
	}
}

func (a *app) newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <source-id> <recommended-id>",
		Short: "Explain why one paper is recommended for another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, gw, err := a.headless(cmd)
			if err != nil {
				return err
			}
			explainer := view.NewExplainer(logger)
			explainer.Reset(papers.Paper{ID: args[0]}, nil)
			req, ok := explainer.Explain(papers.Paper{ID: args[1]})
			if !ok {
				return errors.New("both paper ids are required")
			}
			explainer.Resolve(req.Run(cmd.Context(), gw))
			if explainer.Status() == view.ExplainFailed {
				return errors.New(explainer.Text())
			}
			fmt.Fprintln(cmd.OutOrStdout(), wordwrap.String(explainer.Text(), textWidth))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the paperscope version",
		Args:  cobra.NoArgs,
		// skips config loading
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "paperscope %s\n", version)
		},
	}
}

func writePaper(w io.Writer, p papers.Paper) {
	fmt.Fprintln(w, wordwrap.String(p.Title, textWidth))
	meta := []string{"arXiv " + p.ID}
	if category := strings.TrimSpace(p.Categories); category != "" {
		meta = append(meta, category)
	}
	if updated, ok := p.Updated(); ok {
		meta = append(meta, "updated "+updated.Format("Jan 2, 2006"))
	}
	fmt.Fprintln(w, strings.Join(meta, " | "))
	if len(p.Authors) > 0 {
		fmt.Fprintln(w, wordwrap.String("Authors: "+p.Authors.String(), textWidth))
	}
	if abstract := strings.TrimSpace(p.Abstract); abstract != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, wordwrap.String(strings.Join(strings.Fields(abstract), " "), textWidth))
	}
}
