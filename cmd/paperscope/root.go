package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/csheth/paperscope/internal/config"
	"github.com/csheth/paperscope/internal/fulltext"
	"github.com/csheth/paperscope/internal/observability"
	"github.com/csheth/paperscope/internal/papers"
	"github.com/csheth/paperscope/internal/tui"
	"github.com/csheth/paperscope/internal/view"
)

// app carries the state shared by the root command and its subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "paperscope",
		Short: "Browse research papers and why they are recommended",
		Long: `paperscope is a terminal client for the paper discovery backend.

Without a subcommand it opens the interactive browser: page through papers,
open one to see similar papers, and ask why a paper was recommended.

Example usage:
  paperscope                             # interactive browser
  paperscope list --category cs.LG       # first page of cs.LG papers
  paperscope show 2101.00001             # paper details and similar papers
  paperscope search graph neural network
  paperscope explain 2101.00001 2102.00002`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		RunE: a.runTUI,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./paperscope.yaml or ~/.config/paperscope/paperscope.yaml)")
	flags.String("api-url", "", "backend API base URL, eg. http://localhost:8000/api")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("api.base_url", flags.Lookup("api-url"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.Flags().Bool("no-alt-screen", false, "render inline instead of on the alternate screen")
	root.Flags().String("log-file", "", "write TUI logs to this file")
	_ = a.v.BindPFlag("log.file", root.Flags().Lookup("log-file"))

	root.AddCommand(
		a.newListCmd(),
		a.newShowCmd(),
		a.newSearchCmd(),
		a.newExplainCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) logging() observability.LoggingConfig {
	return observability.LoggingConfig{Level: a.cfg.Log.Level, Format: a.cfg.Log.Format}
}

func (a *app) gateway(logger zerolog.Logger) (*papers.Client, error) {
	api := a.cfg.API
	client, err := papers.NewClient(papers.Config{
		BaseURL:    api.BaseURL,
		Timeout:    api.Timeout,
		RateLimit:  api.RateLimit,
		Burst:      api.Burst,
		MaxRetries: api.MaxRetries,
		RetryDelay: api.RetryDelay,
		UserAgent:  api.UserAgent,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}
	return client, nil
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	logger, closer, err := observability.OpenLogFile(a.logging(), a.cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	gw, err := a.gateway(logger)
	if err != nil {
		return err
	}

	var texts view.TextSource
	source, err := fulltext.New(fulltext.Config{
		PDFBaseURL: a.cfg.Arxiv.PDFBaseURL,
		CacheDir:   a.cfg.Arxiv.CacheDir,
		Logger:     logger,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("full-text preview disabled")
	} else {
		texts = source
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if noAlt, _ := cmd.Flags().GetBool("no-alt-screen"); !noAlt {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tui.Config{
		Gateway:  gw,
		Texts:    texts,
		PageSize: a.cfg.Listing.PageSize,
		Endpoint: gw.BaseURL(),
		Logger:   logger,
	}), opts...)

	logger.Info().Str("endpoint", gw.BaseURL()).Msg("starting tui")
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
