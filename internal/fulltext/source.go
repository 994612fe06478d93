// Package fulltext downloads arXiv PDFs through an on-disk cache and extracts
// their plain text for the detail screen's preview.
package fulltext

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

const (
	DefaultPDFBaseURL = "https://arxiv.org/pdf"
	defaultTimeout    = 90 * time.Second
	defaultMaxChars   = 6000
)

var (
	urlIDPattern  = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/([0-9a-z.\-]+(?:/[0-9]+)?)`)
	bareIDPattern = regexp.MustCompile(`(?i)^[0-9a-z.\-]+(?:/[0-9]+(?:v[0-9]+)?)?$`)
	whitespace    = regexp.MustCompile(`\s+`)
)

type Config struct {
	PDFBaseURL string
	CacheDir   string
	// MaxChars caps the returned preview. Zero uses a default, negative disables the cap.
	MaxChars   int
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Source resolves paper ids to extracted PDF text.
type Source struct {
	baseURL  string
	store    *pdfStore
	maxChars int
	log      zerolog.Logger
}

func New(cfg Config) (*Source, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.PDFBaseURL), "/")
	if base == "" {
		base = DefaultPDFBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger.With().Str("component", "fulltext").Logger()
	store, err := newPDFStore(cfg.CacheDir, client, logger)
	if err != nil {
		return nil, err
	}
	maxChars := cfg.MaxChars
	if maxChars == 0 {
		maxChars = defaultMaxChars
	}
	return &Source{baseURL: base, store: store, maxChars: maxChars, log: logger}, nil
}

// FetchText downloads (or reuses) the PDF for paperID and returns its text.
func (s *Source) FetchText(ctx context.Context, paperID string) (string, error) {
	id := Identifier(paperID)
	if id == "" {
		return "", fmt.Errorf("fulltext: %q is not an arXiv identifier", paperID)
	}
	path, err := s.store.Fetch(ctx, s.PDFURL(id))
	if err != nil {
		return "", err
	}
	text, err := extractText(path)
	if err != nil {
		return "", err
	}
	s.log.Debug().Str("paper_id", id).Int("chars", len(text)).Msg("extracted pdf text")
	return clip(text, s.maxChars), nil
}

// PDFURL is the download location for an arXiv identifier.
func (s *Source) PDFURL(id string) string {
	return fmt.Sprintf("%s/%s.pdf", s.baseURL, id)
}

// Identifier extracts an arXiv identifier from a bare id, an "arXiv:" prefixed
// id or an abs/pdf URL. It returns "" when none is found.
func Identifier(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if len(input) > 4 && strings.EqualFold(input[len(input)-4:], ".pdf") {
		input = input[:len(input)-4]
	}
	if m := urlIDPattern.FindStringSubmatch(input); len(m) > 1 {
		return m[1]
	}
	if len(input) >= len("arxiv:") && strings.EqualFold(input[:len("arxiv:")], "arxiv:") {
		input = strings.TrimSpace(input[len("arxiv:"):])
	}
	if bareIDPattern.MatchString(input) {
		return input
	}
	return ""
}

func extractText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("fulltext: open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("fulltext: extract pdf text: %w", err)
	}
	var b strings.Builder
	if _, err := io.Copy(&b, content); err != nil {
		return "", err
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(b.String(), " ")), nil
}

func clip(text string, limit int) string {
	if limit < 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
