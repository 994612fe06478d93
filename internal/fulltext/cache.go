package fulltext

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	cacheSubdir   = "paperscope/pdfs"
	freshFor      = 24 * time.Hour
	partialSuffix = ".part"
	metaSuffix    = ".meta"
)

// pdfStore keeps downloaded PDFs on disk and revalidates them with the origin
// once they are older than freshFor.
type pdfStore struct {
	dir    string
	client *http.Client
	log    zerolog.Logger
}

type storedMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// entry is the set of files backing one cached PDF.
type entry struct {
	pdf     string
	meta    string
	partial string
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(os.TempDir(), "paperscope-cache")
	}
	return filepath.Join(base, cacheSubdir)
}

func newPDFStore(dir string, client *http.Client, logger zerolog.Logger) (*pdfStore, error) {
	if strings.TrimSpace(dir) == "" {
		dir = defaultCacheDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("fulltext: create cache dir: %w", err)
	}
	return &pdfStore{dir: dir, client: client, log: logger}, nil
}

// Fetch returns a local path holding the PDF at pdfURL. A stale copy is served
// when revalidation fails.
func (s *pdfStore) Fetch(ctx context.Context, pdfURL string) (string, error) {
	e := s.entryFor(pdfURL)
	logger := s.log.With().Str("url", pdfURL).Logger()

	current, statErr := os.Stat(e.pdf)
	if statErr != nil || current.Size() == 0 {
		current = nil
	}
	if current != nil && time.Since(current.ModTime()) < freshFor {
		logger.Debug().Msg("pdf cache hit")
		return e.pdf, nil
	}

	meta, _ := readStoredMeta(e.meta)
	path, err := s.download(ctx, pdfURL, e, meta, current)
	if err == nil {
		return path, nil
	}
	if current != nil {
		logger.Warn().Err(err).Msg("revalidation failed, serving stale pdf")
		return e.pdf, nil
	}
	return "", err
}

func (s *pdfStore) download(ctx context.Context, pdfURL string, e entry, meta storedMeta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", err
	}
	if current != nil {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	var resumeFrom int64
	if info, err := os.Stat(e.partial); err == nil && info.Size() > 0 {
		resumeFrom = info.Size()
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", resumeFrom))
		switch {
		case meta.ETag != "":
			req.Header.Set("If-Range", meta.ETag)
		case meta.LastModified != "":
			req.Header.Set("If-Range", meta.LastModified)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fulltext: download pdf: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current == nil {
			return s.download(ctx, pdfURL, e, storedMeta{}, nil)
		}
		meta.CachedAt = time.Now().UTC()
		if err := writeStoredMeta(e.meta, meta); err != nil {
			return "", err
		}
		// Touch the file so the next lookup within freshFor is a plain hit.
		now := time.Now()
		_ = os.Chtimes(e.pdf, now, now)
		s.log.Debug().Str("url", pdfURL).Msg("pdf not modified")
		return e.pdf, nil
	case http.StatusOK:
		return s.store(resp, e, false)
	case http.StatusPartialContent:
		s.log.Debug().Str("url", pdfURL).Int64("offset", resumeFrom).Msg("resuming pdf download")
		return s.store(resp, e, resumeFrom > 0)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("fulltext: pdf download failed: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}
}

func (s *pdfStore) store(resp *http.Response, e entry, resume bool) (string, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if resume {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(e.partial, flags, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return "", fmt.Errorf("fulltext: write pdf: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(e.partial, e.pdf); err != nil {
		return "", err
	}

	meta := storedMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	}
	if info, err := os.Stat(e.pdf); err == nil {
		meta.Size = info.Size()
	}
	if err := writeStoredMeta(e.meta, meta); err != nil {
		return "", err
	}
	s.log.Info().Str("url", meta.URL).Int64("bytes", meta.Size).Msg("pdf cached")
	return e.pdf, nil
}

func (s *pdfStore) entryFor(pdfURL string) entry {
	key := storeKey(pdfURL)
	base := filepath.Join(s.dir, key)
	return entry{pdf: base + ".pdf", meta: base + metaSuffix, partial: base + partialSuffix}
}

func storeKey(pdfURL string) string {
	if id := Identifier(pdfURL); id != "" {
		return sanitizeKey(id)
	}
	sum := sha1.Sum([]byte(pdfURL))
	return hex.EncodeToString(sum[:])
}

func sanitizeKey(value string) string {
	return strings.NewReplacer("/", "-", ":", "-", "..", "-").Replace(strings.TrimSpace(value))
}

func readStoredMeta(path string) (storedMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return storedMeta{}, err
	}
	var meta storedMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return storedMeta{}, err
	}
	return meta, nil
}

func writeStoredMeta(path string, meta storedMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
