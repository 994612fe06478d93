package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// backend is a small in-memory stand-in for the paper discovery API.
type backend struct {
	server   *httptest.Server
	count    int
	papers   []map[string]any
	searches atomic.Int32
	maxPage  atomic.Int32
	category atomic.Value
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{count: 15}
	for i := 0; i < 15; i++ {
		b.papers = append(b.papers, map[string]any{
			"id":          fmt.Sprintf("2101.%05d", i),
			"title":       fmt.Sprintf("Paper number %d", i),
			"abstract":    "We study attention.",
			"authors":     "Ada Lovelace, Alan Turing",
			"categories":  "cs.LG",
			"update_date": "2023-04-05",
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/papers/{$}", func(w http.ResponseWriter, r *http.Request) {
		b.category.Store(r.URL.Query().Get("category"))
		if r.URL.Query().Get("category") == "broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		if int32(page) > b.maxPage.Load() {
			b.maxPage.Store(int32(page))
		}
		start := (page - 1) * 10
		if start >= len(b.papers) {
			http.Error(w, `{"detail":"Invalid page."}`, http.StatusNotFound)
			return
		}
		end := start + 10
		if end > len(b.papers) {
			end = len(b.papers)
		}
		writeJSON(w, map[string]any{"count": b.count, "results": b.papers[start:end]})
	})
	mux.HandleFunc("GET /api/papers/search/{$}", func(w http.ResponseWriter, r *http.Request) {
		b.searches.Add(1)
		if r.URL.Query().Get("q") == "attention" {
			writeJSON(w, b.papers[:2])
			return
		}
		writeJSON(w, []any{})
	})
	mux.HandleFunc("GET /api/papers/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		if p := b.find(r.PathValue("id")); p != nil {
			writeJSON(w, p)
			return
		}
		http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
	})
	mux.HandleFunc("GET /api/papers/{id}/recommendations/{$}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if b.find(id) == nil {
			http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
			return
		}
		writeJSON(w, []map[string]any{{
			"id":                        "rec-1",
			"source_paper":              id,
			"recommended_paper":         "2101.00003",
			"recommended_paper_details": b.find("2101.00003"),
			"similarity_score":          0.875,
			"model_name":                "specter",
		}})
	})
	mux.HandleFunc("POST /api/rag/explain_recommendation/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Source      string `json:"source_paper_id"`
			Recommended string `json:"recommended_paper_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if b.find(body.Source) == nil || b.find(body.Recommended) == nil {
			writeJSON(w, map[string]string{"explanation": "Error: One of the papers was not found."})
			return
		}
		writeJSON(w, map[string]string{"explanation": "Both papers analyse attention heads."})
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) URL() string { return b.server.URL + "/api" }

func (b *backend) find(id string) map[string]any {
	for _, p := range b.papers {
		if p["id"] == id {
			return p
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// execute runs the CLI with args against baseURL, isolated from any local
// config file or environment.
func execute(t *testing.T, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAPERSCOPE_API_URL", "")
	t.Setenv("PAPERSCOPE_API_BASE_URL", "")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if baseURL != "" {
		args = append([]string{"--api-url", baseURL}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
