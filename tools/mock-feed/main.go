// Package main implements a mock listing feed for local development.
// It serves a canned feed from a JSON fixture and can mix freshly generated
// listings into every response so that consecutive passes find new items.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/listing-notifier/pkg/logger"
)

type feedResponse struct {
	Feed feedBody `json:"feed"`
}

type feedBody struct {
	CurrentPage int               `json:"current_page"`
	TotalItems  int               `json:"total_items"`
	FeedItems   []json.RawMessage `json:"feed_items"`
}

func main() {
	port := flag.Int("port", 8090, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-feed/testdata/feed_response.json", "path to feed fixture")
	fresh := flag.Int("fresh", 0, "generated listings appended to every response")
	level := flag.String("log-level", "debug", "log level")
	flag.Parse()

	log := logger.New(*level, "text")

	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		log.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	log.Info("loaded fixture", "items", len(fixture.Feed.FeedItems))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      requestLogger(log, newMux(log, fixture, *fresh)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Info("starting mock feed server", "addr", srv.Addr, "fresh", *fresh)
	if err := srv.ListenAndServe(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(log *slog.Logger, fixture *feedResponse, fresh int) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /feed", feedHandler(log, fixture, fresh))
	mux.HandleFunc("GET /feed/{query}", feedHandler(log, fixture, fresh))
	return mux
}

func loadFixture(path string) (*feedResponse, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var resp feedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if resp.Feed.FeedItems == nil {
		return nil, fmt.Errorf("parsing fixture: no feed.feed_items")
	}
	return &resp, nil
}

func requestLogger(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// feedHandler serves the fixture. The "status" query parameter forces an
// error status and "fresh" overrides the number of generated listings.
func feedHandler(log *slog.Logger, fixture *feedResponse, fresh int) http.HandlerFunc {
	var mu sync.Mutex
	served := 0

	return func(w http.ResponseWriter, r *http.Request) {
		if s := r.URL.Query().Get("status"); s != "" {
			code, err := strconv.Atoi(s)
			if err == nil && code >= 400 && code < 600 {
				http.Error(w, http.StatusText(code), code)
				log.Info("forced error", "status", code)
				return
			}
		}

		n := fresh
		if s := r.URL.Query().Get("fresh"); s != "" {
			if v, err := strconv.Atoi(s); err == nil && v >= 0 {
				n = v
			}
		}

		mu.Lock()
		served++
		page := served
		mu.Unlock()

		items := make([]json.RawMessage, 0, len(fixture.Feed.FeedItems)+n)
		items = append(items, fixture.Feed.FeedItems...)
		for range n {
			items = append(items, generatedItem(page))
		}

		resp := feedResponse{Feed: feedBody{
			CurrentPage: 1,
			TotalItems:  len(items),
			FeedItems:   items,
		}}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		log.Info("feed", "query", r.PathValue("query"), "items", len(items), "generated", n)
	}
}

func generatedItem(page int) json.RawMessage {
	id := uuid.NewString()[:8]
	//nolint:errcheck // map of strings always marshals
	raw, _ := json.Marshal(map[string]any{
		"id":    id,
		"type":  "ad",
		"price": fmt.Sprintf("%d ₪", 5000+page*100),
		"images": map[string]any{
			"Image1": map[string]string{"src": "https://img.example.com/" + id + "/1.jpg"},
		},
	})
	return raw
}
