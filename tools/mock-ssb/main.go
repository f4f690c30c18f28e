// Package main implements a mock Banner Student Self-Service server for
// local development. It serves canned section data from a JSON fixture so
// openseat can be exercised without touching the real registration site,
// including the session-cookie and term-selection dance the real API
// requires.
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
)

type searchResponse struct {
	Success    bool              `json:"success"`
	TotalCount int               `json:"totalCount"`
	Data       []json.RawMessage `json:"data"`
}

const sessionCookie = "JSESSIONID"

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-ssb/testdata/sections.json", "path to sections fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "sections", len(fixture.Data))

	s := newSessionStore()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /StudentRegistrationSsb/ssb/classSearch/classSearch", bootstrapHandler(logger, s))
	mux.HandleFunc("POST /StudentRegistrationSsb/ssb/term/search", termHandler(logger, s))
	mux.HandleFunc("GET /StudentRegistrationSsb/ssb/searchResults/searchResults", searchHandler(logger, s, fixture))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock SSB server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*searchResponse, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &resp, nil
}

// sessionStore tracks which mock sessions have selected which term,
// mirroring the stateful behavior of the real site: searching without a
// selected term yields an empty, unsuccessful envelope.
type sessionStore struct {
	mu    sync.Mutex
	next  int
	terms map[string]string // session id -> selected term
}

func newSessionStore() *sessionStore {
	return &sessionStore{terms: make(map[string]string)}
}

func (s *sessionStore) create() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := "mock-session-" + strconv.Itoa(s.next)
	s.terms[id] = ""
	return id
}

func (s *sessionStore) selectTerm(id, term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.terms[id]; !ok {
		return false
	}
	s.terms[id] = term
	return true
}

func (s *sessionStore) term(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terms[id]
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func bootstrapHandler(logger *slog.Logger, s *sessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		id := s.create()
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/"})
		w.Header().Set("Content-Type", "text/html")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		w.Write([]byte("<html><body>class search</body></html>"))
		logger.Info("session created", "id", id)
	}
}

func termHandler(logger *slog.Logger, s *sessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		term := r.PostFormValue("term")
		if term == "" || !s.selectTerm(cookie.Value, term) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{"fwdURL": "/StudentRegistrationSsb/ssb/classSearch/classSearch"})
		logger.Info("term selected", "session", cookie.Value, "term", term)
	}
}

func searchHandler(logger *slog.Logger, s *sessionStore, fixture *searchResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		cookie, err := r.Cookie(sessionCookie)
		if err != nil || s.term(cookie.Value) == "" {
			// No session or no term selected: the real site answers with an
			// empty unsuccessful envelope rather than an HTTP error.
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(searchResponse{Success: false, Data: []json.RawMessage{}})
			logger.Warn("search without selected term")
			return
		}

		term := r.URL.Query().Get("txt_term")
		subject := r.URL.Query().Get("txt_subjectcoursecombo")

		size := 50
		if v, convErr := strconv.Atoi(r.URL.Query().Get("pageMaxSize")); convErr == nil && v > 0 {
			size = v
		}

		data := fixture.Data
		if len(data) > size {
			data = data[:size]
		}

		resp := searchResponse{
			Success:    true,
			TotalCount: fixture.TotalCount,
			Data:       data,
		}
		if resp.Data == nil {
			resp.Data = []json.RawMessage{}
		}

		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("search",
			"session", cookie.Value,
			"term", term,
			"subject", subject,
			"returned", len(resp.Data),
		)
	}
}
