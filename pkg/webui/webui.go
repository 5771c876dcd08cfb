// Package webui serves the local review UI: embedded static assets, the
// report and model selection APIs, and the advisor chat socket.
//
// The env script asset is rewritten on startup and served at /env.js;
// index.html loads it before the app script so the environment global
// exists by the time application code runs.
package webui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/seojunpark/axlint/pkg/advisor"
	"github.com/seojunpark/axlint/pkg/audit"
	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/credential"
	"github.com/seojunpark/axlint/pkg/envasset"
	"github.com/seojunpark/axlint/pkg/logging"
	"github.com/seojunpark/axlint/pkg/selection"
)

//go:embed assets/index.html assets/app.js
var assets embed.FS

// Options configures the server.
type Options struct {
	// Addr is the listen address, host:port.
	Addr string
	// App names the audited project, used to seed chat sessions.
	App string
	// EnvPath is where the env script asset is written and served from.
	EnvPath string
	// Selector gates and persists model choices.
	Selector *selection.Selector
	// Creds answers provider availability.
	Creds *credential.Resolver
	// Log may be nil to discard.
	Log *slog.Logger
}

// Server is the local web UI. Create with New, start with Run.
type Server struct {
	addr     string
	app      string
	envPath  string
	selector *selection.Selector
	creds    *credential.Resolver
	log      *slog.Logger

	mu     sync.RWMutex
	report *audit.Report
	adv    *advisor.Advisor
}

// New creates a Server from options.
func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}

	return &Server{
		addr:     opts.Addr,
		app:      opts.App,
		envPath:  opts.EnvPath,
		selector: opts.Selector,
		creds:    opts.Creds,
		log:      log,
	}
}

// SetReport swaps the report served by /api/report. Safe to call while
// the server runs; watch mode updates it after every rescan.
func (s *Server) SetReport(r *audit.Report) {
	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
}

// SetAdvisor swaps the advisor behind the chat socket. Wire this to
// selection.Selector.OnSelect so model changes take effect immediately.
func (s *Server) SetAdvisor(a *advisor.Advisor) {
	s.mu.Lock()
	s.adv = a
	s.mu.Unlock()
}

// Run writes the env asset, then serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := envasset.WriteFile(s.envPath, nil); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("web ui shutdown", "error", err)
		}
	}()

	s.log.Info("web ui listening", "addr", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("webui: serve: %w", err)
	}

	return nil
}

// Handler builds the route table. Exposed separately so tests can drive
// it through httptest.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/env.js", s.handleEnv).Methods("GET")
	r.HandleFunc("/app.js", s.handleAsset("assets/app.js", "application/javascript; charset=utf-8")).Methods("GET")
	r.HandleFunc("/api/report", s.handleReport).Methods("GET")
	r.HandleFunc("/api/providers", s.handleProviders).Methods("GET")
	r.HandleFunc("/api/models", s.handleModels).Methods("GET")
	r.HandleFunc("/api/select", s.handleSelect).Methods("POST")
	r.HandleFunc("/api/chat", s.handleChat).Methods("GET")
	r.HandleFunc("/", s.handleAsset("assets/index.html", "text/html; charset=utf-8")).Methods("GET")

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(s.log.Handler(), slog.LevelError)))

	return recovery(r)
}

// handleEnv serves the generated env script. Never cached: key variables
// may differ between runs.
func (s *Server) handleEnv(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, s.envPath)
}

func (s *Server) handleAsset(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := assets.ReadFile(name)
		if err != nil {
			http.Error(w, "asset not found", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	rep := s.report
	s.mu.RUnlock()

	if rep == nil {
		http.Error(w, "no report yet", http.StatusNotFound)
		return
	}

	s.writeJSON(w, http.StatusOK, rep)
}

type providerStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	available := s.creds.Available()

	out := make([]providerStatus, 0, len(available))
	for _, p := range credential.Providers() {
		out = append(out, providerStatus{Name: p.String(), Configured: available[p]})
	}

	s.writeJSON(w, http.StatusOK, out)
}

type modelEntry struct {
	catalog.Model
	Selectable bool `json:"selectable"`
	Selected   bool `json:"selected"`
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	current := s.selector.Current()

	models := catalog.Models()
	out := struct {
		Models  []modelEntry `json:"models"`
		Current string       `json:"current"`
	}{
		Models:  make([]modelEntry, 0, len(models)),
		Current: current.ID,
	}

	// Unavailable models are listed with selectable=false, never omitted.
	for _, m := range models {
		out.Models = append(out.Models, modelEntry{
			Model:      m,
			Selectable: s.selector.Selectable(m),
			Selected:   m.ID == current.ID,
		})
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sel, err := s.selector.Select(req.Model)

	var ncErr *selection.NoCredentialError
	switch {
	case errors.As(err, &ncErr):
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": ncErr.Error()})
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.writeJSON(w, http.StatusOK, sel)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *Server) currentAdvisor() *advisor.Advisor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.adv == nil {
		return advisor.New(nil, s.log)
	}
	return s.adv
}
