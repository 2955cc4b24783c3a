// internal/httpserver/server.go
//
// HTTP wiring for the local bingo server.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints under /api: state, cell toggles, new game, win dismissal.
//   - Term pool and statistics endpoints under /api.
//   - Caller endpoints (routes_caller.go) and the /ws notification stream (ws.go).
//
// Notes:
//   - The controller is single-threaded. Every handler takes the server lock
//     for the whole call, so each action runs to completion before the next.
//     Deferred completions scheduled by the controller must use the same lock.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/spooky-bingo/internal/caller"
	"github.com/robalobadob/spooky-bingo/internal/game"
)

// Options configures a Server.
type Options struct {
	Controller *game.Controller
	// Lock serialises controller access. Share it with the controller's
	// ClockScheduler so deferred completions are serialised too.
	Lock       sync.Locker
	Rand       *rand.Rand
	CallerSalt string
	Now        func() time.Time
}

// Server bundles the router, the controller and the caller.
type Server struct {
	r      *chi.Mux
	mu     sync.Locker
	ctl    *game.Controller
	caller *caller.Caller
	rng    *rand.Rand
	salt   string
	now    func() time.Time
	hub    *hub
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	s := &Server{
		r:    chi.NewRouter(),
		mu:   opts.Lock,
		ctl:  opts.Controller,
		rng:  opts.Rand,
		salt: opts.CallerSalt,
		now:  opts.Now,
		hub:  newHub(),
	}
	if s.mu == nil {
		s.mu = &sync.Mutex{}
	}
	if s.rng == nil {
		s.rng = game.NewRand()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.caller = caller.New(s.ctl.Terms(), s.rng)
	s.ctl.Subscribe(s.hub.publish)

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(corsFromEnv)     // credentials-friendly CORS

	// --- notifications (long-lived, no handler timeout) ---
	s.r.Get("/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"spooky-bingo","endpoints":["/health","/api/state","/api/terms","/api/caller","/ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Post("/cells/{row}/{col}/toggle", s.handleToggle)
			r.Post("/game/new", s.handleNewGame)
			r.Post("/game/dismiss", s.handleDismiss)

			r.Get("/terms", s.handleListTerms)
			r.Post("/terms", s.handleAddTerm)
			r.Post("/terms/reset", s.handleResetTerms)
			r.Delete("/terms", s.handleClearTerms)
			r.Delete("/terms/{text}", s.handleRemoveTerm)

			r.Delete("/stats", s.handleClearStats)

			s.mountCaller(r)
		})

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
		})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// ServeHTTP lets the server be used directly as an http.Handler (tests).
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := clientOrigin()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientOrigin() string {
	if o := os.Getenv("CLIENT_ORIGIN"); o != "" {
		return o
	}
	return "http://localhost:5173"
}

// ------------------------------ GAME ---------------------------------------

// stateRes is the full view a client renders from.
type stateRes struct {
	Status     game.Status   `json:"status"`
	Session    *game.Session `json:"session,omitempty"`
	Blackout   bool          `json:"blackout"`
	Dismissing bool          `json:"dismissing"`
	Stats      game.Stats    `json:"stats"`
	TermCount  int           `json:"termCount"`
	MinTerms   int           `json:"minTerms"`
	Message    string        `json:"message,omitempty"`
}

// snapshot builds a stateRes. Caller must hold s.mu.
func (s *Server) snapshot() stateRes {
	res := stateRes{
		Status:     s.ctl.Status(),
		Session:    s.ctl.Session(),
		Blackout:   s.ctl.Blackout(),
		Dismissing: s.ctl.WinEvaluationSuppressed(),
		Stats:      s.ctl.Stats(),
		TermCount:  len(s.ctl.Terms()),
		MinTerms:   game.MinPoolSize,
	}
	if res.Status == game.StatusEmpty {
		res.Message = fmt.Sprintf("Add at least %d terms to build a card (you have %d).", game.MinPoolSize, res.TermCount)
	}
	return res
}

func (s *Server) writeState(w http.ResponseWriter) {
	_ = json.NewEncoder(w).Encode(s.snapshot())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeState(w)
}

// handleToggle flips one cell. Coordinates outside 0..4 are rejected.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	row, errR := strconv.Atoi(chi.URLParam(r, "row"))
	col, errC := strconv.Atoi(chi.URLParam(r, "col"))
	if errR != nil || errC != nil {
		http.Error(w, `{"error":"bad_cell"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctl.ToggleCell(r.Context(), row, col); err != nil {
		if errors.Is(err, game.ErrCellOutOfRange) {
			http.Error(w, `{"error":"bad_cell"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error":"toggle_failed"}`, http.StatusInternalServerError)
		return
	}
	s.writeState(w)
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctl.NewGame(r.Context())
	s.writeState(w)
}

// dismissReq is the payload for POST /api/game/dismiss.
type dismissReq struct {
	NewGame bool `json:"newGame"`
}

// handleDismiss begins closing the win notification; the completion lands
// after the dismissal delay and is announced on /ws.
func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	var req dismissReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctl.DismissWin(r.Context(), req.NewGame)
	w.WriteHeader(http.StatusAccepted)
	s.writeState(w)
}

// ------------------------------ TERMS --------------------------------------

type termReq struct {
	Text string `json:"text"`
}

func (s *Server) handleListTerms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = json.NewEncoder(w).Encode(s.ctl.Terms())
}

// handleAddTerm adds a term. Empty and duplicate text is accepted and ignored.
func (s *Server) handleAddTerm(w http.ResponseWriter, r *http.Request) {
	var req termReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	added := s.ctl.AddTerm(r.Context(), req.Text)
	_ = json.NewEncoder(w).Encode(map[string]any{"added": added, "terms": s.ctl.Terms()})
}

// handleRemoveTerm removes one term by exact text. chi matches on RawPath
// when the request carries one (e.g. an escaped "/"), and only then is the
// parameter still encoded.
func (s *Server) handleRemoveTerm(w http.ResponseWriter, r *http.Request) {
	text := chi.URLParam(r, "text")
	if r.URL.RawPath != "" {
		var err error
		if text, err = url.PathUnescape(text); err != nil {
			http.Error(w, `{"error":"bad_term"}`, http.StatusBadRequest)
			return
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.ctl.RemoveTerm(r.Context(), text)
	_ = json.NewEncoder(w).Encode(map[string]any{"removed": removed, "terms": s.ctl.Terms()})
}

func (s *Server) handleResetTerms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctl.ResetTermsToDefault(r.Context())
	_ = json.NewEncoder(w).Encode(s.ctl.Terms())
}

func (s *Server) handleClearTerms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctl.ClearTerms(r.Context())
	_ = json.NewEncoder(w).Encode(s.ctl.Terms())
}

// ------------------------------ STATS --------------------------------------

func (s *Server) handleClearStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctl.ClearStatistics(r.Context())
	_ = json.NewEncoder(w).Encode(s.ctl.Stats())
}
