// internal/httpserver/routes_caller.go
//
// HTTP routes for caller mode, mounted under /api/caller:
//   - GET  /api/caller         → current term, called list, remaining count
//   - POST /api/caller/next    → reveal the next term
//   - POST /api/caller/restart → reshuffle from the current pool
//
// A restart with {"daily":true} seeds the shuffle from today's date and
// CALLER_SALT, so the same host gets the same call order all day.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/spooky-bingo/internal/caller"
	"github.com/robalobadob/spooky-bingo/internal/game"
	"github.com/robalobadob/spooky-bingo/internal/terms"
)

// callerRes is the caller view.
type callerRes struct {
	Current   *terms.Term  `json:"current,omitempty"`
	Called    []terms.Term `json:"called"`
	Remaining int          `json:"remaining"`
	Finished  bool         `json:"finished"`
	Date      string       `json:"date,omitempty"`
}

type restartReq struct {
	Daily bool `json:"daily"`
}

// mountCaller registers all /caller routes on r.
func (s *Server) mountCaller(r chi.Router) {
	r.Route("/caller", func(r chi.Router) {
		r.Get("/", s.handleCallerState)
		r.Post("/next", s.handleCallerNext)
		r.Post("/restart", s.handleCallerRestart)
	})
}

// callerView builds a callerRes. Caller must hold s.mu.
func (s *Server) callerView() callerRes {
	res := callerRes{
		Called:    s.caller.Called(),
		Remaining: s.caller.Remaining(),
		Finished:  s.caller.Finished(),
	}
	if t, ok := s.caller.Current(); ok {
		res.Current = &t
	}
	return res
}

func (s *Server) handleCallerState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = json.NewEncoder(w).Encode(s.callerView())
}

// handleCallerNext reveals one term; past the end it just reports finished.
func (s *Server) handleCallerNext(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caller.Next()
	_ = json.NewEncoder(w).Encode(s.callerView())
}

func (s *Server) handleCallerRestart(w http.ResponseWriter, r *http.Request) {
	var req restartReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	defer s.mu.Unlock()
	rng, date := s.rng, ""
	if req.Daily {
		now := s.now()
		rng = game.SeededRand(caller.DailySeed(now, s.salt))
		date = caller.DateKey(now)
	}
	s.caller.Restart(s.ctl.Terms(), rng)
	res := s.callerView()
	res.Date = date
	_ = json.NewEncoder(w).Encode(res)
}
