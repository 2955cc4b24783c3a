// internal/persist/persist.go
//
// Persistence reconciler.
// Responsibilities:
//   - Encode/decode the three independent records (terms, session, stats)
//     as JSON strings in a store.Store.
//   - Discard sessions older than the freshness window.
//   - Migrate older stats records that predate cardsCreated.
//   - Reconcile startup state: resume a fresh session or count a new card.
//
// Failure policy: malformed records fall back to defaults and every read or
// write failure is logged, never returned. In-memory state stays
// authoritative for the rest of the process.

package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spooky-bingo/internal/game"
	"github.com/robalobadob/spooky-bingo/internal/store"
	"github.com/robalobadob/spooky-bingo/internal/terms"
)

// Record keys.
const (
	KeyTerms   = "spookyBingoJargonList"
	KeySession = "spookyBingoState"
	KeyStats   = "spookyBingoGameStats"
)

// FreshnessWindow is how long after its last activity a saved session
// may still be resumed.
const FreshnessWindow = 5 * time.Minute

// sessionRecord is the stored shape of a session. Timestamp is epoch millis
// of the last player activity.
type sessionRecord struct {
	ID         string    `json:"id,omitempty"`
	Grid       game.Grid `json:"grid"`
	Timestamp  *int64    `json:"timestamp"`
	CreatedAt  int64     `json:"createdAt,omitempty"`
	BingoWon   bool      `json:"bingoWon"`
	Interacted bool      `json:"interacted"`
}

// statsRecord uses pointers so missing fields can be told from zeros.
type statsRecord struct {
	GamesPlayed  *int `json:"gamesPlayed"`
	GamesWon     *int `json:"gamesWon"`
	CardsCreated *int `json:"cardsCreated"`
}

// Reconciler reads and writes game state through a Store.
// It implements game.Persister.
type Reconciler struct {
	store store.Store
	now   func() time.Time
}

// New returns a Reconciler over st. now defaults to time.Now.
func New(st store.Store, now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{store: st, now: now}
}

// State is the reconciled startup state.
type State struct {
	Terms   []terms.Term
	Session *game.Session
	Stats   game.Stats
	// Resumed is true when Session was restored rather than about to be dealt.
	Resumed bool
}

// Restore loads all three records and reconciles the counters: a resumed
// session is not counted again, otherwise the card about to be dealt is.
func (r *Reconciler) Restore(ctx context.Context, catalog []string) State {
	st := State{
		Terms:   r.LoadTerms(ctx, catalog),
		Session: r.LoadSession(ctx),
		Stats:   r.LoadStats(ctx),
	}
	if st.Session != nil {
		st.Resumed = true
		if st.Stats.CardsCreated == 0 {
			st.Stats.CardsCreated = max(1, st.Stats.GamesPlayed)
		}
	} else if len(st.Terms) >= game.MinPoolSize {
		st.Stats.CardsCreated++
	}
	log.Info().
		Int("terms", len(st.Terms)).
		Bool("resumed", st.Resumed).
		Int("gamesPlayed", st.Stats.GamesPlayed).
		Int("gamesWon", st.Stats.GamesWon).
		Int("cardsCreated", st.Stats.CardsCreated).
		Msg("restored state")
	return st
}

// LoadTerms returns the stored pool, or the catalog defaults when the record
// is absent, malformed or empty.
func (r *Reconciler) LoadTerms(ctx context.Context, catalog []string) []terms.Term {
	raw, ok := r.get(ctx, KeyTerms)
	if ok {
		var list []terms.Term
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			log.Warn().Err(err).Str("key", KeyTerms).Msg("discarding malformed record")
		} else if list = terms.Dedupe(list); len(list) > 0 {
			return list
		}
	}
	return terms.Defaults(catalog)
}

// LoadSession returns the stored session if it is well formed and within the
// freshness window. Anything else is removed from the store and nil returned.
func (r *Reconciler) LoadSession(ctx context.Context) *game.Session {
	raw, ok := r.get(ctx, KeySession)
	if !ok {
		return nil
	}
	s, err := decodeSession(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", KeySession).Msg("discarding malformed record")
		r.remove(ctx, KeySession)
		return nil
	}
	if age := r.now().Sub(s.UpdatedAt); age >= FreshnessWindow {
		log.Info().Dur("age", age).Msg("discarding stale session")
		r.remove(ctx, KeySession)
		return nil
	}
	return s
}

// LoadStats returns the stored counters, zeros when malformed, backfilling
// cardsCreated for records written before it existed.
func (r *Reconciler) LoadStats(ctx context.Context) game.Stats {
	raw, ok := r.get(ctx, KeyStats)
	if !ok {
		return game.Stats{}
	}
	st, err := decodeStats(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", KeyStats).Msg("discarding malformed record")
		return game.Stats{}
	}
	return st
}

// SaveTerms implements game.Persister.
func (r *Reconciler) SaveTerms(ctx context.Context, list []terms.Term) {
	if list == nil {
		list = []terms.Term{}
	}
	r.setJSON(ctx, KeyTerms, list)
}

// SaveSession implements game.Persister. A nil session removes the record.
func (r *Reconciler) SaveSession(ctx context.Context, s *game.Session) {
	if s == nil {
		r.remove(ctx, KeySession)
		return
	}
	ts := s.UpdatedAt.UnixMilli()
	r.setJSON(ctx, KeySession, sessionRecord{
		ID:         s.ID,
		Grid:       s.Grid,
		Timestamp:  &ts,
		CreatedAt:  s.CreatedAt.UnixMilli(),
		BingoWon:   s.BingoWon,
		Interacted: s.Interacted,
	})
}

// SaveStats implements game.Persister.
func (r *Reconciler) SaveStats(ctx context.Context, st game.Stats) {
	r.setJSON(ctx, KeyStats, st)
}

func decodeSession(raw string) (*game.Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	if rec.Timestamp == nil {
		return nil, errors.New("missing timestamp")
	}
	if err := rec.Grid.Validate(); err != nil {
		return nil, err
	}
	updated := time.UnixMilli(*rec.Timestamp)
	created := updated
	if rec.CreatedAt > 0 {
		created = time.UnixMilli(rec.CreatedAt)
	}
	return &game.Session{
		ID:         rec.ID,
		Grid:       rec.Grid,
		CreatedAt:  created,
		UpdatedAt:  updated,
		BingoWon:   rec.BingoWon,
		Interacted: rec.Interacted,
	}, nil
}

func decodeStats(raw string) (game.Stats, error) {
	var rec statsRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return game.Stats{}, err
	}
	if rec.GamesPlayed == nil || rec.GamesWon == nil {
		return game.Stats{}, errors.New("missing counters")
	}
	if *rec.GamesPlayed < 0 || *rec.GamesWon < 0 {
		return game.Stats{}, fmt.Errorf("negative counters %d/%d", *rec.GamesPlayed, *rec.GamesWon)
	}
	st := game.Stats{GamesPlayed: *rec.GamesPlayed, GamesWon: *rec.GamesWon}
	if rec.CardsCreated != nil && *rec.CardsCreated > 0 {
		st.CardsCreated = *rec.CardsCreated
	} else if st.GamesPlayed > 0 {
		st.CardsCreated = max(1, st.GamesPlayed)
	}
	return st, nil
}

func (r *Reconciler) get(ctx context.Context, key string) (string, bool) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("read failed")
		return "", false
	}
	return raw, true
}

func (r *Reconciler) setJSON(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("encode failed")
		return
	}
	if err := r.store.Set(ctx, key, string(b)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("write failed")
	}
}

func (r *Reconciler) remove(ctx context.Context, key string) {
	if err := r.store.Remove(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("remove failed")
	}
}
