// internal/game/controller.go
//
// Game session state machine.
// Responsibilities:
//   - Own the term pool, the card in play and the running statistics.
//   - Apply player actions (toggle, new game, term edits, stats reset).
//   - Re-evaluate the card after every checked-state change and perform
//     each qualifying transition at most once.
//   - Persist every mutation and notify subscribers once state has settled.
//
// State transitions:
//   empty → fresh         a card is dealt (pool reaches 24, new game).
//   fresh → in_progress   the player toggles a non-free cell.
//   in_progress → won     first completed line on this card; gamesWon and
//                         gamesPlayed each +1, interacted cleared, "win" fired.
//   blackout              orthogonal flag; fired once when all 25 are checked.
//   * → fresh             new game, pool change or dismissal with new game.
//
// The controller is not safe for concurrent use. Callers serialise access
// (the HTTP adapter holds one mutex around every call).

package game

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spooky-bingo/internal/terms"
)

// DefaultDismissDelay matches the win notification's exit animation.
const DefaultDismissDelay = 500 * time.Millisecond

// Persister receives a snapshot after each mutation. Implementations handle
// and log their own failures; in-memory state stays authoritative.
type Persister interface {
	SaveTerms(ctx context.Context, list []terms.Term)
	// SaveSession stores s, or removes the stored session when s is nil.
	SaveSession(ctx context.Context, s *Session)
	SaveStats(ctx context.Context, st Stats)
}

// Options configures a Controller.
type Options struct {
	Pool *terms.Pool
	// Session is a restored card to resume; nil deals a fresh one.
	Session *Session
	// Stats are the reconciled counters. Dealing the startup card does not
	// count it again; the reconciler already did.
	Stats        Stats
	Rand         *rand.Rand
	Now          func() time.Time
	Persister    Persister
	Scheduler    Scheduler
	DismissDelay time.Duration
}

// Controller drives one player's bingo game.
type Controller struct {
	pool      *terms.Pool
	session   *Session
	stats     Stats
	blackout  bool
	rng       *rand.Rand
	now       func() time.Time
	persister Persister
	sched     Scheduler

	dismissDelay time.Duration
	dismissing   bool
	dismissGen   uint64
	dismissTimer Timer

	listeners []func(Event)
	pending   []Event
}

// New builds a controller, resuming opts.Session when present.
func New(ctx context.Context, opts Options) *Controller {
	c := &Controller{
		pool:         opts.Pool,
		stats:        opts.Stats,
		rng:          opts.Rand,
		now:          opts.Now,
		persister:    opts.Persister,
		sched:        opts.Scheduler,
		dismissDelay: opts.DismissDelay,
	}
	if c.rng == nil {
		c.rng = NewRand()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.persister == nil {
		c.persister = nopPersister{}
	}
	if c.sched == nil {
		c.sched = ClockScheduler{}
	}
	if c.dismissDelay <= 0 {
		c.dismissDelay = DefaultDismissDelay
	}
	if c.pool == nil {
		c.pool = terms.NewPool(nil, nil, c.rng)
	}

	if opts.Session != nil {
		s := *opts.Session
		c.session = &s
		// A restored blackout was already announced before the restart.
		c.blackout = Evaluate(&s.Grid).Blackout
		c.settle()
		log.Info().Str("session", s.ID).Bool("bingoWon", s.BingoWon).Msg("resumed card")
	} else {
		c.deal(false)
	}
	c.saveSession(ctx)
	c.persister.SaveStats(ctx, c.stats)
	return c
}

// Subscribe registers fn for every event emitted after this call. Events
// raised while New settled a restored card (a win found on resume) are held
// and delivered to the first subscriber.
func (c *Controller) Subscribe(fn func(Event)) {
	c.listeners = append(c.listeners, fn)
	if len(c.pending) > 0 {
		c.flush()
	}
}

// Status reports the coarse lifecycle state.
func (c *Controller) Status() Status {
	switch s := c.session; {
	case s == nil:
		return StatusEmpty
	case s.BingoWon:
		return StatusWon
	case s.Interacted:
		return StatusInProgress
	default:
		return StatusFresh
	}
}

// Session returns a copy of the card in play, or nil when empty.
func (c *Controller) Session() *Session {
	if c.session == nil {
		return nil
	}
	cp := *c.session
	return &cp
}

// Stats returns the current counters.
func (c *Controller) Stats() Stats { return c.stats }

// Blackout reports whether the current card has been fully checked at some point.
func (c *Controller) Blackout() bool { return c.blackout }

// Terms returns a copy of the term pool.
func (c *Controller) Terms() []terms.Term { return c.pool.Terms() }

// WinEvaluationSuppressed reports whether a dismissal is in flight. While
// it is, a first win is not recorded; it is picked up when the gate clears.
func (c *Controller) WinEvaluationSuppressed() bool { return c.dismissing }

// ToggleCell flips the checked state of a non-free cell and re-evaluates the
// card. It is a no-op with no card in play or on the free space.
func (c *Controller) ToggleCell(ctx context.Context, row, col int) error {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return ErrCellOutOfRange
	}
	s := c.session
	if s == nil || s.Grid[row][col].IsFreeSpace {
		return nil
	}

	s.Grid[row][col].Checked = !s.Grid[row][col].Checked
	s.Interacted = true
	s.UpdatedAt = c.now()

	statsChanged := c.settle()
	c.saveSession(ctx)
	if statsChanged {
		c.persister.SaveStats(ctx, c.stats)
	}
	c.emit(EventState)
	c.flush()
	return nil
}

// NewGame replaces the card. An interacted card that was never won counts as
// a played game; every dealt card counts as created.
func (c *Controller) NewGame(ctx context.Context) {
	c.cancelDismiss()
	c.resetCard()
	c.saveSession(ctx)
	c.persister.SaveStats(ctx, c.stats)
	c.emit(EventState)
	c.flush()
}

// DismissWin begins closing the win notification. The gate goes up now and
// the completion runs after the dismissal delay: it deals a new card when
// newGame is set, lowers the gate, then re-evaluates the card. A second call
// before the first completes supersedes it.
func (c *Controller) DismissWin(ctx context.Context, newGame bool) {
	if c.dismissTimer != nil {
		c.dismissTimer.Stop()
	}
	c.dismissing = true
	c.dismissGen++
	gen := c.dismissGen
	c.dismissTimer = c.sched.AfterFunc(c.dismissDelay, func() {
		c.completeDismiss(context.WithoutCancel(ctx), gen, newGame)
	})
}

func (c *Controller) completeDismiss(ctx context.Context, gen uint64, newGame bool) {
	// A superseded or cancelled dismissal whose timer could not be stopped.
	if gen != c.dismissGen || !c.dismissing {
		return
	}
	c.dismissTimer = nil
	if newGame {
		c.resetCard()
	}
	c.dismissing = false
	c.settle()
	c.saveSession(ctx)
	c.persister.SaveStats(ctx, c.stats)
	c.emit(EventState)
	c.flush()
}

func (c *Controller) cancelDismiss() {
	if c.dismissTimer != nil {
		c.dismissTimer.Stop()
		c.dismissTimer = nil
	}
	c.dismissGen++
	c.dismissing = false
}

// AddTerm adds a term to the pool and redeals on change.
func (c *Controller) AddTerm(ctx context.Context, text string) bool {
	return c.poolChanged(ctx, c.pool.Add(text))
}

// RemoveTerm removes the term with exactly this text and redeals on change.
func (c *Controller) RemoveTerm(ctx context.Context, text string) bool {
	return c.poolChanged(ctx, c.pool.Remove(text))
}

// ResetTermsToDefault restores the catalog defaults and redeals.
func (c *Controller) ResetTermsToDefault(ctx context.Context) bool {
	return c.poolChanged(ctx, c.pool.ResetToDefaults())
}

// ClearTerms empties the pool, leaving no card in play.
func (c *Controller) ClearTerms(ctx context.Context) bool {
	return c.poolChanged(ctx, c.pool.Clear())
}

func (c *Controller) poolChanged(ctx context.Context, changed bool) bool {
	if !changed {
		return false
	}
	c.persister.SaveTerms(ctx, c.pool.Terms())
	c.deal(true)
	c.saveSession(ctx)
	c.persister.SaveStats(ctx, c.stats)
	c.emit(EventState)
	c.flush()
	return true
}

// ClearStatistics zeroes every counter. A card in play stays counted as
// created, so winning it afterwards keeps gamesPlayed within cardsCreated.
func (c *Controller) ClearStatistics(ctx context.Context) {
	c.stats = Stats{}
	if c.session != nil {
		c.stats.CardsCreated = 1
	}
	c.persister.SaveStats(ctx, c.stats)
	c.emit(EventState)
	c.flush()
}

// resetCard counts an abandoned game and deals a replacement.
func (c *Controller) resetCard() {
	if s := c.session; s != nil && s.Interacted && !s.BingoWon {
		c.stats.GamesPlayed++
	}
	c.deal(true)
}

// deal replaces the session wholesale with a fresh card, or clears it when
// the pool is too small. Reports whether a card was dealt.
func (c *Controller) deal(count bool) bool {
	c.blackout = false
	grid, err := Generate(c.pool.Terms(), c.rng)
	if err != nil {
		c.session = nil
		log.Info().Int("terms", c.pool.Len()).Int("need", MinPoolSize).Msg("not enough terms for a card")
		return false
	}
	now := c.now()
	c.session = &Session{
		ID:        uuid.NewString(),
		Grid:      grid,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if count {
		c.stats.CardsCreated++
	}
	log.Debug().Str("session", c.session.ID).Msg("dealt card")
	return true
}

// settle evaluates the card once and applies the resulting transitions.
// Reports whether statistics changed.
func (c *Controller) settle() bool {
	s := c.session
	if s == nil {
		return false
	}
	res := Evaluate(&s.Grid)
	// An unwon card behind the dismissal gate is not highlighted yet; the
	// line is picked up again when the gate clears, if it is still complete.
	if !c.dismissing || s.BingoWon {
		s.Grid.applyWinning(res.Winning)
	}

	statsChanged := false
	if res.AnyWin && !s.BingoWon && !c.dismissing {
		s.BingoWon = true
		s.Interacted = false
		c.stats.GamesWon++
		c.stats.GamesPlayed++
		statsChanged = true
		c.emit(EventWin)
		log.Info().Str("session", s.ID).Int("lines", len(res.Lines)).Msg("bingo")
	}
	if res.Blackout && !c.blackout {
		c.blackout = true
		c.emit(EventBlackout)
		log.Info().Str("session", s.ID).Msg("blackout")
	}
	return statsChanged
}

func (c *Controller) saveSession(ctx context.Context) {
	c.persister.SaveSession(ctx, c.Session())
}

func (c *Controller) emit(t EventType) {
	e := Event{Type: t, Stats: c.stats}
	if c.session != nil {
		e.SessionID = c.session.ID
	}
	c.pending = append(c.pending, e)
}

// flush delivers queued events. Listeners may call back into the controller;
// state is settled and persisted by the time they run.
func (c *Controller) flush() {
	events := c.pending
	c.pending = nil
	for _, e := range events {
		for _, fn := range c.listeners {
			fn(e)
		}
	}
}

type nopPersister struct{}

func (nopPersister) SaveTerms(context.Context, []terms.Term) {}
func (nopPersister) SaveSession(context.Context, *Session)   {}
func (nopPersister) SaveStats(context.Context, Stats)        {}
