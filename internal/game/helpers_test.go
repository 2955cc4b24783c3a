package game

import (
	"context"
	"fmt"
	"time"

	"github.com/robalobadob/spooky-bingo/internal/terms"
)

func makeTerms(n int) []terms.Term {
	out := make([]terms.Term, n)
	for i := range out {
		s := fmt.Sprintf("Term %02d", i)
		out[i] = terms.Term{Text: s, Icon: s}
	}
	return out
}

func testGrid(seed uint64) Grid {
	g, err := Generate(makeTerms(MinPoolSize), SeededRand(seed))
	if err != nil {
		panic(err)
	}
	return g
}

func check(g *Grid, cells ...[2]int) {
	for _, rc := range cells {
		g[rc[0]][rc[1]].Checked = true
	}
}

// manualScheduler queues callbacks until fire is called.
type manualScheduler struct {
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs every pending, unstopped callback.
func (s *manualScheduler) fire() {
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			t.f()
		}
	}
}

// recorder is a Persister that keeps every snapshot.
type recorder struct {
	terms    [][]terms.Term
	sessions []*Session
	stats    []Stats
}

func (r *recorder) SaveTerms(_ context.Context, list []terms.Term) { r.terms = append(r.terms, list) }
func (r *recorder) SaveSession(_ context.Context, s *Session)      { r.sessions = append(r.sessions, s) }
func (r *recorder) SaveStats(_ context.Context, st Stats)          { r.stats = append(r.stats, st) }

func (r *recorder) lastSession() *Session { return r.sessions[len(r.sessions)-1] }
func (r *recorder) lastStats() Stats      { return r.stats[len(r.stats)-1] }

type fixture struct {
	ctl    *Controller
	sched  *manualScheduler
	rec    *recorder
	events []Event
	now    time.Time
}

func newFixture(poolSize int) *fixture {
	f := &fixture{
		sched: &manualScheduler{},
		rec:   &recorder{},
		now:   time.Date(2026, 10, 31, 20, 0, 0, 0, time.UTC),
	}
	rng := SeededRand(7)
	f.ctl = New(context.Background(), Options{
		Pool:      terms.NewPool(makeTerms(poolSize), []string{"Ghost", "Bat"}, rng),
		Stats:     Stats{CardsCreated: 1},
		Rand:      rng,
		Now:       func() time.Time { return f.now },
		Persister: f.rec,
		Scheduler: f.sched,
	})
	f.ctl.Subscribe(func(e Event) { f.events = append(f.events, e) })
	return f
}

func (f *fixture) toggle(cells ...[2]int) {
	for _, rc := range cells {
		if err := f.ctl.ToggleCell(context.Background(), rc[0], rc[1]); err != nil {
			panic(err)
		}
	}
}

func (f *fixture) count(t EventType) int {
	n := 0
	for _, e := range f.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func row(i int) [][2]int {
	var out [][2]int
	for c := 0; c < Size; c++ {
		out = append(out, [2]int{i, c})
	}
	return out
}
