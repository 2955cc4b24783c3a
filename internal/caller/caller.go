// internal/caller/caller.go
//
// Caller mode: reveals a shuffled copy of the term pool one term at a time,
// the way a bingo host calls items for players holding cards.

package caller

import (
	"math/rand/v2"

	"github.com/robalobadob/spooky-bingo/internal/terms"
)

// Caller walks one shuffled order of terms. It is not safe for concurrent use.
type Caller struct {
	order  []terms.Term
	called int
}

// New shuffles a snapshot of pool. Nothing is called yet.
func New(pool []terms.Term, rng *rand.Rand) *Caller {
	c := &Caller{}
	c.Restart(pool, rng)
	return c
}

// Restart reshuffles from a fresh pool snapshot and clears the called list.
func (c *Caller) Restart(pool []terms.Term, rng *rand.Rand) {
	order := append([]terms.Term(nil), pool...)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	c.order = order
	c.called = 0
}

// Next reveals the next term. It returns false, changing nothing, once every
// term has been called.
func (c *Caller) Next() (terms.Term, bool) {
	if c.Finished() {
		return terms.Term{}, false
	}
	c.called++
	return c.order[c.called-1], true
}

// Current is the most recently revealed term.
func (c *Caller) Current() (terms.Term, bool) {
	if c.called == 0 {
		return terms.Term{}, false
	}
	return c.order[c.called-1], true
}

// Called returns the revealed terms in call order.
func (c *Caller) Called() []terms.Term {
	return append([]terms.Term{}, c.order[:c.called]...)
}

// Remaining is the number of terms not yet called.
func (c *Caller) Remaining() int { return len(c.order) - c.called }

// Finished reports whether the last term has been revealed.
func (c *Caller) Finished() bool { return c.called >= len(c.order) }
