// internal/game/card.go
//
// Card generation.
//
// Generate shuffles a copy of the pool (Fisher-Yates via rand.Shuffle) and
// walks the 24 non-centre positions in row-major order, taking one shuffled
// term each. Pools larger than 24 use the first 24 of the permutation, so no
// term repeats within a card. The only non-determinism is the rng.

package game

import (
	"math/rand/v2"

	"github.com/robalobadob/spooky-bingo/internal/terms"
)

// Generate builds a fresh card from pool, or returns ErrInsufficientTerms
// when the pool holds fewer than MinPoolSize distinct terms. Duplicate and
// empty entries are dropped first, so no text appears twice on a card.
func Generate(pool []terms.Term, rng *rand.Rand) (Grid, error) {
	var g Grid
	shuffled := terms.Dedupe(pool)
	if len(shuffled) < MinPoolSize {
		return g, ErrInsufficientTerms
	}

	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	next := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if r == Center && c == Center {
				g[r][c] = Cell{Row: r, Col: c, Text: FreeSpaceText, Checked: true, IsFreeSpace: true}
				continue
			}
			t := shuffled[next]
			next++
			g[r][c] = Cell{Row: r, Col: c, Text: t.Text, Icon: t.Icon}
		}
	}
	return g, nil
}
