package caller

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/spooky-bingo/internal/terms"
)

func pool(n int) []terms.Term {
	out := make([]terms.Term, n)
	for i := range out {
		s := fmt.Sprintf("Term %02d", i)
		out[i] = terms.Term{Text: s, Icon: s}
	}
	return out
}

func seeded(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed)) }

func TestCallerCallsEveryTermOnce(t *testing.T) {
	p := pool(10)
	c := New(p, seeded(1))

	_, ok := c.Current()
	assert.False(t, ok)
	assert.Empty(t, c.Called())
	assert.Equal(t, 10, c.Remaining())

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		tm, ok := c.Next()
		require.True(t, ok)
		assert.False(t, seen[tm.Text], "called twice: %s", tm.Text)
		seen[tm.Text] = true

		cur, ok := c.Current()
		require.True(t, ok)
		assert.Equal(t, tm, cur)
		assert.Equal(t, 9-i, c.Remaining())
	}
	assert.Len(t, seen, 10)
	assert.True(t, c.Finished())
	assert.Len(t, c.Called(), 10)

	_, ok = c.Next()
	assert.False(t, ok)
	assert.Len(t, c.Called(), 10)
}

func TestCallerDoesNotAliasPool(t *testing.T) {
	p := pool(5)
	want := pool(5)
	New(p, seeded(3))
	assert.Equal(t, want, p)
}

func TestCallerRestart(t *testing.T) {
	c := New(pool(5), seeded(1))
	c.Next()
	c.Next()

	c.Restart(pool(8), seeded(2))
	assert.Empty(t, c.Called())
	assert.Equal(t, 8, c.Remaining())
	assert.False(t, c.Finished())
}

func TestCallerSameSeedSameOrder(t *testing.T) {
	a := New(pool(24), seeded(42))
	b := New(pool(24), seeded(42))
	for !a.Finished() {
		x, _ := a.Next()
		y, _ := b.Next()
		assert.Equal(t, x, y)
	}
}

func TestCallerEmptyPool(t *testing.T) {
	c := New(nil, seeded(1))
	assert.True(t, c.Finished())
	assert.NotNil(t, c.Called())
	_, ok := c.Next()
	assert.False(t, ok)
}

func TestDailySeed(t *testing.T) {
	morning := time.Date(2026, 10, 31, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-10-31", DateKey(morning))
	assert.Equal(t, DailySeed(morning, "salt"), DailySeed(evening, "salt"))
	assert.NotEqual(t, DailySeed(morning, "salt"), DailySeed(nextDay, "salt"))
	assert.NotEqual(t, DailySeed(morning, "salt"), DailySeed(morning, "pepper"))
}
