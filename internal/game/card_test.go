package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/spooky-bingo/internal/terms"
)

func TestGenerateRejectsSmallPool(t *testing.T) {
	for _, n := range []int{0, 1, MinPoolSize - 1} {
		_, err := Generate(makeTerms(n), SeededRand(1))
		assert.ErrorIs(t, err, ErrInsufficientTerms, "pool of %d", n)
	}
}

func TestGenerateCardValidity(t *testing.T) {
	for _, n := range []int{MinPoolSize, MinPoolSize + 1, 60} {
		pool := makeTerms(n)
		inPool := make(map[terms.Term]bool, n)
		for _, tm := range pool {
			inPool[tm] = true
		}

		for seed := uint64(1); seed <= 25; seed++ {
			g, err := Generate(pool, SeededRand(seed))
			require.NoError(t, err)
			require.NoError(t, g.Validate())

			seen := map[string]bool{}
			free := 0
			for r := 0; r < Size; r++ {
				for c := 0; c < Size; c++ {
					cell := g[r][c]
					assert.False(t, cell.IsWinningCell)
					if cell.IsFreeSpace {
						free++
						assert.Equal(t, [2]int{Center, Center}, [2]int{r, c})
						assert.True(t, cell.Checked)
						assert.Equal(t, FreeSpaceText, cell.Text)
						assert.Empty(t, cell.Icon)
						continue
					}
					assert.False(t, cell.Checked)
					assert.True(t, inPool[terms.Term{Text: cell.Text, Icon: cell.Icon}], "cell %q not from pool", cell.Text)
					assert.False(t, seen[cell.Text], "duplicate %q", cell.Text)
					seen[cell.Text] = true
				}
			}
			assert.Equal(t, 1, free)
			assert.Len(t, seen, MinPoolSize)
		}
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	pool := makeTerms(40)
	a, err := Generate(pool, SeededRand(99))
	require.NoError(t, err)
	b, err := Generate(pool, SeededRand(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Generate(pool, SeededRand(100))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateLeavesPoolUntouched(t *testing.T) {
	pool := makeTerms(30)
	before := append([]terms.Term(nil), pool...)
	_, err := Generate(pool, SeededRand(3))
	require.NoError(t, err)
	assert.Equal(t, before, pool)
}

func TestGenerateDropsDuplicateTerms(t *testing.T) {
	// 24 entries, but "term 03" repeats "Term 03".
	pool := makeTerms(MinPoolSize - 1)
	pool = append(pool, terms.Term{Text: "term 03", Icon: "Bat"})
	_, err := Generate(pool, SeededRand(1))
	assert.ErrorIs(t, err, ErrInsufficientTerms)

	pool = append(makeTerms(MinPoolSize), makeTerms(MinPoolSize)...)
	for seed := uint64(0); seed < 20; seed++ {
		g, err := Generate(pool, SeededRand(seed))
		require.NoError(t, err)
		seen := map[string]bool{}
		for r := 0; r < Size; r++ {
			for c := 0; c < Size; c++ {
				text := g[r][c].Text
				assert.False(t, seen[text], "seed %d: %q twice", seed, text)
				seen[text] = true
			}
		}
	}
}

func TestGridValidate(t *testing.T) {
	g := testGrid(1)
	require.NoError(t, g.Validate())

	unchecked := g
	unchecked[Center][Center].Checked = false
	assert.ErrorIs(t, unchecked.Validate(), ErrInvalidGrid)

	moved := g
	moved[0][0].IsFreeSpace = true
	assert.ErrorIs(t, moved.Validate(), ErrInvalidGrid)

	var empty Grid
	assert.ErrorIs(t, empty.Validate(), ErrInvalidGrid)
}
