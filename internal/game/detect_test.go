package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateFreshCard(t *testing.T) {
	g := testGrid(1)
	res := Evaluate(&g)
	assert.False(t, res.AnyWin)
	assert.False(t, res.Blackout)
	assert.Empty(t, res.Lines)
	assert.Zero(t, res.WinningCount())
}

func TestEvaluateEachLine(t *testing.T) {
	for _, l := range AllLines() {
		t.Run(string(l.Kind), func(t *testing.T) {
			g := testGrid(2)
			cells := l.Cells()
			check(&g, cells[:]...)

			res := Evaluate(&g)
			assert.True(t, res.AnyWin)
			assert.False(t, res.Blackout)
			assert.Equal(t, []Line{l}, res.Lines)
			assert.Equal(t, Size, res.WinningCount())
			for _, rc := range cells {
				assert.True(t, res.Winning[rc[0]][rc[1]])
			}
		})
	}
}

func TestEvaluateIncompleteLine(t *testing.T) {
	g := testGrid(3)
	check(&g, [2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})
	res := Evaluate(&g)
	assert.False(t, res.AnyWin)
}

func TestEvaluateBlackout(t *testing.T) {
	g := testGrid(4)
	for r := 0; r < Size; r++ {
		check(&g, row(r)...)
	}
	res := Evaluate(&g)
	assert.True(t, res.Blackout)
	assert.True(t, res.AnyWin)
	assert.Len(t, res.Lines, 12)
	assert.Equal(t, Size*Size, res.WinningCount())
}

func TestEvaluateKeepsPriorWinningCells(t *testing.T) {
	g := testGrid(5)
	g[0][0].IsWinningCell = true
	check(&g, row(4)...)

	res := Evaluate(&g)
	assert.True(t, res.Winning[0][0])
	assert.Equal(t, Size+1, res.WinningCount())
}

func TestEvaluateIsPure(t *testing.T) {
	g := testGrid(6)
	check(&g, row(1)...)
	before := g
	Evaluate(&g)
	Evaluate(&g)
	assert.Equal(t, before, g)
}

func TestApplyWinningNeverClears(t *testing.T) {
	g := testGrid(7)
	g[3][3].IsWinningCell = true
	var w [Size][Size]bool
	w[1][1] = true
	g.applyWinning(w)
	assert.True(t, g[3][3].IsWinningCell)
	assert.True(t, g[1][1].IsWinningCell)
}
