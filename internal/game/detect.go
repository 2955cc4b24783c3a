// internal/game/detect.go
//
// Win detection.
//
// Evaluate is pure and idempotent: it inspects the checked state of a grid
// and reports every completed line (5 rows, 5 columns, 2 diagonals), the
// accumulated winning-cell set, and whether the card is blacked out. The
// winning set is OR-merged with the cells already flagged as winning, so a
// cell that once won stays winning for the life of the card.
//
// Deciding what a win means for statistics is the controller's job.

package game

// LineKind distinguishes rows, columns and the two diagonals.
type LineKind string

const (
	LineRow      LineKind = "row"
	LineCol      LineKind = "col"
	LineDiagonal LineKind = "diagonal"     // (i, i)
	LineAnti     LineKind = "antidiagonal" // (i, 4-i)
)

// Line identifies one of the twelve winning lines. Index is zero for diagonals.
type Line struct {
	Kind  LineKind `json:"kind"`
	Index int      `json:"index"`
}

// Cells returns the coordinates covered by the line.
func (l Line) Cells() [Size][2]int {
	var out [Size][2]int
	for i := 0; i < Size; i++ {
		switch l.Kind {
		case LineRow:
			out[i] = [2]int{l.Index, i}
		case LineCol:
			out[i] = [2]int{i, l.Index}
		case LineDiagonal:
			out[i] = [2]int{i, i}
		case LineAnti:
			out[i] = [2]int{i, Size - 1 - i}
		}
	}
	return out
}

// AllLines lists the twelve lines in evaluation order.
func AllLines() []Line {
	lines := make([]Line, 0, 2*Size+2)
	for i := 0; i < Size; i++ {
		lines = append(lines, Line{Kind: LineRow, Index: i})
	}
	for i := 0; i < Size; i++ {
		lines = append(lines, Line{Kind: LineCol, Index: i})
	}
	return append(lines, Line{Kind: LineDiagonal}, Line{Kind: LineAnti})
}

// Result is the outcome of one evaluation.
type Result struct {
	Blackout bool
	AnyWin   bool
	Lines    []Line
	Winning  [Size][Size]bool
}

// WinningCount reports how many cells are in the winning set.
func (r Result) WinningCount() int {
	n := 0
	for _, row := range r.Winning {
		for _, w := range row {
			if w {
				n++
			}
		}
	}
	return n
}

// Evaluate inspects g without modifying it.
func Evaluate(g *Grid) Result {
	var res Result

	res.Blackout = true
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if !g[r][c].Checked {
				res.Blackout = false
			}
			res.Winning[r][c] = g[r][c].IsWinningCell
		}
	}

	for _, l := range AllLines() {
		cells := l.Cells()
		complete := true
		for _, rc := range cells {
			if !g[rc[0]][rc[1]].Checked {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		res.AnyWin = true
		res.Lines = append(res.Lines, l)
		for _, rc := range cells {
			res.Winning[rc[0]][rc[1]] = true
		}
	}
	return res
}

// applyWinning sets IsWinningCell on every cell in the winning set.
// Existing flags are never cleared.
func (g *Grid) applyWinning(w [Size][Size]bool) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if w[r][c] {
				g[r][c].IsWinningCell = true
			}
		}
	}
}
