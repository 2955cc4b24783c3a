// internal/game/types.go
//
// Core type definitions for the bingo engine.
// Defines:
//   - Cell/Grid: the 5x5 card with its fixed free space at the centre.
//   - Session: the card currently in play plus its win/interaction flags.
//   - Stats: running counters across cards.
//   - Status/Event: coarse state and notifications surfaced to observers.

package game

import (
	"errors"
	"fmt"
	"time"
)

const (
	// Size is the number of rows and columns on a card.
	Size = 5
	// Center is the row and column index of the free space.
	Center = Size / 2
	// MinPoolSize is the smallest term pool that can fill a card.
	MinPoolSize = Size*Size - 1
	// FreeSpaceText labels the free space.
	FreeSpaceText = "ETERNAL VOID"
)

var (
	ErrInsufficientTerms = errors.New("not enough terms to build a card")
	ErrCellOutOfRange    = errors.New("cell out of range")
	ErrInvalidGrid       = errors.New("invalid grid")
)

// Cell is a single square on the card.
type Cell struct {
	Row           int    `json:"row"`
	Col           int    `json:"col"`
	Text          string `json:"text"`
	Icon          string `json:"icon"`
	Checked       bool   `json:"checked"`
	IsFreeSpace   bool   `json:"isFreeSpace"`
	IsWinningCell bool   `json:"isWinningCell"`
}

// Grid is a row-major 5x5 card. It is a value: assigning it copies every cell.
type Grid [Size][Size]Cell

// Validate checks the structural invariants of a grid: coordinates match
// positions, exactly one free space at the centre and it is checked, every
// other cell carries text.
func (g *Grid) Validate() error {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			cell := g[r][c]
			if cell.Row != r || cell.Col != c {
				return fmt.Errorf("%w: cell at (%d,%d) claims (%d,%d)", ErrInvalidGrid, r, c, cell.Row, cell.Col)
			}
			center := r == Center && c == Center
			if cell.IsFreeSpace != center {
				return fmt.Errorf("%w: free space flag wrong at (%d,%d)", ErrInvalidGrid, r, c)
			}
			if center && !cell.Checked {
				return fmt.Errorf("%w: free space unchecked", ErrInvalidGrid)
			}
			if !center && cell.Text == "" {
				return fmt.Errorf("%w: empty cell at (%d,%d)", ErrInvalidGrid, r, c)
			}
		}
	}
	return nil
}

// Session is the card in play.
// BingoWon flips to true on the first completed line and never reverts for
// the same card. Interacted tracks manual toggles since the card was dealt
// (cleared again when the card is won).
type Session struct {
	ID         string    `json:"id,omitempty"`
	Grid       Grid      `json:"grid"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	BingoWon   bool      `json:"bingoWon"`
	Interacted bool      `json:"interacted"`
}

// Stats are the running counters. GamesWon <= GamesPlayed <= CardsCreated.
type Stats struct {
	GamesPlayed  int `json:"gamesPlayed"`
	GamesWon     int `json:"gamesWon"`
	CardsCreated int `json:"cardsCreated"`
}

// Status is the coarse lifecycle state of the controller.
type Status string

const (
	StatusEmpty      Status = "empty"
	StatusFresh      Status = "fresh"
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
)

// EventType names a notification emitted by the controller.
type EventType string

const (
	EventWin      EventType = "win"
	EventBlackout EventType = "blackout"
	EventState    EventType = "state"
)

// Event is delivered to subscribers after an operation has fully settled.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId,omitempty"`
	Stats     Stats     `json:"stats"`
}
