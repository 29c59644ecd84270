package domain

import (
	"errors"
	"sort"
)

// Phase is the stage of a game, derived from the board rather than stored.
type Phase uint8

const (
	PhaseOpening Phase = iota
	PhaseMidGame
	PhaseVisibleTie
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseMidGame:
		return "mid-game"
	case PhaseVisibleTie:
		return "visible-tie"
	default:
		return "resolved"
	}
}

// Options configures a new game.
type Options struct {
	Strategy Strategy
	// RevealOnTie shows the outer ring when the game ends in a tie with no
	// selectable cell.
	RevealOnTie bool
}

// Game holds the current state of a puzzle.
type Game struct {
	Board       Grid
	Selectable  []int
	Revealed    bool
	Winner      Cell
	Over        bool
	AwaitingCPU bool
	Moves       int
	Strategy    Strategy
	RevealOnTie bool
}

// Errors returned by domain operations.
var (
	ErrOutOfBounds   = errors.New("out of bounds")
	ErrOccupied      = errors.New("cell occupied")
	ErrGameOver      = errors.New("game over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotSelectable = errors.New("nothing happens")
)

// New returns a new game with the computer's seed mark in the centre and
// the human to move.
func New(opts Options) Game {
	g := Game{Strategy: opts.Strategy, RevealOnTie: opts.RevealOnTie}
	g.Board[Center] = CPU
	g.Moves = 1
	return g
}

// Phase derives the current phase from the board.
func (g Game) Phase() Phase {
	switch {
	case g.Over:
		return PhaseResolved
	case InnerFull(g.Board):
		return PhaseVisibleTie
	case count(g.Board, CPU, innerCells[:]) <= 1:
		return PhaseOpening
	default:
		return PhaseMidGame
	}
}

// IsSelectable reports whether the outer cell i is open for the human.
func (g Game) IsSelectable(i int) bool {
	n := sort.SearchInts(g.Selectable, i)
	return n < len(g.Selectable) && g.Selectable[n] == i
}

// Tie reports whether the game ended without a winner.
func (g Game) Tie() bool { return g.Over && g.Winner == Empty }

// Move places the human's mark at row r, column c (0..4). Outer cells are
// accepted only while selectable. It leaves AwaitingCPU set when the
// computer should reply.
func (g *Game) Move(r, c int) error {
	if g.Over {
		return ErrGameOver
	}
	if !InBounds(r, c) {
		return ErrOutOfBounds
	}
	if g.AwaitingCPU {
		return ErrNotYourTurn
	}
	idx := Index(r, c)
	inner := IsInner(r, c)
	if !inner && !g.IsSelectable(idx) {
		return ErrNotSelectable
	}
	if g.Board[idx] != Empty {
		return ErrOccupied
	}

	g.Board[idx] = Human
	g.Moves++

	if !inner {
		// The final O: show the whole ring and settle the game.
		g.Selectable = nil
		g.Revealed = true
		if HasWin(g.Board, Human) {
			g.finish(Human)
		} else {
			g.finish(Empty)
		}
		return nil
	}
	if HasWin(g.Board, Human) {
		g.finish(Human)
		return nil
	}
	if InnerFull(g.Board) {
		g.settleVisibleTie()
		return nil
	}
	g.AwaitingCPU = true
	return nil
}

// Respond plays the computer's reply. It reports whether a mark was placed.
func (g *Game) Respond() bool {
	if g.Over || !g.AwaitingCPU {
		return false
	}
	g.AwaitingCPU = false
	idx, ok := ChooseMove(g.Board, g.Strategy)
	if !ok {
		g.settleVisibleTie()
		return false
	}
	g.Board[idx] = CPU
	g.Moves++

	if HasWin(g.Board, CPU) {
		g.finish(CPU)
	} else if InnerFull(g.Board) {
		g.settleVisibleTie()
	}
	return true
}

// Play applies the human's move and, if the game continues, the computer's
// reply.
func (g *Game) Play(r, c int) error {
	if err := g.Move(r, c); err != nil {
		return err
	}
	g.Respond()
	return nil
}

func (g *Game) settleVisibleTie() {
	if HasWin(g.Board, CPU) || HasWin(g.Board, Human) {
		return
	}
	if cells := RevealCandidates(g.Board); len(cells) > 0 {
		g.Selectable = cells
		return
	}
	if g.RevealOnTie {
		g.Revealed = true
	}
	g.finish(Empty)
}

func (g *Game) finish(winner Cell) {
	g.Winner = winner
	g.Over = true
	g.AwaitingCPU = false
}
