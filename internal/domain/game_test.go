package domain

import (
	"errors"
	"reflect"
	"testing"
)

// helper to apply a sequence of human moves, each answered by the computer
func playMoves(t *testing.T, g *Game, moves [][2]int) {
	t.Helper()
	for i, m := range moves {
		if err := g.Play(m[0], m[1]); err != nil {
			t.Fatalf("move %d (%v) failed: %v", i, m, err)
		}
	}
}

func TestNewGameInitialState(t *testing.T) {
	g := New(Options{})
	if g.Board[Center] != CPU {
		t.Fatalf("expected computer seed in the centre, got %v", g.Board[Center])
	}
	for i, c := range g.Board {
		if i != Center && c != Empty {
			t.Fatalf("expected empty cell %d, got %v", i, c)
		}
	}
	if g.Over || g.Winner != Empty || g.AwaitingCPU || g.Revealed || len(g.Selectable) != 0 {
		t.Fatalf("unexpected initial flags: %+v", g)
	}
	if g.Moves != 1 {
		t.Fatalf("expected 1 mark on the board, got %d", g.Moves)
	}
	if g.Phase() != PhaseOpening {
		t.Fatalf("expected opening phase, got %v", g.Phase())
	}
}

func TestNewIsCanonical(t *testing.T) {
	a, b := New(Options{}), New(Options{})
	playMoves(t, &b, [][2]int{{1, 1}})
	b = New(Options{})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical initial games")
	}
}

func TestPlayOutOfBounds(t *testing.T) {
	g := New(Options{})
	cases := [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {7, 7}}
	for _, m := range cases {
		if err := g.Play(m[0], m[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds for %v, got %v", m, err)
		}
	}
}

func TestPlayOccupied(t *testing.T) {
	g := New(Options{})
	if err := g.Play(2, 2); !errors.Is(err, ErrOccupied) {
		t.Fatalf("expected ErrOccupied on the seed, got %v", err)
	}
	if g.Moves != 1 {
		t.Fatalf("rejected move changed the board")
	}
}

func TestHiddenOuterCellIsInert(t *testing.T) {
	g := New(Options{})
	before := g
	if err := g.Play(0, 0); !errors.Is(err, ErrNotSelectable) {
		t.Fatalf("expected ErrNotSelectable, got %v", err)
	}
	if !reflect.DeepEqual(before, g) {
		t.Fatalf("inert click changed state")
	}
}

func TestScenarioOpeningLabelOne(t *testing.T) {
	g := New(Options{})
	playMoves(t, &g, [][2]int{{1, 1}})
	want := map[int]Cell{Center: CPU, Index(1, 1): Human, Index(1, 3): CPU}
	for i, c := range g.Board {
		if c != want[i] {
			t.Fatalf("cell %d: got %v want %v", i, c, want[i])
		}
	}
	if g.Phase() != PhaseMidGame {
		t.Fatalf("expected mid-game, got %v", g.Phase())
	}
}

func TestMoveLeavesReplyPending(t *testing.T) {
	g := New(Options{})
	if err := g.Move(1, 2); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if !g.AwaitingCPU {
		t.Fatalf("expected computer reply pending")
	}
	if err := g.Move(3, 3); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if !g.Respond() {
		t.Fatalf("expected computer to place a mark")
	}
	if g.Board[Index(3, 1)] != CPU {
		t.Fatalf("expected opening reply on label 7")
	}
	if g.Respond() {
		t.Fatalf("second Respond must be a no-op")
	}
}

func TestComputerWins(t *testing.T) {
	g := New(Options{})
	// Label 2 is answered on label 7, then label 9 leaves the 3-5-7 diagonal open.
	playMoves(t, &g, [][2]int{{1, 2}, {3, 3}})
	if !g.Over || g.Winner != CPU {
		t.Fatalf("expected computer win; over=%v winner=%v", g.Over, g.Winner)
	}
	if g.Board[Index(1, 3)] != CPU {
		t.Fatalf("expected winning mark on label 3")
	}
	if err := g.Play(1, 1); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if g.Phase() != PhaseResolved {
		t.Fatalf("expected resolved phase")
	}
}

func TestHumanWinEndsBeforeReply(t *testing.T) {
	g := New(Options{})
	g.Board[Index(1, 1)] = Human
	g.Board[Index(1, 2)] = Human
	g.Board[Index(2, 1)] = CPU
	before := g.Board
	if err := g.Play(1, 3); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if !g.Over || g.Winner != Human {
		t.Fatalf("expected human win")
	}
	before[Index(1, 3)] = Human
	if g.Board != before {
		t.Fatalf("computer replied after a winning move")
	}
}

// visibleTie plays a full game that fills the inner region with no winner.
func visibleTie(t *testing.T, s Strategy) Game {
	t.Helper()
	g := New(Options{Strategy: s})
	playMoves(t, &g, [][2]int{{1, 1}, {3, 1}, {2, 3}, {3, 2}})
	return g
}

func TestVisibleTieSelectsWinningOuterCells(t *testing.T) {
	for _, s := range []Strategy{Heuristic, Minimax} {
		g := visibleTie(t, s)
		want := parseGrid(t,
			".....",
			".OXX.",
			".XXO.",
			".OOX.",
			".....",
		)
		if g.Board != want {
			t.Fatalf("%v: unexpected board %v", s, g.Board)
		}
		if g.Over {
			t.Fatalf("%v: game should wait for the final O", s)
		}
		if g.Phase() != PhaseVisibleTie {
			t.Fatalf("%v: expected visible-tie phase, got %v", s, g.Phase())
		}
		sel := []int{Index(1, 4), Index(3, 0), Index(4, 1)}
		if !reflect.DeepEqual(g.Selectable, sel) {
			t.Fatalf("%v: selectable = %v, want %v", s, g.Selectable, sel)
		}
		if !reflect.DeepEqual(g.Selectable, RevealCandidates(g.Board)) {
			t.Fatalf("%v: selectable differs from reveal candidates", s)
		}
	}
}

func TestVisibleTieInertOuterClick(t *testing.T) {
	g := visibleTie(t, Heuristic)
	before := g
	if err := g.Play(0, 0); !errors.Is(err, ErrNotSelectable) {
		t.Fatalf("expected ErrNotSelectable, got %v", err)
	}
	if !reflect.DeepEqual(before, g) {
		t.Fatalf("inert outer click changed state")
	}
}

func TestVisibleTieFinalMoveWins(t *testing.T) {
	g := visibleTie(t, Heuristic)
	if err := g.Play(3, 0); err != nil {
		t.Fatalf("final move failed: %v", err)
	}
	if !g.Over || g.Winner != Human {
		t.Fatalf("expected human win; over=%v winner=%v", g.Over, g.Winner)
	}
	if !g.Revealed || len(g.Selectable) != 0 {
		t.Fatalf("expected ring revealed and nothing selectable")
	}
	if g.Moves != 10 {
		t.Fatalf("expected 10 marks, got %d", g.Moves)
	}
}

// noCandidateBoard has a full inner region, no winner, and every outer cell
// that could finish an O line already taken.
func noCandidateBoard(t *testing.T) Grid {
	t.Helper()
	return parseGrid(t,
		"..X..",
		".XOX.",
		".XOX.",
		".O.O.",
		"X...X",
	)
}

func TestTieWithoutCandidates(t *testing.T) {
	for _, reveal := range []bool{false, true} {
		g := New(Options{RevealOnTie: reveal})
		g.Board = noCandidateBoard(t)
		g.AwaitingCPU = true
		if !g.Respond() {
			t.Fatalf("expected the computer to fill the last inner cell")
		}
		if g.Board[Index(3, 2)] != CPU {
			t.Fatalf("expected block on label 8")
		}
		if !g.Tie() {
			t.Fatalf("expected tie; over=%v winner=%v", g.Over, g.Winner)
		}
		if len(g.Selectable) != 0 {
			t.Fatalf("expected no selectable cells, got %v", g.Selectable)
		}
		if g.Revealed != reveal {
			t.Fatalf("revealed = %v, want %v", g.Revealed, reveal)
		}
	}
}

func TestRevealCandidates(t *testing.T) {
	b := noCandidateBoard(t)
	b[Index(3, 2)] = CPU
	if got := RevealCandidates(b); len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", got)
	}
	b[Index(4, 0)] = Empty
	if got := RevealCandidates(b); !reflect.DeepEqual(got, []int{Index(4, 0)}) {
		t.Fatalf("expected (4,0) after freeing it, got %v", got)
	}
}
