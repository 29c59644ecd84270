package domain

import (
	"fmt"
	"strings"
)

// Strategy selects the computer's fallback when no opening, block or win
// rule applies.
type Strategy uint8

const (
	// Heuristic scores each free inner cell by its open lines.
	Heuristic Strategy = iota
	// Minimax searches the inner 3x3 exhaustively.
	Minimax
	// Sequential takes the first free inner cell in row-major order.
	Sequential
)

func (s Strategy) String() string {
	switch s {
	case Minimax:
		return "minimax"
	case Sequential:
		return "sequential"
	default:
		return "heuristic"
	}
}

// ParseStrategy parses a strategy name as accepted on the command line.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "heuristic":
		return Heuristic, nil
	case "minimax":
		return Minimax, nil
	case "sequential":
		return Sequential, nil
	}
	return Heuristic, fmt.Errorf("unknown strategy %q", name)
}

// openingTable maps the human's first inner label to the label the computer
// answers with. Labels 2 and 6 both map to 7, and 4 and 8 both map to 3.
var openingTable = map[int]int{
	1: 3, 3: 1, 7: 9, 9: 7,
	2: 7, 6: 7,
	4: 3, 8: 3,
}

// OpeningResponse returns the label the computer takes in reply to the
// human's first inner move at label.
func OpeningResponse(label int) (int, bool) {
	t, ok := openingTable[label]
	return t, ok
}

// preference is the tie-break order: centre, corners, edges.
var preference = labels(5, 1, 3, 7, 9, 2, 4, 6, 8)

// innerLines are the eight lines of the visible 3x3.
var innerLines = [8][3]int{
	labels3(1, 2, 3), labels3(4, 5, 6), labels3(7, 8, 9),
	labels3(1, 4, 7), labels3(2, 5, 8), labels3(3, 6, 9),
	labels3(1, 5, 9), labels3(3, 5, 7),
}

func labels(ls ...int) []int {
	out := make([]int, len(ls))
	for i, l := range ls {
		out[i], _ = LabelIndex(l)
	}
	return out
}

func labels3(a, b, c int) [3]int {
	l := labels(a, b, c)
	return [3]int{l[0], l[1], l[2]}
}

// ChooseMove returns the inner cell the computer plays next, applying in
// order: the opening response, blocking the human, winning, then the
// fallback strategy. It reports false when the inner region is full.
func ChooseMove(b Grid, s Strategy) (int, bool) {
	if InnerFull(b) {
		return -1, false
	}
	if i, ok := openingMove(b); ok {
		return i, true
	}
	if i, ok := completingCell(b, Human); ok {
		return i, true
	}
	if i, ok := completingCell(b, CPU); ok {
		return i, true
	}
	switch s {
	case Minimax:
		return minimaxMove(b), true
	case Sequential:
		return firstFree(b), true
	default:
		return heuristicMove(b), true
	}
}

func openingMove(b Grid) (int, bool) {
	if count(b, Human, innerCells[:]) != 1 || count(b, CPU, innerCells[:]) != 1 {
		return -1, false
	}
	for _, i := range innerCells {
		if b[i] != Human {
			continue
		}
		label, _ := IndexLabel(i)
		target, ok := OpeningResponse(label)
		if !ok {
			return -1, false
		}
		t, _ := LabelIndex(target)
		if b[t] != Empty {
			return -1, false
		}
		return t, true
	}
	return -1, false
}

// completingCell finds the first empty inner cell that wins for mark.
func completingCell(b Grid, mark Cell) (int, bool) {
	for _, i := range innerCells {
		if b[i] != Empty {
			continue
		}
		trial := b
		trial[i] = mark
		if HasWin(trial, mark) {
			return i, true
		}
	}
	return -1, false
}

func firstFree(b Grid) int {
	for _, i := range innerCells {
		if b[i] == Empty {
			return i
		}
	}
	return -1
}

func heuristicMove(b Grid) int {
	best, bestScore := -1, -1
	for _, i := range preference {
		if b[i] != Empty {
			continue
		}
		score := 0
		for _, ln := range innerLines {
			if ln[0] != i && ln[1] != i && ln[2] != i {
				continue
			}
			own, blocked := 0, false
			for _, j := range ln {
				switch b[j] {
				case Human:
					blocked = true
				case CPU:
					own++
				}
			}
			if !blocked {
				score += 1 + own
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func minimaxMove(b Grid) int {
	best, bestScore := -1, -2
	for _, i := range preference {
		if b[i] != Empty {
			continue
		}
		b[i] = CPU
		score := minimax(&b, Human)
		b[i] = Empty
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// minimax scores the inner position from the computer's view:
// +1 win, -1 loss, 0 draw.
func minimax(b *Grid, toMove Cell) int {
	switch {
	case HasWin(*b, CPU):
		return 1
	case HasWin(*b, Human):
		return -1
	case InnerFull(*b):
		return 0
	}
	best := 2
	if toMove == CPU {
		best = -2
	}
	for _, i := range innerCells {
		if b[i] != Empty {
			continue
		}
		b[i] = toMove
		score := minimax(b, toMove.opponent())
		b[i] = Empty
		if toMove == CPU && score > best || toMove == Human && score < best {
			best = score
		}
	}
	return best
}
