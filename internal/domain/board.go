package domain

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// The computer always plays X and opens in the centre; the human plays O.
const (
	CPU   = X
	Human = O
)

// String returns the mark as it is drawn on the board.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

func (c Cell) opponent() Cell {
	if c == X {
		return O
	}
	return X
}

// Size is the width and height of the full board.
const Size = 5

// Cells is the number of cells on the full board.
const Cells = Size * Size

// Grid is the full 5x5 board stored row-major.
type Grid [Cells]Cell

// Center is the index of the cell the computer seeds.
var Center = Index(2, 2)

var (
	innerCells [9]int
	outerCells [Cells - 9]int
)

func init() {
	n, m := 0, 0
	for i := 0; i < Cells; i++ {
		if IsInnerIndex(i) {
			innerCells[n] = i
			n++
		} else {
			outerCells[m] = i
			m++
		}
	}
}

// Index converts a row and column to a linear index.
func Index(r, c int) int { return r*Size + c }

// RowCol converts a linear index back to row and column.
func RowCol(i int) (int, int) { return i / Size, i % Size }

// InBounds reports whether (r, c) lies on the full board.
func InBounds(r, c int) bool { return r >= 0 && r < Size && c >= 0 && c < Size }

// IsInner reports whether (r, c) lies in the visible 3x3 region.
func IsInner(r, c int) bool { return r >= 1 && r <= 3 && c >= 1 && c <= 3 }

// IsInnerIndex is IsInner for a linear index.
func IsInnerIndex(i int) bool {
	if i < 0 || i >= Cells {
		return false
	}
	return IsInner(RowCol(i))
}

// InnerCells returns the inner region indices in row-major order.
func InnerCells() []int {
	out := innerCells
	return out[:]
}

// OuterCells returns the hidden ring indices in row-major order.
func OuterCells() []int {
	out := outerCells
	return out[:]
}

// LabelIndex maps an inner label (1..9, row-major, 1 at the inner top-left)
// to a linear index.
func LabelIndex(label int) (int, bool) {
	if label < 1 || label > 9 {
		return -1, false
	}
	l := label - 1
	return Index(1+l/3, 1+l%3), true
}

// IndexLabel is the inverse of LabelIndex.
func IndexLabel(i int) (int, bool) {
	if !IsInnerIndex(i) {
		return 0, false
	}
	r, c := RowCol(i)
	return (r-1)*3 + (c - 1) + 1, true
}

func count(b Grid, mark Cell, cells []int) int {
	n := 0
	for _, i := range cells {
		if b[i] == mark {
			n++
		}
	}
	return n
}

// InnerFull reports whether every inner cell holds a mark.
func InnerFull(b Grid) bool { return count(b, Empty, innerCells[:]) == 0 }
