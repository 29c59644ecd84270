package domain

// directions probed from each cell: right, down, down-right, down-left.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// HasWin reports whether mark has three consecutive cells in a row, column
// or diagonal anywhere on the full board. b is taken by value, so callers can
// test a hypothetical placement on a copy without persisting it.
func HasWin(b Grid, mark Cell) bool {
	if mark == Empty {
		return false
	}
	for i, c := range b {
		if c != mark {
			continue
		}
		r, col := RowCol(i)
		for _, d := range directions {
			if runOf(b, mark, r, col, d) {
				return true
			}
		}
	}
	return false
}

func runOf(b Grid, mark Cell, r, c int, d [2]int) bool {
	for k := 1; k < 3; k++ {
		rr, cc := r+k*d[0], c+k*d[1]
		if !InBounds(rr, cc) || b[Index(rr, cc)] != mark {
			return false
		}
	}
	return true
}
