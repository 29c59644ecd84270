package domain

// RevealCandidates returns, in ascending index order, the empty outer cells
// where an O would complete a win on the full board. Once the inner region
// is full these are the only cells the human may still select.
func RevealCandidates(b Grid) []int {
	var out []int
	for _, i := range outerCells {
		if b[i] != Empty {
			continue
		}
		trial := b
		trial[i] = Human
		if HasWin(trial, Human) {
			out = append(out, i)
		}
	}
	return out
}
