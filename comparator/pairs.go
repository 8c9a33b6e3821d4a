package comparator

// PairCount returns how many pairs policy yields for n images
func PairCount(n int, policy PairingPolicy) int {
	if n < 2 {
		return 0
	}
	if policy == PairingAdjacent {
		return n - 1
	}
	return n * (n - 1) / 2
}

// EnumeratePairs lists the pairs for n images in scheduling order.
// All-pairs is i-major with i < j; adjacent pairs i with i+1.
func EnumeratePairs(n int, policy PairingPolicy) []Pair {
	pairs := make([]Pair, 0, PairCount(n, policy))

	switch policy {
	case PairingAdjacent:
		for i := 0; i+1 < n; i++ {
			pairs = append(pairs, Pair{Index: len(pairs), A: i, B: i + 1})
		}
	default:
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, Pair{Index: len(pairs), A: i, B: j})
			}
		}
	}
	return pairs
}
