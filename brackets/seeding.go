package brackets

// BracketPositions returns the standard single-elimination seeding order for
// a power-of-two bracket size: the base order for size 2 is [1 2], and each
// doubling pairs every seed s with its mirror size+1-s. Size 8 yields
// [1 8 4 5 2 7 3 6], so seeds 1 and 2 cannot meet before the final and every
// seed draws the weakest opponent bracket symmetry allows.
//
// size must be a power of two >= 2; callers derive it via NextPowerOfTwo.
func BracketPositions(size int) []int {
	if size <= 2 {
		return []int{1, 2}
	}
	half := BracketPositions(size / 2)
	order := make([]int, 0, size)
	for _, s := range half {
		order = append(order, s, size+1-s)
	}
	return order
}

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// roundCount returns log2(bracketSize), the number of winners-bracket rounds.
func roundCount(bracketSize int) int {
	rounds := 0
	for size := bracketSize; size > 1; size >>= 1 {
		rounds++
	}
	return rounds
}
