package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBracketPositions(t *testing.T) {
	assert.Equal(t, []int{1, 2}, BracketPositions(2))
	assert.Equal(t, []int{1, 4, 2, 3}, BracketPositions(4))
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, BracketPositions(8))
}

func TestBracketPositionsProperties(t *testing.T) {
	for _, size := range []int{2, 4, 8, 16, 32, 64} {
		order := BracketPositions(size)
		require.Len(t, order, size)

		// Permutation of 1..size.
		seen := make(map[int]bool, size)
		for _, s := range order {
			assert.GreaterOrEqual(t, s, 1)
			assert.LessOrEqual(t, s, size)
			assert.False(t, seen[s], "seed %d appears twice for size %d", s, size)
			seen[s] = true
		}

		// Every first-round pairing sums to size+1, so the best seed always
		// draws the worst.
		for p := 0; p < size; p += 2 {
			assert.Equal(t, size+1, order[p]+order[p+1], "pairing at %d for size %d", p, size)
		}

		// The even index of each pair is the better seed, which keeps byes in
		// the A slot.
		for p := 0; p < size; p += 2 {
			assert.Less(t, order[p], order[p+1])
		}

		// Seeds 1 and 2 land in opposite halves and cannot meet before the
		// final.
		if size >= 4 {
			oneFirstHalf := indexOf(order, 1) < size/2
			twoFirstHalf := indexOf(order, 2) < size/2
			assert.NotEqual(t, oneFirstHalf, twoFirstHalf, "seeds 1 and 2 share a half for size %d", size)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 8: 8, 9: 16, 16: 16, 17: 32}
	for n, want := range cases {
		assert.Equal(t, want, NextPowerOfTwo(n), "n=%d", n)
	}
}

func TestRoundCount(t *testing.T) {
	assert.Equal(t, 1, roundCount(2))
	assert.Equal(t, 2, roundCount(4))
	assert.Equal(t, 3, roundCount(8))
	assert.Equal(t, 4, roundCount(16))
}

func indexOf(order []int, seed int) int {
	for i, s := range order {
		if s == seed {
			return i
		}
	}
	return -1
}
