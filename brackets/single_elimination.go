package brackets

import "github.com/draftleague/bracket-engine/models"

// BuildSingleElimination builds the full single-elimination schedule for the
// given teams. seedOrder holds team ids ordered by seed rank, best first.
//
// The field is padded to the next power of two; slots whose seed rank exceeds
// the real team count become byes, which always fall to the best seeds
// because BracketPositions pairs extremes. Bye matches carry the real team in
// the A slot and are settled later by ResolveByes.
//
// Matches are returned unpersisted with builder-local ids; every non-final
// match at (round, p) links to the match at (round+1, p/2).
func BuildSingleElimination(seasonID int, seedOrder []int) ([]*models.Match, error) {
	if len(seedOrder) < 2 {
		return nil, ErrNotEnoughTeams
	}

	b := newBuilder(seasonID, models.FormatSingleElimination)
	b.buildWinnersBracket(seedOrder)
	return b.matches, nil
}
