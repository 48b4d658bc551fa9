package brackets

import (
	"context"
	"errors"
	"testing"

	"github.com/draftleague/bracket-engine/models"
	"github.com/stretchr/testify/require"
)

// matchMap is an in-memory MatchSource over builder output, keyed by the
// builder-local ids.
type matchMap map[int]*models.Match

func (s matchMap) MatchByID(ctx context.Context, id int) (*models.Match, error) {
	m, ok := s[id]
	if !ok {
		return nil, errors.New("match not found")
	}
	return m, nil
}

func sourceFor(matches []*models.Match) matchMap {
	s := make(matchMap, len(matches))
	for _, m := range matches {
		s[m.ID] = m
	}
	return s
}

func matchAt(t *testing.T, matches []*models.Match, round, position int) *models.Match {
	t.Helper()
	for _, m := range matches {
		if m.BracketRound == round && m.BracketPosition == position {
			return m
		}
	}
	t.Fatalf("no match at round %d position %d", round, position)
	return nil
}

func countInRound(matches []*models.Match, round int) int {
	count := 0
	for _, m := range matches {
		if m.BracketRound == round {
			count++
		}
	}
	return count
}

// report plays out a match through the progression engine, deriving the
// loser from the winner the way the result service does.
func report(t *testing.T, prog *Progression, m *models.Match, winnerID int) {
	t.Helper()
	var loserID *int
	if m.TeamAID != nil && m.TeamBID != nil {
		loser := *m.TeamAID
		if loser == winnerID {
			loser = *m.TeamBID
		}
		loserID = &loser
	}
	winner := winnerID
	m.WinnerID = &winner
	m.LoserID = loserID
	_, err := prog.Advance(context.Background(), m, winnerID, loserID)
	require.NoError(t, err)
}
