package brackets

import (
	"context"
	"testing"
	"time"

	"github.com/draftleague/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSingleEliminationRejectsTinyRoster(t *testing.T) {
	_, err := BuildSingleElimination(1, nil)
	assert.ErrorIs(t, err, ErrNotEnoughTeams)

	_, err = BuildSingleElimination(1, []int{42})
	assert.ErrorIs(t, err, ErrNotEnoughTeams)
}

func TestBuildSingleEliminationShape(t *testing.T) {
	for teams := 2; teams <= 17; teams++ {
		seedOrder := make([]int, teams)
		for i := range seedOrder {
			seedOrder[i] = 100 + i
		}

		matches, err := BuildSingleElimination(7, seedOrder)
		require.NoError(t, err)

		size := NextPowerOfTwo(teams)
		rounds := roundCount(size)

		// A knockout over a padded field of size N has N-1 matches.
		assert.Len(t, matches, size-1, "teams=%d", teams)
		assert.Equal(t, size/2, countInRound(matches, 1), "teams=%d", teams)
		assert.Equal(t, 1, countInRound(matches, rounds), "teams=%d", teams)

		byes := 0
		for _, m := range matches {
			assert.Equal(t, 7, m.SeasonID)
			assert.Equal(t, models.FormatSingleElimination, m.ScheduleFormat)
			assert.Equal(t, m.BracketRound, m.Week)
			if m.IsBye {
				byes++
				assert.NotNil(t, m.TeamAID)
				assert.Nil(t, m.TeamBID)
			}
		}
		assert.Equal(t, size-teams, byes, "teams=%d", teams)
	}
}

func TestBuildSingleEliminationLinkage(t *testing.T) {
	matches, err := BuildSingleElimination(1, []int{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	byID := sourceFor(matches)
	for _, m := range matches {
		if m.BracketRound == 3 {
			assert.Nil(t, m.NextMatchID, "final must not link onward")
			continue
		}
		require.NotNil(t, m.NextMatchID, "match at (%d,%d)", m.BracketRound, m.BracketPosition)
		next := byID[*m.NextMatchID]
		require.NotNil(t, next)
		assert.Equal(t, m.BracketRound+1, next.BracketRound)
		assert.Equal(t, m.BracketPosition/2, next.BracketPosition)
		assert.Nil(t, m.LoserNextMatchID, "single elimination has no loser links")
	}
}

func TestBuildSingleEliminationFourTeamSeeding(t *testing.T) {
	matches, err := BuildSingleElimination(1, []int{10, 20, 30, 40})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	top := matchAt(t, matches, 1, 0)
	require.NotNil(t, top.TeamAID)
	require.NotNil(t, top.TeamBID)
	assert.Equal(t, 10, *top.TeamAID)
	assert.Equal(t, 40, *top.TeamBID)
	assert.Equal(t, 1, *top.SeedA)
	assert.Equal(t, 4, *top.SeedB)

	bottom := matchAt(t, matches, 1, 1)
	require.NotNil(t, bottom.TeamAID)
	require.NotNil(t, bottom.TeamBID)
	assert.Equal(t, 20, *bottom.TeamAID)
	assert.Equal(t, 30, *bottom.TeamBID)

	final := matchAt(t, matches, 2, 0)
	assert.Nil(t, final.TeamAID)
	assert.Nil(t, final.TeamBID)
}

func TestSingleEliminationFourTeamRunThrough(t *testing.T) {
	matches, err := BuildSingleElimination(1, []int{10, 20, 30, 40})
	require.NoError(t, err)

	source := sourceFor(matches)
	prog := NewProgression(source)

	report(t, prog, matchAt(t, matches, 1, 0), 10)
	report(t, prog, matchAt(t, matches, 1, 1), 30)

	final := matchAt(t, matches, 2, 0)
	require.NotNil(t, final.TeamAID)
	require.NotNil(t, final.TeamBID)
	assert.Equal(t, 10, *final.TeamAID, "winner of the top pairing takes the A slot")
	assert.Equal(t, 30, *final.TeamBID, "winner of the bottom pairing takes the B slot")
	assert.Equal(t, 1, *final.SeedA)
	assert.Equal(t, 3, *final.SeedB)
}

func TestSingleEliminationThreeTeamBye(t *testing.T) {
	matches, err := BuildSingleElimination(1, []int{10, 20, 30})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	top := matchAt(t, matches, 1, 0)
	assert.True(t, top.IsBye)
	require.NotNil(t, top.TeamAID)
	assert.Equal(t, 10, *top.TeamAID, "the bye falls to the best seed")
	assert.Nil(t, top.TeamBID)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	resolved := ResolveByes(matches, now)
	require.Len(t, resolved, 1)
	assert.Equal(t, 10, resolved[0].WinnerID)
	assert.Same(t, top, resolved[0].Match)
	require.NotNil(t, top.WinnerID)
	assert.Equal(t, 10, *top.WinnerID)
	require.NotNil(t, top.ResolvedAt)
	assert.Equal(t, now, *top.ResolvedAt)

	// Decided byes are skipped on replay.
	assert.Empty(t, ResolveByes(matches, now.Add(time.Hour)))

	source := sourceFor(matches)
	prog := NewProgression(source)
	updated, err := prog.Advance(context.Background(), top, resolved[0].WinnerID, nil)
	require.NoError(t, err)
	require.Len(t, updated, 1)

	final := matchAt(t, matches, 2, 0)
	require.NotNil(t, final.TeamAID)
	assert.Equal(t, 10, *final.TeamAID)
	assert.Nil(t, final.TeamBID, "the other finalist is still undecided")
}
