package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/draftleague/bracket-engine/models"
	"github.com/draftleague/bracket-engine/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSeedOrder(t *testing.T) {
	t.Run("roster order is the default seed order", func(t *testing.T) {
		got, err := resolveSeedOrder(GenerateScheduleRequest{TeamIDs: []int{7, 3, 9}})
		require.NoError(t, err)
		assert.Equal(t, []int{7, 3, 9}, got)
	})

	t.Run("explicit seed order wins", func(t *testing.T) {
		got, err := resolveSeedOrder(GenerateScheduleRequest{
			TeamIDs:   []int{7, 3, 9},
			SeedOrder: []int{9, 7, 3},
		})
		require.NoError(t, err)
		assert.Equal(t, []int{9, 7, 3}, got)
	})

	t.Run("roster below two teams", func(t *testing.T) {
		_, err := resolveSeedOrder(GenerateScheduleRequest{TeamIDs: []int{7}})
		assert.ErrorIs(t, err, ErrRosterTooSmall)
	})

	t.Run("duplicate roster entry", func(t *testing.T) {
		_, err := resolveSeedOrder(GenerateScheduleRequest{TeamIDs: []int{7, 7, 9}})
		assert.ErrorIs(t, err, ErrSeedOrderMismatch)
	})

	t.Run("seed order length mismatch", func(t *testing.T) {
		_, err := resolveSeedOrder(GenerateScheduleRequest{
			TeamIDs:   []int{7, 3, 9},
			SeedOrder: []int{9, 7},
		})
		assert.ErrorIs(t, err, ErrSeedOrderMismatch)
	})

	t.Run("seed order names a stranger", func(t *testing.T) {
		_, err := resolveSeedOrder(GenerateScheduleRequest{
			TeamIDs:   []int{7, 3, 9},
			SeedOrder: []int{9, 7, 4},
		})
		assert.ErrorIs(t, err, ErrSeedOrderMismatch)
	})

	t.Run("seed order repeats a team", func(t *testing.T) {
		_, err := resolveSeedOrder(GenerateScheduleRequest{
			TeamIDs:   []int{7, 3, 9},
			SeedOrder: []int{9, 9, 7},
		})
		assert.ErrorIs(t, err, ErrSeedOrderMismatch)
	})
}

func TestRemapLink(t *testing.T) {
	idMap := map[int]int{1: 101, 2: 102}

	got, err := remapLink(idMap, intPtrForTest(2))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 102, *got)

	got, err = remapLink(idMap, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = remapLink(idMap, intPtrForTest(5))
	assert.Error(t, err)
}

func TestOtherTeam(t *testing.T) {
	a, b := 10, 20
	m := &models.Match{TeamAID: &a, TeamBID: &b}

	loser := otherTeam(m, 10)
	require.NotNil(t, loser)
	assert.Equal(t, 20, *loser)

	loser = otherTeam(m, 20)
	require.NotNil(t, loser)
	assert.Equal(t, 10, *loser)

	assert.Nil(t, otherTeam(&models.Match{TeamAID: &a}, 10))
}

func intPtrForTest(v int) *int { return &v }

// fakeSeasonRepo serves seasons from memory.
type fakeSeasonRepo struct {
	seasons map[int]*models.Season
}

func (f *fakeSeasonRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Season, error) {
	season, ok := f.seasons[id]
	if !ok {
		return nil, repositories.ErrSeasonNotFound
	}
	return season, nil
}

func (f *fakeSeasonRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.SeasonStatus) error {
	season, ok := f.seasons[id]
	if !ok {
		return repositories.ErrSeasonNotFound
	}
	season.Status = status
	return nil
}

func TestClearScheduleRejections(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	seasonRepo := &fakeSeasonRepo{seasons: map[int]*models.Season{
		1: {ID: 1, Status: models.SeasonStatusCompleted},
		2: {ID: 2, Status: models.SeasonStatusCanceled},
	}}
	svc := NewScheduleService(nil, seasonRepo, nil, nil, nil, logger)

	assert.ErrorIs(t, svc.ClearSchedule(context.Background(), 1), ErrSeasonNotSchedulable)
	assert.ErrorIs(t, svc.ClearSchedule(context.Background(), 2), ErrSeasonNotSchedulable)
	assert.ErrorIs(t, svc.ClearSchedule(context.Background(), 404), ErrSeasonNotFound)
}
