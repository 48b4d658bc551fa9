package services

import (
	"testing"

	"github.com/draftleague/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatchViews(t *testing.T) {
	matches := []*models.Match{
		{ID: 1, BracketRound: 1, ScheduleFormat: models.FormatDoubleElimination},
		{ID: 2, BracketRound: 2, ScheduleFormat: models.FormatDoubleElimination},
		{ID: 3, BracketRound: -1, ScheduleFormat: models.FormatDoubleElimination},
		{ID: 4, BracketRound: 0, ScheduleFormat: models.FormatDoubleElimination},
		{ID: 5, BracketRound: 0, IsBracketReset: true, ScheduleFormat: models.FormatDoubleElimination},
	}

	views := buildMatchViews(matches)
	require.Len(t, views, 5)

	labels := make(map[int]string, len(views))
	for _, v := range views {
		labels[v.ID] = v.RoundLabel
	}
	assert.Equal(t, "Semifinals", labels[1], "two winners rounds make round 1 the semifinal")
	assert.Equal(t, "Finals", labels[2])
	assert.Equal(t, "Losers Round 1", labels[3])
	assert.Equal(t, "Grand Finals", labels[4])
	assert.Equal(t, "Grand Finals Reset", labels[5])
}

func TestBuildMatchViewsEmpty(t *testing.T) {
	assert.Empty(t, buildMatchViews(nil))
}
