package services

import (
	"context"
	"fmt"
	"time"

	"github.com/draftleague/bracket-engine/brackets"
	"github.com/draftleague/bracket-engine/models"
	"github.com/draftleague/bracket-engine/repositories"
)

// advanceResult pushes a decided match's teams through the bracket and
// persists every slot the progression touched. When an advancement lands a
// team in a bye match, that match resolves on the spot with the arriving
// team as its winner, and the cascade continues from there. Losers-bracket
// byes depend on this: they have no team at build time and only settle once
// an upstream result drops one in. Returns the number of matches whose
// slots were written.
func advanceResult(ctx context.Context, repo repositories.MatchRepository, exec repositories.SQLExecutor, match *models.Match, winnerID int, loserID *int) (int, error) {
	progression := brackets.NewProgression(repoMatchSource{repo: repo, exec: exec})

	type report struct {
		match    *models.Match
		winnerID int
		loserID  *int
	}
	queue := []report{{match, winnerID, loserID}}
	mutated := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		updated, err := progression.Advance(ctx, cur.match, cur.winnerID, cur.loserID)
		if err != nil {
			return mutated, fmt.Errorf("failed to advance result of match %d: %w", cur.match.ID, err)
		}
		for _, um := range updated {
			if err := repo.UpdateSlots(ctx, exec, um.ID, um.TeamAID, um.SeedA, um.TeamBID, um.SeedB); err != nil {
				return mutated, fmt.Errorf("failed to persist advancement into match %d: %w", um.ID, err)
			}
			mutated++

			if !um.IsBye || um.TeamAID == nil || um.Decided() {
				continue
			}
			winner := *um.TeamAID
			resolvedAt := time.Now().UTC()
			if err := repo.UpdateResult(ctx, exec, um.ID, winner, nil, resolvedAt); err != nil {
				return mutated, fmt.Errorf("failed to record bye result for match %d: %w", um.ID, err)
			}
			um.WinnerID = &winner
			um.ResolvedAt = &resolvedAt
			queue = append(queue, report{um, winner, nil})
		}
	}
	return mutated, nil
}
