package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/draftleague/bracket-engine/models"
)

var (
	// ErrWinnerNotInMatch is returned when the reported winner does not
	// occupy either slot of the match.
	ErrWinnerNotInMatch = errors.New("winner is not a participant of the match")

	// ErrLoserNotInMatch is returned when a reported loser does not occupy
	// either slot of the match.
	ErrLoserNotInMatch = errors.New("loser is not a participant of the match")

	// ErrBrokenBracketLink means a next_match_id or loser_next_match_id
	// points at a match that cannot be loaded. The bracket graph is corrupt
	// and continuing would silently drop a team, so callers must treat this
	// as fatal.
	ErrBrokenBracketLink = errors.New("bracket link points to a missing match")

	// ErrMatchSlotsFull means a losers-bracket match already has both slots
	// occupied by other teams and cannot absorb another arrival.
	ErrMatchSlotsFull = errors.New("match already has both slots occupied")
)

// MatchSource loads matches by id so the progression engine can follow
// bracket links. The engine performs no writes; it mutates the loaded
// records in place and returns them for the caller to persist.
type MatchSource interface {
	MatchByID(ctx context.Context, id int) (*models.Match, error)
}

// Progression pushes completed-match results through the bracket graph.
type Progression struct {
	source MatchSource
}

func NewProgression(source MatchSource) *Progression {
	return &Progression{source: source}
}

// Advance applies a completed match's outcome to its downstream matches and
// returns every match it mutated, for the caller to persist. It is a no-op
// for round-robin matches.
//
// The winner enters the linked next match: by bracket-position parity in the
// winners bracket (even position -> A slot, odd -> B slot), by bracket side
// for grand finals (winners champion -> A, losers champion -> B), and into
// the first empty slot for losers-bracket targets, which fill in arrival
// order because two different rounds feed them at different times. The loser,
// when given, drops into its linked losers-bracket match the same
// first-empty-slot way.
//
// Grand finals carry one special case: if the losers-bracket entrant (the B
// slot) wins the first grand finals game, both combatants are copied into the
// bracket-reset match so it becomes playable; if the winners-bracket entrant
// wins, the reset match stays empty and the tournament is decided.
func (p *Progression) Advance(ctx context.Context, m *models.Match, winnerID int, loserID *int) ([]*models.Match, error) {
	if !m.ScheduleFormat.IsBracket() {
		return nil, nil
	}

	var winnerSeed, loserSeed *int
	switch {
	case m.TeamAID != nil && *m.TeamAID == winnerID:
		winnerSeed, loserSeed = m.SeedA, m.SeedB
	case m.TeamBID != nil && *m.TeamBID == winnerID:
		winnerSeed, loserSeed = m.SeedB, m.SeedA
	default:
		return nil, ErrWinnerNotInMatch
	}
	if loserID != nil && (*loserID == winnerID || !m.HasTeam(*loserID)) {
		return nil, ErrLoserNotInMatch
	}

	var updated []*models.Match

	if m.NextMatchID != nil {
		next, err := p.fetch(ctx, *m.NextMatchID, m.ID)
		if err != nil {
			return nil, err
		}

		switch {
		case m.IsGrandFinals():
			// next is the bracket-reset match. Only a losers-bracket
			// champion (the B slot) forces the second game.
			if m.TeamBID != nil && *m.TeamBID == winnerID {
				next.TeamAID = copyInt(m.TeamAID)
				next.SeedA = copyInt(m.SeedA)
				next.TeamBID = copyInt(m.TeamBID)
				next.SeedB = copyInt(m.SeedB)
				updated = append(updated, next)
			}

		case next.IsGrandFinals():
			if m.BracketRound > 0 {
				next.TeamAID = intPtr(winnerID)
				next.SeedA = copyInt(winnerSeed)
			} else {
				next.TeamBID = intPtr(winnerID)
				next.SeedB = copyInt(winnerSeed)
			}
			updated = append(updated, next)

		case next.BracketRound < 0:
			if err := fillFirstEmptySlot(next, winnerID, winnerSeed); err != nil {
				return nil, err
			}
			updated = append(updated, next)

		default:
			if m.BracketPosition%2 == 0 {
				next.TeamAID = intPtr(winnerID)
				next.SeedA = copyInt(winnerSeed)
			} else {
				next.TeamBID = intPtr(winnerID)
				next.SeedB = copyInt(winnerSeed)
			}
			updated = append(updated, next)
		}
	}

	if m.LoserNextMatchID != nil && loserID != nil {
		loserMatch, err := p.fetch(ctx, *m.LoserNextMatchID, m.ID)
		if err != nil {
			return nil, err
		}
		if err := fillFirstEmptySlot(loserMatch, *loserID, loserSeed); err != nil {
			return nil, err
		}
		updated = append(updated, loserMatch)
	}

	return updated, nil
}

func (p *Progression) fetch(ctx context.Context, id, fromMatchID int) (*models.Match, error) {
	next, err := p.source.MatchByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: match %d referenced by match %d: %v", ErrBrokenBracketLink, id, fromMatchID, err)
	}
	if next == nil {
		return nil, fmt.Errorf("%w: match %d referenced by match %d", ErrBrokenBracketLink, id, fromMatchID)
	}
	return next, nil
}

// fillFirstEmptySlot places a team in arrival order: A if free, otherwise B.
// A team already present in the match is left where it is, so replaying the
// same advancement is safe.
func fillFirstEmptySlot(m *models.Match, teamID int, seed *int) error {
	if m.HasTeam(teamID) {
		return nil
	}
	switch {
	case m.TeamAID == nil:
		m.TeamAID = intPtr(teamID)
		m.SeedA = copyInt(seed)
	case m.TeamBID == nil:
		m.TeamBID = intPtr(teamID)
		m.SeedB = copyInt(seed)
	default:
		return fmt.Errorf("%w: match %d cannot take team %d", ErrMatchSlotsFull, m.ID, teamID)
	}
	return nil
}

func intPtr(v int) *int { return &v }

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
