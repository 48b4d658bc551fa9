package brackets

import "github.com/draftleague/bracket-engine/models"

// BuildDoubleElimination builds a full double-elimination schedule: a winners
// bracket identical to single elimination (positive rounds), a losers bracket
// (negative rounds), grand finals at round 0, and an optional bracket-reset
// match that only goes live if the losers-bracket champion wins grand finals.
//
// Losers-bracket shape: round -1 pairs all first-round losers against each
// other. Every later winners round r feeds a "minor" round at -(2*(r-1)) that
// pairs its drop-ins one-for-one with the prior losers round's survivors;
// whenever more than one survivor remains, a "major" round follows and halves
// the field again. The alternation ends with the losers final feeding grand
// finals, so both brackets exhaust at the same cadence.
//
// Fewer than four teams is rejected: the alternation above degenerates into
// rounds with no matches for 2-3 entrants.
func BuildDoubleElimination(seasonID int, seedOrder []int, includeBracketReset bool) ([]*models.Match, error) {
	if len(seedOrder) < 2 {
		return nil, ErrNotEnoughTeams
	}
	if len(seedOrder) < 4 {
		return nil, ErrDoubleElimTooSmall
	}

	b := newBuilder(seasonID, models.FormatDoubleElimination)
	size := NextPowerOfTwo(len(seedOrder))
	rounds := b.buildWinnersBracket(seedOrder)
	week := rounds

	// Losers bracket. lbRounds records the round indices in play order;
	// lbSizes the match count of each, needed to pick one-for-one versus
	// halving links below.
	var lbRounds, lbSizes []int

	week++
	for p := 0; p < size/4; p++ {
		b.add(-1, p, week)
	}
	lbRounds = append(lbRounds, -1)
	lbSizes = append(lbSizes, size/4)

	for r := 2; r <= rounds; r++ {
		minor := -(2 * (r - 1))
		dropIns := size >> uint(r)

		week++
		for p := 0; p < dropIns; p++ {
			b.add(minor, p, week)
		}
		lbRounds = append(lbRounds, minor)
		lbSizes = append(lbSizes, dropIns)

		if dropIns > 1 {
			major := minor - 1
			week++
			for p := 0; p < dropIns/2; p++ {
				b.add(major, p, week)
			}
			lbRounds = append(lbRounds, major)
			lbSizes = append(lbSizes, dropIns/2)
		}
	}

	// Grand finals, plus the optional reset game.
	week++
	grandFinals := b.add(models.GrandFinalsRound, 0, week)
	if includeBracketReset {
		reset := b.add(models.GrandFinalsRound, 1, week)
		reset.IsBracketReset = true
		grandFinals.NextMatchID = &reset.ID
	}

	// Winner advancement inside the losers bracket: minor rounds keep the
	// position (one-for-one), major rounds halve it, the losers final goes
	// to grand finals.
	for i, round := range lbRounds {
		if i == len(lbRounds)-1 {
			b.at(round, 0).NextMatchID = &grandFinals.ID
			continue
		}
		nextRound := lbRounds[i+1]
		halving := lbSizes[i+1] < lbSizes[i]
		for p := 0; p < lbSizes[i]; p++ {
			target := p
			if halving {
				target = p / 2
			}
			next := b.at(nextRound, target)
			b.at(round, p).NextMatchID = &next.ID
		}
	}

	// Winners final also feeds grand finals.
	b.at(rounds, 0).NextMatchID = &grandFinals.ID

	// Loser drop-down edges: two first-round matches share one round -1
	// match; every later winners round drops into its minor round at the
	// same position.
	for p := 0; p < size/2; p++ {
		target := b.at(-1, p/2)
		b.at(1, p).LoserNextMatchID = &target.ID
	}
	for r := 2; r <= rounds; r++ {
		minor := -(2 * (r - 1))
		for p := 0; p < size>>uint(r); p++ {
			target := b.at(minor, p)
			b.at(r, p).LoserNextMatchID = &target.ID
		}
	}

	// First-round byes produce no loser, so parts of the losers bracket can
	// be left permanently short. Turn the one-arrival matches into byes and
	// drop the zero-arrival ones, or the bracket never finishes.
	b.propagateLoserByes(lbRounds, lbSizes)

	return b.matches, nil
}

// propagateLoserByes accounts for first-round byes inside the losers
// bracket. Each losers-bracket match expects one arrival per feeder that can
// actually deliver a team: a non-bye winners match, or an upstream losers
// match that itself receives at least one team. A match expecting a single
// arrival becomes a bye, settled when that team drops in; a match expecting
// none is removed along with the links pointing at it. Rounds are processed
// in play order so upstream delivery status is known before it is needed.
func (b *builder) propagateLoserByes(lbRounds, lbSizes []int) {
	arrivals := make(map[int]int)
	for _, m := range b.matches {
		if m.BracketRound <= 0 || m.LoserNextMatchID == nil {
			continue
		}
		if m.IsBye {
			// A phantom opponent never drops down.
			m.LoserNextMatchID = nil
			continue
		}
		arrivals[*m.LoserNextMatchID]++
	}

	dead := make(map[int]bool)
	for i, round := range lbRounds {
		for p := 0; p < lbSizes[i]; p++ {
			m := b.at(round, p)
			switch arrivals[m.ID] {
			case 0:
				dead[m.ID] = true
				continue
			case 1:
				m.IsBye = true
			}
			if m.NextMatchID != nil {
				arrivals[*m.NextMatchID]++
			}
		}
	}

	if len(dead) == 0 {
		return
	}
	kept := b.matches[:0]
	for _, m := range b.matches {
		if !dead[m.ID] {
			kept = append(kept, m)
		}
	}
	b.matches = kept
}
