package brackets

import (
	"errors"

	"github.com/draftleague/bracket-engine/models"
)

var (
	ErrNotEnoughTeams     = errors.New("at least 2 teams are required to build a bracket")
	ErrDoubleElimTooSmall = errors.New("double elimination requires at least 4 teams")
)

// builder is the construction arena for one bracket. Matches receive local
// sequential ids (1..n); NextMatchID and LoserNextMatchID reference those
// local ids until the persistence layer remaps them to database ids. The
// (round, position) index exists only while building and is discarded with
// the builder.
type builder struct {
	seasonID int
	format   models.ScheduleFormat
	nextID   int
	matches  []*models.Match
	byPos    map[[2]int]*models.Match
}

func newBuilder(seasonID int, format models.ScheduleFormat) *builder {
	return &builder{
		seasonID: seasonID,
		format:   format,
		byPos:    make(map[[2]int]*models.Match),
	}
}

func (b *builder) add(round, position, week int) *models.Match {
	b.nextID++
	m := &models.Match{
		ID:              b.nextID,
		SeasonID:        b.seasonID,
		Week:            week,
		BracketRound:    round,
		BracketPosition: position,
		ScheduleFormat:  b.format,
	}
	b.matches = append(b.matches, m)
	b.byPos[[2]int{round, position}] = m
	return m
}

func (b *builder) at(round, position int) *models.Match {
	return b.byPos[[2]int{round, position}]
}

// buildWinnersBracket creates rounds 1..log2(size) with seeded first-round
// slots and parity links between consecutive rounds. The final round's match
// is left unlinked; single elimination keeps it that way, double elimination
// points it at grand finals afterwards. Returns the number of rounds built.
func (b *builder) buildWinnersBracket(seedOrder []int) int {
	size := NextPowerOfTwo(len(seedOrder))
	rounds := roundCount(size)
	positions := BracketPositions(size)

	for p := 0; p < size/2; p++ {
		m := b.add(1, p, 1)

		// positions pairs every seed with its mirror, so the even index is
		// always the better (lower) seed and any phantom lands on the B side.
		seedA := positions[2*p]
		seedB := positions[2*p+1]
		if seedA <= len(seedOrder) {
			teamA := seedOrder[seedA-1]
			sa := seedA
			m.TeamAID = &teamA
			m.SeedA = &sa
		}
		if seedB <= len(seedOrder) {
			teamB := seedOrder[seedB-1]
			sb := seedB
			m.TeamBID = &teamB
			m.SeedB = &sb
		}
		if m.TeamAID != nil && m.TeamBID == nil {
			m.IsBye = true
		}
	}

	for r := 2; r <= rounds; r++ {
		for p := 0; p < size>>uint(r); p++ {
			b.add(r, p, r)
		}
	}

	for r := 1; r < rounds; r++ {
		for p := 0; p < size>>uint(r); p++ {
			next := b.at(r+1, p/2)
			b.at(r, p).NextMatchID = &next.ID
		}
	}

	return rounds
}
