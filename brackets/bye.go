package brackets

import (
	"time"

	"github.com/draftleague/bracket-engine/models"
)

// ResolvedBye is a bye match settled by ResolveByes, ready to be fed through
// the progression engine like any recorded result.
type ResolvedBye struct {
	Match    *models.Match
	WinnerID int
}

// ResolveByes settles every bye match that already has its team: the present
// team (always the A slot) becomes the winner and the resolution time is
// stamped. Run right after schedule generation to settle first-round byes;
// losers-bracket byes have no team yet and settle later, when progression
// drops one in. Calling it again is harmless because decided matches are
// skipped.
func ResolveByes(matches []*models.Match, now time.Time) []ResolvedBye {
	var resolved []ResolvedBye
	for _, m := range matches {
		if !m.IsBye || m.TeamAID == nil || m.WinnerID != nil {
			continue
		}
		winner := *m.TeamAID
		resolvedAt := now
		m.WinnerID = &winner
		m.ResolvedAt = &resolvedAt
		resolved = append(resolved, ResolvedBye{Match: m, WinnerID: winner})
	}
	return resolved
}
