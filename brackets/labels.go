package brackets

import "fmt"

// RoundLabel maps a match's bracket coordinates to a display name.
// totalWinnersRounds is the number of winners-bracket rounds in the schedule
// (log2 of the padded bracket size).
func RoundLabel(bracketRound, totalWinnersRounds int, isBracketReset bool) string {
	if isBracketReset {
		return "Grand Finals Reset"
	}
	if bracketRound == 0 {
		return "Grand Finals"
	}
	if bracketRound < 0 {
		return fmt.Sprintf("Losers Round %d", -bracketRound)
	}

	switch totalWinnersRounds - bracketRound {
	case 0:
		return "Finals"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	default:
		return fmt.Sprintf("Round %d", bracketRound)
	}
}
