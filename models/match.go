package models

import "time"

type ScheduleFormat string

const (
	FormatSingleElimination ScheduleFormat = "single_elimination"
	FormatDoubleElimination ScheduleFormat = "double_elimination"
	FormatRoundRobin        ScheduleFormat = "round_robin"
)

// IsBracket reports whether the format uses elimination-bracket progression.
// Round robin matches share the table but never advance anyone.
func (f ScheduleFormat) IsBracket() bool {
	return f == FormatSingleElimination || f == FormatDoubleElimination
}

// GrandFinalsRound is the bracket_round value of grand finals matches.
// Positive rounds are the winners bracket, negative rounds the losers bracket.
const GrandFinalsRound = 0

// Match is one unit of competition inside a season's schedule.
//
// Team and seed slots are nullable: a nil team is a TBD slot waiting for an
// upstream result, or a permanently empty side of a bye. NextMatchID is where
// the winner advances; LoserNextMatchID (double elimination only) is the
// losers-bracket match the loser drops into.
type Match struct {
	ID               int            `json:"id" db:"id"`
	SeasonID         int            `json:"season_id" db:"season_id"`
	Week             int            `json:"week" db:"week"`
	TeamAID          *int           `json:"team_a_id,omitempty" db:"team_a_id"`
	TeamBID          *int           `json:"team_b_id,omitempty" db:"team_b_id"`
	SeedA            *int           `json:"seed_a,omitempty" db:"seed_a"`
	SeedB            *int           `json:"seed_b,omitempty" db:"seed_b"`
	BracketRound     int            `json:"bracket_round" db:"bracket_round"`
	BracketPosition  int            `json:"bracket_position" db:"bracket_position"`
	NextMatchID      *int           `json:"next_match_id,omitempty" db:"next_match_id"`
	LoserNextMatchID *int           `json:"loser_next_match_id,omitempty" db:"loser_next_match_id"`
	IsBye            bool           `json:"is_bye" db:"is_bye"`
	IsBracketReset   bool           `json:"is_bracket_reset" db:"is_bracket_reset"`
	WinnerID         *int           `json:"winner_id,omitempty" db:"winner_id"`
	LoserID          *int           `json:"loser_id,omitempty" db:"loser_id"`
	ScheduleFormat   ScheduleFormat `json:"schedule_format" db:"schedule_format"`
	ResolvedAt       *time.Time     `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
}

// HasTeam reports whether teamID occupies either slot of the match.
func (m *Match) HasTeam(teamID int) bool {
	if m.TeamAID != nil && *m.TeamAID == teamID {
		return true
	}
	if m.TeamBID != nil && *m.TeamBID == teamID {
		return true
	}
	return false
}

// Decided reports whether a result has been recorded.
func (m *Match) Decided() bool {
	return m.WinnerID != nil
}

// IsGrandFinals reports whether the match is the first grand finals game
// (not the bracket reset).
func (m *Match) IsGrandFinals() bool {
	return m.BracketRound == GrandFinalsRound && !m.IsBracketReset
}
