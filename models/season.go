package models

import "time"

// SeasonStatus mirrors the season_status ENUM in the database.
type SeasonStatus string

const (
	SeasonStatusDraft     SeasonStatus = "draft"
	SeasonStatusActive    SeasonStatus = "active"
	SeasonStatusCompleted SeasonStatus = "completed"
	SeasonStatusCanceled  SeasonStatus = "canceled"
)

// Season is one competition instance inside a league. A season owns its
// schedule: all Match rows are created together when the schedule is
// generated and cascade-deleted with the season.
type Season struct {
	ID                  int            `json:"id" db:"id"`
	LeagueID            int            `json:"league_id" db:"league_id"`
	Name                string         `json:"name" db:"name"`
	ScheduleFormat      ScheduleFormat `json:"schedule_format" db:"schedule_format"`
	IncludeBracketReset bool           `json:"include_bracket_reset" db:"include_bracket_reset"`
	Status              SeasonStatus   `json:"status" db:"status"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`

	// Loaded on demand, not mapped directly.
	Matches []Match `json:"matches,omitempty" db:"-"`
}
