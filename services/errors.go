package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	// Lookups
	ErrSeasonNotFound = errors.New("season not found")
	ErrMatchNotFound  = errors.New("match not found")

	// Schedule generation
	ErrRosterTooSmall       = errors.New("at least two teams are required to generate a schedule")
	ErrSeedOrderMismatch    = errors.New("seed order must contain each roster team exactly once")
	ErrScheduleExists       = errors.New("schedule already generated for this season")
	ErrUnsupportedFormat    = errors.New("schedule format is not supported for bracket generation")
	ErrSeasonNotSchedulable = errors.New("season is not in a schedulable state")

	// Result recording
	ErrMatchAlreadyDecided = errors.New("match result already recorded")
	ErrMatchNotReady       = errors.New("match does not have both participants yet")
	ErrTieNotAllowed       = errors.New("bracket matches cannot end in a tie")
)
