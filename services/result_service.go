package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/draftleague/bracket-engine/brackets"
	"github.com/draftleague/bracket-engine/live"
	"github.com/draftleague/bracket-engine/models"
	"github.com/draftleague/bracket-engine/repositories"
	"github.com/draftleague/bracket-engine/storage"
)

// RecordResultRequest reports a finished match. LoserID may be omitted when
// both participants are known; it is derived from the winner.
type RecordResultRequest struct {
	WinnerID int  `json:"winner_id"`
	LoserID  *int `json:"loser_id,omitempty"`
}

type ResultService interface {
	RecordResult(ctx context.Context, matchID int, req RecordResultRequest) (*models.Match, error)
}

type resultService struct {
	db         *sql.DB
	seasonRepo repositories.SeasonRepository
	matchRepo  repositories.MatchRepository
	publisher  *bracketPublisher
	logger     *slog.Logger
}

func NewResultService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	snapshots storage.SnapshotStore,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		db:         db,
		seasonRepo: seasonRepo,
		matchRepo:  matchRepo,
		publisher:  newBracketPublisher(hub, snapshots, logger),
		logger:     logger,
	}
}

// RecordResult stores a match result, advances the winner (and, in double
// elimination, drops the loser) through the bracket, then announces the
// updated bracket to subscribers.
func (s *resultService) RecordResult(ctx context.Context, matchID int, req RecordResultRequest) (*models.Match, error) {
	match, advanced, err := s.applyResult(ctx, matchID, req)
	if err != nil {
		return nil, err
	}

	s.announce(ctx, match.SeasonID)
	s.logger.Info("match result recorded",
		slog.Int("match_id", matchID),
		slog.Int("season_id", match.SeasonID),
		slog.Int("winner_id", req.WinnerID),
		slog.Int("advanced_matches", advanced))
	return match, nil
}

// applyResult performs the read-validate-write cycle in one transaction:
// loading the match, writing the result, and writing every downstream slot
// the progression engine touched. The single transaction serializes
// concurrent reports that target the same downstream match, which the
// engine's first-empty-slot rule requires.
func (s *resultService) applyResult(ctx context.Context, matchID int, req RecordResultRequest) (match *models.Match, advanced int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			match = nil
			err = fmt.Errorf("failed to commit result transaction: %w", cErr)
		}
	}()

	match, err = s.matchRepo.GetByID(ctx, tx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, 0, ErrMatchNotFound
		}
		return nil, 0, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	var loserID *int
	loserID, err = validateResultReport(match, req)
	if err != nil {
		return nil, 0, err
	}

	resolvedAt := time.Now().UTC()
	if err = s.matchRepo.UpdateResult(ctx, tx, matchID, req.WinnerID, loserID, resolvedAt); err != nil {
		return nil, 0, fmt.Errorf("failed to record result for match %d: %w", matchID, err)
	}
	winnerID := req.WinnerID
	match.WinnerID = &winnerID
	match.LoserID = loserID
	match.ResolvedAt = &resolvedAt

	advanced, err = advanceResult(ctx, s.matchRepo, tx, match, req.WinnerID, loserID)
	if err != nil {
		return nil, 0, err
	}

	return match, advanced, nil
}

// validateResultReport checks that a report can be applied to the match and
// derives the loser when the request omits it.
func validateResultReport(match *models.Match, req RecordResultRequest) (*int, error) {
	if match.Decided() {
		return nil, ErrMatchAlreadyDecided
	}
	if !match.HasTeam(req.WinnerID) {
		return nil, brackets.ErrWinnerNotInMatch
	}
	// Parity fills can seat the B side before the A side, so either empty
	// slot means the match is still waiting on a feeder.
	if match.ScheduleFormat.IsBracket() && !match.IsBye && (match.TeamAID == nil || match.TeamBID == nil) {
		return nil, ErrMatchNotReady
	}

	loserID := req.LoserID
	if loserID == nil {
		loserID = otherTeam(match, req.WinnerID)
	}
	if loserID != nil && *loserID == req.WinnerID {
		return nil, ErrTieNotAllowed
	}
	return loserID, nil
}

func (s *resultService) announce(ctx context.Context, seasonID int) {
	season, err := s.seasonRepo.GetByID(ctx, s.db, seasonID)
	if err != nil {
		s.logger.Error("result recorded but season reload failed", slog.Int("season_id", seasonID), slog.Any("error", err))
		return
	}
	matches, err := s.matchRepo.ListBySeason(ctx, s.db, seasonID, nil)
	if err != nil {
		s.logger.Error("result recorded but match reload failed", slog.Int("season_id", seasonID), slog.Any("error", err))
		return
	}
	s.publisher.publish(ctx, season, live.EventMatchUpdated, matches)
}

func otherTeam(m *models.Match, winnerID int) *int {
	if m.TeamAID != nil && m.TeamBID != nil {
		if *m.TeamAID == winnerID {
			loser := *m.TeamBID
			return &loser
		}
		loser := *m.TeamAID
		return &loser
	}
	return nil
}
