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
	"golang.org/x/sync/errgroup"
)

// GenerateScheduleRequest is the roster a league supplies when it locks a
// season's schedule. SeedOrder lists team ids by seed rank, best first; when
// omitted, TeamIDs order is the seed order.
type GenerateScheduleRequest struct {
	TeamIDs   []int `json:"team_ids"`
	SeedOrder []int `json:"seed_order,omitempty"`
}

type ScheduleService interface {
	GenerateSchedule(ctx context.Context, seasonID int, req GenerateScheduleRequest) (*models.Season, error)
	GetSeasonBracket(ctx context.Context, seasonID int) (*models.Season, error)
	ClearSchedule(ctx context.Context, seasonID int) error
}

type scheduleService struct {
	db         *sql.DB
	seasonRepo repositories.SeasonRepository
	matchRepo  repositories.MatchRepository
	publisher  *bracketPublisher
	logger     *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	snapshots storage.SnapshotStore,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		db:         db,
		seasonRepo: seasonRepo,
		matchRepo:  matchRepo,
		publisher:  newBracketPublisher(hub, snapshots, logger),
		logger:     logger,
	}
}

// GenerateSchedule builds the season's bracket, persists it in one
// transaction, settles byes, and announces the new bracket. Generation is
// one-shot per season: a season that already has matches is rejected.
func (s *scheduleService) GenerateSchedule(ctx context.Context, seasonID int, req GenerateScheduleRequest) (*models.Season, error) {
	season, err := s.seasonRepo.GetByID(ctx, s.db, seasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to load season %d: %w", seasonID, err)
	}
	if season.Status == models.SeasonStatusCompleted || season.Status == models.SeasonStatusCanceled {
		return nil, ErrSeasonNotSchedulable
	}

	seedOrder, err := resolveSeedOrder(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.matchRepo.CountBySeason(ctx, s.db, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to count existing matches for season %d: %w", seasonID, err)
	}
	if existing > 0 {
		return nil, ErrScheduleExists
	}

	var built []*models.Match
	switch season.ScheduleFormat {
	case models.FormatSingleElimination:
		built, err = brackets.BuildSingleElimination(seasonID, seedOrder)
	case models.FormatDoubleElimination:
		built, err = brackets.BuildDoubleElimination(seasonID, seedOrder, season.IncludeBracketReset)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	if err := s.persistSchedule(ctx, season, built); err != nil {
		return nil, err
	}
	season.Status = models.SeasonStatusActive

	matches, err := s.matchRepo.ListBySeason(ctx, s.db, seasonID, nil)
	if err != nil {
		return nil, fmt.Errorf("schedule saved for season %d, but failed to reload it: %w", seasonID, err)
	}
	season.Matches = derefMatches(matches)

	s.publisher.publish(ctx, season, live.EventBracketGenerated, matches)
	s.logger.Info("schedule generated",
		slog.Int("season_id", seasonID),
		slog.String("format", string(season.ScheduleFormat)),
		slog.Int("teams", len(seedOrder)),
		slog.Int("matches", len(matches)))
	return season, nil
}

// persistSchedule writes the built matches in one transaction. Builders hand
// out local ids, so persistence is two passes: insert every row to obtain
// database ids, then rewrite next_match_id / loser_next_match_id through the
// local-to-database id map. Byes are settled last and their winners advanced
// so round 2 slots are filled before the first real result arrives.
func (s *scheduleService) persistSchedule(ctx context.Context, season *models.Season, built []*models.Match) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
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
			err = fmt.Errorf("failed to commit schedule transaction: %w", cErr)
		}
	}()

	idMap := make(map[int]int, len(built))
	for _, m := range built {
		localID := m.ID
		if err = s.matchRepo.Create(ctx, tx, m); err != nil {
			return fmt.Errorf("failed to create match for season %d: %w", season.ID, err)
		}
		idMap[localID] = m.ID
	}

	for _, m := range built {
		next, mapErr := remapLink(idMap, m.NextMatchID)
		if mapErr != nil {
			err = mapErr
			return err
		}
		loserNext, mapErr := remapLink(idMap, m.LoserNextMatchID)
		if mapErr != nil {
			err = mapErr
			return err
		}
		m.NextMatchID, m.LoserNextMatchID = next, loserNext
		if next == nil && loserNext == nil {
			continue
		}
		if err = s.matchRepo.UpdateBracketLinks(ctx, tx, m.ID, next, loserNext); err != nil {
			return fmt.Errorf("failed to link match %d: %w", m.ID, err)
		}
	}

	for _, bye := range brackets.ResolveByes(built, time.Now().UTC()) {
		if err = s.matchRepo.UpdateResult(ctx, tx, bye.Match.ID, bye.WinnerID, nil, *bye.Match.ResolvedAt); err != nil {
			return fmt.Errorf("failed to record bye result for match %d: %w", bye.Match.ID, err)
		}
		if _, err = advanceResult(ctx, s.matchRepo, tx, bye.Match, bye.WinnerID, nil); err != nil {
			return err
		}
	}

	if err = s.seasonRepo.UpdateStatus(ctx, tx, season.ID, models.SeasonStatusActive); err != nil {
		return fmt.Errorf("failed to activate season %d: %w", season.ID, err)
	}
	return nil
}

// ClearSchedule deletes a season's generated bracket and returns the season
// to draft so it can be regenerated with a corrected roster. Completed and
// canceled seasons keep their history and are rejected.
func (s *scheduleService) ClearSchedule(ctx context.Context, seasonID int) error {
	season, err := s.seasonRepo.GetByID(ctx, s.db, seasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return ErrSeasonNotFound
		}
		return fmt.Errorf("failed to load season %d: %w", seasonID, err)
	}
	if season.Status == models.SeasonStatusCompleted || season.Status == models.SeasonStatusCanceled {
		return ErrSeasonNotSchedulable
	}

	deleted, err := s.clearSchedule(ctx, seasonID)
	if err != nil {
		return err
	}

	s.publisher.clear(ctx, seasonID)
	s.logger.Info("schedule cleared",
		slog.Int("season_id", seasonID),
		slog.Int("matches_deleted", deleted))
	return nil
}

func (s *scheduleService) clearSchedule(ctx context.Context, seasonID int) (deleted int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
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
			err = fmt.Errorf("failed to commit clear transaction: %w", cErr)
		}
	}()

	deleted, err = s.matchRepo.DeleteBySeason(ctx, tx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches for season %d: %w", seasonID, err)
	}
	if err = s.seasonRepo.UpdateStatus(ctx, tx, seasonID, models.SeasonStatusDraft); err != nil {
		return 0, fmt.Errorf("failed to reset season %d to draft: %w", seasonID, err)
	}
	return deleted, nil
}

// GetSeasonBracket loads the season and its matches in parallel.
func (s *scheduleService) GetSeasonBracket(ctx context.Context, seasonID int) (*models.Season, error) {
	var (
		season  *models.Season
		matches []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := s.seasonRepo.GetByID(gCtx, s.db, seasonID)
		if err != nil {
			if errors.Is(err, repositories.ErrSeasonNotFound) {
				return ErrSeasonNotFound
			}
			return fmt.Errorf("failed to load season %d: %w", seasonID, err)
		}
		season = loaded
		return nil
	})
	g.Go(func() error {
		loaded, err := s.matchRepo.ListBySeason(gCtx, s.db, seasonID, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches for season %d: %w", seasonID, err)
		}
		matches = loaded
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	season.Matches = derefMatches(matches)
	return season, nil
}

func resolveSeedOrder(req GenerateScheduleRequest) ([]int, error) {
	if len(req.TeamIDs) < 2 {
		return nil, ErrRosterTooSmall
	}
	roster := make(map[int]bool, len(req.TeamIDs))
	for _, id := range req.TeamIDs {
		if roster[id] {
			return nil, ErrSeedOrderMismatch
		}
		roster[id] = true
	}

	if len(req.SeedOrder) == 0 {
		return req.TeamIDs, nil
	}
	if len(req.SeedOrder) != len(req.TeamIDs) {
		return nil, ErrSeedOrderMismatch
	}
	seen := make(map[int]bool, len(req.SeedOrder))
	for _, id := range req.SeedOrder {
		if !roster[id] || seen[id] {
			return nil, ErrSeedOrderMismatch
		}
		seen[id] = true
	}
	return req.SeedOrder, nil
}

func remapLink(idMap map[int]int, localID *int) (*int, error) {
	if localID == nil {
		return nil, nil
	}
	dbID, ok := idMap[*localID]
	if !ok {
		return nil, fmt.Errorf("builder produced a link to unknown local match id %d", *localID)
	}
	return &dbID, nil
}

func derefMatches(matches []*models.Match) []models.Match {
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}
