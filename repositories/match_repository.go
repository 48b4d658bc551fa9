package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/draftleague/bracket-engine/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchSeasonInvalid = errors.New("match season conflict or invalid")
	ErrMatchTeamInvalid   = errors.New("match team conflict or invalid")
	ErrMatchWinnerInvalid = errors.New("match winner conflict or invalid")
	ErrMatchLinkInvalid   = errors.New("match bracket link conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, round *int) ([]*models.Match, error)
	CountBySeason(ctx context.Context, exec SQLExecutor, seasonID int) (int, error)
	UpdateBracketLinks(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID, loserNextMatchID *int) error
	UpdateSlots(ctx context.Context, exec SQLExecutor, matchID int, teamAID, seedA, teamBID, seedB *int) error
	UpdateResult(ctx context.Context, exec SQLExecutor, matchID int, winnerID int, loserID *int, resolvedAt time.Time) error
	DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) (int, error)
}

type postgresMatchRepository struct{}

// NewPostgresMatchRepository returns a MatchRepository backed by Postgres.
// All methods take an SQLExecutor so the schedule and result services can run
// them inside their own transactions.
func NewPostgresMatchRepository() MatchRepository {
	return &postgresMatchRepository{}
}

const matchColumns = `id, season_id, week, team_a_id, team_b_id, seed_a, seed_b,
	       bracket_round, bracket_position, next_match_id, loser_next_match_id,
	       is_bye, is_bracket_reset, winner_id, loser_id, schedule_format,
	       resolved_at, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(season_id, week, team_a_id, team_b_id, seed_a, seed_b,
			 bracket_round, bracket_position, next_match_id, loser_next_match_id,
			 is_bye, is_bracket_reset, winner_id, loser_id, schedule_format, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.SeasonID,
		match.Week,
		match.TeamAID,
		match.TeamBID,
		match.SeedA,
		match.SeedB,
		match.BracketRound,
		match.BracketPosition,
		nil, // links are resolved to database ids in a second pass
		nil,
		match.IsBye,
		match.IsBracketReset,
		match.WinnerID,
		match.LoserID,
		match.ScheduleFormat,
		match.ResolvedAt,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.getByID(ctx, exec, id, "")
}

// GetByIDForUpdate loads a match and locks its row for the rest of the
// transaction. Progression reads go through this so two results feeding the
// same downstream match cannot both observe an empty slot.
func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.getByID(ctx, exec, id, " FOR UPDATE")
}

func (r *postgresMatchRepository) getByID(ctx context.Context, exec SQLExecutor, id int, locking string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1` + locking

	match := &models.Match{}
	err := scanMatch(exec.QueryRowContext(ctx, query, id), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, roundFilter *int) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE season_id = $1`)

	args := []interface{}{seasonID}
	if roundFilter != nil {
		queryBuilder.WriteString(" AND bracket_round = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *roundFilter)
	}
	queryBuilder.WriteString(" ORDER BY week ASC, bracket_position ASC, id ASC")

	rows, err := exec.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for season %d: %w", seasonID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := scanMatch(rows, &match); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountBySeason(ctx context.Context, exec SQLExecutor, seasonID int) (int, error) {
	var count int
	err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE season_id = $1`, seasonID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for season %d: %w", seasonID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) UpdateBracketLinks(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID, loserNextMatchID *int) error {
	query := `UPDATE matches SET next_match_id = $1, loser_next_match_id = $2 WHERE id = $3`
	result, err := exec.ExecContext(ctx, query, nextMatchID, loserNextMatchID, matchID)
	if err != nil {
		return fmt.Errorf("UpdateBracketLinks: failed to execute query for match %d: %w", matchID, r.handleMatchError(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSlots(ctx context.Context, exec SQLExecutor, matchID int, teamAID, seedA, teamBID, seedB *int) error {
	query := `UPDATE matches SET team_a_id = $1, seed_a = $2, team_b_id = $3, seed_b = $4 WHERE id = $5`
	result, err := exec.ExecContext(ctx, query, teamAID, seedA, teamBID, seedB, matchID)
	if err != nil {
		return fmt.Errorf("UpdateSlots: failed to execute query for match %d: %w", matchID, r.handleMatchError(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) (int, error) {
	result, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE season_id = $1`, seasonID)
	if err != nil {
		return 0, fmt.Errorf("DeleteBySeason: failed to execute query for season %d: %w", seasonID, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return int(deleted), nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, matchID int, winnerID int, loserID *int, resolvedAt time.Time) error {
	query := `UPDATE matches SET winner_id = $1, loser_id = $2, resolved_at = $3 WHERE id = $4`
	result, err := exec.ExecContext(ctx, query, winnerID, loserID, resolvedAt, matchID)
	if err != nil {
		return fmt.Errorf("UpdateResult: failed to execute query for match %d: %w", matchID, r.handleMatchError(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner, match *models.Match) error {
	return row.Scan(
		&match.ID,
		&match.SeasonID,
		&match.Week,
		&match.TeamAID,
		&match.TeamBID,
		&match.SeedA,
		&match.SeedB,
		&match.BracketRound,
		&match.BracketPosition,
		&match.NextMatchID,
		&match.LoserNextMatchID,
		&match.IsBye,
		&match.IsBracketReset,
		&match.WinnerID,
		&match.LoserID,
		&match.ScheduleFormat,
		&match.ResolvedAt,
		&match.CreatedAt,
	)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_season_id_fkey":
			return ErrMatchSeasonInvalid
		case "matches_team_a_id_fkey", "matches_team_b_id_fkey":
			return ErrMatchTeamInvalid
		case "matches_winner_id_fkey", "matches_loser_id_fkey":
			return ErrMatchWinnerInvalid
		case "matches_next_match_id_fkey", "matches_loser_next_match_id_fkey":
			return ErrMatchLinkInvalid
		}
	}
	return err
}
