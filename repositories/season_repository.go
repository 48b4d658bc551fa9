package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/draftleague/bracket-engine/models"
)

var ErrSeasonNotFound = errors.New("season not found")

// SeasonRepository reads and transitions seasons. Season creation belongs to
// the platform's league CRUD; this service only schedules existing seasons.
type SeasonRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Season, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.SeasonStatus) error
}

type postgresSeasonRepository struct{}

func NewPostgresSeasonRepository() SeasonRepository {
	return &postgresSeasonRepository{}
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Season, error) {
	query := `
		SELECT id, league_id, name, schedule_format, include_bracket_reset, status, created_at
		FROM seasons
		WHERE id = $1`

	season := &models.Season{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&season.ID,
		&season.LeagueID,
		&season.Name,
		&season.ScheduleFormat,
		&season.IncludeBracketReset,
		&season.Status,
		&season.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to scan season by id %d: %w", id, err)
	}
	return season, nil
}

func (r *postgresSeasonRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.SeasonStatus) error {
	result, err := exec.ExecContext(ctx, `UPDATE seasons SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("UpdateStatus: failed to execute query for season %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

