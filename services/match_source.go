package services

import (
	"context"

	"github.com/draftleague/bracket-engine/models"
	"github.com/draftleague/bracket-engine/repositories"
)

// repoMatchSource adapts a MatchRepository bound to one executor (normally
// the transaction driving a progression) into the brackets.MatchSource the
// engine follows links with. Loads take a row lock so two results feeding
// the same downstream match cannot both observe an empty slot.
type repoMatchSource struct {
	repo repositories.MatchRepository
	exec repositories.SQLExecutor
}

func (s repoMatchSource) MatchByID(ctx context.Context, id int) (*models.Match, error) {
	return s.repo.GetByIDForUpdate(ctx, s.exec, id)
}
