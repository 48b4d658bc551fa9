package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/draftleague/bracket-engine/brackets"
	"github.com/draftleague/bracket-engine/live"
	"github.com/draftleague/bracket-engine/models"
	"github.com/draftleague/bracket-engine/storage"
)

// matchView is a match enriched with its display label for subscribers and
// the stored snapshot.
type matchView struct {
	models.Match
	RoundLabel string `json:"round_label"`
}

// bracketPublisher fans a season's bracket state out to websocket subscribers
// and, when a snapshot store is configured, uploads a JSON snapshot for the
// frontend to embed. Publishing is best effort: failures are logged, never
// returned, because the transaction that produced the state has already
// committed.
type bracketPublisher struct {
	hub       *live.Hub
	snapshots storage.SnapshotStore
	logger    *slog.Logger
}

func newBracketPublisher(hub *live.Hub, snapshots storage.SnapshotStore, logger *slog.Logger) *bracketPublisher {
	return &bracketPublisher{hub: hub, snapshots: snapshots, logger: logger}
}

func (p *bracketPublisher) publish(ctx context.Context, season *models.Season, eventType string, matches []*models.Match) {
	views := buildMatchViews(matches)

	if p.hub != nil {
		p.hub.BroadcastToRoom(live.SeasonRoom(season.ID), live.Event{
			Type:    eventType,
			Payload: map[string]interface{}{"season_id": season.ID, "matches": views},
		})
	}

	if p.snapshots == nil {
		return
	}
	snapshot, err := json.Marshal(map[string]interface{}{
		"season":  season,
		"matches": views,
	})
	if err != nil {
		p.logger.Error("failed to marshal bracket snapshot", slog.Int("season_id", season.ID), slog.Any("error", err))
		return
	}
	key := snapshotKey(season.ID)
	if _, err := p.snapshots.Upload(ctx, key, "application/json", bytes.NewReader(snapshot)); err != nil {
		p.logger.Error("failed to upload bracket snapshot", slog.Int("season_id", season.ID), slog.Any("error", err))
		return
	}
	p.logger.Info("bracket snapshot uploaded", slog.Int("season_id", season.ID), slog.String("key", key))
}

// clear tells subscribers the bracket is gone and removes the stored
// snapshot so stale state cannot be served after a regeneration.
func (p *bracketPublisher) clear(ctx context.Context, seasonID int) {
	if p.hub != nil {
		p.hub.BroadcastToRoom(live.SeasonRoom(seasonID), live.Event{
			Type:    live.EventBracketCleared,
			Payload: map[string]interface{}{"season_id": seasonID},
		})
	}
	if p.snapshots == nil {
		return
	}
	if err := p.snapshots.Delete(ctx, snapshotKey(seasonID)); err != nil {
		p.logger.Error("failed to delete bracket snapshot", slog.Int("season_id", seasonID), slog.Any("error", err))
		return
	}
	p.logger.Info("bracket snapshot deleted", slog.Int("season_id", seasonID))
}

func snapshotKey(seasonID int) string {
	return fmt.Sprintf("brackets/season_%d.json", seasonID)
}

func buildMatchViews(matches []*models.Match) []matchView {
	totalWinnersRounds := 0
	for _, m := range matches {
		if m.BracketRound > totalWinnersRounds {
			totalWinnersRounds = m.BracketRound
		}
	}
	views := make([]matchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, matchView{
			Match:      *m,
			RoundLabel: brackets.RoundLabel(m.BracketRound, totalWinnersRounds, m.IsBracketReset),
		})
	}
	return views
}
