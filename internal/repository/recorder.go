package repository

import (
	"context"

	"seabattle_backend/internal/domain"
	"seabattle_backend/internal/engine"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EngineRecorder adapts the repositories to the engine's Recorder
// interface. One completed match becomes two history rows.
type EngineRecorder struct {
	history *MatchHistoryRepository
	ratings *RatingRepository
}

func NewEngineRecorder(db *pgxpool.Pool) *EngineRecorder {
	return &EngineRecorder{
		history: NewMatchHistoryRepository(db),
		ratings: NewRatingRepository(db),
	}
}

func (r *EngineRecorder) RecordResult(ctx context.Context, res engine.MatchResult) error {
	winner := &domain.MatchRecord{
		MatchID:     res.MatchID,
		PlayerID:    res.WinnerID,
		OpponentID:  res.LoserID,
		Outcome:     domain.MatchOutcomeWin,
		Reason:      res.Reason,
		RatingAfter: res.Change.Winner,
		RatingDelta: res.Change.WinnerDelta,
	}
	if err := r.history.Create(ctx, winner); err != nil {
		return err
	}

	loser := &domain.MatchRecord{
		MatchID:     res.MatchID,
		PlayerID:    res.LoserID,
		OpponentID:  res.WinnerID,
		Outcome:     domain.MatchOutcomeLose,
		Reason:      res.Reason,
		RatingAfter: res.Change.Loser,
		RatingDelta: res.Change.LoserDelta,
	}
	return r.history.Create(ctx, loser)
}

func (r *EngineRecorder) SaveRating(ctx context.Context, playerID int64, rating int) error {
	return r.ratings.Upsert(ctx, playerID, rating)
}
