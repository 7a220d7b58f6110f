package repository

import (
	"context"

	"seabattle_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchHistoryRepository struct {
	db *pgxpool.Pool
}

func NewMatchHistoryRepository(db *pgxpool.Pool) *MatchHistoryRepository {
	return &MatchHistoryRepository{db: db}
}

func (r *MatchHistoryRepository) Create(ctx context.Context, rec *domain.MatchRecord) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO match_history (match_id, player_id, opponent_id, outcome, reason, rating_after, rating_delta)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		rec.MatchID,
		rec.PlayerID,
		rec.OpponentID,
		rec.Outcome,
		rec.Reason,
		rec.RatingAfter,
		rec.RatingDelta,
	).Scan(&rec.ID, &rec.CreatedAt)
}

func (r *MatchHistoryRepository) ListByPlayer(ctx context.Context, playerID int64, limit int) ([]*domain.MatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, match_id, player_id, opponent_id, outcome, reason, rating_after, rating_delta, created_at
		 FROM match_history
		 WHERE player_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.MatchRecord
	for rows.Next() {
		var rec domain.MatchRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.MatchID,
			&rec.PlayerID,
			&rec.OpponentID,
			&rec.Outcome,
			&rec.Reason,
			&rec.RatingAfter,
			&rec.RatingDelta,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
