package repository

import (
	"context"

	"seabattle_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RatingRepository is the write-behind store for the in-memory rating
// table. The in-memory table stays authoritative while the process
// lives; these rows feed the leaderboard and survive restarts.
type RatingRepository struct {
	db *pgxpool.Pool
}

func NewRatingRepository(db *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Upsert(ctx context.Context, playerID int64, rating int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ratings (player_id, rating, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (player_id)
		 DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()`,
		playerID, rating,
	)
	return err
}

func (r *RatingRepository) Get(ctx context.Context, playerID int64) (int, error) {
	var rating int
	err := r.db.QueryRow(ctx,
		`SELECT rating FROM ratings WHERE player_id = $1`,
		playerID,
	).Scan(&rating)
	return rating, err
}

// Top returns the highest-rated players for the leaderboard.
func (r *RatingRepository) Top(ctx context.Context, limit int) ([]*domain.RatingEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.player_id, p.username, r.rating
		 FROM ratings r
		 JOIN players p ON p.id = r.player_id
		 ORDER BY r.rating DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.RatingEntry
	for rows.Next() {
		var e domain.RatingEntry
		if err := rows.Scan(&e.PlayerID, &e.Username, &e.Rating); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
