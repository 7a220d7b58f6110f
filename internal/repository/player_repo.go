package repository

import (
	"context"

	"seabattle_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, p *domain.Player) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO players (username)
		 VALUES ($1)
		 RETURNING id, created_at`,
		p.Username,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, username, created_at
		 FROM players
		 WHERE username = $1`,
		username,
	)

	var p domain.Player
	if err := row.Scan(&p.ID, &p.Username, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, username, created_at
		 FROM players
		 WHERE id = $1`,
		id,
	)

	var p domain.Player
	if err := row.Scan(&p.ID, &p.Username, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
