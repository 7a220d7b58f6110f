package handlers

import (
	"seabattle_backend/internal/engine"
	"seabattle_backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB          *pgxpool.Pool
	Engine      *engine.Engine
	PlayerRepo  *repository.PlayerRepository
	RatingRepo  *repository.RatingRepository
	HistoryRepo *repository.MatchHistoryRepository
}

func NewHandler(db *pgxpool.Pool, eng *engine.Engine) *Handler {
	return &Handler{
		DB:          db,
		Engine:      eng,
		PlayerRepo:  repository.NewPlayerRepository(db),
		RatingRepo:  repository.NewRatingRepository(db),
		HistoryRepo: repository.NewMatchHistoryRepository(db),
	}
}
