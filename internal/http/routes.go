package http

import (
	"time"

	"seabattle_backend/internal/config"
	"seabattle_backend/internal/engine"
	"seabattle_backend/internal/http/handlers"
	"seabattle_backend/internal/http/middleware"
	"seabattle_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, eng *engine.Engine, hub *ws.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, eng)
	healthHandler := handlers.NewHealthHandler(db, version)

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second
	authRateWindow := time.Duration(cfg.AuthRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))

	// Auth gets a tighter per-IP limit than the rest of the API.
	v1.POST("/auth", middleware.RedisRateLimit(cfg.AuthRateLimit, authRateWindow), h.Auth)

	// Authenticated reads are limited per player, not per IP, so a
	// shared NAT does not starve individual players.
	playerRL := middleware.PlayerRateLimit(cfg.APIRateLimit, apiRateWindow)
	v1.GET("/me", middleware.JWT(), playerRL, h.Me)
	v1.GET("/me/rating", middleware.JWT(), playerRL, h.MyRating)
	v1.GET("/me/matches", middleware.JWT(), playerRL, h.MyMatches)

	v1.GET("/leaderboard", h.Leaderboard)
	v1.GET("/stats", h.Stats)

	// WebSocket for matches; auth happens inside the handler because
	// browsers cannot set headers on the upgrade request.
	r.GET("/ws", ws.HandleWS(hub, cfg.AllowedOrigin))
}
