package handlers

import (
	"net/http"
	"strconv"

	"seabattle_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// Leaderboard returns the persisted top ratings.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	top, err := h.RatingRepo.Top(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": top})
}

// MyRating returns the caller's live in-memory rating alongside the
// last persisted value. The live number is the one the engine will use
// for the next match result.
func (h *Handler) MyRating(c *gin.Context) {
	playerID, ok := middleware.PlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	live := h.Engine.Ratings().Get(playerID)

	persisted, err := h.RatingRepo.Get(c.Request.Context(), playerID)
	if err != nil {
		persisted = live
	}

	c.JSON(http.StatusOK, gin.H{
		"player_id": playerID,
		"rating":    live,
		"persisted": persisted,
	})
}
