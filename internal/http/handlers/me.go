package handlers

import (
	"net/http"
	"strconv"

	"seabattle_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	playerID, ok := middleware.PlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	player, err := h.PlayerRepo.GetByID(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         player.ID,
		"username":   player.Username,
		"created_at": player.CreatedAt,
		"rating":     h.Engine.Ratings().Get(player.ID),
	})
}

// MyMatches returns the caller's persisted match history, newest first.
func (h *Handler) MyMatches(c *gin.Context) {
	playerID, ok := middleware.PlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.HistoryRepo.ListByPlayer(c.Request.Context(), playerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get match history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": records})
}

// Stats reports live matchmaking numbers, useful for ops dashboards.
func (h *Handler) Stats(c *gin.Context) {
	queued, matches := h.Engine.Stats()
	c.JSON(http.StatusOK, gin.H{
		"queued_players": queued,
		"live_matches":   matches,
	})
}
