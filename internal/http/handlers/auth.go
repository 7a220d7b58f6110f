package handlers

import (
	"net/http"
	"strings"

	"seabattle_backend/internal/domain"
	"seabattle_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	Username string `json:"username"`
}

// Auth issues a token for a username, creating the player on first
// sight. There is no password: identity here is only a stable handle
// for matchmaking and ratings.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || len(username) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 1-32 characters"})
		return
	}

	ctx := c.Request.Context()

	player, err := h.PlayerRepo.GetByUsername(ctx, username)
	if err != nil {
		player = &domain.Player{Username: username}
		if err := h.PlayerRepo.Create(ctx, player); err != nil {
			// lost a create race: the row exists now, read it back
			if existing, lookupErr := h.PlayerRepo.GetByUsername(ctx, username); lookupErr == nil {
				player = existing
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create player"})
				return
			}
		}
	}

	token, err := service.GenerateJWT(player.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"player": gin.H{
			"id":         player.ID,
			"username":   player.Username,
			"created_at": player.CreatedAt,
		},
	})
}
