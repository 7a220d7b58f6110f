package middleware

import (
	"net/http"
	"strings"

	"seabattle_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates requests via the Authorization bearer header and
// stores the player id in the gin context under "player_id".
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		playerID, err := service.ParseJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("player_id", playerID)
		c.Next()
	}
}

// PlayerID extracts the authenticated player id set by JWT.
func PlayerID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("player_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
