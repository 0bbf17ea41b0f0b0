package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"projecthub/internal/middleware"
	"projecthub/internal/realtime"
)

type RealtimeHandler struct {
	hub       *realtime.Hub
	jwtSecret []byte
}

func NewRealtimeHandler(hub *realtime.Hub, jwtSecret []byte) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, jwtSecret: jwtSecret}
}

// Connect authenticates the handshake, upgrades, and serves the connection
// until it drops. No room is joined before the credential checks out; the
// personal room join happens inside the session.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	tokenStr := handshakeToken(c)
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing credential"})
		return
	}
	claims, err := middleware.ParseToken(h.jwtSecret, tokenStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
		return
	}

	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		return
	}
	realtime.NewSession(h.hub, conn, claims.UserID).Serve()
}

func handshakeToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
