package websocket

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"misimuslim/internal/core"
	"misimuslim/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	CheckOrigin:       checkOrigin,
	EnableCompression: true,
}

// Handler upgrades HTTP connections into feed listeners
type Handler struct {
	hub     *Hub
	authSvc core.AuthService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc core.AuthService) *Handler {
	return &Handler{hub: hub, authSvc: authSvc}
}

// HandleFeed upgrades the connection and subscribes it to the community feed
func (h *Handler) HandleFeed(c *gin.Context) {
	token, err := extractToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication_required", "message": err.Error()})
		return
	}

	user, err := h.authSvc.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "message": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// NOTE: gorilla/websocket writes its own HTTP response when
		// CheckOrigin fails, so don't write JSON on top of it.
		logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	h.hub.ServeClient(conn, user.ID)
}

// Status reports feed connectivity
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"clients":     h.hub.ClientCount(),
		"server_time": time.Now().UTC(),
	})
}

// extractToken reads the token from the query string, Authorization header,
// or cookie. Browser WebSocket clients cannot set headers, hence the query
// fallback.
func extractToken(c *gin.Context) (string, error) {
	if token := c.Query("token"); token != "" {
		return token, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1], nil
		}
	}

	cookie, err := c.Request.Cookie("token")
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", fmt.Errorf("no authentication token provided")
}

// checkOrigin validates the request origin
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// Non-browser clients may omit Origin; treat as allowed.
	if origin == "" {
		return true
	}

	if u, err := url.Parse(origin); err == nil {
		host := strings.ToLower(u.Hostname())
		if host == "localhost" || host == "127.0.0.1" || host == "0.0.0.0" {
			return true
		}
	}

	// In development, allow all origins
	if gin.Mode() == gin.DebugMode {
		return true
	}

	allowed := []string{"https://misimuslim.example.com", "https://app.misimuslim.example.com"}
	for _, allowedOrigin := range allowed {
		if origin == allowedOrigin {
			return true
		}
	}
	return false
}
