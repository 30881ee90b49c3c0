package notification

import (
	"net/http"
	"time"

	"barberbook/internal/pkg/jwt"
	"barberbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Mobile clients send no Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type Handler struct {
	hub    *Hub
	tokens TokenValidator
	log    logrus.FieldLogger
}

func NewHandler(hub *Hub, tokens TokenValidator, log logrus.FieldLogger) *Handler {
	return &Handler{hub: hub, tokens: tokens, log: log}
}

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades GET /api/ws?token=JWT. Browsers and mobile
// websocket clients cannot set headers, so the token travels in the query.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	cl := h.hub.Register(userID, conn)
	h.log.WithField("user_id", userID).Debug("websocket connected")

	done := make(chan struct{})
	defer func() {
		close(done)
		h.hub.Unregister(userID, conn)
		h.log.WithField("user_id", userID).Debug("websocket disconnected")
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go pingLoop(cl, done)
	h.readLoop(conn, userID)
}

func pingLoop(cl *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := cl.ping(); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames; the channel is push only.
func (h *Handler) readLoop(conn *websocket.Conn, userID int64) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).WithField("user_id", userID).Debug("websocket read error")
			}
			return
		}
	}
}
