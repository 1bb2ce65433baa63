package notification

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"venuebooking/internal/pkg/jwt"
	"venuebooking/internal/pkg/response"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Any origin is accepted; the token in the query string authenticates.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub        *Hub
	jwtService *jwt.Service
}

func NewWSHandler(hub *Hub, jwtService *jwt.Service) *WSHandler {
	return &WSHandler{hub: hub, jwtService: jwtService}
}

func (h *WSHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket serves GET /ws?token=JWT. Browsers cannot set headers on a
// websocket handshake, so the token travels in the query.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		response.Error(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
		return
	case err != nil:
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed user_id=%d error=%q", userID, err.Error())
		return
	}

	client := h.hub.Register(userID, conn)
	log.Printf("ws_connected user_id=%d online=%d", userID, h.hub.OnlineCount())

	defer func() {
		h.hub.Unregister(userID, client)
		log.Printf("ws_disconnected user_id=%d", userID)
	}()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	readLoop(conn, userID)
}

// readLoop drains client frames until the connection closes. Clients only
// listen on this socket.
func readLoop(conn *websocket.Conn, userID int64) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws_read_error user_id=%d error=%q", userID, err.Error())
			}
			return
		}
	}
}
