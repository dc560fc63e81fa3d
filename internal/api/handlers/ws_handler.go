package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"forum-relay/internal/websocket"
)

type WSHandler struct {
	hub       *websocket.Hub
	session   *websocket.Session
	groups    map[string]bool
	jwtSecret string
}

func NewWSHandler(hub *websocket.Hub, session *websocket.Session, groups []string, jwtSecret string) *WSHandler {
	groupSet := make(map[string]bool, len(groups))
	for _, g := range groups {
		groupSet[g] = true
	}
	return &WSHandler{
		hub:       hub,
		session:   session,
		groups:    groupSet,
		jwtSecret: jwtSecret,
	}
}

// Global serves the global channel: presence, room membership, relays and
// notification routing.
func (h *WSHandler) Global(c *gin.Context) {
	websocket.ServeWS(h.hub, h.session, c.Writer, c.Request, h.identity(c))
}

// GroupChat serves one group chat channel. The page query selects the
// history page primed on connect; absent or non-numeric values default
// to the first page.
func (h *WSHandler) GroupChat(c *gin.Context) {
	groupID := c.Param("groupId")
	if !h.groups[groupID] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown group"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	websocket.ServeGroupChat(h.hub, h.session, c.Writer, c.Request, groupID, page, h.identity(c))
}

// identity resolves the optional identity a connection presents: a userId
// query param, or the username claim of a bearer token. Anything invalid
// just means anonymous; identity is not authenticated here.
func (h *WSHandler) identity(c *gin.Context) string {
	if userID := c.Query("userId"); userID != "" {
		return userID
	}

	tokenString := c.Query("token")
	if tokenString == "" {
		return ""
	}
	tokenString = strings.Replace(tokenString, "Bearer ", "", 1)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.jwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	username, _ := claims["username"].(string)
	return username
}
