package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"forum-relay/internal/services"
)

// MessageHandler is the pull-style query surface for clients that poll
// instead of subscribing.
type MessageHandler struct {
	chat     *services.ChatService
	groups   map[string]bool
	pageSize int
}

func NewMessageHandler(chat *services.ChatService, groups []string, pageSize int) *MessageHandler {
	groupSet := make(map[string]bool, len(groups))
	for _, g := range groups {
		groupSet[g] = true
	}
	return &MessageHandler{
		chat:     chat,
		groups:   groupSet,
		pageSize: pageSize,
	}
}

// GetMessages returns one page of a group's history, most recent first.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	groupID := c.Param("groupId")
	if !h.groups[groupID] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown group"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	messages, err := h.chat.RecentPage(c.Request.Context(), groupID, page, h.pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, messages)
}
