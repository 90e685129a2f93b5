package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetHistory returns a room's persisted messages in chronological order.
// An unknown room yields an empty list and a zero total, not an error.
func (h *Handler) GetHistory(c *gin.Context) {
	roomID := c.Param("room_id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	result, err := h.Coordinator.History(roomID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	messages := make([]gin.H, 0, len(result.Messages))
	for _, m := range result.Messages {
		messages = append(messages, gin.H{
			"message_id": m.MessageID,
			"sender":     m.SenderName,
			"content":    m.Content,
			"timestamp":  m.Timestamp,
			"is_system":  m.IsSystem,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"room_id":     result.RoomID,
		"messages":    messages,
		"total_count": result.TotalCount,
	})
}

// GetStatus merges live registry data with persisted metadata.
func (h *Handler) GetStatus(c *gin.Context) {
	roomID := c.Param("room_id")

	status, err := h.Coordinator.Status(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !status.Exists {
		c.JSON(http.StatusNotFound, gin.H{"room_id": roomID, "exists": false, "error": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room_id":       status.RoomID,
		"exists":        true,
		"active":        status.Active,
		"participants":  status.Participants,
		"message_count": status.MessageCount,
		"created_at":    status.CreatedAt,
		"last_activity": status.LastActivity,
	})
}
