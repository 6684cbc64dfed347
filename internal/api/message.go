package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/workspace"
)

// MessageHandler serves sending, editing, reactions, pinning, sharing and
// scheduled delivery.
type MessageHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewMessageHandler(svc *workspace.Service, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, logger: logger}
}

type sendMessageRequest struct {
	ChannelID int    `json:"channel_id"`
	Message   string `json:"message"`
}

type sendDmMessageRequest struct {
	DmID    int    `json:"dm_id"`
	Message string `json:"message"`
}

type editMessageRequest struct {
	MessageID int    `json:"message_id"`
	Message   string `json:"message"`
}

type reactRequest struct {
	MessageID int `json:"message_id"`
	ReactID   int `json:"react_id"`
}

type pinRequest struct {
	MessageID int `json:"message_id"`
}

type shareRequest struct {
	OgMessageID int    `json:"og_message_id"`
	Message     string `json:"message"`
	ChannelID   int    `json:"channel_id"`
	DmID        int    `json:"dm_id"`
}

type sendLaterRequest struct {
	ChannelID int    `json:"channel_id"`
	Message   string `json:"message"`
	TimeSent  int64  `json:"time_sent"`
}

type sendLaterDmRequest struct {
	DmID     int    `json:"dm_id"`
	Message  string `json:"message"`
	TimeSent int64  `json:"time_sent"`
}

// Send handles POST /v1/message/send.
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.SendMessage(tokenFrom(c), req.ChannelID, req.Message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": id})
}

// SendDm handles POST /v1/message/senddm.
func (h *MessageHandler) SendDm(c *gin.Context) {
	var req sendDmMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.SendDmMessage(tokenFrom(c), req.DmID, req.Message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": id})
}

// Edit handles PUT /v1/message/edit. An empty message deletes instead.
func (h *MessageHandler) Edit(c *gin.Context) {
	var req editMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.EditMessage(tokenFrom(c), req.MessageID, req.Message); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Remove handles DELETE /v1/message/remove.
func (h *MessageHandler) Remove(c *gin.Context) {
	messageID, ok := intQuery(c, "message_id")
	if !ok {
		return
	}
	if err := h.svc.RemoveMessage(tokenFrom(c), messageID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// React handles POST /v1/message/react.
func (h *MessageHandler) React(c *gin.Context) {
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ReactMessage(tokenFrom(c), req.MessageID, req.ReactID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Unreact handles POST /v1/message/unreact.
func (h *MessageHandler) Unreact(c *gin.Context) {
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UnreactMessage(tokenFrom(c), req.MessageID, req.ReactID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Pin handles POST /v1/message/pin.
func (h *MessageHandler) Pin(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.PinMessage(tokenFrom(c), req.MessageID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Unpin handles POST /v1/message/unpin.
func (h *MessageHandler) Unpin(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UnpinMessage(tokenFrom(c), req.MessageID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Share handles POST /v1/message/share. Exactly one of channel_id and
// dm_id must be set; the other is -1.
func (h *MessageHandler) Share(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.ShareMessage(tokenFrom(c), req.OgMessageID, req.Message, req.ChannelID, req.DmID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shared_message_id": id})
}

// SendLater handles POST /v1/message/sendlater.
func (h *MessageHandler) SendLater(c *gin.Context) {
	var req sendLaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.SendMessageLater(tokenFrom(c), req.ChannelID, req.Message, req.TimeSent)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": id})
}

// SendLaterDm handles POST /v1/message/sendlaterdm.
func (h *MessageHandler) SendLaterDm(c *gin.Context) {
	var req sendLaterDmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.SendDmMessageLater(tokenFrom(c), req.DmID, req.Message, req.TimeSent)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": id})
}

// Search handles GET /v1/search.
func (h *MessageHandler) Search(c *gin.Context) {
	messages, err := h.svc.Search(tokenFrom(c), c.Query("query_str"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
