package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/workspace"
)

// StandupHandler serves the standup window endpoints.
type StandupHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewStandupHandler(svc *workspace.Service, logger *zap.Logger) *StandupHandler {
	return &StandupHandler{svc: svc, logger: logger}
}

type standupStartRequest struct {
	ChannelID int   `json:"channel_id"`
	Length    int64 `json:"length"`
}

type standupSendRequest struct {
	ChannelID int    `json:"channel_id"`
	Message   string `json:"message"`
}

// Start handles POST /v1/standup/start.
func (h *StandupHandler) Start(c *gin.Context) {
	var req standupStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	finishAt, err := h.svc.StartStandup(tokenFrom(c), req.ChannelID, req.Length)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_finish": finishAt})
}

// Active handles GET /v1/standup/active.
func (h *StandupHandler) Active(c *gin.Context) {
	channelID, ok := intQuery(c, "channel_id")
	if !ok {
		return
	}
	status, err := h.svc.StandupActive(tokenFrom(c), channelID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Send handles POST /v1/standup/send.
func (h *StandupHandler) Send(c *gin.Context) {
	var req standupSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.StandupSend(tokenFrom(c), req.ChannelID, req.Message); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
