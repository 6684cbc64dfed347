package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/workspace"
)

// ChannelHandler serves channel lifecycle, membership and listing.
type ChannelHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewChannelHandler(svc *workspace.Service, logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{svc: svc, logger: logger}
}

type createChannelRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

type channelIDRequest struct {
	ChannelID int `json:"channel_id"`
}

type channelUserRequest struct {
	ChannelID int `json:"channel_id"`
	UserID    int `json:"u_id"`
}

// Create handles POST /v1/channels/create.
func (h *ChannelHandler) Create(c *gin.Context) {
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.CreateChannel(tokenFrom(c), req.Name, req.IsPublic)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel_id": id})
}

// List handles GET /v1/channels/list — channels the caller belongs to.
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.svc.MyChannels(tokenFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// ListAll handles GET /v1/channels/listall — every channel, public or not.
func (h *ChannelHandler) ListAll(c *gin.Context) {
	channels, err := h.svc.AllChannels(tokenFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// Details handles GET /v1/channel/details.
func (h *ChannelHandler) Details(c *gin.Context) {
	channelID, ok := intQuery(c, "channel_id")
	if !ok {
		return
	}
	details, err := h.svc.ChannelDetails(tokenFrom(c), channelID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Join handles POST /v1/channel/join.
func (h *ChannelHandler) Join(c *gin.Context) {
	var req channelIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.JoinChannel(tokenFrom(c), req.ChannelID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Invite handles POST /v1/channel/invite.
func (h *ChannelHandler) Invite(c *gin.Context) {
	var req channelUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.InviteToChannel(tokenFrom(c), req.ChannelID, req.UserID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Leave handles POST /v1/channel/leave.
func (h *ChannelHandler) Leave(c *gin.Context) {
	var req channelIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.LeaveChannel(tokenFrom(c), req.ChannelID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// AddOwner handles POST /v1/channel/addowner.
func (h *ChannelHandler) AddOwner(c *gin.Context) {
	var req channelUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.AddChannelOwner(tokenFrom(c), req.ChannelID, req.UserID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// RemoveOwner handles POST /v1/channel/removeowner.
func (h *ChannelHandler) RemoveOwner(c *gin.Context) {
	var req channelUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.RemoveChannelOwner(tokenFrom(c), req.ChannelID, req.UserID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Messages handles GET /v1/channel/messages.
func (h *ChannelHandler) Messages(c *gin.Context) {
	channelID, ok := intQuery(c, "channel_id")
	if !ok {
		return
	}
	start, ok := intQuery(c, "start")
	if !ok {
		return
	}
	page, err := h.svc.ChannelMessages(tokenFrom(c), channelID, start)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
