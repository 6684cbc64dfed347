package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/workspace"
)

// DmHandler serves direct-message conversations.
type DmHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewDmHandler(svc *workspace.Service, logger *zap.Logger) *DmHandler {
	return &DmHandler{svc: svc, logger: logger}
}

type createDmRequest struct {
	UserIDs []int `json:"u_ids"`
}

type dmIDRequest struct {
	DmID int `json:"dm_id"`
}

// Create handles POST /v1/dm/create.
func (h *DmHandler) Create(c *gin.Context) {
	var req createDmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.CreateDm(tokenFrom(c), req.UserIDs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dm_id": id})
}

// List handles GET /v1/dm/list.
func (h *DmHandler) List(c *gin.Context) {
	dms, err := h.svc.MyDms(tokenFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dms": dms})
}

// Details handles GET /v1/dm/details.
func (h *DmHandler) Details(c *gin.Context) {
	dmID, ok := intQuery(c, "dm_id")
	if !ok {
		return
	}
	details, err := h.svc.DmDetails(tokenFrom(c), dmID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Remove handles DELETE /v1/dm/remove. Creator only; deletes the DM and
// every message in it.
func (h *DmHandler) Remove(c *gin.Context) {
	dmID, ok := intQuery(c, "dm_id")
	if !ok {
		return
	}
	if err := h.svc.RemoveDm(tokenFrom(c), dmID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Leave handles POST /v1/dm/leave.
func (h *DmHandler) Leave(c *gin.Context) {
	var req dmIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.LeaveDm(tokenFrom(c), req.DmID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Messages handles GET /v1/dm/messages.
func (h *DmHandler) Messages(c *gin.Context) {
	dmID, ok := intQuery(c, "dm_id")
	if !ok {
		return
	}
	start, ok := intQuery(c, "start")
	if !ok {
		return
	}
	page, err := h.svc.DmMessages(tokenFrom(c), dmID, start)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
