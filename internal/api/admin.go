package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/workspace"
)

// AdminHandler serves global-owner moderation plus the test-only reset.
type AdminHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewAdminHandler(svc *workspace.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

type changePermissionRequest struct {
	UserID     int `json:"u_id"`
	Permission int `json:"permission_id"`
}

// RemoveUser handles DELETE /v1/admin/user/remove.
func (h *AdminHandler) RemoveUser(c *gin.Context) {
	userID, ok := intQuery(c, "u_id")
	if !ok {
		return
	}
	if err := h.svc.RemoveUser(tokenFrom(c), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// ChangePermission handles POST /v1/admin/userpermission/change.
func (h *AdminHandler) ChangePermission(c *gin.Context) {
	var req changePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ChangePermission(tokenFrom(c), req.UserID, req.Permission); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Clear handles DELETE /v1/clear. It wipes the whole workspace and is
// meant for test harnesses, not production traffic.
func (h *AdminHandler) Clear(c *gin.Context) {
	h.svc.Clear()
	c.JSON(http.StatusOK, gin.H{})
}
