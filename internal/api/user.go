package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/workspace"
)

// UserHandler serves profiles, profile edits, avatars and notifications.
type UserHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewUserHandler(svc *workspace.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

type setNameRequest struct {
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
}

type setEmailRequest struct {
	Email string `json:"email"`
}

type setHandleRequest struct {
	Handle string `json:"handle_str"`
}

type uploadPhotoRequest struct {
	ImgURL string `json:"img_url"`
	XStart int    `json:"x_start"`
	YStart int    `json:"y_start"`
	XEnd   int    `json:"x_end"`
	YEnd   int    `json:"y_end"`
}

// Profile handles GET /v1/user/profile. Removed users still resolve so
// old messages can show an author.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := intQuery(c, "u_id")
	if !ok {
		return
	}
	profile, err := h.svc.UserProfile(tokenFrom(c), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// All handles GET /v1/users/all.
func (h *UserHandler) All(c *gin.Context) {
	users, err := h.svc.AllUsers(tokenFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// SetName handles PUT /v1/user/profile/setname.
func (h *UserHandler) SetName(c *gin.Context) {
	var req setNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SetName(tokenFrom(c), req.NameFirst, req.NameLast); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// SetEmail handles PUT /v1/user/profile/setemail.
func (h *UserHandler) SetEmail(c *gin.Context) {
	var req setEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SetEmail(tokenFrom(c), req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// SetHandle handles PUT /v1/user/profile/sethandle.
func (h *UserHandler) SetHandle(c *gin.Context) {
	var req setHandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SetHandle(tokenFrom(c), req.Handle); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// UploadPhoto handles POST /v1/user/profile/uploadphoto.
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	var req uploadPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UploadPhoto(tokenFrom(c), req.ImgURL, req.XStart, req.YStart, req.XEnd, req.YEnd); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Notifications handles GET /v1/notifications/get.
func (h *UserHandler) Notifications(c *gin.Context) {
	notifications, err := h.svc.Notifications(tokenFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
