package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jon4hz/yurei/api/auth"
	"github.com/jon4hz/yurei/api/models"
	"github.com/jon4hz/yurei/database"
)

// ListAnnouncements returns the active announcements the user has not
// dismissed.
func (h *Handler) ListAnnouncements(c *gin.Context) {
	user := auth.CurrentUser(c)

	announcements, err := h.engine.ListAnnouncements(c.Request.Context(), user.ID, false)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	respondOK(c, models.AnnouncementsFromDatabase(announcements))
}

// CreateAnnouncement publishes a new announcement. Admin only.
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req models.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "message is required")
		return
	}

	announcementType := database.AnnouncementInfo
	if req.Type != "" {
		announcementType = database.AnnouncementType(req.Type)
	}
	isGlobal := true
	if req.IsGlobal != nil {
		isGlobal = *req.IsGlobal
	}

	announcement := &database.Announcement{
		Message:   req.Message,
		Type:      announcementType,
		CreatedBy: user.ID,
		ExpiresAt: req.ExpiresAt,
		IsGlobal:  isGlobal,
	}
	if err := h.engine.CreateAnnouncement(c.Request.Context(), announcement); err != nil {
		respondEngineError(c, err)
		return
	}
	respondCreated(c, models.AnnouncementFromDatabase(announcement))
}

// DismissAnnouncement hides an announcement for the current user.
func (h *Handler) DismissAnnouncement(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req models.DismissAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "announcementId is required")
		return
	}

	if err := h.engine.DismissAnnouncement(c.Request.Context(), user.ID, req.AnnouncementID); err != nil {
		respondEngineError(c, err)
		return
	}
	respondOK(c, nil)
}
