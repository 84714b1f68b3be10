package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jon4hz/yurei/api/auth"
	"github.com/jon4hz/yurei/api/models"
)

// GetProfile returns the authenticated user's profile with votes,
// achievements and element affinity.
func (h *Handler) GetProfile(c *gin.Context) {
	user := auth.CurrentUser(c)

	profile, err := h.engine.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	respondOK(c, models.ProfileFromEngine(profile))
}

// Me returns the session user, used by the frontend to check login state.
func (h *Handler) Me(c *gin.Context) {
	user := auth.CurrentUser(c)
	respondOK(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"isAdmin":  user.IsAdmin,
	})
}
