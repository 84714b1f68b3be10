package handler

import (
	"github.com/gin-gonic/gin"
)

// GetStats returns aggregate voting statistics and system health. Admin only.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.engine.GetStats(c.Request.Context())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	respondOK(c, stats)
}
