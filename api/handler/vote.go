package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jon4hz/yurei/api/auth"
	"github.com/jon4hz/yurei/api/models"
)

// CastVote casts or updates the user's vote in a category.
func (h *Handler) CastVote(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req models.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "nomineeId and categoryId are required")
		return
	}

	result, err := h.engine.CastVote(c.Request.Context(), user.ID, req.CategoryID, req.NomineeID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.invalidateListCaches(c)
	respondOK(c, models.VoteResultFromEngine(result))
}

// ListVotes returns the authenticated user's votes.
func (h *Handler) ListVotes(c *gin.Context) {
	user := auth.CurrentUser(c)

	votes, err := h.engine.ListUserVotes(c.Request.Context(), user.ID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	respondOK(c, models.VotesFromDatabase(votes))
}

// DeleteVote removes a vote. Users can only remove their own votes, admins
// can remove any.
func (h *Handler) DeleteVote(c *gin.Context) {
	user := auth.CurrentUser(c)

	voteID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid vote id")
		return
	}

	if err := h.engine.RemoveVote(c.Request.Context(), user.ID, user.IsAdmin, uint(voteID)); err != nil {
		respondEngineError(c, err)
		return
	}

	h.invalidateListCaches(c)
	respondOK(c, nil)
}
