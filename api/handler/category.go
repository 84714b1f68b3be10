package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/jon4hz/yurei/api/auth"
	"github.com/jon4hz/yurei/api/models"
	"github.com/jon4hz/yurei/database"
	"github.com/jon4hz/yurei/engine"
)

func engineCategoryView(category *database.Category) engine.CategoryView {
	return engine.CategoryView{Category: *category}
}

func engineNomineeView(nominee *database.Nominee) engine.NomineeView {
	return engine.NomineeView{Nominee: *nominee}
}

// ListCategories returns the active categories with nominee counts and the
// user's vote per category. Results are cached per user.
func (h *Handler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	var userID uint
	if user := auth.CurrentUser(c); user != nil {
		userID = user.ID
	}

	if cached, err := h.categoryCache.Get(ctx, userID); err == nil {
		respondOK(c, cached)
		return
	}

	views, err := h.engine.ListCategories(ctx, userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	categories := models.CategoriesFromEngine(views)
	if err := h.categoryCache.Set(ctx, userID, categories, h.cacheOptions()...); err != nil {
		log.Debug("failed to cache categories", "error", err)
	}
	respondOK(c, categories)
}

// CreateCategory creates a new voting category. Admin only.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name, slug and element are required")
		return
	}

	category := &database.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Element:     req.Element,
		Description: req.Description,
		SortOrder:   req.Order,
		IsActive:    true,
	}
	if err := h.engine.CreateCategory(c.Request.Context(), category); err != nil {
		respondEngineError(c, err)
		return
	}

	h.invalidateListCaches(c)
	respondCreated(c, models.CategoryFromEngine(engineCategoryView(category)))
}

// ListNominees returns the nominees of a category with vote counts. Results
// are cached per category and user.
func (h *Handler) ListNominees(c *gin.Context) {
	ctx := c.Request.Context()

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	var userID uint
	if user := auth.CurrentUser(c); user != nil {
		userID = user.ID
	}

	cacheKey := fmt.Sprintf("%d:%d", categoryID, userID)
	if cached, err := h.nomineeCache.Get(ctx, cacheKey); err == nil {
		respondOK(c, cached)
		return
	}

	views, err := h.engine.ListNominees(ctx, uint(categoryID), userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	nominees := models.NomineesFromEngine(views)
	if err := h.nomineeCache.Set(ctx, cacheKey, nominees, h.cacheOptions()...); err != nil {
		log.Debug("failed to cache nominees", "error", err)
	}
	respondOK(c, nominees)
}

// CreateNominee adds a nominee to a category. Admin only.
func (h *Handler) CreateNominee(c *gin.Context) {
	var req models.CreateNomineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "categoryId, title and imageUrl are required")
		return
	}

	nominee := &database.Nominee{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Studio:      req.Studio,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}
	if err := h.engine.CreateNominee(c.Request.Context(), nominee); err != nil {
		respondEngineError(c, err)
		return
	}

	h.invalidateListCaches(c)
	respondCreated(c, models.NomineeFromEngine(engineNomineeView(nominee)))
}
