// Package handler implements the JSON API endpoints.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/gin-gonic/gin"

	"github.com/jon4hz/yurei/api/models"
	"github.com/jon4hz/yurei/cache"
	"github.com/jon4hz/yurei/config"
	"github.com/jon4hz/yurei/engine"
	"github.com/jon4hz/yurei/notify/webpush"
)

type Handler struct {
	engine        *engine.Engine
	push          *webpush.Client
	categoryCache *cache.PrefixedCache[[]models.Category]
	nomineeCache  *cache.PrefixedCache[[]models.Nominee]
	cacheTTL      time.Duration
}

func New(eng *engine.Engine, push *webpush.Client, cfg *config.CacheConfig) *Handler {
	backend := cache.New(cfg)
	return &Handler{
		engine:        eng,
		push:          push,
		categoryCache: cache.NewPrefixedCache[[]models.Category](backend, "categories"),
		nomineeCache:  cache.NewPrefixedCache[[]models.Nominee](backend, "nominees"),
		cacheTTL:      time.Duration(cfg.TTL) * time.Second,
	}
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, models.Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, models.Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.Response{Success: false, Error: message})
}

// respondEngineError translates engine sentinel errors into HTTP statuses.
// Anything unrecognized becomes a 500 with a generic message.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrNomineeNotFound),
		errors.Is(err, engine.ErrCategoryNotFound),
		errors.Is(err, engine.ErrVoteNotFound),
		errors.Is(err, engine.ErrAnnouncementNotFound),
		errors.Is(err, engine.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrVotingClosed):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, engine.ErrNotVoteOwner):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, engine.ErrDuplicateSlug):
		respondError(c, http.StatusConflict, err.Error())
	default:
		log.Error("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// invalidateListCaches drops the cached category and nominee lists after a
// mutation that changes vote counts or list contents.
func (h *Handler) invalidateListCaches(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.categoryCache.Clear(ctx); err != nil {
		log.Debug("failed to clear category cache", "error", err)
	}
	if err := h.nomineeCache.Clear(ctx); err != nil {
		log.Debug("failed to clear nominee cache", "error", err)
	}
}

func (h *Handler) cacheOptions() []store.Option {
	return []store.Option{store.WithExpiration(h.cacheTTL)}
}
