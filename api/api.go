// Package api wires the HTTP server, routes and middleware.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/jon4hz/yurei/api/auth"
	"github.com/jon4hz/yurei/api/handler"
	"github.com/jon4hz/yurei/api/sse"
	"github.com/jon4hz/yurei/config"
	"github.com/jon4hz/yurei/database"
	"github.com/jon4hz/yurei/engine"
	"github.com/jon4hz/yurei/notify/webpush"
)

type Server struct {
	cfg          *config.Config
	ginEngine    *gin.Engine
	engine       *engine.Engine
	authProvider *auth.Provider
	hub          *sse.Hub
	handler      *handler.Handler
	httpServer   *http.Server
}

func New(ctx context.Context, cfg *config.Config, db database.DB, e *engine.Engine, hub *sse.Hub, push *webpush.Client) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	authProvider, err := auth.New(ctx, cfg.Auth, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}

	return &Server{
		cfg:          cfg,
		ginEngine:    gin.New(),
		engine:       e,
		authProvider: authProvider,
		hub:          hub,
		handler:      handler.New(e, push, cfg.Cache),
	}, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions("yurei_session", store))
}

func (s *Server) setupRoutes() {
	s.ginEngine.Use(gin.Recovery())
	// gzip would buffer the event stream, so it stays uncompressed
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/events"})))
	s.setupSession()

	s.ginEngine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.ginEngine.POST("/auth/guest", s.authProvider.GuestLogin)
	s.ginEngine.POST("/auth/logout", s.authProvider.Logout)
	if s.authProvider.HasOIDC() {
		s.ginEngine.GET("/auth/oidc/login", s.authProvider.OIDC().Login)
		s.ginEngine.GET("/auth/oidc/callback", s.authProvider.OIDC().Callback)
	}

	api := s.ginEngine.Group("/api")

	// list endpoints work without a session, votes are attached when one exists
	public := api.Group("/")
	public.Use(s.authProvider.OptionalAuth())
	public.GET("/categories", s.handler.ListCategories)
	public.GET("/categories/:id/nominees", s.handler.ListNominees)
	public.GET("/events", s.hub.Handler)

	protected := api.Group("/")
	protected.Use(s.authProvider.RequireAuth())
	protected.POST("/vote", s.handler.CastVote)
	protected.GET("/vote", s.handler.ListVotes)
	protected.DELETE("/vote/:id", s.handler.DeleteVote)
	protected.GET("/announcements", s.handler.ListAnnouncements)
	protected.PATCH("/announcements", s.handler.DismissAnnouncement)
	protected.GET("/profile", s.handler.GetProfile)
	protected.GET("/me", s.handler.Me)
	protected.GET("/push/public-key", s.handler.GetVAPIDKey)
	protected.POST("/push/subscribe", s.handler.SubscribePush)
	protected.DELETE("/push/subscribe", s.handler.UnsubscribePush)

	admin := api.Group("/admin")
	admin.Use(s.authProvider.RequireAuth(), s.authProvider.RequireAdmin())
	admin.GET("/stats", s.handler.GetStats)
	admin.POST("/categories", s.handler.CreateCategory)
	admin.POST("/nominees", s.handler.CreateNominee)
	admin.POST("/announcements", s.handler.CreateAnnouncement)
}

// Run starts the HTTP server and blocks until the context is canceled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "listen", s.cfg.Listen)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
