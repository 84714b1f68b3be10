package auth

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/jon4hz/yurei/api/models"
	"github.com/jon4hz/yurei/config"
	"github.com/jon4hz/yurei/database"
)

// session keys shared by all providers.
const (
	sessionUserID      = "user_id"
	sessionUserName    = "user_name"
	sessionUserIsAdmin = "user_is_admin"
)

// Provider bundles the enabled authentication methods. Guest sessions and
// OIDC can be enabled independently, but at least one must be.
type Provider struct {
	cfg  *config.AuthConfig
	db   database.DB
	oidc *OIDCProvider
}

func New(ctx context.Context, cfg *config.AuthConfig, db database.DB) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("auth config is required")
	}

	p := &Provider{cfg: cfg, db: db}

	if cfg.OIDC != nil && cfg.OIDC.Enabled {
		oidcProvider, err := NewOIDCProvider(ctx, cfg.OIDC, db)
		if err != nil {
			return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
		}
		p.oidc = oidcProvider
	}

	if !p.GuestEnabled() && p.oidc == nil {
		return nil, fmt.Errorf("no authentication provider is enabled")
	}

	return p, nil
}

func (p *Provider) GuestEnabled() bool {
	return p.cfg.Guest != nil && p.cfg.Guest.Enabled
}

func (p *Provider) HasOIDC() bool {
	return p.oidc != nil
}

// OIDC returns the OIDC provider, nil when not configured.
func (p *Provider) OIDC() *OIDCProvider {
	return p.oidc
}

// GuestLogin creates a guest user with a generated username and starts a
// session for it.
func (p *Provider) GuestLogin(c *gin.Context) {
	if !p.GuestEnabled() {
		c.JSON(http.StatusNotFound, models.Response{Success: false, Error: "guest sessions are disabled"})
		return
	}

	user, err := p.db.GetOrCreateUser(c.Request.Context(), generateGuestUsername(), database.AuthProviderGuest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Response{Success: false, Error: "failed to create guest user"})
		return
	}

	if err := saveUserSession(c, user, false); err != nil {
		c.JSON(http.StatusInternalServerError, models.Response{Success: false, Error: "failed to save session"})
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true, Data: gin.H{
		"id":       user.ID,
		"username": user.Username,
	}})
}

// Logout clears the session.
func (p *Provider) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, models.Response{Success: false, Error: "failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true})
}

func saveUserSession(c *gin.Context, user *database.User, isAdmin bool) error {
	session := sessions.Default(c)
	session.Set(sessionUserID, user.ID)
	session.Set(sessionUserName, user.Username)
	session.Set(sessionUserIsAdmin, isAdmin || user.IsAdmin())
	return session.Save()
}

var (
	guestAdjectives = []string{"Wandering", "Mysterious", "Silent", "Ethereal", "Lost", "Drifting", "Hidden"}
	guestNouns      = []string{"Soul", "Spirit", "Wanderer", "Shadow", "Echo", "Dream", "Whisper"}
)

func generateGuestUsername() string {
	adj := guestAdjectives[rand.Intn(len(guestAdjectives))]
	noun := guestNouns[rand.Intn(len(guestNouns))]
	return fmt.Sprintf("%s%s%d", adj, noun, rand.Intn(9999))
}
