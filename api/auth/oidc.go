package auth

import (
	"context"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/jon4hz/yurei/config"
	"github.com/jon4hz/yurei/database"
)

type OIDCProvider struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	config   *oauth2.Config
	cfg      *config.OIDCConfig
	db       database.DB
}

func NewOIDCProvider(ctx context.Context, cfg *config.OIDCConfig, db database.DB) (*OIDCProvider, error) {
	p := OIDCProvider{
		cfg: cfg,
		db:  db,
	}
	var err error
	p.provider, err = oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	p.config = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     p.provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "groups"},
	}

	p.verifier = p.provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	return &p, nil
}

func (p *OIDCProvider) Login(c *gin.Context) {
	state := uuid.New().String()
	session := sessions.Default(c)
	session.Set("oidc_state", state)
	if err := session.Save(); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}
	c.Redirect(http.StatusFound, p.config.AuthCodeURL(state))
}

func (p *OIDCProvider) Callback(c *gin.Context) {
	ctx := c.Request.Context()
	session := sessions.Default(c)

	state, _ := session.Get("oidc_state").(string)
	session.Delete("oidc_state")
	if state == "" || c.Query("state") != state {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	oauth2Token, err := p.config.Exchange(ctx, c.Query("code"))
	if err != nil {
		c.AbortWithError(http.StatusUnauthorized, err) //nolint:errcheck
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.AbortWithError(http.StatusUnauthorized, err) //nolint:errcheck
		return
	}

	var claims struct {
		Email             string   `json:"email"`
		PreferredUsername string   `json:"preferred_username"`
		Sub               string   `json:"sub"`
		Groups            []string `json:"groups"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	username := claims.PreferredUsername
	if username == "" {
		username = claims.Sub
	}

	user, err := p.db.GetOrCreateUser(ctx, username, database.AuthProviderOIDC)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	var isAdmin bool
	for _, group := range claims.Groups {
		if group == p.cfg.AdminGroup {
			isAdmin = true
			break
		}
	}
	// keep the stored role in sync with the group claim
	if isAdmin && !user.IsAdmin() {
		if err := p.db.SetUserRole(ctx, user.ID, database.RoleAdmin); err != nil {
			c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
			return
		}
	}

	if err := saveUserSession(c, user, isAdmin); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}
	c.Redirect(http.StatusFound, "/")
}
