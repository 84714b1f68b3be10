package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jon4hz/yurei/api/auth"
	"github.com/jon4hz/yurei/notify/webpush"
)

// SubscribeRequest represents the request body for push notification subscription.
type SubscribeRequest struct {
	Subscription struct {
		Endpoint string `json:"endpoint"`
		Keys     struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		} `json:"keys"`
	} `json:"subscription"`
}

// GetVAPIDKey returns the VAPID public key for client subscription.
func (h *Handler) GetVAPIDKey(c *gin.Context) {
	if h.push == nil {
		respondError(c, http.StatusServiceUnavailable, "webpush is not configured")
		return
	}

	publicKey := h.push.GetPublicKey()
	if publicKey == "" {
		respondError(c, http.StatusInternalServerError, "VAPID public key not available")
		return
	}

	respondOK(c, gin.H{"publicKey": publicKey})
}

// SubscribePush registers the browser's push subscription for the current user.
func (h *Handler) SubscribePush(c *gin.Context) {
	if h.push == nil {
		respondError(c, http.StatusServiceUnavailable, "webpush is not configured")
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Subscription.Endpoint == "" {
		respondError(c, http.StatusBadRequest, "invalid subscription data")
		return
	}

	user := auth.CurrentUser(c)

	subscription := &webpush.Subscription{
		Endpoint: req.Subscription.Endpoint,
		Keys: struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		}{
			P256dh: req.Subscription.Keys.P256dh,
			Auth:   req.Subscription.Keys.Auth,
		},
		UserAgent: c.GetHeader("User-Agent"),
	}
	if err := h.push.Subscribe(user.ID, subscription); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to subscribe user")
		return
	}

	respondOK(c, gin.H{"subscriptionId": subscription.ID})
}

// UnsubscribePush removes all push subscriptions for the current user.
func (h *Handler) UnsubscribePush(c *gin.Context) {
	if h.push == nil {
		respondError(c, http.StatusServiceUnavailable, "webpush is not configured")
		return
	}

	h.push.Unsubscribe(auth.CurrentUser(c).ID)
	respondOK(c, nil)
}
