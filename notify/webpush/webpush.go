package webpush

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/charmbracelet/log"
	"github.com/jon4hz/yurei/config"
)

// Config holds the configuration for webpush notifications.
type Config = config.WebPushConfig

// Client sends push notifications for achievement unlocks. Subscriptions are
// held in memory, users re-subscribe after a restart.
type Client struct {
	config        *Config
	subscriptions map[uint]map[string]*Subscription // userID -> subscriptionID -> subscription
	mu            sync.RWMutex
}

// Subscription represents a push subscription.
type Subscription struct {
	ID       string `json:"id"`
	UserID   uint   `json:"user_id"`
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
	CreatedAt time.Time `json:"created_at"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// NotificationPayload represents the payload sent to the client.
type NotificationPayload struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Icon  string         `json:"icon"`
	Data  map[string]any `json:"data,omitempty"`
}

// NewClient creates a new webpush client.
func NewClient(config *Config) *Client {
	return &Client{
		config:        config,
		subscriptions: make(map[uint]map[string]*Subscription),
	}
}

// GenerateVAPIDKeys generates a new VAPID key pair.
func GenerateVAPIDKeys() (privateKey, publicKey string, err error) {
	return webpush.GenerateVAPIDKeys()
}

// GetPublicKey returns the VAPID public key for client subscription.
func (c *Client) GetPublicKey() string {
	return c.config.PublicKey
}

// Subscribe adds a new push subscription for a user.
func (c *Client) Subscribe(userID uint, subscription *Subscription) error {
	if !c.config.Enabled {
		return fmt.Errorf("webpush notifications are disabled")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Subscription IDs are derived from the endpoint so re-subscribing the
	// same browser replaces instead of duplicates.
	hash := sha256.Sum256([]byte(subscription.Endpoint))
	subscriptionID := hex.EncodeToString(hash[:])[:16]

	subscription.ID = subscriptionID
	subscription.UserID = userID
	subscription.CreatedAt = time.Now()

	if c.subscriptions[userID] == nil {
		c.subscriptions[userID] = make(map[string]*Subscription)
	}
	c.subscriptions[userID][subscriptionID] = subscription

	log.Info("added push subscription", "subscription", subscriptionID, "user", userID)
	return nil
}

// Unsubscribe removes all push subscriptions for a user.
func (c *Client) Unsubscribe(userID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.subscriptions, userID)
	log.Info("removed push subscriptions", "user", userID)
}

// SendAchievementUnlocked notifies all of a user's subscriptions about a
// freshly earned achievement.
func (c *Client) SendAchievementUnlocked(ctx context.Context, userID uint, name, description string) error {
	payload := &NotificationPayload{
		Title: "Achievement unlocked!",
		Body:  fmt.Sprintf("%s: %s", name, description),
		Icon:  "/static/icons/achievement.png",
	}
	return c.sendNotification(ctx, userID, payload)
}

func (c *Client) sendNotification(ctx context.Context, userID uint, payload *NotificationPayload) error {
	if !c.config.Enabled {
		return nil
	}

	// Copy under the read lock, Subscribe may mutate the inner map while the
	// notifications go out.
	c.mu.RLock()
	userSubscriptions := make(map[string]*Subscription, len(c.subscriptions[userID]))
	for subscriptionID, subscription := range c.subscriptions[userID] {
		userSubscriptions[subscriptionID] = subscription
	}
	c.mu.RUnlock()

	if len(userSubscriptions) == 0 {
		return nil
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	var lastErr error
	var invalid []string
	for subscriptionID, subscription := range userSubscriptions {
		webpushSub := &webpush.Subscription{
			Endpoint: subscription.Endpoint,
			Keys: webpush.Keys{
				P256dh: subscription.Keys.P256dh,
				Auth:   subscription.Keys.Auth,
			},
		}

		resp, err := webpush.SendNotificationWithContext(ctx, payloadBytes, webpushSub, &webpush.Options{
			Subscriber:      c.config.Subscriber,
			VAPIDPublicKey:  c.config.PublicKey,
			VAPIDPrivateKey: c.config.PrivateKey,
			TTL:             60,
		})
		if err != nil {
			log.Warn("failed to send push notification", "subscription", subscriptionID, "error", err)
			lastErr = err
			continue
		}
		if resp.StatusCode == 404 || resp.StatusCode == 410 {
			// Subscription expired or revoked by the push service.
			invalid = append(invalid, subscriptionID)
		}
		resp.Body.Close() //nolint:errcheck
	}

	if len(invalid) > 0 {
		c.mu.Lock()
		for _, subscriptionID := range invalid {
			delete(c.subscriptions[userID], subscriptionID)
		}
		if len(c.subscriptions[userID]) == 0 {
			delete(c.subscriptions, userID)
		}
		c.mu.Unlock()
	}

	return lastErr
}
