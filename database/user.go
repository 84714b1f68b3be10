package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Role represents the role of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// PrivacyMode controls how a user's activity is shown to others.
type PrivacyMode string

const (
	PrivacyPublic    PrivacyMode = "public"
	PrivacyPrivate   PrivacyMode = "private"
	PrivacyAnonymous PrivacyMode = "anonymous"
)

// AuthProvider represents how a user signed in.
type AuthProvider string

const (
	AuthProviderGuest AuthProvider = "guest"
	AuthProviderOIDC  AuthProvider = "oidc"
)

// User represents a user in the database.
// The admin role is persisted so vote deletion checks work without a session,
// but for OIDC logins it is refreshed from the provider's groups on every login.
type User struct {
	gorm.Model
	Username     string       `gorm:"uniqueIndex;not null"`
	Email        string
	Role         Role         `gorm:"not null;default:user"`
	PrivacyMode  PrivacyMode  `gorm:"not null;default:public"`
	AuthProvider AuthProvider `gorm:"not null;default:guest"`
	SummonedAt   time.Time    `gorm:"not null"`
	LastSeenAt   time.Time
	Votes        []Vote            `gorm:"constraint:OnDelete:CASCADE;"`
	Achievements []UserAchievement `gorm:"constraint:OnDelete:CASCADE;"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (c *Client) CreateUser(ctx context.Context, user *User) error {
	if user.SummonedAt.IsZero() {
		user.SummonedAt = time.Now()
	}
	if err := c.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Error("failed to create user", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetOrCreateUser(ctx context.Context, username string, provider AuthProvider) (*User, error) {
	user, err := c.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	user = &User{
		Username:     username,
		AuthProvider: provider,
		Role:         RoleUser,
		PrivacyMode:  PrivacyPublic,
		SummonedAt:   time.Now(),
		LastSeenAt:   time.Now(),
	}
	if err := c.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUserRole changes the user's role.
func (c *Client) SetUserRole(ctx context.Context, userID uint, role Role) error {
	err := c.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Update("role", role).Error
	if err != nil {
		log.Error("failed to set user role", "error", err)
	}
	return err
}

// TouchLastSeen updates the user's last seen timestamp.
func (c *Client) TouchLastSeen(ctx context.Context, userID uint) error {
	err := c.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Update("last_seen_at", time.Now()).Error
	if err != nil {
		log.Error("failed to update last seen", "error", err)
	}
	return err
}

func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		log.Error("failed to count users", "error", err)
		return 0, err
	}
	return count, nil
}
