package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rarity represents how rare an achievement is.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Achievement is a named unlock condition with rarity metadata.
// Achievements are static reference data created by the seed command.
type Achievement struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string
	Icon        string
	Rarity      Rarity `gorm:"not null;default:common"`
	Condition   string `gorm:"not null"`
}

// UserAchievement records that a user earned an achievement. Grants are
// permanent and unique per (user, achievement) pair; the composite unique
// index is the serialization boundary for concurrent evaluations.
// No soft-delete column: grants are never revoked, and a tombstone would
// block the do-nothing upsert from staying idempotent.
type UserAchievement struct {
	ID            uint `gorm:"primarykey"`
	UserID        uint `gorm:"not null;uniqueIndex:idx_user_achievements_user_achievement"`
	AchievementID uint `gorm:"not null;uniqueIndex:idx_user_achievements_user_achievement"`
	EarnedAt      time.Time
	Achievement   Achievement `gorm:"foreignKey:AchievementID"`
}

func (c *Client) ListAchievements(ctx context.Context) ([]Achievement, error) {
	var achievements []Achievement
	if err := c.db.WithContext(ctx).Find(&achievements).Error; err != nil {
		log.Error("failed to list achievements", "error", err)
		return nil, err
	}
	return achievements, nil
}

func (c *Client) ListUserAchievements(ctx context.Context, userID uint) ([]UserAchievement, error) {
	var grants []UserAchievement
	err := c.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at desc").
		Find(&grants).Error
	if err != nil {
		log.Error("failed to list user achievements", "error", err)
		return nil, err
	}
	return grants, nil
}

// GrantAchievement inserts a grant record. An existing grant for the same
// pair is not an error: the insert is a no-op and the method reports false.
func (c *Client) GrantAchievement(ctx context.Context, userID, achievementID uint) (bool, error) {
	grant := UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      time.Now(),
	}
	result := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&grant)
	if result.Error != nil {
		log.Error("failed to grant achievement", "error", result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpsertAchievement creates the achievement definition if it doesn't exist
// yet, keyed by slug. Used by the seed command.
func (c *Client) UpsertAchievement(ctx context.Context, achievement *Achievement) error {
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(achievement).Error
	if err != nil {
		log.Error("failed to upsert achievement", "error", err)
	}
	return err
}
