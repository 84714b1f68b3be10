package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnnouncementType classifies an announcement for display purposes.
type AnnouncementType string

const (
	AnnouncementInfo        AnnouncementType = "info"
	AnnouncementWarning     AnnouncementType = "warning"
	AnnouncementCelebration AnnouncementType = "celebration"
	AnnouncementUrgent      AnnouncementType = "urgent"
)

// Announcement is an admin-authored message shown to users until it expires
// or they dismiss it.
type Announcement struct {
	gorm.Model
	Message   string           `gorm:"not null"`
	Type      AnnouncementType `gorm:"not null;default:info"`
	CreatedBy uint
	ExpiresAt *time.Time
	IsGlobal  bool `gorm:"not null;default:true"`
}

// AnnouncementDismissal records that a user dismissed an announcement. One
// row per (user, announcement) pair.
type AnnouncementDismissal struct {
	ID             uint `gorm:"primarykey"`
	UserID         uint `gorm:"not null;uniqueIndex:idx_dismissals_user_announcement"`
	AnnouncementID uint `gorm:"not null;uniqueIndex:idx_dismissals_user_announcement"`
	CreatedAt      time.Time
}

// ListAnnouncements returns announcements the user hasn't dismissed, newest
// first. userID 0 means anonymous, so nothing is filtered out.
func (c *Client) ListAnnouncements(ctx context.Context, userID uint, includeExpired bool) ([]Announcement, error) {
	tx := c.db.WithContext(ctx).Order("created_at desc")
	if !includeExpired {
		tx = tx.Where("expires_at IS NULL OR expires_at > ?", time.Now())
	}
	if userID != 0 {
		tx = tx.Where("id NOT IN (?)",
			c.db.Model(&AnnouncementDismissal{}).
				Select("announcement_id").
				Where("user_id = ?", userID),
		)
	}

	var announcements []Announcement
	if err := tx.Find(&announcements).Error; err != nil {
		log.Error("failed to list announcements", "error", err)
		return nil, err
	}
	return announcements, nil
}

func (c *Client) CreateAnnouncement(ctx context.Context, announcement *Announcement) error {
	if err := c.db.WithContext(ctx).Create(announcement).Error; err != nil {
		log.Error("failed to create announcement", "error", err)
		return err
	}
	return nil
}

// DismissAnnouncement records the dismissal, idempotently.
func (c *Client) DismissAnnouncement(ctx context.Context, userID, announcementID uint) error {
	var announcement Announcement
	if err := c.db.WithContext(ctx).First(&announcement, announcementID).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get announcement", "error", err)
		}
		return err
	}

	dismissal := AnnouncementDismissal{
		UserID:         userID,
		AnnouncementID: announcementID,
	}
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "announcement_id"}},
		DoNothing: true,
	}).Create(&dismissal).Error
	if err != nil {
		log.Error("failed to dismiss announcement", "error", err)
	}
	return err
}
