package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// VotingPeriod is the administratively controlled time window during which
// votes may be cast or changed.
type VotingPeriod struct {
	gorm.Model
	Name     string
	StartsAt time.Time `gorm:"not null"`
	EndsAt   time.Time `gorm:"not null"`
	IsActive bool      `gorm:"not null;default:false"`
}

// ActiveVotingPeriod returns the active period whose end is strictly in the
// future, gorm.ErrRecordNotFound when voting is closed.
func (c *Client) ActiveVotingPeriod(ctx context.Context) (*VotingPeriod, error) {
	var period VotingPeriod
	err := c.db.WithContext(ctx).
		Where("is_active = ? AND ends_at > ?", true, time.Now()).
		First(&period).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get active voting period", "error", err)
		}
		return nil, err
	}
	return &period, nil
}

func (c *Client) CreateVotingPeriod(ctx context.Context, period *VotingPeriod) error {
	if err := c.db.WithContext(ctx).Create(period).Error; err != nil {
		log.Error("failed to create voting period", "error", err)
		return err
	}
	return nil
}
