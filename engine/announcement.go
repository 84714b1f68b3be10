package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/jon4hz/yurei/database"
	"gorm.io/gorm"
)

// ListAnnouncements returns announcements visible to the user, excluding
// dismissed ones. userID 0 means anonymous.
func (e *Engine) ListAnnouncements(ctx context.Context, userID uint, includeExpired bool) ([]database.Announcement, error) {
	announcements, err := e.db.ListAnnouncements(ctx, userID, includeExpired)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}

// CreateAnnouncement stores the announcement and broadcasts it to all
// connected clients.
func (e *Engine) CreateAnnouncement(ctx context.Context, announcement *database.Announcement) error {
	if err := e.db.CreateAnnouncement(ctx, announcement); err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	if e.broadcaster != nil {
		e.broadcaster.Publish(Event{
			Type: EventAnnouncementNew,
			Payload: AnnouncementPayload{
				AnnouncementID: announcement.ID,
				Message:        announcement.Message,
				Type:           string(announcement.Type),
			},
		})
	}
	return nil
}

// DismissAnnouncement hides an announcement for the user.
func (e *Engine) DismissAnnouncement(ctx context.Context, userID, announcementID uint) error {
	if err := e.db.DismissAnnouncement(ctx, userID, announcementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return fmt.Errorf("failed to dismiss announcement: %w", err)
	}
	return nil
}
