package engine

import (
	"context"

	"github.com/charmbracelet/log"
)

// EventType identifies a live-update event.
type EventType string

const (
	EventVoteUpdate          EventType = "vote:update"
	EventAchievementUnlocked EventType = "achievement:unlocked"
	EventAnnouncementNew     EventType = "announcement:new"
)

// Event is a live-update message delivered to subscribers. Events with a
// CategoryID are delivered only to subscribers of that category, events
// without one go to everyone.
type Event struct {
	Type       EventType `json:"type"`
	CategoryID uint      `json:"categoryId,omitempty"`
	Payload    any       `json:"payload"`
}

// Broadcaster delivers events to live-update subscribers. Delivery is
// best-effort and must never block the caller.
type Broadcaster interface {
	Publish(event Event)
}

// VoteUpdatePayload carries the new tally for a nominee after a vote mutation.
type VoteUpdatePayload struct {
	NomineeID  uint  `json:"nomineeId"`
	VoteCount  int64 `json:"voteCount"`
	CategoryID uint  `json:"categoryId"`
}

// AchievementUnlockedPayload announces a freshly earned achievement.
type AchievementUnlockedPayload struct {
	UserID      uint   `json:"userId"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Rarity      string `json:"rarity"`
	Description string `json:"description"`
}

// AnnouncementPayload announces a new admin announcement.
type AnnouncementPayload struct {
	AnnouncementID uint   `json:"announcementId"`
	Message        string `json:"message"`
	Type           string `json:"type"`
}

// publishVoteUpdate broadcasts the current tally of a nominee to subscribers
// of its category. Failures only get logged, a missed live update never
// affects the vote itself.
func (e *Engine) publishVoteUpdate(ctx context.Context, categoryID, nomineeID uint) {
	if e.broadcaster == nil {
		return
	}
	count, err := e.db.CountVotesByNominee(ctx, nomineeID)
	if err != nil {
		log.Error("failed to count votes for broadcast", "nominee", nomineeID, "error", err)
		return
	}
	e.broadcaster.Publish(Event{
		Type:       EventVoteUpdate,
		CategoryID: categoryID,
		Payload: VoteUpdatePayload{
			NomineeID:  nomineeID,
			VoteCount:  count,
			CategoryID: categoryID,
		},
	})
}
