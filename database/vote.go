package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Vote binds one user to one nominee within one category.
// The composite unique index on (user_id, category_id) is the sole
// serialization point for the one-vote-per-category invariant: concurrent
// inserts for the same pair surface as gorm.ErrDuplicatedKey and the caller
// falls back to an update.
// Votes are removed for real, so no soft-delete column: a soft-deleted row
// would keep occupying the unique index and block re-voting.
type Vote struct {
	ID         uint `gorm:"primarykey"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_votes_user_category"`
	CategoryID uint `gorm:"not null;uniqueIndex:idx_votes_user_category"`
	NomineeID  uint `gorm:"not null;index"`
	BoundAt    time.Time
	UpdatedAt  time.Time
	Nominee    Nominee  `gorm:"foreignKey:NomineeID"`
	Category   Category `gorm:"foreignKey:CategoryID"`
}

// CategoryVoteCount pairs a category with its total vote count.
type CategoryVoteCount struct {
	CategoryID   uint   `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	VoteCount    int64  `json:"voteCount"`
}

func (c *Client) GetVoteByID(ctx context.Context, id uint) (*Vote, error) {
	var vote Vote
	if err := c.db.WithContext(ctx).First(&vote, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get vote by ID", "error", err)
		}
		return nil, err
	}
	return &vote, nil
}

func (c *Client) GetVoteByUserAndCategory(ctx context.Context, userID, categoryID uint) (*Vote, error) {
	var vote Vote
	err := c.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&vote).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get vote", "error", err)
		}
		return nil, err
	}
	return &vote, nil
}

// CreateVote inserts a new vote. A second vote for the same (user, category)
// pair surfaces as gorm.ErrDuplicatedKey; the caller is expected to fall back
// to UpdateVoteNominee instead of treating it as fatal.
func (c *Client) CreateVote(ctx context.Context, vote *Vote) error {
	if vote.BoundAt.IsZero() {
		vote.BoundAt = time.Now()
	}
	if err := c.db.WithContext(ctx).Create(vote).Error; err != nil {
		if err != gorm.ErrDuplicatedKey {
			log.Error("failed to create vote", "error", err)
		}
		return err
	}
	return nil
}

// UpdateVoteNominee rebinds an existing vote to a new nominee and refreshes
// its timestamp. The old binding is discarded, not archived.
func (c *Client) UpdateVoteNominee(ctx context.Context, voteID, nomineeID uint) (*Vote, error) {
	err := c.db.WithContext(ctx).Model(&Vote{}).
		Where("id = ?", voteID).
		Updates(map[string]any{
			"nominee_id": nomineeID,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		log.Error("failed to update vote", "error", err)
		return nil, err
	}
	return c.GetVoteByID(ctx, voteID)
}

func (c *Client) ListVotesByUser(ctx context.Context, userID uint) ([]Vote, error) {
	var votes []Vote
	err := c.db.WithContext(ctx).
		Preload("Nominee").
		Preload("Category").
		Where("user_id = ?", userID).
		Order("bound_at desc").
		Find(&votes).Error
	if err != nil {
		log.Error("failed to list votes", "error", err)
		return nil, err
	}
	return votes, nil
}

// DeleteVote removes the vote entirely, no tombstone.
func (c *Client) DeleteVote(ctx context.Context, voteID uint) error {
	if err := c.db.WithContext(ctx).Delete(&Vote{}, voteID).Error; err != nil {
		log.Error("failed to delete vote", "error", err)
		return err
	}
	return nil
}

func (c *Client) CountVotes(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Vote{}).Count(&count).Error; err != nil {
		log.Error("failed to count votes", "error", err)
		return 0, err
	}
	return count, nil
}

func (c *Client) CountVotesByNominee(ctx context.Context, nomineeID uint) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&Vote{}).
		Where("nominee_id = ?", nomineeID).
		Count(&count).Error
	if err != nil {
		log.Error("failed to count nominee votes", "error", err)
		return 0, err
	}
	return count, nil
}

func (c *Client) VotesPerCategory(ctx context.Context) ([]CategoryVoteCount, error) {
	var rows []CategoryVoteCount
	err := c.db.WithContext(ctx).Model(&Vote{}).
		Select("votes.category_id, categories.name as category_name, count(*) as vote_count").
		Joins("JOIN categories ON categories.id = votes.category_id").
		Group("votes.category_id, categories.name").
		Order("vote_count desc").
		Scan(&rows).Error
	if err != nil {
		log.Error("failed to count votes per category", "error", err)
		return nil, err
	}
	return rows, nil
}
