package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Nominee represents a candidate within exactly one category.
// The vote count is always derived from the votes table, never stored.
// HiddenGemScore is recomputed after every vote mutation and by the
// periodic score refresh job.
type Nominee struct {
	gorm.Model
	CategoryID     uint   `gorm:"not null;index"`
	Title          string `gorm:"not null"`
	Studio         string
	ImageURL       string
	Description    string
	HiddenGemScore int `gorm:"not null;default:0"`
}

// NomineeVoteCount pairs a nominee with its derived vote count.
type NomineeVoteCount struct {
	Nominee   Nominee `json:"nominee"`
	VoteCount int64   `json:"voteCount"`
}

func (c *Client) ListNominees(ctx context.Context, categoryID uint) ([]Nominee, error) {
	tx := c.db.WithContext(ctx).Order("created_at desc")
	if categoryID != 0 {
		tx = tx.Where("category_id = ?", categoryID)
	}

	var nominees []Nominee
	if err := tx.Find(&nominees).Error; err != nil {
		log.Error("failed to list nominees", "error", err)
		return nil, err
	}
	return nominees, nil
}

// GetNomineeInCategory returns the nominee only if it belongs to the given
// category, gorm.ErrRecordNotFound otherwise.
func (c *Client) GetNomineeInCategory(ctx context.Context, nomineeID, categoryID uint) (*Nominee, error) {
	var nominee Nominee
	err := c.db.WithContext(ctx).
		Where("id = ? AND category_id = ?", nomineeID, categoryID).
		First(&nominee).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get nominee", "error", err)
		}
		return nil, err
	}
	return &nominee, nil
}

func (c *Client) CreateNominee(ctx context.Context, nominee *Nominee) error {
	if err := c.db.WithContext(ctx).Create(nominee).Error; err != nil {
		log.Error("failed to create nominee", "error", err)
		return err
	}
	return nil
}

// NomineeVoteCounts returns the vote count for every nominee of a category,
// including nominees without votes.
func (c *Client) NomineeVoteCounts(ctx context.Context, categoryID uint) (map[uint]int64, error) {
	var rows []struct {
		NomineeID uint
		Count     int64
	}
	err := c.db.WithContext(ctx).Model(&Vote{}).
		Select("nominee_id, count(*) as count").
		Where("category_id = ?", categoryID).
		Group("nominee_id").
		Scan(&rows).Error
	if err != nil {
		log.Error("failed to count nominee votes", "error", err)
		return nil, err
	}

	nominees, err := c.ListNominees(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(nominees))
	for _, n := range nominees {
		counts[n.ID] = 0
	}
	for _, r := range rows {
		counts[r.NomineeID] = r.Count
	}
	return counts, nil
}

func (c *Client) SetNomineeScore(ctx context.Context, nomineeID uint, score int) error {
	err := c.db.WithContext(ctx).Model(&Nominee{}).
		Where("id = ?", nomineeID).
		Update("hidden_gem_score", score).Error
	if err != nil {
		log.Error("failed to set nominee score", "error", err)
	}
	return err
}

// HiddenGemNominees returns nominees whose score exceeds the threshold,
// highest score first.
func (c *Client) HiddenGemNominees(ctx context.Context, threshold, limit int) ([]Nominee, error) {
	var nominees []Nominee
	err := c.db.WithContext(ctx).
		Where("hidden_gem_score > ?", threshold).
		Order("hidden_gem_score desc").
		Limit(limit).
		Find(&nominees).Error
	if err != nil {
		log.Error("failed to list hidden gems", "error", err)
		return nil, err
	}
	return nominees, nil
}

// TopNominees returns the nominees with the most votes across all categories.
func (c *Client) TopNominees(ctx context.Context, limit int) ([]NomineeVoteCount, error) {
	var rows []struct {
		NomineeID uint
		Count     int64
	}
	err := c.db.WithContext(ctx).Model(&Vote{}).
		Select("nominee_id, count(*) as count").
		Group("nominee_id").
		Order("count desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		log.Error("failed to rank nominees", "error", err)
		return nil, err
	}

	result := make([]NomineeVoteCount, 0, len(rows))
	for _, r := range rows {
		var nominee Nominee
		if err := c.db.WithContext(ctx).First(&nominee, r.NomineeID).Error; err != nil {
			log.Error("failed to load top nominee", "nominee", r.NomineeID, "error", err)
			continue
		}
		result = append(result, NomineeVoteCount{Nominee: nominee, VoteCount: r.Count})
	}
	return result, nil
}
