package database

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Seed fills the database with the achievement definitions, the default
// categories and an open voting period. Seeding is idempotent.
func (c *Client) Seed(ctx context.Context) error {
	achievements := []Achievement{
		{Name: "First Binding", Slug: "first-vote", Description: "Cast your first vote in the realm", Icon: "💫", Rarity: RarityCommon, Condition: "first_vote"},
		{Name: "Hidden Gem Hunter", Slug: "hidden-gem-hunter", Description: "Vote for 3 hidden gems", Icon: "💎", Rarity: RarityRare, Condition: "hidden_gem_hunter"},
		{Name: "Completionist", Slug: "completionist", Description: "Vote in all categories", Icon: "🏆", Rarity: RarityEpic, Condition: "completionist"},
		{Name: "Early Soul", Slug: "early-soul", Description: "Vote within 24 hours of joining", Icon: "⚡", Rarity: RarityRare, Condition: "early_soul"},
		{Name: "Loyal Spirit", Slug: "loyal-spirit", Description: "Return to the realm for 3 consecutive days", Icon: "🔥", Rarity: RarityEpic, Condition: "loyal_spirit"},
		{Name: "Dedicated Voter", Slug: "dedicated-voter", Description: "Cast 10 or more votes", Icon: "⭐", Rarity: RarityLegendary, Condition: "dedicated_voter"},
	}
	for i := range achievements {
		if err := c.UpsertAchievement(ctx, &achievements[i]); err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", achievements[i].Slug, err)
		}
	}

	categories := []Category{
		{Name: "Best Action", Slug: "best-action", Element: "fire", Description: "Heart-pounding battles and adrenaline-fueled sequences", SortOrder: 1, IsActive: true},
		{Name: "Best Drama", Slug: "best-drama", Element: "water", Description: "Emotional stories that moved our souls", SortOrder: 2, IsActive: true},
		{Name: "Best Comedy", Slug: "best-comedy", Element: "light", Description: "Series that made us laugh out loud", SortOrder: 3, IsActive: true},
		{Name: "Best Romance", Slug: "best-romance", Element: "cosmos", Description: "Love stories that warmed our hearts", SortOrder: 4, IsActive: true},
		{Name: "Best Fantasy", Slug: "best-fantasy", Element: "nature", Description: "Magical worlds and impossible adventures", SortOrder: 5, IsActive: true},
		{Name: "Best Sci-Fi", Slug: "best-sci-fi", Element: "thunder", Description: "Futures imagined and technologies dreamed", SortOrder: 6, IsActive: true},
	}
	for i := range categories {
		err := c.CreateCategory(ctx, &categories[i])
		if err != nil && err != gorm.ErrDuplicatedKey {
			return fmt.Errorf("failed to seed category %s: %w", categories[i].Slug, err)
		}
	}

	var periods int64
	if err := c.db.WithContext(ctx).Model(&VotingPeriod{}).Count(&periods).Error; err != nil {
		return fmt.Errorf("failed to count voting periods: %w", err)
	}
	if periods == 0 {
		period := VotingPeriod{
			Name:     "Awards Season",
			StartsAt: time.Now(),
			EndsAt:   time.Now().AddDate(0, 1, 0),
			IsActive: true,
		}
		if err := c.CreateVotingPeriod(ctx, &period); err != nil {
			return fmt.Errorf("failed to seed voting period: %w", err)
		}
	}

	log.Info("database seeded", "achievements", len(achievements), "categories", len(categories))
	return nil
}
