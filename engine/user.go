package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jon4hz/yurei/database"
	"gorm.io/gorm"
)

// ElementAffinity sums a user's votes per category element, for the profile
// view.
type ElementAffinity struct {
	Category string
	Element  string
	Count    int
}

// Profile aggregates everything the profile page shows about a user.
type Profile struct {
	User         *database.User
	Votes        []database.Vote
	Achievements []database.UserAchievement
	Affinity     []ElementAffinity
}

// GetProfile loads the user's profile with votes, achievements and element
// affinity stats.
func (e *Engine) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := e.db.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	votes, err := e.db.ListVotesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	achievements, err := e.db.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	type affinityKey struct {
		name    string
		element string
	}
	counts := make(map[affinityKey]int)
	for _, vote := range votes {
		counts[affinityKey{name: vote.Category.Name, element: vote.Category.Element}]++
	}
	affinity := make([]ElementAffinity, 0, len(counts))
	for key, count := range counts {
		affinity = append(affinity, ElementAffinity{
			Category: key.name,
			Element:  key.element,
			Count:    count,
		})
	}
	sort.Slice(affinity, func(i, j int) bool {
		return affinity[i].Count > affinity[j].Count
	})

	return &Profile{
		User:         user,
		Votes:        votes,
		Achievements: achievements,
		Affinity:     affinity,
	}, nil
}
