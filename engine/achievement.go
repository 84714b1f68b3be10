package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/yurei/database"
	"gorm.io/gorm"
)

// conditionKind names an achievement unlock condition. The set is closed:
// adding an achievement means adding a kind and an evaluator here, conditions
// are never interpreted from free-form strings at runtime.
type conditionKind string

const (
	condFirstVote      conditionKind = "first_vote"
	condHiddenGems     conditionKind = "hidden_gem_hunter"
	condCompletionist  conditionKind = "completionist"
	condEarlySoul      conditionKind = "early_soul"
	condLoyalSpirit    conditionKind = "loyal_spirit"
	condDedicatedVoter conditionKind = "dedicated_voter"
)

// userStats aggregates everything the condition evaluators look at.
type userStats struct {
	VoteCount       int
	CategoryCount   int
	TotalCategories int
	DaysVisited     int
	HiddenGemVotes  int
	JoinDate        time.Time
}

type conditionFunc func(stats userStats) bool

// Visit-streak tracking doesn't exist yet, every user counts as one day.
// TODO: record per-day visits so loyal_spirit can actually unlock.
const placeholderDaysVisited = 1

var conditions = map[conditionKind]conditionFunc{
	condFirstVote: func(s userStats) bool {
		return s.VoteCount >= 1
	},
	condHiddenGems: func(s userStats) bool {
		return s.HiddenGemVotes >= 3
	},
	condCompletionist: func(s userStats) bool {
		return s.TotalCategories > 0 && s.CategoryCount >= s.TotalCategories
	},
	condEarlySoul: func(s userStats) bool {
		return time.Since(s.JoinDate) <= 24*time.Hour && s.VoteCount > 0
	},
	condLoyalSpirit: func(s userStats) bool {
		return s.DaysVisited >= 3
	},
	condDedicatedVoter: func(s userStats) bool {
		return s.VoteCount >= 10
	},
}

// UnlockedAchievement describes an achievement granted during an evaluation.
type UnlockedAchievement struct {
	Slug        string
	Name        string
	Icon        string
	Rarity      database.Rarity
	Description string
}

// CheckAchievements evaluates every unearned achievement against the user's
// current stats and grants the satisfied ones. Safe to call concurrently for
// the same user: the unique index on (user, achievement) turns a duplicate
// grant into a no-op and no achievement is ever granted twice.
func (e *Engine) CheckAchievements(ctx context.Context, userID uint) ([]UnlockedAchievement, error) {
	stats, err := e.gatherUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	grants, err := e.db.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list granted achievements: %w", err)
	}
	granted := make(map[string]struct{}, len(grants))
	for _, grant := range grants {
		granted[grant.Achievement.Slug] = struct{}{}
	}

	definitions, err := e.db.ListAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	var unlocked []UnlockedAchievement
	for _, def := range definitions {
		if _, ok := granted[def.Slug]; ok {
			continue
		}

		evaluate, ok := conditions[conditionKind(def.Condition)]
		if !ok {
			// Unknown conditions are never satisfied.
			log.Warn("unknown achievement condition", "slug", def.Slug, "condition", def.Condition)
			continue
		}
		if !evaluate(stats) {
			continue
		}

		fresh, err := e.db.GrantAchievement(ctx, userID, def.ID)
		if err != nil {
			log.Error("failed to grant achievement", "user", userID, "slug", def.Slug, "error", err)
			continue
		}
		if !fresh {
			// A concurrent evaluation granted it first.
			continue
		}

		log.Info("achievement unlocked", "user", userID, "slug", def.Slug)
		unlock := UnlockedAchievement{
			Slug:        def.Slug,
			Name:        def.Name,
			Icon:        def.Icon,
			Rarity:      def.Rarity,
			Description: def.Description,
		}
		unlocked = append(unlocked, unlock)
		e.announceUnlock(ctx, userID, unlock)
	}
	return unlocked, nil
}

// gatherUserStats collects the aggregate stats the condition evaluators need.
func (e *Engine) gatherUserStats(ctx context.Context, userID uint) (userStats, error) {
	user, err := e.db.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return userStats{}, ErrUserNotFound
		}
		return userStats{}, fmt.Errorf("failed to load user: %w", err)
	}

	votes, err := e.db.ListVotesByUser(ctx, userID)
	if err != nil {
		return userStats{}, fmt.Errorf("failed to list votes: %w", err)
	}

	totalCategories, err := e.db.CountActiveCategories(ctx)
	if err != nil {
		return userStats{}, fmt.Errorf("failed to count categories: %w", err)
	}

	categories := make(map[uint]struct{}, len(votes))
	hiddenGemVotes := 0
	for _, vote := range votes {
		categories[vote.CategoryID] = struct{}{}
		if IsHiddenGem(vote.Nominee.HiddenGemScore) {
			hiddenGemVotes++
		}
	}

	return userStats{
		VoteCount:       len(votes),
		CategoryCount:   len(categories),
		TotalCategories: int(totalCategories),
		DaysVisited:     placeholderDaysVisited,
		HiddenGemVotes:  hiddenGemVotes,
		JoinDate:        user.SummonedAt,
	}, nil
}

// announceUnlock broadcasts the unlock and sends a push notification, both
// best-effort.
func (e *Engine) announceUnlock(ctx context.Context, userID uint, unlock UnlockedAchievement) {
	if e.broadcaster != nil {
		e.broadcaster.Publish(Event{
			Type: EventAchievementUnlocked,
			Payload: AchievementUnlockedPayload{
				UserID:      userID,
				Slug:        unlock.Slug,
				Name:        unlock.Name,
				Icon:        unlock.Icon,
				Rarity:      string(unlock.Rarity),
				Description: unlock.Description,
			},
		})
	}

	if e.push != nil {
		if err := e.push.SendAchievementUnlocked(ctx, userID, unlock.Name, unlock.Description); err != nil {
			log.Debug("failed to send achievement push notification", "user", userID, "error", err)
		}
	}
}
