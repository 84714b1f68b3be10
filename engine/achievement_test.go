package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jon4hz/yurei/database"
	"github.com/jon4hz/yurei/database/mock"
)

func seedAchievements(t *testing.T, db *mock.MockDB) {
	t.Helper()
	ctx := context.Background()

	definitions := []database.Achievement{
		{Name: "First Vote", Slug: "first-vote", Rarity: database.RarityCommon, Condition: "first_vote"},
		{Name: "Hidden Gem Hunter", Slug: "hidden-gem-hunter", Rarity: database.RarityRare, Condition: "hidden_gem_hunter"},
		{Name: "Completionist", Slug: "completionist", Rarity: database.RarityEpic, Condition: "completionist"},
		{Name: "Early Soul", Slug: "early-soul", Rarity: database.RarityRare, Condition: "early_soul"},
		{Name: "Loyal Spirit", Slug: "loyal-spirit", Rarity: database.RarityRare, Condition: "loyal_spirit"},
		{Name: "Dedicated Voter", Slug: "dedicated-voter", Rarity: database.RarityEpic, Condition: "dedicated_voter"},
	}
	for i := range definitions {
		require.NoError(t, db.UpsertAchievement(ctx, &definitions[i]))
	}
}

func unlockedSlugs(unlocked []UnlockedAchievement) []string {
	slugs := make([]string, 0, len(unlocked))
	for _, u := range unlocked {
		slugs = append(slugs, u.Slug)
	}
	return slugs
}

func TestConditions(t *testing.T) {
	tests := []struct {
		name  string
		kind  conditionKind
		stats userStats
		want  bool
	}{
		{"first vote satisfied", condFirstVote, userStats{VoteCount: 1}, true},
		{"first vote without votes", condFirstVote, userStats{}, false},
		{"hidden gem hunter at threshold", condHiddenGems, userStats{HiddenGemVotes: 3}, true},
		{"hidden gem hunter below threshold", condHiddenGems, userStats{HiddenGemVotes: 2}, false},
		{"completionist", condCompletionist, userStats{CategoryCount: 4, TotalCategories: 4}, true},
		{"completionist missing a category", condCompletionist, userStats{CategoryCount: 3, TotalCategories: 4}, false},
		{"completionist with no categories", condCompletionist, userStats{}, false},
		{"early soul within a day", condEarlySoul, userStats{JoinDate: time.Now().Add(-time.Hour), VoteCount: 1}, true},
		{"early soul too late", condEarlySoul, userStats{JoinDate: time.Now().Add(-25 * time.Hour), VoteCount: 1}, false},
		{"early soul without votes", condEarlySoul, userStats{JoinDate: time.Now()}, false},
		{"loyal spirit", condLoyalSpirit, userStats{DaysVisited: 3}, true},
		{"loyal spirit too few days", condLoyalSpirit, userStats{DaysVisited: 2}, false},
		{"dedicated voter", condDedicatedVoter, userStats{VoteCount: 10}, true},
		{"dedicated voter too few votes", condDedicatedVoter, userStats{VoteCount: 9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluate, ok := conditions[tt.kind]
			require.True(t, ok)
			assert.Equal(t, tt.want, evaluate(tt.stats))
		})
	}
}

func TestCheckAchievements(t *testing.T) {
	ctx := context.Background()

	t.Run("first vote unlocks exactly once", func(t *testing.T) {
		e, db, _ := newTestEngine(t)
		user, categories, nominees := seedVotingFixtures(t, db)
		seedAchievements(t, db)

		result, err := e.CastVote(ctx, user.ID, categories[0].ID, nominees[0].ID)
		require.NoError(t, err)
		assert.Contains(t, unlockedSlugs(result.Unlocked), "first-vote")

		// Voting again must not re-grant anything.
		result, err = e.CastVote(ctx, user.ID, categories[0].ID, nominees[1].ID)
		require.NoError(t, err)
		assert.NotContains(t, unlockedSlugs(result.Unlocked), "first-vote")

		grants, err := db.ListUserAchievements(ctx, user.ID)
		require.NoError(t, err)
		count := 0
		for _, grant := range grants {
			if grant.Achievement.Slug == "first-vote" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("completionist requires a vote in every category", func(t *testing.T) {
		e, db, _ := newTestEngine(t)
		user, categories, nominees := seedVotingFixtures(t, db)
		seedAchievements(t, db)

		result, err := e.CastVote(ctx, user.ID, categories[0].ID, nominees[0].ID)
		require.NoError(t, err)
		assert.NotContains(t, unlockedSlugs(result.Unlocked), "completionist")

		result, err = e.CastVote(ctx, user.ID, categories[1].ID, nominees[2].ID)
		require.NoError(t, err)
		assert.Contains(t, unlockedSlugs(result.Unlocked), "completionist")
	})

	t.Run("early soul for fresh users", func(t *testing.T) {
		e, db, _ := newTestEngine(t)
		_, categories, nominees := seedVotingFixtures(t, db)
		seedAchievements(t, db)

		fresh := &database.User{Username: "EtherealDream8", SummonedAt: time.Now()}
		require.NoError(t, db.CreateUser(ctx, fresh))

		result, err := e.CastVote(ctx, fresh.ID, categories[0].ID, nominees[0].ID)
		require.NoError(t, err)
		assert.Contains(t, unlockedSlugs(result.Unlocked), "early-soul")
	})

	t.Run("hidden gem hunter counts hidden gem votes", func(t *testing.T) {
		e, db, _ := newTestEngine(t)
		user, _, _ := seedVotingFixtures(t, db)
		seedAchievements(t, db)

		fillers := make([]*database.User, 4)
		for i := range fillers {
			fillers[i] = &database.User{Username: fmt.Sprintf("DriftingShadow%d", 10+i)}
			require.NoError(t, db.CreateUser(ctx, fillers[i]))
		}

		// Three extra categories with one popular nominee and one hidden
		// gem each. The filler votes keep the gem well below the category
		// average so the per-vote score refresh preserves its status.
		for i, slug := range []string{"best-drama", "best-comedy", "best-horror"} {
			category := &database.Category{Name: slug, Slug: slug, Element: "wind", SortOrder: 10 + i, IsActive: true}
			require.NoError(t, db.CreateCategory(ctx, category))
			popular := &database.Nominee{CategoryID: category.ID, Title: slug + " favorite"}
			require.NoError(t, db.CreateNominee(ctx, popular))
			gem := &database.Nominee{CategoryID: category.ID, Title: slug + " gem", HiddenGemScore: 85}
			require.NoError(t, db.CreateNominee(ctx, gem))

			for _, filler := range fillers {
				require.NoError(t, db.CreateVote(ctx, &database.Vote{
					UserID:     filler.ID,
					CategoryID: category.ID,
					NomineeID:  popular.ID,
				}))
			}

			result, err := e.CastVote(ctx, user.ID, category.ID, gem.ID)
			require.NoError(t, err)
			if i == 2 {
				assert.Contains(t, unlockedSlugs(result.Unlocked), "hidden-gem-hunter")
			} else {
				assert.NotContains(t, unlockedSlugs(result.Unlocked), "hidden-gem-hunter")
			}
		}
	})

	t.Run("unknown condition is skipped", func(t *testing.T) {
		e, db, _ := newTestEngine(t)
		user, categories, nominees := seedVotingFixtures(t, db)
		require.NoError(t, db.UpsertAchievement(ctx, &database.Achievement{
			Name:      "Mystery",
			Slug:      "mystery",
			Condition: "does_not_exist",
		}))

		result, err := e.CastVote(ctx, user.ID, categories[0].ID, nominees[0].ID)
		require.NoError(t, err)
		assert.NotContains(t, unlockedSlugs(result.Unlocked), "mystery")

		grants, err := db.ListUserAchievements(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, grants)
	})

	t.Run("unlock is broadcast", func(t *testing.T) {
		e, db, broadcaster := newTestEngine(t)
		user, categories, nominees := seedVotingFixtures(t, db)
		seedAchievements(t, db)

		_, err := e.CastVote(ctx, user.ID, categories[0].ID, nominees[0].ID)
		require.NoError(t, err)

		var found bool
		for _, event := range broadcaster.Events() {
			if event.Type != EventAchievementUnlocked {
				continue
			}
			payload, ok := event.Payload.(AchievementUnlockedPayload)
			require.True(t, ok)
			if payload.Slug == "first-vote" {
				assert.Equal(t, user.ID, payload.UserID)
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("concurrent evaluations grant once", func(t *testing.T) {
		e, db, _ := newTestEngine(t)
		user, categories, nominees := seedVotingFixtures(t, db)
		seedAchievements(t, db)

		_, err := e.CastVote(ctx, user.ID, categories[0].ID, nominees[0].ID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.CheckAchievements(ctx, user.ID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		grants, err := db.ListUserAchievements(ctx, user.ID)
		require.NoError(t, err)
		count := 0
		for _, grant := range grants {
			if grant.Achievement.Slug == "first-vote" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("achievement failure does not revert the vote", func(t *testing.T) {
		e, db, _ := newTestEngine(t)
		user, categories, nominees := seedVotingFixtures(t, db)
		seedAchievements(t, db)
		db.ListAchievementsError = assert.AnError

		result, err := e.CastVote(ctx, user.ID, categories[0].ID, nominees[0].ID)
		require.NoError(t, err)
		assert.Empty(t, result.Unlocked)

		votes, err := db.ListVotesByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, votes, 1)
	})
}
