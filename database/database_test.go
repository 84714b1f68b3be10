package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *Client {
	t.Helper()
	client, err := NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestUserUniqueness(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, db.CreateUser(ctx, &User{Username: "WanderingSoul1"}))

	err := db.CreateUser(ctx, &User{Username: "WanderingSoul1"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestGetOrCreateUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	created, err := db.GetOrCreateUser(ctx, "SilentEcho2", AuthProviderGuest)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, created.Role)
	assert.Equal(t, AuthProviderGuest, created.AuthProvider)
	assert.False(t, created.SummonedAt.IsZero())

	again, err := db.GetOrCreateUser(ctx, "SilentEcho2", AuthProviderGuest)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	count, err := db.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestVoteUniqueIndex(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	user := &User{Username: "HiddenWhisper3"}
	require.NoError(t, db.CreateUser(ctx, user))
	category := &Category{Name: "Best Action", Slug: "best-action", Element: "fire", IsActive: true}
	require.NoError(t, db.CreateCategory(ctx, category))
	nominee := &Nominee{CategoryID: category.ID, Title: "A"}
	require.NoError(t, db.CreateNominee(ctx, nominee))
	other := &Nominee{CategoryID: category.ID, Title: "B"}
	require.NoError(t, db.CreateNominee(ctx, other))

	require.NoError(t, db.CreateVote(ctx, &Vote{UserID: user.ID, CategoryID: category.ID, NomineeID: nominee.ID}))

	err := db.CreateVote(ctx, &Vote{UserID: user.ID, CategoryID: category.ID, NomineeID: other.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	count, err := db.CountVotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestConcurrentVoteInserts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	user := &User{Username: "LostDream4"}
	require.NoError(t, db.CreateUser(ctx, user))
	category := &Category{Name: "Best Romance", Slug: "best-romance", Element: "water", IsActive: true}
	require.NoError(t, db.CreateCategory(ctx, category))
	nominee := &Nominee{CategoryID: category.ID, Title: "A"}
	require.NoError(t, db.CreateNominee(ctx, nominee))

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.CreateVote(ctx, &Vote{UserID: user.ID, CategoryID: category.ID, NomineeID: nominee.ID})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
		}
	}
	assert.Equal(t, 1, succeeded)

	count, err := db.CountVotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestVoteDeleteLeavesNoTombstone(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	user := &User{Username: "DriftingSpirit5"}
	require.NoError(t, db.CreateUser(ctx, user))
	category := &Category{Name: "Best Sci-Fi", Slug: "best-sci-fi", Element: "thunder", IsActive: true}
	require.NoError(t, db.CreateCategory(ctx, category))
	nominee := &Nominee{CategoryID: category.ID, Title: "A"}
	require.NoError(t, db.CreateNominee(ctx, nominee))

	vote := &Vote{UserID: user.ID, CategoryID: category.ID, NomineeID: nominee.ID}
	require.NoError(t, db.CreateVote(ctx, vote))
	require.NoError(t, db.DeleteVote(ctx, vote.ID))

	// A deleted vote must not block re-voting via the unique index.
	require.NoError(t, db.CreateVote(ctx, &Vote{UserID: user.ID, CategoryID: category.ID, NomineeID: nominee.ID}))
}

func TestUpdateVoteNominee(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	user := &User{Username: "EtherealShadow6"}
	require.NoError(t, db.CreateUser(ctx, user))
	category := &Category{Name: "Best OST", Slug: "best-ost", Element: "wind", IsActive: true}
	require.NoError(t, db.CreateCategory(ctx, category))
	a := &Nominee{CategoryID: category.ID, Title: "A"}
	require.NoError(t, db.CreateNominee(ctx, a))
	b := &Nominee{CategoryID: category.ID, Title: "B"}
	require.NoError(t, db.CreateNominee(ctx, b))

	vote := &Vote{UserID: user.ID, CategoryID: category.ID, NomineeID: a.ID}
	require.NoError(t, db.CreateVote(ctx, vote))

	updated, err := db.UpdateVoteNominee(ctx, vote.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.NomineeID)
	assert.Equal(t, vote.ID, updated.ID)

	counts, err := db.NomineeVoteCounts(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts[a.ID])
	assert.Equal(t, int64(1), counts[b.ID])
}

func TestNomineeVoteCountsIncludesVoteless(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	category := &Category{Name: "Best Fight", Slug: "best-fight", Element: "fire", IsActive: true}
	require.NoError(t, db.CreateCategory(ctx, category))
	a := &Nominee{CategoryID: category.ID, Title: "A"}
	require.NoError(t, db.CreateNominee(ctx, a))
	b := &Nominee{CategoryID: category.ID, Title: "B"}
	require.NoError(t, db.CreateNominee(ctx, b))

	counts, err := db.NomineeVoteCounts(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, int64(0), counts[a.ID])
	assert.Equal(t, int64(0), counts[b.ID])
}

func TestVotesPerCategory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	action := &Category{Name: "Best Action", Slug: "best-action", Element: "fire", IsActive: true}
	require.NoError(t, db.CreateCategory(ctx, action))
	romance := &Category{Name: "Best Romance", Slug: "best-romance", Element: "water", IsActive: true}
	require.NoError(t, db.CreateCategory(ctx, romance))
	actionNominee := &Nominee{CategoryID: action.ID, Title: "A"}
	require.NoError(t, db.CreateNominee(ctx, actionNominee))
	romanceNominee := &Nominee{CategoryID: romance.ID, Title: "B"}
	require.NoError(t, db.CreateNominee(ctx, romanceNominee))

	for i, categoryID := range []uint{action.ID, action.ID, romance.ID} {
		user := &User{Username: fmt.Sprintf("TallySpirit%d", i)}
		require.NoError(t, db.CreateUser(ctx, user))
		nomineeID := actionNominee.ID
		if categoryID == romance.ID {
			nomineeID = romanceNominee.ID
		}
		require.NoError(t, db.CreateVote(ctx, &Vote{UserID: user.ID, CategoryID: categoryID, NomineeID: nomineeID}))
	}

	rows, err := db.VotesPerCategory(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, action.ID, rows[0].CategoryID)
	assert.Equal(t, "Best Action", rows[0].CategoryName)
	assert.Equal(t, int64(2), rows[0].VoteCount)
	assert.Equal(t, romance.ID, rows[1].CategoryID)
	assert.Equal(t, int64(1), rows[1].VoteCount)
}

func TestGrantAchievementIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	user := &User{Username: "MysteriousWanderer7"}
	require.NoError(t, db.CreateUser(ctx, user))
	achievement := &Achievement{Name: "First Vote", Slug: "first-vote", Condition: "first_vote"}
	require.NoError(t, db.UpsertAchievement(ctx, achievement))

	fresh, err := db.GrantAchievement(ctx, user.ID, achievement.ID)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = db.GrantAchievement(ctx, user.ID, achievement.ID)
	require.NoError(t, err)
	assert.False(t, fresh)

	grants, err := db.ListUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "first-vote", grants[0].Achievement.Slug)
}

func TestConcurrentGrants(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	user := &User{Username: "WanderingEcho8"}
	require.NoError(t, db.CreateUser(ctx, user))
	achievement := &Achievement{Name: "Dedicated Voter", Slug: "dedicated-voter", Condition: "dedicated_voter"}
	require.NoError(t, db.UpsertAchievement(ctx, achievement))

	const attempts = 8
	var wg sync.WaitGroup
	freshCount := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh, err := db.GrantAchievement(ctx, user.ID, achievement.ID)
			if assert.NoError(t, err) {
				freshCount <- fresh
			}
		}()
	}
	wg.Wait()
	close(freshCount)

	var freshGrants int
	for fresh := range freshCount {
		if fresh {
			freshGrants++
		}
	}
	assert.Equal(t, 1, freshGrants)
}

func TestActiveVotingPeriod(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.ActiveVotingPeriod(ctx)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// An active flag alone is not enough, the period must not have ended.
	require.NoError(t, db.CreateVotingPeriod(ctx, &VotingPeriod{
		Name:     "Last Season",
		StartsAt: time.Now().Add(-48 * time.Hour),
		EndsAt:   time.Now().Add(-24 * time.Hour),
		IsActive: true,
	}))
	_, err = db.ActiveVotingPeriod(ctx)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, db.CreateVotingPeriod(ctx, &VotingPeriod{
		Name:     "Awards Season",
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(24 * time.Hour),
		IsActive: true,
	}))
	period, err := db.ActiveVotingPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Awards Season", period.Name)
}

func TestAnnouncementDismissal(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	user := &User{Username: "SilentWhisper9"}
	require.NoError(t, db.CreateUser(ctx, user))

	announcement := &Announcement{Message: "Voting starts now!", Type: AnnouncementCelebration, IsGlobal: true}
	require.NoError(t, db.CreateAnnouncement(ctx, announcement))

	visible, err := db.ListAnnouncements(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)

	require.NoError(t, db.DismissAnnouncement(ctx, user.ID, announcement.ID))
	// Dismissing twice is fine.
	require.NoError(t, db.DismissAnnouncement(ctx, user.ID, announcement.ID))

	visible, err = db.ListAnnouncements(ctx, user.ID, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	// Other users still see it.
	other := &User{Username: "LostShadow10"}
	require.NoError(t, db.CreateUser(ctx, other))
	visible, err = db.ListAnnouncements(ctx, other.ID, false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	err = db.DismissAnnouncement(ctx, user.ID, 9999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestExpiredAnnouncements(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, db.CreateAnnouncement(ctx, &Announcement{Message: "old news", ExpiresAt: &expired}))
	require.NoError(t, db.CreateAnnouncement(ctx, &Announcement{Message: "current"}))

	visible, err := db.ListAnnouncements(ctx, 0, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "current", visible[0].Message)

	all, err := db.ListAnnouncements(ctx, 0, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, db.Seed(ctx))
	require.NoError(t, db.Seed(ctx))

	achievements, err := db.ListAchievements(ctx)
	require.NoError(t, err)
	assert.Len(t, achievements, 6)

	categories, err := db.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, categories, 6)

	period, err := db.ActiveVotingPeriod(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, period.Name)
}
