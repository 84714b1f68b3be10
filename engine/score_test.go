package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jon4hz/yurei/database"
)

func TestHiddenGemScore(t *testing.T) {
	tests := []struct {
		name         string
		voteCount    int64
		totalVotes   int64
		nomineeCount int64
		want         int
	}{
		{
			name: "no votes at all",
			want: 0,
		},
		{
			name:         "no nominees",
			voteCount:    5,
			totalVotes:   5,
			nomineeCount: 0,
			want:         0,
		},
		{
			name:         "nominee without votes",
			voteCount:    0,
			totalVotes:   10,
			nomineeCount: 5,
			want:         0,
		},
		{
			name:         "too popular",
			voteCount:    8,
			totalVotes:   10,
			nomineeCount: 5, // average 2, ratio 4
			want:         0,
		},
		{
			name:         "exactly at the popularity cutoff",
			voteCount:    3,
			totalVotes:   10,
			nomineeCount: 5, // average 2, ratio 1.5
			want:         0,
		},
		{
			name:         "well below average",
			voteCount:    1,
			totalVotes:   20,
			nomineeCount: 5, // average 4, ratio 0.25
			want:         83,
		},
		{
			name:         "at the category average",
			voteCount:    4,
			totalVotes:   20,
			nomineeCount: 5, // ratio 1
			want:         33,
		},
		{
			name:         "single nominee takes all votes",
			voteCount:    10,
			totalVotes:   10,
			nomineeCount: 1, // ratio 1
			want:         33,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HiddenGemScore(tt.voteCount, tt.totalVotes, tt.nomineeCount))
		})
	}
}

func TestIsHiddenGem(t *testing.T) {
	assert.False(t, IsHiddenGem(0))
	assert.False(t, IsHiddenGem(70))
	assert.True(t, IsHiddenGem(71))
	assert.True(t, IsHiddenGem(100))
}

func TestRefreshCategoryScores(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	user, categories, nominees := seedVotingFixtures(t, db)

	// Skew the category: four voters on nominee A, one on nominee B.
	_, err := e.CastVote(ctx, user.ID, categories[0].ID, nominees[0].ID)
	require.NoError(t, err)
	for _, username := range []string{"DriftingDream4", "LostWhisper5", "EtherealSpirit6"} {
		voter := &database.User{Username: username}
		require.NoError(t, db.CreateUser(ctx, voter))
		_, err := e.CastVote(ctx, voter.ID, categories[0].ID, nominees[0].ID)
		require.NoError(t, err)
	}
	voter := &database.User{Username: "MysteriousWanderer7"}
	require.NoError(t, db.CreateUser(ctx, voter))
	_, err = e.CastVote(ctx, voter.ID, categories[0].ID, nominees[1].ID)
	require.NoError(t, err)

	require.NoError(t, e.RefreshCategoryScores(ctx, categories[0].ID))

	// 5 votes over 2 nominees: average 2.5. Nominee A ratio 1.6 is too
	// popular, nominee B ratio 0.4 scores 73.
	popular, err := db.GetNomineeInCategory(ctx, nominees[0].ID, categories[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, popular.HiddenGemScore)

	gem, err := db.GetNomineeInCategory(ctx, nominees[1].ID, categories[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 73, gem.HiddenGemScore)
	assert.True(t, IsHiddenGem(gem.HiddenGemScore))
}

func TestRefreshAllScores(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	user, categories, nominees := seedVotingFixtures(t, db)

	_, err := e.CastVote(ctx, user.ID, categories[0].ID, nominees[0].ID)
	require.NoError(t, err)
	_, err = e.CastVote(ctx, user.ID, categories[1].ID, nominees[2].ID)
	require.NoError(t, err)

	require.NoError(t, e.RefreshAllScores(ctx))

	// One vote over two nominees per category: the voted nominee sits at
	// ratio 2 and scores 0, the other has no votes and also scores 0.
	for i, nominee := range nominees {
		stored, err := db.GetNomineeInCategory(ctx, nominee.ID, nominee.CategoryID)
		require.NoError(t, err, "nominee %d", i)
		assert.Equal(t, 0, stored.HiddenGemScore)
	}
}
