package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jon4hz/yurei/database"
)

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	user, categories, nominees := seedVotingFixtures(t, db)

	require.NoError(t, db.CreateVote(ctx, &database.Vote{
		UserID: user.ID, CategoryID: categories[0].ID, NomineeID: nominees[0].ID,
	}))
	other := &database.User{Username: "SilentEcho2"}
	require.NoError(t, db.CreateUser(ctx, other))
	require.NoError(t, db.CreateVote(ctx, &database.Vote{
		UserID: other.ID, CategoryID: categories[0].ID, NomineeID: nominees[0].ID,
	}))
	require.NoError(t, db.CreateVote(ctx, &database.Vote{
		UserID: other.ID, CategoryID: categories[1].ID, NomineeID: nominees[2].ID,
	}))

	stats, err := e.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 3, stats.TotalVotes)

	require.Len(t, stats.VotesByCategory, 2)
	byCategory := map[uint]database.CategoryVoteCount{}
	for _, row := range stats.VotesByCategory {
		byCategory[row.CategoryID] = row
	}
	assert.Equal(t, int64(2), byCategory[categories[0].ID].VoteCount)
	assert.Equal(t, "Best Action", byCategory[categories[0].ID].CategoryName)
	assert.Equal(t, int64(1), byCategory[categories[1].ID].VoteCount)

	require.NotEmpty(t, stats.TopNominees)
	assert.Equal(t, nominees[0].ID, stats.TopNominees[0].Nominee.ID)
	assert.Equal(t, int64(2), stats.TopNominees[0].VoteCount)
}

func TestStatsSerializeCamelCase(t *testing.T) {
	stats := Stats{
		VotesByCategory: []database.CategoryVoteCount{
			{CategoryID: 1, CategoryName: "Best Action", VoteCount: 2},
		},
		TopNominees: []database.NomineeVoteCount{
			{Nominee: database.Nominee{Title: "A"}, VoteCount: 2},
		},
	}

	raw, err := json.Marshal(stats)
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, `"categoryName":"Best Action"`)
	assert.Contains(t, body, `"voteCount":2`)
	assert.NotContains(t, body, `"CategoryName"`)
	assert.NotContains(t, body, `"VoteCount"`)
}
