package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jon4hz/yurei/api/models"
	"github.com/jon4hz/yurei/config"
	"github.com/jon4hz/yurei/database"
	"github.com/jon4hz/yurei/database/mock"
	"github.com/jon4hz/yurei/engine"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler(t *testing.T) (*Handler, *mock.MockDB) {
	t.Helper()

	db := mock.NewMockDB()
	eng, err := engine.New(&config.Config{ScoreRefreshInterval: 30}, db, nil, nil)
	require.NoError(t, err)

	return New(eng, nil, &config.CacheConfig{Type: config.CacheTypeMemory, TTL: 60}), db
}

func testContext(t *testing.T, method, target string, body any, user *models.SessionUser) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")

	if user != nil {
		c.Set("user", user)
	}
	return c, recorder
}

func seedVoting(t *testing.T, db *mock.MockDB) (*database.User, *database.Category, *database.Nominee) {
	t.Helper()
	ctx := context.Background()

	user := &database.User{Username: "WanderingSoul1", SummonedAt: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, db.CreateUser(ctx, user))
	require.NoError(t, db.CreateVotingPeriod(ctx, &database.VotingPeriod{
		Name:     "Awards Season",
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(24 * time.Hour),
		IsActive: true,
	}))
	category := &database.Category{Name: "Best Action", Slug: "best-action", Element: "fire", IsActive: true}
	require.NoError(t, db.CreateCategory(context.Background(), category))
	nominee := &database.Nominee{CategoryID: category.ID, Title: "A"}
	require.NoError(t, db.CreateNominee(context.Background(), nominee))
	return user, category, nominee
}

func sessionUser(user *database.User) *models.SessionUser {
	return &models.SessionUser{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin()}
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestCastVoteEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, db := newTestHandler(t)
		user, category, nominee := seedVoting(t, db)

		c, recorder := testContext(t, http.MethodPost, "/api/vote", models.CastVoteRequest{
			NomineeID:  nominee.ID,
			CategoryID: category.ID,
		}, sessionUser(user))
		h.CastVote(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Error)
	})

	t.Run("missing body fields", func(t *testing.T) {
		h, db := newTestHandler(t)
		user, _, _ := seedVoting(t, db)

		c, recorder := testContext(t, http.MethodPost, "/api/vote", gin.H{}, sessionUser(user))
		h.CastVote(c)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.False(t, resp.Success)
	})

	t.Run("unknown nominee returns 404", func(t *testing.T) {
		h, db := newTestHandler(t)
		user, category, _ := seedVoting(t, db)

		c, recorder := testContext(t, http.MethodPost, "/api/vote", models.CastVoteRequest{
			NomineeID:  9999,
			CategoryID: category.ID,
		}, sessionUser(user))
		h.CastVote(c)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("closed voting returns 403", func(t *testing.T) {
		h, db := newTestHandler(t)
		user, category, nominee := seedVoting(t, db)
		db.ActiveVotingPeriodError = gorm.ErrRecordNotFound

		c, recorder := testContext(t, http.MethodPost, "/api/vote", models.CastVoteRequest{
			NomineeID:  nominee.ID,
			CategoryID: category.ID,
		}, sessionUser(user))
		h.CastVote(c)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestDeleteVoteEndpoint(t *testing.T) {
	t.Run("foreign vote returns 403", func(t *testing.T) {
		h, db := newTestHandler(t)
		user, category, nominee := seedVoting(t, db)

		other := &database.User{Username: "SilentEcho2"}
		require.NoError(t, db.CreateUser(context.Background(), other))
		vote := &database.Vote{UserID: user.ID, CategoryID: category.ID, NomineeID: nominee.ID}
		require.NoError(t, db.CreateVote(context.Background(), vote))

		c, recorder := testContext(t, http.MethodDelete, "/api/vote/1", nil, sessionUser(other))
		c.Params = gin.Params{{Key: "id", Value: "1"}}
		h.DeleteVote(c)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		h, db := newTestHandler(t)
		user, _, _ := seedVoting(t, db)

		c, recorder := testContext(t, http.MethodDelete, "/api/vote/abc", nil, sessionUser(user))
		c.Params = gin.Params{{Key: "id", Value: "abc"}}
		h.DeleteVote(c)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestListCategoriesEndpoint(t *testing.T) {
	h, db := newTestHandler(t)
	user, _, _ := seedVoting(t, db)

	c, recorder := testContext(t, http.MethodGet, "/api/categories", nil, sessionUser(user))
	h.ListCategories(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	resp := decodeResponse(t, recorder)
	assert.True(t, resp.Success)

	// Second request is served from the cache and matches.
	c2, recorder2 := testContext(t, http.MethodGet, "/api/categories", nil, sessionUser(user))
	h.ListCategories(c2)
	assert.Equal(t, recorder.Body.String(), recorder2.Body.String())
}

func TestCreateCategoryEndpoint(t *testing.T) {
	t.Run("duplicate slug returns 409", func(t *testing.T) {
		h, db := newTestHandler(t)
		user, category, _ := seedVoting(t, db)

		c, recorder := testContext(t, http.MethodPost, "/api/admin/categories", models.CreateCategoryRequest{
			Name:    "Best Action Again",
			Slug:    category.Slug,
			Element: "fire",
		}, sessionUser(user))
		h.CreateCategory(c)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}
