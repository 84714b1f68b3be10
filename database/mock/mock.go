// Package mock provides an in-memory implementation of database.DB for
// testing. Not-found lookups return gorm.ErrRecordNotFound and duplicate
// inserts return gorm.ErrDuplicatedKey, matching the sqlite client with
// error translation enabled.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/jon4hz/yurei/database"
)

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	users      map[uint]*database.User
	nextUserID uint

	categories     map[uint]*database.Category
	nextCategoryID uint

	nominees      map[uint]*database.Nominee
	nextNomineeID uint

	votes      map[uint]*database.Vote
	nextVoteID uint

	votingPeriods map[uint]*database.VotingPeriod
	nextPeriodID  uint

	achievements      map[uint]*database.Achievement
	nextAchievementID uint

	userAchievements map[uint]*database.UserAchievement
	nextGrantID      uint

	announcements      map[uint]*database.Announcement
	nextAnnouncementID uint
	dismissals         map[uint]map[uint]bool // userID -> announcementID

	// Error simulation
	CreateUserError             error
	GetUserByIDError            error
	GetUserByUsernameError      error
	GetOrCreateUserError        error
	SetUserRoleError            error
	TouchLastSeenError          error
	CountUsersError             error
	ListCategoriesError         error
	GetCategoryByIDError        error
	CreateCategoryError         error
	CountActiveCategoriesError  error
	ListNomineesError           error
	GetNomineeInCategoryError   error
	CreateNomineeError          error
	NomineeVoteCountsError      error
	SetNomineeScoreError        error
	HiddenGemNomineesError      error
	TopNomineesError            error
	GetVoteByIDError            error
	GetVoteByUserAndCategoryErr error
	CreateVoteError             error
	UpdateVoteNomineeError      error
	ListVotesByUserError        error
	DeleteVoteError             error
	CountVotesError             error
	CountVotesByNomineeError    error
	VotesPerCategoryError       error
	ActiveVotingPeriodError     error
	CreateVotingPeriodError     error
	ListAchievementsError       error
	ListUserAchievementsError   error
	GrantAchievementError       error
	UpsertAchievementError      error
	ListAnnouncementsError      error
	CreateAnnouncementError     error
	DismissAnnouncementError    error
}

var _ database.DB = (*MockDB)(nil)

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	return &MockDB{
		users:              make(map[uint]*database.User),
		nextUserID:         1,
		categories:         make(map[uint]*database.Category),
		nextCategoryID:     1,
		nominees:           make(map[uint]*database.Nominee),
		nextNomineeID:      1,
		votes:              make(map[uint]*database.Vote),
		nextVoteID:         1,
		votingPeriods:      make(map[uint]*database.VotingPeriod),
		nextPeriodID:       1,
		achievements:       make(map[uint]*database.Achievement),
		nextAchievementID:  1,
		userAchievements:   make(map[uint]*database.UserAchievement),
		nextGrantID:        1,
		announcements:      make(map[uint]*database.Announcement),
		nextAnnouncementID: 1,
		dismissals:         make(map[uint]map[uint]bool),
	}
}

// User operations

func (m *MockDB) CreateUser(_ context.Context, user *database.User) error {
	if m.CreateUserError != nil {
		return m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextUserID
	m.nextUserID++
	if user.SummonedAt.IsZero() {
		user.SummonedAt = time.Now()
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockDB) GetUserByID(_ context.Context, id uint) (*database.User, error) {
	if m.GetUserByIDError != nil {
		return nil, m.GetUserByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockDB) GetUserByUsername(_ context.Context, username string) (*database.User, error) {
	if m.GetUserByUsernameError != nil {
		return nil, m.GetUserByUsernameError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockDB) GetOrCreateUser(ctx context.Context, username string, provider database.AuthProvider) (*database.User, error) {
	if m.GetOrCreateUserError != nil {
		return nil, m.GetOrCreateUserError
	}

	user, err := m.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	user = &database.User{
		Username:     username,
		AuthProvider: provider,
		Role:         database.RoleUser,
		PrivacyMode:  database.PrivacyPublic,
		SummonedAt:   time.Now(),
		LastSeenAt:   time.Now(),
	}
	if err := m.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (m *MockDB) SetUserRole(_ context.Context, userID uint, role database.Role) error {
	if m.SetUserRoleError != nil {
		return m.SetUserRoleError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Role = role
	return nil
}

func (m *MockDB) TouchLastSeen(_ context.Context, userID uint) error {
	if m.TouchLastSeenError != nil {
		return m.TouchLastSeenError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[userID]; ok {
		user.LastSeenAt = time.Now()
	}
	return nil
}

func (m *MockDB) CountUsers(_ context.Context) (int64, error) {
	if m.CountUsersError != nil {
		return 0, m.CountUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

// Category operations

func (m *MockDB) ListCategories(_ context.Context, activeOnly bool) ([]database.Category, error) {
	if m.ListCategoriesError != nil {
		return nil, m.ListCategoriesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	categories := make([]database.Category, 0, len(m.categories))
	for _, category := range m.categories {
		if activeOnly && !category.IsActive {
			continue
		}
		copied := *category
		for _, nominee := range m.nominees {
			if nominee.CategoryID == category.ID {
				copied.Nominees = append(copied.Nominees, *nominee)
			}
		}
		categories = append(categories, copied)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].SortOrder < categories[j].SortOrder
	})
	return categories, nil
}

func (m *MockDB) GetCategoryByID(_ context.Context, id uint) (*database.Category, error) {
	if m.GetCategoryByIDError != nil {
		return nil, m.GetCategoryByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	category, ok := m.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *category
	return &copied, nil
}

func (m *MockDB) CreateCategory(_ context.Context, category *database.Category) error {
	if m.CreateCategoryError != nil {
		return m.CreateCategoryError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.categories {
		if existing.Slug == category.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	category.ID = m.nextCategoryID
	m.nextCategoryID++
	m.categories[category.ID] = category
	return nil
}

func (m *MockDB) CountActiveCategories(_ context.Context) (int64, error) {
	if m.CountActiveCategoriesError != nil {
		return 0, m.CountActiveCategoriesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, category := range m.categories {
		if category.IsActive {
			count++
		}
	}
	return count, nil
}

// Nominee operations

func (m *MockDB) ListNominees(_ context.Context, categoryID uint) ([]database.Nominee, error) {
	if m.ListNomineesError != nil {
		return nil, m.ListNomineesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var nominees []database.Nominee
	for _, nominee := range m.nominees {
		if nominee.CategoryID == categoryID {
			nominees = append(nominees, *nominee)
		}
	}
	sort.Slice(nominees, func(i, j int) bool { return nominees[i].ID < nominees[j].ID })
	return nominees, nil
}

func (m *MockDB) GetNomineeInCategory(_ context.Context, nomineeID, categoryID uint) (*database.Nominee, error) {
	if m.GetNomineeInCategoryError != nil {
		return nil, m.GetNomineeInCategoryError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	nominee, ok := m.nominees[nomineeID]
	if !ok || nominee.CategoryID != categoryID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *nominee
	return &copied, nil
}

func (m *MockDB) CreateNominee(_ context.Context, nominee *database.Nominee) error {
	if m.CreateNomineeError != nil {
		return m.CreateNomineeError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	nominee.ID = m.nextNomineeID
	m.nextNomineeID++
	m.nominees[nominee.ID] = nominee
	return nil
}

func (m *MockDB) NomineeVoteCounts(_ context.Context, categoryID uint) (map[uint]int64, error) {
	if m.NomineeVoteCountsError != nil {
		return nil, m.NomineeVoteCountsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[uint]int64)
	for _, nominee := range m.nominees {
		if nominee.CategoryID == categoryID {
			counts[nominee.ID] = 0
		}
	}
	for _, vote := range m.votes {
		if vote.CategoryID == categoryID {
			counts[vote.NomineeID]++
		}
	}
	return counts, nil
}

func (m *MockDB) SetNomineeScore(_ context.Context, nomineeID uint, score int) error {
	if m.SetNomineeScoreError != nil {
		return m.SetNomineeScoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	nominee, ok := m.nominees[nomineeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	nominee.HiddenGemScore = score
	return nil
}

func (m *MockDB) HiddenGemNominees(_ context.Context, threshold, limit int) ([]database.Nominee, error) {
	if m.HiddenGemNomineesError != nil {
		return nil, m.HiddenGemNomineesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var nominees []database.Nominee
	for _, nominee := range m.nominees {
		if nominee.HiddenGemScore > threshold {
			nominees = append(nominees, *nominee)
		}
	}
	sort.Slice(nominees, func(i, j int) bool {
		return nominees[i].HiddenGemScore > nominees[j].HiddenGemScore
	})
	if limit > 0 && len(nominees) > limit {
		nominees = nominees[:limit]
	}
	return nominees, nil
}

func (m *MockDB) TopNominees(_ context.Context, limit int) ([]database.NomineeVoteCount, error) {
	if m.TopNomineesError != nil {
		return nil, m.TopNomineesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[uint]int64)
	for _, vote := range m.votes {
		counts[vote.NomineeID]++
	}
	var top []database.NomineeVoteCount
	for nomineeID, count := range counts {
		if nominee, ok := m.nominees[nomineeID]; ok {
			top = append(top, database.NomineeVoteCount{Nominee: *nominee, VoteCount: count})
		}
	}
	sort.Slice(top, func(i, j int) bool { return top[i].VoteCount > top[j].VoteCount })
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

// Vote operations

func (m *MockDB) GetVoteByID(_ context.Context, id uint) (*database.Vote, error) {
	if m.GetVoteByIDError != nil {
		return nil, m.GetVoteByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	vote, ok := m.votes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *vote
	return &copied, nil
}

func (m *MockDB) GetVoteByUserAndCategory(_ context.Context, userID, categoryID uint) (*database.Vote, error) {
	if m.GetVoteByUserAndCategoryErr != nil {
		return nil, m.GetVoteByUserAndCategoryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, vote := range m.votes {
		if vote.UserID == userID && vote.CategoryID == categoryID {
			copied := *vote
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockDB) CreateVote(_ context.Context, vote *database.Vote) error {
	if m.CreateVoteError != nil {
		return m.CreateVoteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.votes {
		if existing.UserID == vote.UserID && existing.CategoryID == vote.CategoryID {
			return gorm.ErrDuplicatedKey
		}
	}
	vote.ID = m.nextVoteID
	m.nextVoteID++
	now := time.Now()
	if vote.BoundAt.IsZero() {
		vote.BoundAt = now
	}
	vote.UpdatedAt = now
	stored := *vote
	m.votes[vote.ID] = &stored
	return nil
}

func (m *MockDB) UpdateVoteNominee(_ context.Context, voteID, nomineeID uint) (*database.Vote, error) {
	if m.UpdateVoteNomineeError != nil {
		return nil, m.UpdateVoteNomineeError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	vote, ok := m.votes[voteID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	vote.NomineeID = nomineeID
	vote.UpdatedAt = time.Now()
	copied := *vote
	return &copied, nil
}

func (m *MockDB) ListVotesByUser(_ context.Context, userID uint) ([]database.Vote, error) {
	if m.ListVotesByUserError != nil {
		return nil, m.ListVotesByUserError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var votes []database.Vote
	for _, vote := range m.votes {
		if vote.UserID != userID {
			continue
		}
		copied := *vote
		if nominee, ok := m.nominees[vote.NomineeID]; ok {
			copied.Nominee = *nominee
		}
		if category, ok := m.categories[vote.CategoryID]; ok {
			copied.Category = *category
		}
		votes = append(votes, copied)
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].BoundAt.After(votes[j].BoundAt) })
	return votes, nil
}

func (m *MockDB) DeleteVote(_ context.Context, voteID uint) error {
	if m.DeleteVoteError != nil {
		return m.DeleteVoteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.votes[voteID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.votes, voteID)
	return nil
}

func (m *MockDB) CountVotes(_ context.Context) (int64, error) {
	if m.CountVotesError != nil {
		return 0, m.CountVotesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.votes)), nil
}

func (m *MockDB) CountVotesByNominee(_ context.Context, nomineeID uint) (int64, error) {
	if m.CountVotesByNomineeError != nil {
		return 0, m.CountVotesByNomineeError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, vote := range m.votes {
		if vote.NomineeID == nomineeID {
			count++
		}
	}
	return count, nil
}

func (m *MockDB) VotesPerCategory(_ context.Context) ([]database.CategoryVoteCount, error) {
	if m.VotesPerCategoryError != nil {
		return nil, m.VotesPerCategoryError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[uint]int64)
	for _, vote := range m.votes {
		counts[vote.CategoryID]++
	}
	var result []database.CategoryVoteCount
	for categoryID, count := range counts {
		row := database.CategoryVoteCount{CategoryID: categoryID, VoteCount: count}
		if category, ok := m.categories[categoryID]; ok {
			row.CategoryName = category.Name
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CategoryID < result[j].CategoryID })
	return result, nil
}

// Voting period operations

func (m *MockDB) ActiveVotingPeriod(_ context.Context) (*database.VotingPeriod, error) {
	if m.ActiveVotingPeriodError != nil {
		return nil, m.ActiveVotingPeriodError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	for _, period := range m.votingPeriods {
		if period.IsActive && period.EndsAt.After(now) {
			copied := *period
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockDB) CreateVotingPeriod(_ context.Context, period *database.VotingPeriod) error {
	if m.CreateVotingPeriodError != nil {
		return m.CreateVotingPeriodError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	period.ID = m.nextPeriodID
	m.nextPeriodID++
	m.votingPeriods[period.ID] = period
	return nil
}

// Achievement operations

func (m *MockDB) ListAchievements(_ context.Context) ([]database.Achievement, error) {
	if m.ListAchievementsError != nil {
		return nil, m.ListAchievementsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	achievements := make([]database.Achievement, 0, len(m.achievements))
	for _, achievement := range m.achievements {
		achievements = append(achievements, *achievement)
	}
	sort.Slice(achievements, func(i, j int) bool { return achievements[i].ID < achievements[j].ID })
	return achievements, nil
}

func (m *MockDB) ListUserAchievements(_ context.Context, userID uint) ([]database.UserAchievement, error) {
	if m.ListUserAchievementsError != nil {
		return nil, m.ListUserAchievementsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var grants []database.UserAchievement
	for _, grant := range m.userAchievements {
		if grant.UserID != userID {
			continue
		}
		copied := *grant
		if achievement, ok := m.achievements[grant.AchievementID]; ok {
			copied.Achievement = *achievement
		}
		grants = append(grants, copied)
	}
	sort.Slice(grants, func(i, j int) bool { return grants[i].ID < grants[j].ID })
	return grants, nil
}

func (m *MockDB) GrantAchievement(_ context.Context, userID, achievementID uint) (bool, error) {
	if m.GrantAchievementError != nil {
		return false, m.GrantAchievementError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, grant := range m.userAchievements {
		if grant.UserID == userID && grant.AchievementID == achievementID {
			return false, nil
		}
	}
	grant := &database.UserAchievement{
		ID:            m.nextGrantID,
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      time.Now(),
	}
	m.nextGrantID++
	m.userAchievements[grant.ID] = grant
	return true, nil
}

func (m *MockDB) UpsertAchievement(_ context.Context, achievement *database.Achievement) error {
	if m.UpsertAchievementError != nil {
		return m.UpsertAchievementError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.achievements {
		if existing.Slug == achievement.Slug {
			achievement.ID = existing.ID
			m.achievements[existing.ID] = achievement
			return nil
		}
	}
	achievement.ID = m.nextAchievementID
	m.nextAchievementID++
	m.achievements[achievement.ID] = achievement
	return nil
}

// Announcement operations

func (m *MockDB) ListAnnouncements(_ context.Context, userID uint, includeExpired bool) ([]database.Announcement, error) {
	if m.ListAnnouncementsError != nil {
		return nil, m.ListAnnouncementsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	var announcements []database.Announcement
	for _, announcement := range m.announcements {
		if !includeExpired && announcement.ExpiresAt != nil && announcement.ExpiresAt.Before(now) {
			continue
		}
		if userID != 0 && m.dismissals[userID][announcement.ID] {
			continue
		}
		announcements = append(announcements, *announcement)
	}
	sort.Slice(announcements, func(i, j int) bool { return announcements[i].ID > announcements[j].ID })
	return announcements, nil
}

func (m *MockDB) CreateAnnouncement(_ context.Context, announcement *database.Announcement) error {
	if m.CreateAnnouncementError != nil {
		return m.CreateAnnouncementError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	announcement.ID = m.nextAnnouncementID
	announcement.CreatedAt = time.Now()
	m.nextAnnouncementID++
	m.announcements[announcement.ID] = announcement
	return nil
}

func (m *MockDB) DismissAnnouncement(_ context.Context, userID, announcementID uint) error {
	if m.DismissAnnouncementError != nil {
		return m.DismissAnnouncementError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.announcements[announcementID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if m.dismissals[userID] == nil {
		m.dismissals[userID] = make(map[uint]bool)
	}
	m.dismissals[userID][announcementID] = true
	return nil
}

// Utility operations

func (m *MockDB) Close() error   { return nil }
func (m *MockDB) Migrate() error { return nil }
