package database

import (
	"context"
)

// DB defines the interface for database operations used by the engine.
type DB interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetOrCreateUser(ctx context.Context, username string, provider AuthProvider) (*User, error)
	SetUserRole(ctx context.Context, userID uint, role Role) error
	TouchLastSeen(ctx context.Context, userID uint) error
	CountUsers(ctx context.Context) (int64, error)

	// Categories
	ListCategories(ctx context.Context, activeOnly bool) ([]Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	CountActiveCategories(ctx context.Context) (int64, error)

	// Nominees
	ListNominees(ctx context.Context, categoryID uint) ([]Nominee, error)
	GetNomineeInCategory(ctx context.Context, nomineeID, categoryID uint) (*Nominee, error)
	CreateNominee(ctx context.Context, nominee *Nominee) error
	NomineeVoteCounts(ctx context.Context, categoryID uint) (map[uint]int64, error)
	SetNomineeScore(ctx context.Context, nomineeID uint, score int) error
	HiddenGemNominees(ctx context.Context, threshold, limit int) ([]Nominee, error)
	TopNominees(ctx context.Context, limit int) ([]NomineeVoteCount, error)

	// Votes
	GetVoteByID(ctx context.Context, id uint) (*Vote, error)
	GetVoteByUserAndCategory(ctx context.Context, userID, categoryID uint) (*Vote, error)
	CreateVote(ctx context.Context, vote *Vote) error
	UpdateVoteNominee(ctx context.Context, voteID, nomineeID uint) (*Vote, error)
	ListVotesByUser(ctx context.Context, userID uint) ([]Vote, error)
	DeleteVote(ctx context.Context, voteID uint) error
	CountVotes(ctx context.Context) (int64, error)
	CountVotesByNominee(ctx context.Context, nomineeID uint) (int64, error)
	VotesPerCategory(ctx context.Context) ([]CategoryVoteCount, error)

	// Voting periods
	ActiveVotingPeriod(ctx context.Context) (*VotingPeriod, error)
	CreateVotingPeriod(ctx context.Context, period *VotingPeriod) error

	// Achievements
	ListAchievements(ctx context.Context) ([]Achievement, error)
	ListUserAchievements(ctx context.Context, userID uint) ([]UserAchievement, error)
	GrantAchievement(ctx context.Context, userID, achievementID uint) (bool, error)
	UpsertAchievement(ctx context.Context, achievement *Achievement) error

	// Announcements
	ListAnnouncements(ctx context.Context, userID uint, includeExpired bool) ([]Announcement, error)
	CreateAnnouncement(ctx context.Context, announcement *Announcement) error
	DismissAnnouncement(ctx context.Context, userID, announcementID uint) error

	// Utility
	Close() error
	Migrate() error
}
