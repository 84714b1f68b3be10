package engine

import "errors"

// Sentinel errors returned by the engine. The API layer maps them to HTTP
// status codes.
var (
	ErrNomineeNotFound      = errors.New("nominee not found in this category")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrVoteNotFound         = errors.New("vote not found")
	ErrVotingClosed         = errors.New("voting has closed")
	ErrNotVoteOwner         = errors.New("not allowed to remove this vote")
	ErrDuplicateSlug        = errors.New("category with this slug already exists")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrUserNotFound         = errors.New("user not found")
)
