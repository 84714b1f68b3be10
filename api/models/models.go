package models

import "time"

// Response is the uniform envelope returned by every API endpoint.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SessionUser is the authenticated user reconstructed from session data.
type SessionUser struct {
	ID       uint
	Username string
	IsAdmin  bool
}

// Category is the API representation of a voting category.
type Category struct {
	ID                 uint   `json:"id"`
	Name               string `json:"name"`
	Slug               string `json:"slug"`
	Element            string `json:"element"`
	Description        string `json:"description,omitempty"`
	Order              int    `json:"order"`
	IsActive           bool   `json:"isActive"`
	NomineeCount       int    `json:"nomineeCount"`
	UserVoted          bool   `json:"userVoted"`
	UserVotedNomineeID uint   `json:"userVotedNomineeId,omitempty"`
}

// Nominee is the API representation of a nominee.
type Nominee struct {
	ID             uint   `json:"id"`
	CategoryID     uint   `json:"categoryId"`
	Title          string `json:"title"`
	Studio         string `json:"studio,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	Description    string `json:"description,omitempty"`
	HiddenGemScore int    `json:"hiddenGemScore"`
	VoteCount      int64  `json:"voteCount"`
	UserVoted      bool   `json:"userVoted"`
}

// Vote is the API representation of a vote.
type Vote struct {
	ID           uint      `json:"id"`
	CategoryID   uint      `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Element      string    `json:"element,omitempty"`
	NomineeID    uint      `json:"nomineeId"`
	NomineeTitle string    `json:"nomineeTitle"`
	BoundAt      time.Time `json:"boundAt"`
	BoundAgo     string    `json:"boundAgo"`
}

// VoteResult is the response to a cast vote.
type VoteResult struct {
	Vote        Vote          `json:"vote"`
	IsUpdate    bool          `json:"isUpdate"`
	IsHiddenGem bool          `json:"isHiddenGem"`
	Unlocked    []Achievement `json:"unlocked,omitempty"`
}

// Achievement is the API representation of an achievement, optionally with
// the date the user earned it.
type Achievement struct {
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Rarity      string     `json:"rarity"`
	EarnedAt    *time.Time `json:"earnedAt,omitempty"`
}

// Announcement is the API representation of an announcement.
type Announcement struct {
	ID        uint       `json:"id"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	IsGlobal  bool       `json:"isGlobal"`
}

// ElementAffinity is one row of the profile's per-element vote breakdown.
type ElementAffinity struct {
	Category string `json:"category"`
	Element  string `json:"element"`
	Count    int    `json:"count"`
}

// Profile is the API representation of a user profile.
type Profile struct {
	ID           uint              `json:"id"`
	Username     string            `json:"username"`
	Role         string            `json:"role"`
	PrivacyMode  string            `json:"privacyMode"`
	SummonedAt   time.Time         `json:"summonedAt"`
	Votes        []Vote            `json:"votes"`
	Achievements []Achievement     `json:"achievements"`
	Affinity     []ElementAffinity `json:"affinity"`
}

// CastVoteRequest is the body of POST /api/vote.
type CastVoteRequest struct {
	NomineeID  uint `json:"nomineeId" binding:"required"`
	CategoryID uint `json:"categoryId" binding:"required"`
}

// CreateCategoryRequest is the body of POST /api/categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Element     string `json:"element" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// CreateNomineeRequest is the body of POST /api/nominees.
type CreateNomineeRequest struct {
	CategoryID  uint   `json:"categoryId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Studio      string `json:"studio"`
	ImageURL    string `json:"imageUrl" binding:"required"`
	Description string `json:"description"`
}

// CreateAnnouncementRequest is the body of POST /api/announcements.
type CreateAnnouncementRequest struct {
	Message   string     `json:"message" binding:"required"`
	Type      string     `json:"type"`
	ExpiresAt *time.Time `json:"expiresAt"`
	IsGlobal  *bool      `json:"isGlobal"`
}

// DismissAnnouncementRequest is the body of PATCH /api/announcements.
type DismissAnnouncementRequest struct {
	AnnouncementID uint `json:"announcementId" binding:"required"`
}
