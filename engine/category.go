package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/jon4hz/yurei/database"
	"gorm.io/gorm"
)

// CategoryView is a category with its derived nominee count and, for a signed
// in user, their current vote in it.
type CategoryView struct {
	Category     database.Category
	NomineeCount int
	UserVote     *database.Vote
}

// NomineeView is a nominee with its derived vote count.
type NomineeView struct {
	Nominee   database.Nominee
	VoteCount int64
	UserVoted bool
}

// ListCategories returns the active categories in display order. When userID
// is non-zero the user's vote per category is attached.
func (e *Engine) ListCategories(ctx context.Context, userID uint) ([]CategoryView, error) {
	categories, err := e.db.ListCategories(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	votesByCategory := make(map[uint]database.Vote)
	if userID != 0 {
		votes, err := e.db.ListVotesByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list user votes: %w", err)
		}
		for _, vote := range votes {
			votesByCategory[vote.CategoryID] = vote
		}
	}

	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		view := CategoryView{
			Category:     category,
			NomineeCount: len(category.Nominees),
		}
		if vote, ok := votesByCategory[category.ID]; ok {
			v := vote
			view.UserVote = &v
		}
		views = append(views, view)
	}
	return views, nil
}

// CreateCategory creates a new category. A duplicate slug maps to
// ErrDuplicateSlug.
func (e *Engine) CreateCategory(ctx context.Context, category *database.Category) error {
	if err := e.db.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// ListNominees returns nominees with derived vote counts, optionally filtered
// by category. When userID is non-zero each nominee gets a userVoted flag.
func (e *Engine) ListNominees(ctx context.Context, categoryID, userID uint) ([]NomineeView, error) {
	nominees, err := e.db.ListNominees(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list nominees: %w", err)
	}

	votedNominees := make(map[uint]struct{})
	if userID != 0 {
		votes, err := e.db.ListVotesByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list user votes: %w", err)
		}
		for _, vote := range votes {
			votedNominees[vote.NomineeID] = struct{}{}
		}
	}

	views := make([]NomineeView, 0, len(nominees))
	for _, nominee := range nominees {
		count, err := e.db.CountVotesByNominee(ctx, nominee.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count votes: %w", err)
		}
		_, userVoted := votedNominees[nominee.ID]
		views = append(views, NomineeView{
			Nominee:   nominee,
			VoteCount: count,
			UserVoted: userVoted,
		})
	}
	return views, nil
}

// CreateNominee creates a nominee after verifying the category exists.
func (e *Engine) CreateNominee(ctx context.Context, nominee *database.Nominee) error {
	if _, err := e.db.GetCategoryByID(ctx, nominee.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	if err := e.db.CreateNominee(ctx, nominee); err != nil {
		return fmt.Errorf("failed to create nominee: %w", err)
	}
	return nil
}
