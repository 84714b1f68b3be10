package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/yurei/database"
	"gorm.io/gorm"
)

// VoteResult is the outcome of a cast vote.
type VoteResult struct {
	Vote        *database.Vote
	IsUpdate    bool
	IsHiddenGem bool
	// Unlocked contains achievements earned by this vote. Only used for
	// logging and response decoration, never for control flow.
	Unlocked []UnlockedAchievement
}

// CastVote casts or updates the user's vote in a category. The steps run
// strictly in order: nominee membership check, voting window check, vote
// upsert, achievement evaluation. A concurrent insert for the same
// (user, category) pair loses against the unique index and falls back to an
// update instead of failing.
func (e *Engine) CastVote(ctx context.Context, userID, categoryID, nomineeID uint) (*VoteResult, error) {
	nominee, err := e.db.GetNomineeInCategory(ctx, nomineeID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNomineeNotFound
		}
		return nil, fmt.Errorf("failed to validate nominee: %w", err)
	}

	if _, err := e.db.ActiveVotingPeriod(ctx); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVotingClosed
		}
		return nil, fmt.Errorf("failed to check voting period: %w", err)
	}

	vote, isUpdate, err := e.upsertVote(ctx, userID, categoryID, nomineeID)
	if err != nil {
		return nil, err
	}

	// Achievement bookkeeping must never revert a successful vote, failures
	// are logged and swallowed here.
	unlocked, err := e.CheckAchievements(ctx, userID)
	if err != nil {
		log.Error("achievement evaluation failed", "user", userID, "error", err)
	}

	if err := e.RefreshCategoryScores(ctx, categoryID); err != nil {
		log.Error("failed to refresh scores after vote", "category", categoryID, "error", err)
	}
	e.publishVoteUpdate(ctx, categoryID, nomineeID)

	if err := e.db.TouchLastSeen(ctx, userID); err != nil {
		log.Debug("failed to update last seen", "user", userID, "error", err)
	}

	return &VoteResult{
		Vote:        vote,
		IsUpdate:    isUpdate,
		IsHiddenGem: IsHiddenGem(nominee.HiddenGemScore),
		Unlocked:    unlocked,
	}, nil
}

// upsertVote stores the vote, keeping at most one row per (user, category).
func (e *Engine) upsertVote(ctx context.Context, userID, categoryID, nomineeID uint) (*database.Vote, bool, error) {
	existing, err := e.db.GetVoteByUserAndCategory(ctx, userID, categoryID)
	switch {
	case err == nil:
		vote, err := e.db.UpdateVoteNominee(ctx, existing.ID, nomineeID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to update vote: %w", err)
		}
		return vote, true, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := &database.Vote{
			UserID:     userID,
			CategoryID: categoryID,
			NomineeID:  nomineeID,
		}
		err := e.db.CreateVote(ctx, vote)
		if err == nil {
			return vote, false, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, fmt.Errorf("failed to create vote: %w", err)
		}
		// Lost the race against a concurrent insert for the same pair, the
		// unique index guarantees exactly one row exists now. Update it.
		existing, err = e.db.GetVoteByUserAndCategory(ctx, userID, categoryID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load vote after conflict: %w", err)
		}
		vote, updateErr := e.db.UpdateVoteNominee(ctx, existing.ID, nomineeID)
		if updateErr != nil {
			return nil, false, fmt.Errorf("failed to update vote after conflict: %w", updateErr)
		}
		return vote, true, nil

	default:
		return nil, false, fmt.Errorf("failed to look up existing vote: %w", err)
	}
}

// ListUserVotes returns the user's votes with nominee and category loaded,
// newest first.
func (e *Engine) ListUserVotes(ctx context.Context, userID uint) ([]database.Vote, error) {
	votes, err := e.db.ListVotesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	return votes, nil
}

// RemoveVote deletes a vote. Only the vote's owner or an admin may do so.
// Previously granted achievements stay granted.
func (e *Engine) RemoveVote(ctx context.Context, actorID uint, isAdmin bool, voteID uint) error {
	vote, err := e.db.GetVoteByID(ctx, voteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoteNotFound
		}
		return fmt.Errorf("failed to load vote: %w", err)
	}

	if vote.UserID != actorID && !isAdmin {
		return ErrNotVoteOwner
	}

	if err := e.db.DeleteVote(ctx, voteID); err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}

	if err := e.RefreshCategoryScores(ctx, vote.CategoryID); err != nil {
		log.Error("failed to refresh scores after vote removal", "category", vote.CategoryID, "error", err)
	}
	e.publishVoteUpdate(ctx, vote.CategoryID, vote.NomineeID)

	return nil
}
