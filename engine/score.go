package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
)

// HiddenGemThreshold is the score above which a nominee counts as a hidden gem.
const HiddenGemThreshold = 70

// HiddenGemScore computes how under-appreciated a nominee is relative to the
// other nominees of its category, on a 0-100 scale. Nominees without votes
// score 0, nominees above 1.5x the category average are too popular and also
// score 0. Between those the score decreases linearly as the nominee's share
// approaches 1.5x average.
func HiddenGemScore(voteCount, totalVotes, nomineeCount int64) int {
	if totalVotes == 0 || nomineeCount == 0 || voteCount == 0 {
		return 0
	}

	averageVotes := float64(totalVotes) / float64(nomineeCount)
	voteRatio := float64(voteCount) / averageVotes

	if voteRatio > 1.5 {
		return 0
	}

	score := (1 - voteRatio/1.5) * 100
	score = math.Min(100, math.Max(0, score))
	return int(math.Round(score))
}

// IsHiddenGem reports whether a score qualifies as a hidden gem.
func IsHiddenGem(score int) bool {
	return score > HiddenGemThreshold
}

// RefreshCategoryScores recomputes and persists the hidden gem score of every
// nominee in the category.
func (e *Engine) RefreshCategoryScores(ctx context.Context, categoryID uint) error {
	counts, err := e.db.NomineeVoteCounts(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to load vote counts: %w", err)
	}

	var total int64
	for _, count := range counts {
		total += count
	}
	nomineeCount := int64(len(counts))

	for nomineeID, count := range counts {
		score := HiddenGemScore(count, total, nomineeCount)
		if err := e.db.SetNomineeScore(ctx, nomineeID, score); err != nil {
			return fmt.Errorf("failed to store score for nominee %d: %w", nomineeID, err)
		}
	}
	return nil
}

// RefreshAllScores recomputes hidden gem scores for every category. Run
// periodically as a safety net in case a per-vote refresh was missed.
func (e *Engine) RefreshAllScores(ctx context.Context) error {
	categories, err := e.db.ListCategories(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	for _, category := range categories {
		if err := e.RefreshCategoryScores(ctx, category.ID); err != nil {
			log.Error("failed to refresh category scores", "category", category.ID, "error", err)
		}
	}
	return nil
}
