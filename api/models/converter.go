package models

import (
	"time"

	"github.com/mergestat/timediff"
	"github.com/samber/lo"

	"github.com/jon4hz/yurei/database"
	"github.com/jon4hz/yurei/engine"
)

func CategoryFromEngine(view engine.CategoryView) Category {
	c := Category{
		ID:           view.Category.ID,
		Name:         view.Category.Name,
		Slug:         view.Category.Slug,
		Element:      view.Category.Element,
		Description:  view.Category.Description,
		Order:        view.Category.SortOrder,
		IsActive:     view.Category.IsActive,
		NomineeCount: view.NomineeCount,
	}
	if view.UserVote != nil {
		c.UserVoted = true
		c.UserVotedNomineeID = view.UserVote.NomineeID
	}
	return c
}

func CategoriesFromEngine(views []engine.CategoryView) []Category {
	return lo.Map(views, func(v engine.CategoryView, _ int) Category {
		return CategoryFromEngine(v)
	})
}

func NomineeFromEngine(view engine.NomineeView) Nominee {
	return Nominee{
		ID:             view.Nominee.ID,
		CategoryID:     view.Nominee.CategoryID,
		Title:          view.Nominee.Title,
		Studio:         view.Nominee.Studio,
		ImageURL:       view.Nominee.ImageURL,
		Description:    view.Nominee.Description,
		HiddenGemScore: view.Nominee.HiddenGemScore,
		VoteCount:      view.VoteCount,
		UserVoted:      view.UserVoted,
	}
}

func NomineesFromEngine(views []engine.NomineeView) []Nominee {
	return lo.Map(views, func(v engine.NomineeView, _ int) Nominee {
		return NomineeFromEngine(v)
	})
}

func VoteFromDatabase(vote *database.Vote) Vote {
	return Vote{
		ID:           vote.ID,
		CategoryID:   vote.CategoryID,
		CategoryName: vote.Category.Name,
		Element:      vote.Category.Element,
		NomineeID:    vote.NomineeID,
		NomineeTitle: vote.Nominee.Title,
		BoundAt:      vote.BoundAt,
		BoundAgo:     timediff.TimeDiff(vote.BoundAt),
	}
}

func VotesFromDatabase(votes []database.Vote) []Vote {
	return lo.Map(votes, func(v database.Vote, _ int) Vote {
		return VoteFromDatabase(&v)
	})
}

func AchievementFromDatabase(achievement *database.Achievement, earnedAt *time.Time) Achievement {
	return Achievement{
		Slug:        achievement.Slug,
		Name:        achievement.Name,
		Description: achievement.Description,
		Icon:        achievement.Icon,
		Rarity:      string(achievement.Rarity),
		EarnedAt:    earnedAt,
	}
}

func UnlockedFromEngine(unlocked []engine.UnlockedAchievement) []Achievement {
	return lo.Map(unlocked, func(u engine.UnlockedAchievement, _ int) Achievement {
		return Achievement{
			Slug:        u.Slug,
			Name:        u.Name,
			Description: u.Description,
			Icon:        u.Icon,
			Rarity:      string(u.Rarity),
		}
	})
}

func VoteResultFromEngine(result *engine.VoteResult) VoteResult {
	return VoteResult{
		Vote:        VoteFromDatabase(result.Vote),
		IsUpdate:    result.IsUpdate,
		IsHiddenGem: result.IsHiddenGem,
		Unlocked:    UnlockedFromEngine(result.Unlocked),
	}
}

func AnnouncementFromDatabase(announcement *database.Announcement) Announcement {
	return Announcement{
		ID:        announcement.ID,
		Message:   announcement.Message,
		Type:      string(announcement.Type),
		CreatedAt: announcement.CreatedAt,
		ExpiresAt: announcement.ExpiresAt,
		IsGlobal:  announcement.IsGlobal,
	}
}

func AnnouncementsFromDatabase(announcements []database.Announcement) []Announcement {
	return lo.Map(announcements, func(a database.Announcement, _ int) Announcement {
		return AnnouncementFromDatabase(&a)
	})
}

func ProfileFromEngine(profile *engine.Profile) Profile {
	return Profile{
		ID:          profile.User.ID,
		Username:    profile.User.Username,
		Role:        string(profile.User.Role),
		PrivacyMode: string(profile.User.PrivacyMode),
		SummonedAt:  profile.User.SummonedAt,
		Votes:       VotesFromDatabase(profile.Votes),
		Achievements: lo.Map(profile.Achievements, func(ua database.UserAchievement, _ int) Achievement {
			earnedAt := ua.EarnedAt
			return AchievementFromDatabase(&ua.Achievement, &earnedAt)
		}),
		Affinity: lo.Map(profile.Affinity, func(a engine.ElementAffinity, _ int) ElementAffinity {
			return ElementAffinity(a)
		}),
	}
}
