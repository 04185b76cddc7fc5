package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/clock"
	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

var validPersonas = map[string]struct{}{
	types.PersonaCurious:      {},
	types.PersonaPractitioner: {},
}

// ProfileUpdate carries the optional onboarding/profile fields; nil means
// leave unchanged.
type ProfileUpdate struct {
	Persona       *string `json:"persona,omitempty"`
	Goals         *string `json:"goals,omitempty"`
	LearningStyle *string `json:"learning_style,omitempty"`
	Religion      *string `json:"religion,omitempty"`
}

// UserStats is the dashboard summary.
type UserStats struct {
	CurrentStreak         int      `json:"current_streak"`
	LongestStreak         int      `json:"longest_streak"`
	TotalLessonsCompleted int64    `json:"total_lessons_completed"`
	TotalTimeSpent        int64    `json:"total_time_spent"`
	AverageRating         *float64 `json:"average_rating,omitempty"`
	FavoriteReligion      string   `json:"favorite_religion,omitempty"`
	LessonsThisWeek       int64    `json:"lessons_this_week"`
	LessonsThisMonth      int64    `json:"lessons_this_month"`
	StreakSaversAvailable int      `json:"streak_savers_available"`
}

// ProgressSummary breaks completions down by religion and difficulty.
type ProgressSummary struct {
	ByReligion     []repos.ReligionCount   `json:"by_religion"`
	ByDifficulty   []repos.DifficultyCount `json:"by_difficulty"`
	RecentActivity []*types.UserProgress   `json:"recent_activity"`
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*types.User, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
	GetProgressSummary(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	clk      clock.Clock
	userRepo repos.UserRepo
	progRepo repos.ProgressRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, clk clock.Clock, userRepo repos.UserRepo, progRepo repos.ProgressRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		clk:      clk,
		userRepo: userRepo,
		progRepo: progRepo,
	}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*types.User, error) {
	fields := map[string]interface{}{}
	if update.Persona != nil {
		if _, ok := validPersonas[*update.Persona]; !ok {
			return nil, ErrInvalidPersona
		}
		fields["persona"] = *update.Persona
	}
	if update.Goals != nil {
		fields["goals"] = *update.Goals
	}
	if update.LearningStyle != nil {
		fields["learning_style"] = *update.LearningStyle
	}
	if update.Religion != nil {
		fields["religion"] = *update.Religion
	}

	if len(fields) > 0 {
		err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			users, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
			if err != nil {
				return err
			}
			if len(users) == 0 {
				return ErrNotFound
			}
			return us.userRepo.UpdateProfile(ctx, tx, userID, fields)
		})
		if err != nil {
			return nil, err
		}
	}
	return us.GetMe(ctx, userID)
}

func (us *userService) GetStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	user, err := us.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}

	agg, err := us.progRepo.Aggregates(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	now := us.clk.Now()
	weekAgo := clock.DateOf(now).AddDate(0, 0, -7)
	monthAgo := clock.DateOf(now).AddDate(0, -1, 0)

	thisWeek, err := us.progRepo.CountSince(ctx, nil, userID, weekAgo)
	if err != nil {
		return nil, err
	}
	thisMonth, err := us.progRepo.CountSince(ctx, nil, userID, monthAgo)
	if err != nil {
		return nil, err
	}

	favorite := ""
	if counts, err := us.progRepo.ReligionCounts(ctx, nil, userID); err != nil {
		us.log.Warn("Failed to load religion counts", "user_id", userID.String(), "error", err)
	} else if len(counts) > 0 {
		favorite = counts[0].Religion
	}

	longest := user.LongestStreak
	if user.CurrentStreak > longest {
		us.log.Warn("Streak counters inconsistent in stats, clamping",
			"user_id", userID.String(),
			"current_streak", user.CurrentStreak,
			"longest_streak", longest,
		)
		longest = user.CurrentStreak
	}

	return &UserStats{
		CurrentStreak:         user.CurrentStreak,
		LongestStreak:         longest,
		TotalLessonsCompleted: agg.TotalCompleted,
		TotalTimeSpent:        agg.TotalTimeSpent,
		AverageRating:         agg.AvgRating,
		FavoriteReligion:      favorite,
		LessonsThisWeek:       thisWeek,
		LessonsThisMonth:      thisMonth,
		StreakSaversAvailable: user.StreakSaversAvailable,
	}, nil
}

func (us *userService) GetProgressSummary(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error) {
	if _, err := us.GetMe(ctx, userID); err != nil {
		return nil, err
	}

	byReligion, err := us.progRepo.ReligionCounts(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	byDifficulty, err := us.progRepo.DifficultyCounts(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	recent, err := us.progRepo.Recent(ctx, nil, userID, 10)
	if err != nil {
		return nil, err
	}
	return &ProgressSummary{
		ByReligion:     byReligion,
		ByDifficulty:   byDifficulty,
		RecentActivity: recent,
	}, nil
}
