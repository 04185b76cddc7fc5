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

// CompleteLessonInput is the completion event. Ref names exactly one piece of
// content; the optional fields amend the progress record on resubmission.
type CompleteLessonInput struct {
	Ref        repos.ContentRef
	Reflection string
	Rating     *int
	TimeSpent  *int
	MoodBefore string
	MoodAfter  string
	QuizScore  *float64
}

// CompletionResult is what a completion hands back: the durable record plus
// the streak counters it produced.
type CompletionResult struct {
	Progress *types.UserProgress `json:"progress"`
	Streak   *StreakResult       `json:"streak"`
}

// LessonWithStatus decorates a catalog lesson with the caller's completion
// state.
type LessonWithStatus struct {
	*types.Lesson
	Completed bool `json:"completed"`
}

type LessonService interface {
	CreateLessons(ctx context.Context, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetLesson(ctx context.Context, id uuid.UUID) (*types.Lesson, error)
	ListLessons(ctx context.Context, religion, difficulty string) ([]*types.Lesson, error)
	SearchLessons(ctx context.Context, query, religion string) ([]*types.Lesson, error)
	// ListForUser returns the catalog for a religion with per-lesson
	// completion flags for the calling user.
	ListForUser(ctx context.Context, userID uuid.UUID, religion string) ([]*LessonWithStatus, error)
	// NextLesson picks the lesson that follows the given one in its
	// religion's sequence, or nil at the end of the catalog.
	NextLesson(ctx context.Context, lessonID uuid.UUID) (*types.Lesson, error)
	// CompleteLesson persists or amends the progress record, refreshes the
	// user's aggregates, and advances the streak.
	CompleteLesson(ctx context.Context, userID uuid.UUID, input CompleteLessonInput) (*CompletionResult, error)
	ListProgress(ctx context.Context, userID uuid.UUID) ([]*types.UserProgress, error)
}

type lessonService struct {
	db               *gorm.DB
	log              *logger.Logger
	clk              clock.Clock
	lessonRepo       repos.LessonRepo
	chapterRepo      repos.ChapterRepo
	customLessonRepo repos.CustomLessonRepo
	progRepo         repos.ProgressRepo
	userRepo         repos.UserRepo
	streakService    StreakService
	recService       RecommendationService
}

func NewLessonService(
	db *gorm.DB,
	log *logger.Logger,
	clk clock.Clock,
	lessonRepo repos.LessonRepo,
	chapterRepo repos.ChapterRepo,
	customLessonRepo repos.CustomLessonRepo,
	progRepo repos.ProgressRepo,
	userRepo repos.UserRepo,
	streakService StreakService,
	recService RecommendationService,
) LessonService {
	return &lessonService{
		db:               db,
		log:              log.With("service", "LessonService"),
		clk:              clk,
		lessonRepo:       lessonRepo,
		chapterRepo:      chapterRepo,
		customLessonRepo: customLessonRepo,
		progRepo:         progRepo,
		userRepo:         userRepo,
		streakService:    streakService,
		recService:       recService,
	}
}

func (ls *lessonService) CreateLessons(ctx context.Context, lessons []*types.Lesson) ([]*types.Lesson, error) {
	for _, l := range lessons {
		if l.LessonType == "" {
			l.LessonType = "static"
		}
	}
	return ls.lessonRepo.Create(ctx, nil, lessons)
}

func (ls *lessonService) GetLesson(ctx context.Context, id uuid.UUID) (*types.Lesson, error) {
	lessons, err := ls.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, ErrNotFound
	}
	return lessons[0], nil
}

func (ls *lessonService) ListLessons(ctx context.Context, religion, difficulty string) ([]*types.Lesson, error) {
	return ls.lessonRepo.List(ctx, nil, repos.LessonFilter{Religion: religion, Difficulty: difficulty})
}

func (ls *lessonService) SearchLessons(ctx context.Context, query, religion string) ([]*types.Lesson, error) {
	return ls.lessonRepo.Search(ctx, nil, query, religion)
}

func (ls *lessonService) ListForUser(ctx context.Context, userID uuid.UUID, religion string) ([]*LessonWithStatus, error) {
	lessons, err := ls.lessonRepo.List(ctx, nil, repos.LessonFilter{Religion: religion})
	if err != nil {
		return nil, err
	}
	completedIDs, err := ls.progRepo.CompletedLessonIDs(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[uuid.UUID]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = struct{}{}
	}

	out := make([]*LessonWithStatus, 0, len(lessons))
	for _, l := range lessons {
		_, done := completed[l.ID]
		out = append(out, &LessonWithStatus{Lesson: l, Completed: done})
	}
	return out, nil
}

func (ls *lessonService) NextLesson(ctx context.Context, lessonID uuid.UUID) (*types.Lesson, error) {
	current, err := ls.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return ls.lessonRepo.NextInSequence(ctx, nil, current)
}

func (ls *lessonService) CompleteLesson(ctx context.Context, userID uuid.UUID, input CompleteLessonInput) (*CompletionResult, error) {
	if !input.Ref.Valid() {
		return nil, ErrInvalidContentRef
	}

	var progress *types.UserProgress
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ls.checkRefExists(ctx, tx, input.Ref); err != nil {
			return err
		}

		existing, err := ls.progRepo.GetByUserAndRef(ctx, tx, userID, input.Ref)
		if err != nil {
			return err
		}

		now := ls.clk.Now()
		if existing == nil {
			row := &types.UserProgress{
				ID:             uuid.New(),
				UserID:         userID,
				LessonID:       input.Ref.LessonID,
				ChapterID:      input.Ref.ChapterID,
				CustomLessonID: input.Ref.CustomLessonID,
				CompletedAt:    now,
				Reflection:     input.Reflection,
				Rating:         input.Rating,
				TimeSpent:      input.TimeSpent,
				MoodBefore:     input.MoodBefore,
				MoodAfter:      input.MoodAfter,
				QuizScore:      input.QuizScore,
			}
			if _, err := ls.progRepo.Create(ctx, tx, []*types.UserProgress{row}); err != nil {
				return err
			}
			progress = row
		} else {
			// Resubmission amends the record; CompletedAt keeps the first
			// completion so streak history stays truthful.
			if input.Reflection != "" {
				existing.Reflection = input.Reflection
			}
			if input.Rating != nil {
				existing.Rating = input.Rating
			}
			if input.TimeSpent != nil {
				existing.TimeSpent = input.TimeSpent
			}
			if input.MoodBefore != "" {
				existing.MoodBefore = input.MoodBefore
			}
			if input.MoodAfter != "" {
				existing.MoodAfter = input.MoodAfter
			}
			if input.QuizScore != nil {
				existing.QuizScore = input.QuizScore
			}
			if err := ls.progRepo.Save(ctx, tx, existing); err != nil {
				return err
			}
			progress = existing
		}

		agg, err := ls.progRepo.Aggregates(ctx, tx, userID)
		if err != nil {
			return err
		}
		return ls.userRepo.UpdateAggregates(ctx, tx, userID, int(agg.TotalCompleted), int(agg.TotalTimeSpent))
	})
	if err != nil {
		return nil, err
	}

	streak, err := ls.streakService.RecordActivity(ctx, userID)
	if err != nil {
		return nil, err
	}

	ls.recService.InvalidateFor(ctx, userID)

	ls.log.Info("Lesson completion recorded",
		"user_id", userID.String(),
		"progress_id", progress.ID.String(),
		"current_streak", streak.CurrentStreak,
	)
	return &CompletionResult{Progress: progress, Streak: streak}, nil
}

func (ls *lessonService) ListProgress(ctx context.Context, userID uuid.UUID) ([]*types.UserProgress, error) {
	return ls.progRepo.GetByUserID(ctx, nil, userID)
}

func (ls *lessonService) checkRefExists(ctx context.Context, tx *gorm.DB, ref repos.ContentRef) error {
	switch {
	case ref.LessonID != nil:
		rows, err := ls.lessonRepo.GetByIDs(ctx, tx, []uuid.UUID{*ref.LessonID})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrNotFound
		}
	case ref.ChapterID != nil:
		rows, err := ls.chapterRepo.GetByIDs(ctx, tx, []uuid.UUID{*ref.ChapterID})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrNotFound
		}
	case ref.CustomLessonID != nil:
		rows, err := ls.customLessonRepo.GetByIDs(ctx, tx, []uuid.UUID{*ref.CustomLessonID})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrNotFound
		}
	}
	return nil
}
