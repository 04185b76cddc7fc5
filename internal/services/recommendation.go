package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/cache"
	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

const (
	defaultRecommendationLimit = 5
	// A candidate must clear this strictly; religion match alone (0.4) does
	// not qualify without some difficulty signal.
	recommendationThreshold = 0.5
)

// Recommendation pairs a candidate lesson with its confidence score and a
// human-readable reason.
type Recommendation struct {
	Lesson *types.Lesson `json:"lesson"`
	Score  float64       `json:"score"`
	Reason string        `json:"reason"`
}

type RecommendationService interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]*Recommendation, error)
	// InvalidateFor drops any cached lists for the user; called after a
	// completion changes the candidate set.
	InvalidateFor(ctx context.Context, userID uuid.UUID)
}

type recommendationService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	lessonRepo repos.LessonRepo
	progRepo   repos.ProgressRepo
	cache      *cache.RecommendationCache
}

func NewRecommendationService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, lessonRepo repos.LessonRepo, progRepo repos.ProgressRepo, recCache *cache.RecommendationCache) RecommendationService {
	return &recommendationService{
		db:         db,
		log:        log.With("service", "RecommendationService"),
		userRepo:   userRepo,
		lessonRepo: lessonRepo,
		progRepo:   progRepo,
		cache:      recCache,
	}
}

// scoringInput is everything a rule may consult about one candidate.
type scoringInput struct {
	user              *types.User
	lesson            *types.Lesson
	historyDifficulty string
}

// scoringRule is one (predicate, weight) pair. Rules are evaluated in order
// and their weights accumulate; ordering also fixes reason-clause order.
type scoringRule struct {
	weight float64
	match  func(scoringInput) bool
	reason func(scoringInput) string
}

var scoringRules = []scoringRule{
	{
		weight: 0.4,
		match: func(in scoringInput) bool {
			return in.user.Religion != "" && strings.EqualFold(in.user.Religion, in.lesson.Religion)
		},
		reason: func(in scoringInput) string {
			return fmt.Sprintf("Continue your journey in %s", in.lesson.Religion)
		},
	},
	{
		weight: 0.3,
		match: func(in scoringInput) bool {
			return in.historyDifficulty != "" && in.lesson.Difficulty == in.historyDifficulty
		},
	},
	{
		weight: 0.2,
		match: func(in scoringInput) bool {
			next := types.NextDifficulty(in.historyDifficulty)
			return next != "" && in.lesson.Difficulty == next
		},
	},
	{
		weight: 0.1,
		match: func(in scoringInput) bool {
			return in.user.LearningStyle != ""
		},
	},
}

// historyDifficulty buckets the average difficulty of completed lessons back
// to a label. Empty history returns "" and the difficulty rules skip: a brand
// new user gets no progression bonus until something is completed.
func historyDifficulty(counts []repos.DifficultyCount) string {
	var sum, n int64
	for _, c := range counts {
		sum += int64(types.DifficultyRank(c.Difficulty)) * c.Count
		n += c.Count
	}
	if n == 0 {
		return ""
	}
	avg := float64(sum) / float64(n)
	switch {
	case avg < 1.5:
		return types.DifficultyBeginner
	case avg < 2.5:
		return types.DifficultyIntermediate
	default:
		return types.DifficultyAdvanced
	}
}

func difficultyReason(difficulty string) string {
	switch difficulty {
	case types.DifficultyBeginner:
		return "Build a strong foundation"
	case types.DifficultyIntermediate:
		return "Take the next step in your learning"
	case types.DifficultyAdvanced:
		return "Deepen your understanding"
	default:
		return ""
	}
}

// Recommend is the pure scoring pass: no storage, no side effects. Candidate
// order is preserved for equal scores.
func Recommend(user *types.User, completed map[uuid.UUID]struct{}, bucketed string, candidates []*types.Lesson, limit int) []*Recommendation {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	var results []*Recommendation
	for _, lesson := range candidates {
		if _, done := completed[lesson.ID]; done {
			continue
		}

		in := scoringInput{user: user, lesson: lesson, historyDifficulty: bucketed}
		score := 0.0
		var clauses []string
		for _, rule := range scoringRules {
			if !rule.match(in) {
				continue
			}
			score += rule.weight
			if rule.reason != nil {
				clauses = append(clauses, rule.reason(in))
			}
		}
		if score > 1.0 {
			score = 1.0
		}
		if score <= recommendationThreshold {
			continue
		}

		if dr := difficultyReason(lesson.Difficulty); dr != "" {
			clauses = append(clauses, dr)
		}
		reason := strings.Join(clauses, ". ")
		if reason == "" {
			reason = "Recommended for you"
		}

		results = append(results, &Recommendation{Lesson: lesson, Score: score, Reason: reason})
	}

	// Stable sort keeps first-seen order on ties.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (rs *recommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]*Recommendation, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	if raw, ok := rs.cache.Get(ctx, userID, limit); ok {
		var cached []*Recommendation
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		rs.log.Warn("Discarding undecodable cached recommendations", "user_id", userID.String())
	}

	users, err := rs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	user := users[0]

	completedIDs, err := rs.progRepo.CompletedLessonIDs(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[uuid.UUID]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = struct{}{}
	}

	diffCounts, err := rs.progRepo.DifficultyCounts(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := rs.lessonRepo.List(ctx, nil, repos.LessonFilter{})
	if err != nil {
		return nil, err
	}

	results := Recommend(user, completed, historyDifficulty(diffCounts), candidates, limit)

	if payload, err := json.Marshal(results); err == nil {
		rs.cache.Set(ctx, userID, limit, payload)
	}
	return results, nil
}

func (rs *recommendationService) InvalidateFor(ctx context.Context, userID uuid.UUID) {
	rs.cache.Invalidate(ctx, userID)
}
