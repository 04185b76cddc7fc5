package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

// QuizQuestion is one generated multiple-choice question.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

type AIGenService interface {
	// GenerateCustomLesson creates and persists a personalized lesson for
	// the user on the given topic.
	GenerateCustomLesson(ctx context.Context, userID uuid.UUID, topic, religion, difficulty string) (*types.CustomLesson, error)
	GenerateQuiz(ctx context.Context, topic, religion, difficulty string, numQuestions int) ([]QuizQuestion, error)
	// GenerateCourse builds a full course: an outline first, then every
	// chapter concurrently.
	GenerateCourse(ctx context.Context, religion, topic, difficulty string) (*types.Course, []*types.Chapter, error)
	GenerateReflectionPrompt(ctx context.Context, lessonTitle, religion string) (string, error)
	ListCustomLessons(ctx context.Context, userID uuid.UUID) ([]*types.CustomLesson, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, []*types.Chapter, error)
	ListCourses(ctx context.Context, religion string) ([]*types.Course, error)
}

type aiGenService struct {
	db               *gorm.DB
	log              *logger.Logger
	ai               OpenAIClient
	customLessonRepo repos.CustomLessonRepo
	courseRepo       repos.CourseRepo
	chapterRepo      repos.ChapterRepo
	userRepo         repos.UserRepo
}

func NewAIGenService(
	db *gorm.DB,
	log *logger.Logger,
	ai OpenAIClient,
	customLessonRepo repos.CustomLessonRepo,
	courseRepo repos.CourseRepo,
	chapterRepo repos.ChapterRepo,
	userRepo repos.UserRepo,
) AIGenService {
	return &aiGenService{
		db:               db,
		log:              log.With("service", "AIGenService"),
		ai:               ai,
		customLessonRepo: customLessonRepo,
		courseRepo:       courseRepo,
		chapterRepo:      chapterRepo,
		userRepo:         userRepo,
	}
}

const lessonSystemPrompt = "You are a respectful, knowledgeable teacher of world religions. " +
	"Write factual, sourced educational content. Cite scripture references where relevant. " +
	"Never proselytize; present traditions on their own terms."

var customLessonSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":   map[string]any{"type": "string"},
		"content": map[string]any{"type": "string"},
		"practical_tasks": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"sources": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"title", "content", "practical_tasks", "sources"},
	"additionalProperties": false,
}

func (s *aiGenService) GenerateCustomLesson(ctx context.Context, userID uuid.UUID, topic, religion, difficulty string) (*types.CustomLesson, error) {
	if topic == "" || religion == "" {
		return nil, ErrInvalidRequest
	}
	if difficulty == "" {
		difficulty = types.DifficultyBeginner
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	user := users[0]

	prompt := fmt.Sprintf(
		"Create a %s-level lesson about %q in the context of %s.",
		difficulty, topic, religion,
	)
	if user.LearningStyle != "" {
		prompt += fmt.Sprintf(" Adapt the presentation to a %s learning style.", user.LearningStyle)
	}
	if user.Goals != "" {
		prompt += fmt.Sprintf(" The learner's stated goals: %s.", user.Goals)
	}

	doc, err := s.ai.GenerateJSON(ctx, lessonSystemPrompt, prompt, "custom_lesson", customLessonSchema)
	if err != nil {
		return nil, fmt.Errorf("lesson generation failed: %w", err)
	}

	lesson := &types.CustomLesson{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      stringField(doc, "title"),
		Topic:      topic,
		Religion:   religion,
		Difficulty: difficulty,
		Content:    stringField(doc, "content"),
	}
	if raw, err := json.Marshal(doc["practical_tasks"]); err == nil {
		lesson.PracticalTasks = datatypes.JSON(raw)
	}
	if raw, err := json.Marshal(doc["sources"]); err == nil {
		lesson.Sources = datatypes.JSON(raw)
	}
	if lesson.Title == "" || lesson.Content == "" {
		return nil, fmt.Errorf("lesson generation returned empty document")
	}

	if _, err := s.customLessonRepo.Create(ctx, nil, []*types.CustomLesson{lesson}); err != nil {
		return nil, err
	}
	s.log.Info("Custom lesson generated",
		"user_id", userID.String(),
		"lesson_id", lesson.ID.String(),
		"religion", religion,
		"difficulty", difficulty,
	)
	return lesson, nil
}

var quizSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question":    map[string]any{"type": "string"},
					"options":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"answer":      map[string]any{"type": "string"},
					"explanation": map[string]any{"type": "string"},
				},
				"required":             []string{"question", "options", "answer", "explanation"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"questions"},
	"additionalProperties": false,
}

func (s *aiGenService) GenerateQuiz(ctx context.Context, topic, religion, difficulty string, numQuestions int) ([]QuizQuestion, error) {
	if topic == "" || religion == "" {
		return nil, ErrInvalidRequest
	}
	if numQuestions <= 0 || numQuestions > 20 {
		numQuestions = 5
	}
	if difficulty == "" {
		difficulty = types.DifficultyBeginner
	}

	prompt := fmt.Sprintf(
		"Write %d multiple-choice questions (%s level) testing understanding of %q in %s. "+
			"Each question has exactly four options and the answer must be one of the options verbatim.",
		numQuestions, difficulty, topic, religion,
	)

	doc, err := s.ai.GenerateJSON(ctx, lessonSystemPrompt, prompt, "quiz", quizSchema)
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	raw, err := json.Marshal(doc["questions"])
	if err != nil {
		return nil, err
	}
	var questions []QuizQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("quiz document malformed: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("quiz generation returned no questions")
	}
	return questions, nil
}

var courseOutlineSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":            map[string]any{"type": "string"},
		"description":     map[string]any{"type": "string"},
		"estimated_hours": map[string]any{"type": "integer"},
		"chapters": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":               map[string]any{"type": "string"},
					"learning_objectives": map[string]any{"type": "string"},
					"prerequisites":       map[string]any{"type": "string"},
				},
				"required":             []string{"title", "learning_objectives", "prerequisites"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"name", "description", "estimated_hours", "chapters"},
	"additionalProperties": false,
}

var chapterSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"content":  map[string]any{"type": "string"},
		"duration": map[string]any{"type": "integer"},
	},
	"required":             []string{"content", "duration"},
	"additionalProperties": false,
}

func (s *aiGenService) GenerateCourse(ctx context.Context, religion, topic, difficulty string) (*types.Course, []*types.Chapter, error) {
	if religion == "" || topic == "" {
		return nil, nil, ErrInvalidRequest
	}
	if difficulty == "" {
		difficulty = types.DifficultyBeginner
	}

	outlinePrompt := fmt.Sprintf(
		"Design a %s-level course about %q in %s: a name, a short description, "+
			"an estimated total study time in hours, and 4 to 8 chapter outlines in teaching order.",
		difficulty, topic, religion,
	)
	outline, err := s.ai.GenerateJSON(ctx, lessonSystemPrompt, outlinePrompt, "course_outline", courseOutlineSchema)
	if err != nil {
		return nil, nil, fmt.Errorf("course outline generation failed: %w", err)
	}

	type chapterOutline struct {
		Title              string `json:"title"`
		LearningObjectives string `json:"learning_objectives"`
		Prerequisites      string `json:"prerequisites"`
	}
	raw, err := json.Marshal(outline["chapters"])
	if err != nil {
		return nil, nil, err
	}
	var outlines []chapterOutline
	if err := json.Unmarshal(raw, &outlines); err != nil {
		return nil, nil, fmt.Errorf("course outline malformed: %w", err)
	}
	if len(outlines) == 0 {
		return nil, nil, fmt.Errorf("course outline has no chapters")
	}

	course := &types.Course{
		ID:             uuid.New(),
		Name:           stringField(outline, "name"),
		Description:    stringField(outline, "description"),
		Religion:       religion,
		Difficulty:     difficulty,
		TotalChapters:  len(outlines),
		EstimatedHours: intField(outline, "estimated_hours"),
	}

	chapters := make([]*types.Chapter, len(outlines))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for i, o := range outlines {
		i, o := i, o
		g.Go(func() error {
			prompt := fmt.Sprintf(
				"Write the full content for chapter %d, %q, of a %s-level course about %q in %s. "+
					"Learning objectives: %s. Also estimate reading time in minutes.",
				i+1, o.Title, difficulty, topic, religion, o.LearningObjectives,
			)
			doc, err := s.ai.GenerateJSON(gctx, lessonSystemPrompt, prompt, "course_chapter", chapterSchema)
			if err != nil {
				return fmt.Errorf("chapter %d generation failed: %w", i+1, err)
			}
			ch := &types.Chapter{
				ID:                 uuid.New(),
				CourseID:           course.ID,
				ChapterNumber:      i + 1,
				Title:              o.Title,
				Content:            stringField(doc, "content"),
				Duration:           intField(doc, "duration"),
				LearningObjectives: o.LearningObjectives,
				Prerequisites:      o.Prerequisites,
			}
			mu.Lock()
			chapters[i] = ch
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.courseRepo.Create(ctx, tx, []*types.Course{course}); err != nil {
			return err
		}
		_, err := s.chapterRepo.Create(ctx, tx, chapters)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("Course generated",
		"course_id", course.ID.String(),
		"religion", religion,
		"chapters", len(chapters),
	)
	return course, chapters, nil
}

func (s *aiGenService) GenerateReflectionPrompt(ctx context.Context, lessonTitle, religion string) (string, error) {
	messages := []ChatMessage{
		{Role: "system", Content: lessonSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Write one short reflection question (a single sentence) for a learner who just finished "+
				"a lesson titled %q in %s. Return only the question.", lessonTitle, religion)},
	}
	out, err := s.ai.Chat(ctx, messages, 100)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *aiGenService) ListCustomLessons(ctx context.Context, userID uuid.UUID) ([]*types.CustomLesson, error) {
	return s.customLessonRepo.ListByUser(ctx, nil, userID)
}

func (s *aiGenService) GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, []*types.Chapter, error) {
	courses, err := s.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, nil, err
	}
	if len(courses) == 0 {
		return nil, nil, ErrNotFound
	}
	chapters, err := s.chapterRepo.ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, nil, err
	}
	return courses[0], chapters, nil
}

func (s *aiGenService) ListCourses(ctx context.Context, religion string) ([]*types.Course, error) {
	return s.courseRepo.ListByReligion(ctx, nil, religion)
}

func stringField(doc map[string]any, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func intField(doc map[string]any, key string) int {
	switch v := doc[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
