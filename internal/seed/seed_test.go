package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/cache"
	"github.com/hidayaapp/hidaya-backend/internal/clock"
	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/services"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

const seedPayload = `{
  "lessons": [
    {"title": "The Five Pillars", "content": "An introduction.", "religion": "islam", "difficulty": "beginner", "duration": 10},
    {"title": "The Beatitudes", "content": "Sermon on the Mount.", "religion": "christianity", "difficulty": "beginner", "duration": 12}
  ],
  "sacred_texts": [
    {"religion": "islam", "book": "Quran", "chapter": "2", "verse": "255", "text": "Allah - there is no deity except Him."},
    {"religion": "christianity", "book": "Bible", "text": ""}
  ]
}`

func writeSeedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(seedPayload), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func newSeedEnv(t *testing.T) (*gorm.DB, *logger.Logger, services.LessonService, services.SacredTextService) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}, &types.Lesson{}, &types.SacredText{}, &types.StreakSaver{}, &types.UserProgress{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}

	clk := clock.New()
	userRepo := repos.NewUserRepo(db, log)
	lessonRepo := repos.NewLessonRepo(db, log)
	chapterRepo := repos.NewChapterRepo(db, log)
	customLessonRepo := repos.NewCustomLessonRepo(db, log)
	progressRepo := repos.NewProgressRepo(db, log)
	streakSaverRepo := repos.NewStreakSaverRepo(db, log)
	sacredTextRepo := repos.NewSacredTextRepo(db, log)

	streakService := services.NewStreakService(db, log, clk, userRepo, streakSaverRepo, progressRepo)
	recService := services.NewRecommendationService(db, log, userRepo, lessonRepo, progressRepo, cache.NewRecommendationCache(log))
	lessonService := services.NewLessonService(db, log, clk, lessonRepo, chapterRepo, customLessonRepo,
		progressRepo, userRepo, streakService, recService)
	sacredTextService := services.NewSacredTextService(db, log, sacredTextRepo)
	return db, log, lessonService, sacredTextService
}

func TestLoadParsesSeedFile(t *testing.T) {
	f, err := Load(writeSeedFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Lessons) != 2 {
		t.Fatalf("lessons = %d, want 2", len(f.Lessons))
	}
	if len(f.SacredTexts) != 2 {
		t.Fatalf("sacred texts = %d, want 2", len(f.SacredTexts))
	}
	if f.Lessons[0].Title != "The Five Pillars" {
		t.Fatalf("first lesson title = %q", f.Lessons[0].Title)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRunSeedsEmptyDatabaseOnce(t *testing.T) {
	db, log, lessonService, sacredTextService := newSeedEnv(t)
	ctx := context.Background()

	f, err := Load(writeSeedFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	result, err := Run(ctx, db, log, lessonService, sacredTextService, f)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Lessons != 2 {
		t.Fatalf("seeded lessons = %d, want 2", result.Lessons)
	}
	// The verse with an empty text is skipped by the import.
	if result.SacredTexts != 1 {
		t.Fatalf("seeded sacred texts = %d, want 1", result.SacredTexts)
	}

	// Second run leaves populated tables alone.
	again, err := Run(ctx, db, log, lessonService, sacredTextService, f)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if again.Lessons != 0 || again.SacredTexts != 0 {
		t.Fatalf("re-run seeded %d/%d rows, want 0/0", again.Lessons, again.SacredTexts)
	}

	var lessonRows int64
	if err := db.Model(&types.Lesson{}).Count(&lessonRows).Error; err != nil {
		t.Fatalf("count lessons: %v", err)
	}
	if lessonRows != 2 {
		t.Fatalf("lesson rows = %d, want 2", lessonRows)
	}
}
