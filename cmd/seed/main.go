package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hidayaapp/hidaya-backend/internal/cache"
	"github.com/hidayaapp/hidaya-backend/internal/clock"
	"github.com/hidayaapp/hidaya-backend/internal/db"
	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/seed"
	"github.com/hidayaapp/hidaya-backend/internal/services"
	"github.com/hidayaapp/hidaya-backend/internal/utils"
)

// Loads the lesson catalog and sacred text corpus from SEED_FILE into an
// empty database. Safe to re-run; populated tables are skipped.
func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	seedPath := utils.GetEnv("SEED_FILE", "seed.json", log)

	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := dbService.DB()

	clk := clock.New()
	userRepo := repos.NewUserRepo(theDB, log)
	lessonRepo := repos.NewLessonRepo(theDB, log)
	chapterRepo := repos.NewChapterRepo(theDB, log)
	customLessonRepo := repos.NewCustomLessonRepo(theDB, log)
	progressRepo := repos.NewProgressRepo(theDB, log)
	streakSaverRepo := repos.NewStreakSaverRepo(theDB, log)
	sacredTextRepo := repos.NewSacredTextRepo(theDB, log)
	recCache := cache.NewRecommendationCache(log)

	streakService := services.NewStreakService(theDB, log, clk, userRepo, streakSaverRepo, progressRepo)
	recommendationService := services.NewRecommendationService(theDB, log, userRepo, lessonRepo, progressRepo, recCache)
	lessonService := services.NewLessonService(theDB, log, clk, lessonRepo, chapterRepo, customLessonRepo,
		progressRepo, userRepo, streakService, recommendationService)
	sacredTextService := services.NewSacredTextService(theDB, log, sacredTextRepo)

	file, err := seed.Load(seedPath)
	if err != nil {
		log.Error("Could not load seed file", "path", seedPath, "error", err)
		os.Exit(1)
	}

	result, err := seed.Run(context.Background(), theDB, log, lessonService, sacredTextService, file)
	if err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	log.Info("Seeding complete",
		"lessons", result.Lessons,
		"sacred_texts", result.SacredTexts,
	)
}
