package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hidayaapp/hidaya-backend/internal/cache"
	"github.com/hidayaapp/hidaya-backend/internal/clock"
	"github.com/hidayaapp/hidaya-backend/internal/db"
	"github.com/hidayaapp/hidaya-backend/internal/handlers"
	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/middleware"
	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/server"
	"github.com/hidayaapp/hidaya-backend/internal/services"
	"github.com/hidayaapp/hidaya-backend/internal/utils"
)

func main() {
	// Logger
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

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	port := utils.GetEnv("PORT", "8080", log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	theDB := dbService.DB()

	clk := clock.New()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	lessonRepo := repos.NewLessonRepo(theDB, log)
	courseRepo := repos.NewCourseRepo(theDB, log)
	chapterRepo := repos.NewChapterRepo(theDB, log)
	customLessonRepo := repos.NewCustomLessonRepo(theDB, log)
	progressRepo := repos.NewProgressRepo(theDB, log)
	streakSaverRepo := repos.NewStreakSaverRepo(theDB, log)
	sacredTextRepo := repos.NewSacredTextRepo(theDB, log)
	chatbotSessionRepo := repos.NewChatbotSessionRepo(theDB, log)

	// Cache
	recCache := cache.NewRecommendationCache(log)

	// Services
	log.Info("Setting up services from main...")
	openaiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		log.Error("Could not init OpenAIClient", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(theDB, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(theDB, log, clk, userRepo, progressRepo)
	streakService := services.NewStreakService(theDB, log, clk, userRepo, streakSaverRepo, progressRepo)
	recommendationService := services.NewRecommendationService(theDB, log, userRepo, lessonRepo, progressRepo, recCache)
	lessonService := services.NewLessonService(theDB, log, clk, lessonRepo, chapterRepo, customLessonRepo,
		progressRepo, userRepo, streakService, recommendationService)
	aiGenService := services.NewAIGenService(theDB, log, openaiClient, customLessonRepo, courseRepo, chapterRepo, userRepo)
	onboardingService := services.NewOnboardingService(theDB, log, openaiClient, userService, userRepo)
	chatbotService := services.NewChatbotService(theDB, log, openaiClient, chatbotSessionRepo, sacredTextRepo, userRepo)
	sacredTextService := services.NewSacredTextService(theDB, log, sacredTextRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	streakHandler := handlers.NewStreakHandler(streakService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	chatbotHandler := handlers.NewChatbotHandler(chatbotService)
	sacredTextHandler := handlers.NewSacredTextHandler(sacredTextService)
	courseHandler := handlers.NewCourseHandler(aiGenService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if allowOrigins != "" {
		origins = strings.Split(allowOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:           authHandler,
		AuthMiddleware:        authMiddleware,
		UserHandler:           userHandler,
		LessonHandler:         lessonHandler,
		StreakHandler:         streakHandler,
		RecommendationHandler: recommendationHandler,
		OnboardingHandler:     onboardingHandler,
		ChatbotHandler:        chatbotHandler,
		SacredTextHandler:     sacredTextHandler,
		CourseHandler:         courseHandler,
		AllowOrigins:          origins,
	})

	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
