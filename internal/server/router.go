package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hidayaapp/hidaya-backend/internal/handlers"
	"github.com/hidayaapp/hidaya-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	UserHandler           *handlers.UserHandler
	LessonHandler         *handlers.LessonHandler
	StreakHandler         *handlers.StreakHandler
	RecommendationHandler *handlers.RecommendationHandler
	OnboardingHandler     *handlers.OnboardingHandler
	ChatbotHandler        *handlers.ChatbotHandler
	SacredTextHandler     *handlers.SacredTextHandler
	CourseHandler         *handlers.CourseHandler
	AllowOrigins          []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Refresh-Token"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		// Onboarding runs before an account necessarily exists.
		api.POST("/onboarding/next_step", cfg.OnboardingHandler.NextStep)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)

	// User
	protected.GET("/users/me", cfg.UserHandler.GetMe)
	protected.PATCH("/users/me", cfg.UserHandler.UpdateProfile)
	protected.GET("/users/me/stats", cfg.UserHandler.GetStats)
	protected.GET("/users/me/summary", cfg.UserHandler.GetProgressSummary)

	// Lessons and progress
	protected.GET("/lessons", cfg.LessonHandler.List)
	protected.GET("/lessons/search", cfg.LessonHandler.Search)
	protected.GET("/lessons/:id", cfg.LessonHandler.Get)
	protected.GET("/lessons/:id/next", cfg.LessonHandler.Next)
	protected.POST("/lessons/complete", cfg.LessonHandler.Complete)
	protected.GET("/progress", cfg.LessonHandler.ListProgress)

	// Recommendations
	protected.GET("/recommendations", cfg.RecommendationHandler.Get)

	// Streak savers
	protected.GET("/streak/savers", cfg.StreakHandler.ListSavers)
	protected.POST("/streak/savers/purchase", cfg.StreakHandler.PurchaseSavers)
	protected.POST("/streak/savers/use", cfg.StreakHandler.UseSaver)
	protected.GET("/streak/longest", cfg.StreakHandler.LongestFromHistory)

	// AI generation
	protected.POST("/custom-lessons", cfg.CourseHandler.GenerateCustomLesson)
	protected.GET("/custom-lessons", cfg.CourseHandler.ListCustomLessons)
	protected.POST("/quizzes/generate", cfg.CourseHandler.GenerateQuiz)
	protected.POST("/courses/generate", cfg.CourseHandler.GenerateCourse)
	protected.GET("/courses", cfg.CourseHandler.ListCourses)
	protected.GET("/courses/:id", cfg.CourseHandler.GetCourse)
	protected.POST("/reflection-prompt", cfg.CourseHandler.ReflectionPrompt)

	// Spiritual guide
	protected.POST("/chatbot/sessions", cfg.ChatbotHandler.StartSession)
	protected.GET("/chatbot/sessions", cfg.ChatbotHandler.ListSessions)
	protected.GET("/chatbot/sessions/:id", cfg.ChatbotHandler.GetSession)
	protected.POST("/chatbot/sessions/:id/messages", cfg.ChatbotHandler.ContinueSession)

	// Sacred texts
	protected.GET("/sacred-texts/search", cfg.SacredTextHandler.Search)

	return router
}
