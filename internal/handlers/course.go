package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hidayaapp/hidaya-backend/internal/requestdata"
	"github.com/hidayaapp/hidaya-backend/internal/services"
)

// CourseHandler fronts the AI generation surface: custom lessons, quizzes,
// and full courses.
type CourseHandler struct {
	aiGenService services.AIGenService
}

func NewCourseHandler(aiGenService services.AIGenService) *CourseHandler {
	return &CourseHandler{aiGenService: aiGenService}
}

func (ch *CourseHandler) GenerateCustomLesson(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		Topic      string `json:"topic"`
		Religion   string `json:"religion"`
		Difficulty string `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lesson, err := ch.aiGenService.GenerateCustomLesson(c.Request.Context(), rd.UserID, req.Topic, req.Religion, req.Difficulty)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (ch *CourseHandler) ListCustomLessons(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	lessons, err := ch.aiGenService.ListCustomLessons(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"lessons": lessons})
}

func (ch *CourseHandler) GenerateQuiz(c *gin.Context) {
	var req struct {
		Topic        string `json:"topic"`
		Religion     string `json:"religion"`
		Difficulty   string `json:"difficulty"`
		NumQuestions int    `json:"num_questions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	questions, err := ch.aiGenService.GenerateQuiz(c.Request.Context(), req.Topic, req.Religion, req.Difficulty, req.NumQuestions)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"questions": questions})
}

func (ch *CourseHandler) GenerateCourse(c *gin.Context) {
	var req struct {
		Religion   string `json:"religion"`
		Topic      string `json:"topic"`
		Difficulty string `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, chapters, err := ch.aiGenService.GenerateCourse(c.Request.Context(), req.Religion, req.Topic, req.Difficulty)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"course": course, "chapters": chapters})
}

func (ch *CourseHandler) GetCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, chapters, err := ch.aiGenService.GetCourse(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"course": course, "chapters": chapters})
}

func (ch *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := ch.aiGenService.ListCourses(c.Request.Context(), c.Query("religion"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"courses": courses})
}

func (ch *CourseHandler) ReflectionPrompt(c *gin.Context) {
	var req struct {
		LessonTitle string `json:"lesson_title"`
		Religion    string `json:"religion"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	prompt, err := ch.aiGenService.GenerateReflectionPrompt(c.Request.Context(), req.LessonTitle, req.Religion)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"prompt": prompt})
}
