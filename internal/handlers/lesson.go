package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/requestdata"
	"github.com/hidayaapp/hidaya-backend/internal/services"
)

type LessonHandler struct {
	lessonService services.LessonService
}

func NewLessonHandler(lessonService services.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

func (lh *LessonHandler) List(c *gin.Context) {
	religion := c.Query("religion")
	difficulty := c.Query("difficulty")

	rd := requestdata.GetRequestData(c.Request.Context())
	if rd != nil && difficulty == "" {
		// Authenticated catalog browsing includes completion flags.
		lessons, err := lh.lessonService.ListForUser(c.Request.Context(), rd.UserID, religion)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"lessons": lessons})
		return
	}

	lessons, err := lh.lessonService.ListLessons(c.Request.Context(), religion, difficulty)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"lessons": lessons})
}

func (lh *LessonHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lesson, err := lh.lessonService.GetLesson(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, lesson)
}

func (lh *LessonHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	lessons, err := lh.lessonService.SearchLessons(c.Request.Context(), query, c.Query("religion"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"lessons": lessons})
}

func (lh *LessonHandler) Next(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	next, err := lh.lessonService.NextLesson(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if next == nil {
		RespondOK(c, gin.H{"lesson": nil, "end_of_sequence": true})
		return
	}
	RespondOK(c, gin.H{"lesson": next})
}

func (lh *LessonHandler) Complete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req struct {
		LessonID       *uuid.UUID `json:"lesson_id"`
		ChapterID      *uuid.UUID `json:"chapter_id"`
		CustomLessonID *uuid.UUID `json:"custom_lesson_id"`
		Reflection     string     `json:"reflection"`
		Rating         *int       `json:"rating"`
		TimeSpent      *int       `json:"time_spent"`
		MoodBefore     string     `json:"mood_before"`
		MoodAfter      string     `json:"mood_after"`
		QuizScore      *float64   `json:"quiz_score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		RespondError(c, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	if req.TimeSpent != nil && *req.TimeSpent < 0 {
		RespondError(c, http.StatusBadRequest, "invalid_request", nil)
		return
	}

	input := services.CompleteLessonInput{
		Ref: repos.ContentRef{
			LessonID:       req.LessonID,
			ChapterID:      req.ChapterID,
			CustomLessonID: req.CustomLessonID,
		},
		Reflection: req.Reflection,
		Rating:     req.Rating,
		TimeSpent:  req.TimeSpent,
		MoodBefore: req.MoodBefore,
		MoodAfter:  req.MoodAfter,
		QuizScore:  req.QuizScore,
	}
	result, err := lh.lessonService.CompleteLesson(c.Request.Context(), rd.UserID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (lh *LessonHandler) ListProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	progress, err := lh.lessonService.ListProgress(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}
