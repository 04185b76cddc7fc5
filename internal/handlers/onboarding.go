package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hidayaapp/hidaya-backend/internal/requestdata"
	"github.com/hidayaapp/hidaya-backend/internal/services"
)

type OnboardingHandler struct {
	onboardingService services.OnboardingService
}

func NewOnboardingHandler(onboardingService services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

// NextStep serves both anonymous and authenticated onboarding; a logged-in
// caller gets their profile persisted when the conversation completes.
func (oh *OnboardingHandler) NextStep(c *gin.Context) {
	var req struct {
		History []services.ChatMessage `json:"history"`
		Message string                 `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var userID *uuid.UUID
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
		userID = &rd.UserID
	}

	step, err := oh.onboardingService.NextStep(c.Request.Context(), userID, req.History, req.Message)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, step)
}
