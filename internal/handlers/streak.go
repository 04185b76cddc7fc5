package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hidayaapp/hidaya-backend/internal/requestdata"
	"github.com/hidayaapp/hidaya-backend/internal/services"
)

type StreakHandler struct {
	streakService services.StreakService
}

func NewStreakHandler(streakService services.StreakService) *StreakHandler {
	return &StreakHandler{streakService: streakService}
}

func (sh *StreakHandler) PurchaseSavers(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := sh.streakService.PurchaseStreakSavers(c.Request.Context(), rd.UserID, req.Quantity)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"streak_savers_available": user.StreakSaversAvailable})
}

func (sh *StreakHandler) UseSaver(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	saver, err := sh.streakService.UseStreakSaver(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saver": saver})
}

func (sh *StreakHandler) ListSavers(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	savers, err := sh.streakService.ListStreakSavers(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"savers": savers})
}

// LongestFromHistory is the audit endpoint: recompute the longest streak from
// the completion log and repair the stored counter when it drifted.
func (sh *StreakHandler) LongestFromHistory(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	longest, err := sh.streakService.LongestStreakFromHistory(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"longest_streak": longest})
}
