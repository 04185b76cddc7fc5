package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hidayaapp/hidaya-backend/internal/services"
)

type SacredTextHandler struct {
	sacredTextService services.SacredTextService
}

func NewSacredTextHandler(sacredTextService services.SacredTextService) *SacredTextHandler {
	return &SacredTextHandler{sacredTextService: sacredTextService}
}

func (sh *SacredTextHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	texts, err := sh.sacredTextService.Search(c.Request.Context(), query, c.Query("religion"), c.Query("book"), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"texts": texts})
}
