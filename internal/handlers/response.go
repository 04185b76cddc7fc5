package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hidayaapp/hidaya-backend/internal/apierr"
	"github.com/hidayaapp/hidaya-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps service sentinel errors onto their HTTP shape.
func RespondServiceError(c *gin.Context, err error) {
	ae := apiErrorFor(err)
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func apiErrorFor(err error) *apierr.Error {
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, services.ErrNotFound):
		return apierr.NotFound(err)
	case errors.Is(err, services.ErrInsufficientSavers):
		return apierr.InsufficientSavers(err)
	case errors.Is(err, services.ErrConflict):
		return apierr.New(http.StatusConflict, "conflict", err)
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidContentRef),
		errors.Is(err, services.ErrInvalidPersona),
		errors.Is(err, services.ErrInvalidRequest):
		return apierr.InvalidRequest(err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal", err)
	}
}
