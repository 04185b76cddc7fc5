package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hidayaapp/hidaya-backend/internal/requestdata"
	"github.com/hidayaapp/hidaya-backend/internal/services"
)

func TestRespondServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound, "not_found"},
		{"insufficient savers", services.ErrInsufficientSavers, http.StatusConflict, "insufficient_savers"},
		{"conflict", services.ErrConflict, http.StatusConflict, "conflict"},
		{"invalid quantity", services.ErrInvalidQuantity, http.StatusBadRequest, "invalid_request"},
		{"invalid content ref", services.ErrInvalidContentRef, http.StatusBadRequest, "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondServiceError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("malformed error body: %v", err)
			}
			if envelope.Error.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", envelope.Error.Code, tt.wantCode)
			}
		})
	}
}

type fakeRecommendationService struct {
	recs []*services.Recommendation
	err  error
}

func (f *fakeRecommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]*services.Recommendation, error) {
	return f.recs, f.err
}

func (f *fakeRecommendationService) InvalidateFor(ctx context.Context, userID uuid.UUID) {}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := requestdata.WithRequestData(req.Context(), &requestdata.RequestData{UserID: uuid.New()})
	return req.WithContext(ctx)
}

func TestRecommendationHandlerRejectsBadLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRecommendationHandler(&fakeRecommendationService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = authedRequest(http.MethodGet, "/api/recommendations?limit=abc")

	handler.Get(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRecommendationHandlerReturnsList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRecommendationHandler(&fakeRecommendationService{
		recs: []*services.Recommendation{{Score: 0.7, Reason: "Continue your journey in islam"}},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = authedRequest(http.MethodGet, "/api/recommendations")

	handler.Get(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Recommendations []*services.Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("malformed body: %v", err)
	}
	if len(body.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(body.Recommendations))
	}
}

func TestRecommendationHandlerRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRecommendationHandler(&fakeRecommendationService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)

	handler.Get(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
