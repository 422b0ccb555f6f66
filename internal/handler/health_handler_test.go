package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"declarant/internal/domain"
	"declarant/internal/handler"
	"declarant/internal/parser"
	"declarant/mocks"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(parser.Unavailable(domain.ErrCredentialMissing), "gemini")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name   string
		h      *handler.HealthHandler
		status int
	}{
		{"configured", handler.NewHealthHandler(new(mocks.MockExtractionOracle), "openai"), http.StatusOK},
		{"credential missing", handler.NewHealthHandler(parser.Unavailable(domain.ErrCredentialMissing), "gemini"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			tt.h.Readiness(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
