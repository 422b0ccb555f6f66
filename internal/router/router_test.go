package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"declarant/internal/domain"
	"declarant/internal/handler"
	"declarant/internal/parser"
	"declarant/internal/router"
	"declarant/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine() (*gin.Engine, *mocks.MockSessionService) {
	svc := new(mocks.MockSessionService)
	r := router.Setup(
		zap.NewNop(),
		[]string{"http://localhost:5173"},
		handler.NewSessionHandler(svc, 1<<20),
		handler.NewHealthHandler(parser.Unavailable(domain.ErrCredentialMissing), "gemini"),
	)
	return r, svc
}

func TestSetup_HealthRoutes(t *testing.T) {
	r, _ := newEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSetup_SessionRoutes(t *testing.T) {
	r, svc := newEngine()
	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(&domain.SessionView{ID: id.String()}, nil)
	svc.On("Slot", mock.Anything, id, domain.RoleDescription).Return(&domain.DocumentSlot{Role: domain.RoleDescription}, nil)
	svc.On("Result", mock.Anything, id).Return(nil, domain.ErrNoResult)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/v1/sessions/" + id.String(), http.StatusOK},
		{http.MethodGet, "/api/v1/sessions/" + id.String() + "/documents/description", http.StatusOK},
		{http.MethodGet, "/api/v1/sessions/" + id.String() + "/documents/manifest", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/sessions/" + id.String() + "/goods.csv", http.StatusConflict},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.path, http.NoBody)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
