package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
	"github.com/orris-inc/proxyshop/internal/application/renewal/usecases"
	"github.com/orris-inc/proxyshop/internal/interfaces/http/handlers"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

type stubRunner struct {
	calls int
}

func (s *stubRunner) Execute(_ context.Context, _ usecases.RunOptions) (*dto.RunReport, error) {
	s.calls++
	return &dto.RunReport{Success: true}, nil
}

func newTestRouter(runner *stubRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewAutoRenewHandler(runner, nil, logger.NewNop())
	r := NewRouter(h, "s3cret", nil, logger.NewNop())
	r.SetupRoutes()
	return r.GetEngine()
}

func TestRouter_CronRequiresSecret(t *testing.T) {
	runner := &stubRunner{}
	engine := newTestRouter(runner)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cron/auto-renew", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, runner.calls)

	req := httptest.NewRequest(http.MethodPost, "/cron/auto-renew", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, runner.calls)
}

func TestRouter_HealthIsPublic(t *testing.T) {
	engine := newTestRouter(&stubRunner{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
