package handlers

import (
	"context"
	"time"

	"morning_heating/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	view     service.StateView
	err      error
	lastAt   time.Time
	getCalls int
}

func (m *mockMonitoring) GetState(ctx context.Context) (service.StateView, error) {
	m.getCalls++
	return m.view, m.err
}

func (m *mockMonitoring) Window(at time.Time) service.WindowView {
	m.lastAt = at
	return service.WindowView{At: at, Open: service.IsWindowOpen(at)}
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func newTestRouterAt(s *service.Service, now time.Time) *gin.Engine {
	h := NewHandler(s, nil)
	h.now = func() time.Time { return now }
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
