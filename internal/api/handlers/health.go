package handlers

import (
	"net/http"
	"time"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/app"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/version"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	svc       *app.Services
	logger    *logger.Logger
	startTime time.Time
}

func NewHealthHandler(svc *app.Services, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		svc:       svc,
		logger:    log.WithComponent("health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Timestamp  string `json:"timestamp"`
	Controls   int    `json:"controls"`
	Generators int    `json:"generators"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Version:    version.Version,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Controls:   h.svc.Controls.Len(),
		Generators: h.svc.Generators.Len(),
	})
}
