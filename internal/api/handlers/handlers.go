package handlers

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/app"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/artifacts"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes bounds request bodies; settings documents are small.
const maxBodyBytes = 1 << 20

// Handlers holds all API handlers
type Handlers struct {
	Health     *HealthHandler
	Controls   *ControlsHandler
	Generators *GeneratorsHandler
}

// NewHandlers creates all handlers
func NewHandlers(svc *app.Services, log *logger.Logger) *Handlers {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handlers{
		Health:     NewHealthHandler(svc, log),
		Controls:   NewControlsHandler(svc, log),
		Generators: NewGeneratorsHandler(svc.Generators, log),
	}
}

func respondJSON(w http.ResponseWriter, log *logger.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// respondError maps core errors onto status codes: unknown names are 404,
// rejected settings 422, generator failures 500.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := http.StatusInternalServerError
	body := map[string]string{"error": err.Error()}

	var genErr *artifacts.GenerationError
	switch {
	case errors.Is(err, controls.ErrNotFound), errors.Is(err, generators.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, controls.ErrInvalidSettings), errors.Is(err, controls.ErrNoSelection):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.As(err, &genErr):
		body["generator"] = genErr.Generator
	}
	if status >= 500 {
		log.Error().Err(err).Msg("request failed")
	}
	respondJSON(w, log, status, body)
}

var errBadRequest = errors.New("bad request")
