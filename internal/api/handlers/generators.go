package handlers

import (
	"net/http"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
)

type GeneratorsHandler struct {
	registry *generators.Registry
	logger   *logger.Logger
}

func NewGeneratorsHandler(reg *generators.Registry, log *logger.Logger) *GeneratorsHandler {
	return &GeneratorsHandler{registry: reg, logger: log.WithComponent("generators")}
}

// GeneratorInfo describes one registered generator.
type GeneratorInfo struct {
	Name          string `json:"name"`
	FileExtension string `json:"file_extension"`
	MimeType      string `json:"mime_type"`
}

// List handles GET /api/v1/generators
func (h *GeneratorsHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.registry.ListAll()
	out := make([]GeneratorInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, GeneratorInfo{
			Name:          e.Name,
			FileExtension: e.Generator.FileExtension(),
			MimeType:      e.Generator.MimeType(),
		})
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"data":  out,
		"total": len(out),
	})
}
