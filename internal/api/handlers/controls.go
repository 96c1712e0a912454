package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/app"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/artifacts"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls/custom"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
)

// ControlsHandler serves control metadata and generates artifacts.
type ControlsHandler struct {
	svc    *app.Services
	logger *logger.Logger
}

func NewControlsHandler(svc *app.Services, log *logger.Logger) *ControlsHandler {
	return &ControlsHandler{svc: svc, logger: log.WithComponent("controls")}
}

// ControlSummary is one entry of the control list.
type ControlSummary struct {
	controls.Metadata
	SafeName    string `json:"safe_name"`
	HasRenderer bool   `json:"has_renderer"`
}

// ControlDetail is returned by GET /api/v1/controls/{name}.
type ControlDetail struct {
	ControlSummary
	Schema   controls.Schema   `json:"schema"`
	Defaults settings.Settings `json:"defaults"`
	Form     *form.Form        `json:"form,omitempty"`
}

// GenerateRequest is the body of the artifact and package endpoints.
// Exactly one source of settings is used, in this order: settings, form,
// defaults. Name and Description only apply to the custom control.
type GenerateRequest struct {
	Settings    settings.Settings `json:"settings,omitempty"`
	Form        form.Values       `json:"form,omitempty"`
	UseDefaults bool              `json:"use_defaults,omitempty"`
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
}

// GenerateResponse is returned by POST /api/v1/controls/{name}/artifacts.
type GenerateResponse struct {
	Control   string              `json:"control"`
	SafeName  string              `json:"safe_name"`
	Settings  settings.Settings   `json:"settings"`
	Artifacts artifacts.Artifacts `json:"artifacts"`
	Files     []artifacts.File    `json:"files"`
}

func (h *ControlsHandler) summary(name string) (ControlSummary, controls.Control, error) {
	c, err := h.svc.Controls.Create(name)
	if err != nil {
		return ControlSummary{}, nil, err
	}
	_, ok := h.svc.Controls.Renderer(name)
	return ControlSummary{Metadata: c.Metadata(), SafeName: c.SafeName(), HasRenderer: ok}, c, nil
}

// List handles GET /api/v1/controls
func (h *ControlsHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := controls.Filter(h.svc.Controls.Names(), r.URL.Query().Get("filter"))
	if err != nil {
		respondError(w, h.logger, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	out := make([]ControlSummary, 0, len(names))
	for _, name := range names {
		s, _, err := h.summary(name)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		out = append(out, s)
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"data":  out,
		"total": len(out),
	})
}

// Get handles GET /api/v1/controls/{name}
func (h *ControlsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name, err := h.svc.Controls.Resolve(chi.URLParam(r, "name"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	s, c, err := h.summary(name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	detail := ControlDetail{ControlSummary: s, Schema: c.Schema(), Defaults: c.DefaultSettings()}
	if rd, ok := h.svc.Controls.Renderer(name); ok && rd.CanRender(c) {
		f := rd.Form(c)
		detail.Form = &f
	}
	respondJSON(w, h.logger, http.StatusOK, detail)
}

// Artifacts handles POST /api/v1/controls/{name}/artifacts
func (h *ControlsHandler) Artifacts(w http.ResponseWriter, r *http.Request) {
	c, err := h.configure(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	res, err := h.svc.Build(c)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, GenerateResponse{
		Control:   c.Metadata().Name,
		SafeName:  c.SafeName(),
		Settings:  c.Settings(),
		Artifacts: res.Artifacts,
		Files:     res.Files,
	})
}

// Package handles POST /api/v1/controls/{name}/package
func (h *ControlsHandler) Package(w http.ResponseWriter, r *http.Request) {
	c, err := h.configure(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	res, err := h.svc.Build(c)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", app.PackageFileName(c)))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Package)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Package); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write package")
	}
}

// configure decodes the request and returns the configured control.
func (h *ControlsHandler) configure(w http.ResponseWriter, r *http.Request) (controls.Control, error) {
	var req GenerateRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, errors.Wrapf(errBadRequest, "invalid JSON body: %v", err)
	}

	name, err := h.svc.Controls.Resolve(chi.URLParam(r, "name"))
	if err != nil {
		return nil, err
	}

	var c controls.Control
	if name == custom.Name {
		display, desc := req.Name, req.Description
		if display == "" && req.Form != nil {
			display, desc = req.Form.String(custom.FieldName), req.Form.String(custom.FieldDescription)
		}
		c = custom.NewNamed(display, desc)
	} else if c, err = h.svc.Controls.Create(name); err != nil {
		return nil, err
	}

	var st settings.Settings
	switch {
	case req.Settings != nil:
		st = req.Settings
	case req.Form != nil:
		rd, ok := h.svc.Controls.Renderer(name)
		if !ok || !rd.CanRender(c) {
			return nil, errors.Wrapf(errBadRequest, "%s has no form renderer", name)
		}
		if st, err = rd.Settings(c, req.Form); err != nil {
			return nil, err
		}
	case req.UseDefaults:
		st = c.DefaultSettings()
	default:
		return nil, errors.Wrap(errBadRequest, "one of settings, form or use_defaults is required")
	}

	if err := c.SetSettings(st); err != nil {
		return nil, err
	}
	return c, nil
}
