package app

import (
	"github.com/pkg/errors"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/artifacts"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls/custom"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls/fileassoc"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls/hotkey"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls/network"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls/winx"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators/batch"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators/gpo"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators/powershell"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators/regfile"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
)

// Services is the wired core. It is built once by Bootstrap and shared by
// the CLI, TUI and API.
type Services struct {
	Controls   *controls.Registry
	Generators *generators.Registry
	Artifacts  *artifacts.Service
}

// NewControlRegistry registers the bundled controls with their renderers.
func NewControlRegistry(log *logger.Logger) *controls.Registry {
	reg := controls.NewRegistry(log)
	reg.Register(fileassoc.New, fileassoc.NewRenderer)
	reg.Register(network.New, network.NewRenderer)
	reg.Register(winx.New, winx.NewRenderer)
	reg.Register(hotkey.New, hotkey.NewRenderer)
	reg.Register(custom.New, custom.NewRenderer)
	return reg
}

// NewGeneratorRegistry registers the bundled generators. Registration order
// is the order files appear in packages.
func NewGeneratorRegistry(cfg Config, log *logger.Logger) *generators.Registry {
	reg := generators.NewRegistry(log)
	reg.Register(gpo.Key, gpo.New(cfg.GPODomain, nil))
	reg.Register(powershell.Key, powershell.New(nil))
	reg.Register(regfile.Key, regfile.New(nil))
	reg.Register(batch.Key, batch.New(nil))
	return reg
}

func NewArtifactService(reg *generators.Registry, log *logger.Logger, opts ...artifacts.Option) *artifacts.Service {
	return artifacts.NewService(reg, log, opts...)
}

// Bootstrap wires every registry and service.
func Bootstrap(cfg Config, log *logger.Logger) *Services {
	if log == nil {
		log = logger.NewNop()
	}
	gens := NewGeneratorRegistry(cfg, log)
	return &Services{
		Controls:   NewControlRegistry(log),
		Generators: gens,
		Artifacts:  NewArtifactService(gens, log),
	}
}

// Configure creates the named control (exact, safe or case-insensitive
// name) and applies s, or the control defaults when s is nil.
func (s *Services) Configure(name string, st settings.Settings) (controls.Control, error) {
	canonical, err := s.Controls.Resolve(name)
	if err != nil {
		return nil, err
	}
	c, err := s.Controls.Create(canonical)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = c.DefaultSettings()
	}
	if err := c.SetSettings(st); err != nil {
		return nil, err
	}
	return c, nil
}

// Build generates and packages a configured control under its safe name.
func (s *Services) Build(c controls.Control) (*artifacts.Result, error) {
	res, err := s.Artifacts.Build(c.SafeName(), c.Settings())
	if err != nil {
		return nil, errors.Wrapf(err, "build %s", c.Metadata().Name)
	}
	return res, nil
}

// PackageFileName is the download name of a control's package.
func PackageFileName(c controls.Control) string {
	return c.SafeName() + "_Package.zip"
}
