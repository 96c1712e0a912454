package network

import (
	"strings"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const (
	binPrefix         = "bin:"
	fieldCustomBinary = "custom_binary"
	fieldCustomPath   = "custom_path"
)

type Renderer struct{}

func NewRenderer() controls.Renderer { return Renderer{} }

func (Renderer) CanRender(c controls.Control) bool {
	_, ok := c.(*Control)
	return ok
}

func (Renderer) Form(c controls.Control) form.Form {
	f := form.Form{Title: c.Metadata().Name}
	for _, b := range riskyBinaries {
		f.Fields = append(f.Fields, form.Field{
			Key:   binPrefix + b.Name,
			Label: b.Name,
			Help:  b.Description + " (" + b.Path + ")",
			Kind:  form.Toggle,
			Group: "Binaries to block",
		})
	}
	f.Fields = append(f.Fields,
		form.Field{Key: fieldCustomBinary, Label: "Extra binary name", Kind: form.Text, Group: "Custom binary"},
		form.Field{Key: fieldCustomPath, Label: "Extra binary path", Kind: form.Text, Group: "Custom binary"},
	)
	return f
}

func (r Renderer) Settings(c controls.Control, v form.Values) (settings.Settings, error) {
	paths := make(map[string]string, len(riskyBinaries))
	for _, b := range riskyBinaries {
		paths[b.Name] = b.Path
	}

	var rules []settings.FirewallRule
	for _, name := range r.Form(c).Enabled(v, binPrefix) {
		rules = append(rules, settings.FirewallRule{Name: RuleName(name), Program: paths[name]})
	}
	if name, path := v.String(fieldCustomBinary), v.String(fieldCustomPath); name != "" && path != "" {
		if !strings.HasSuffix(strings.ToLower(name), ".exe") {
			name += ".exe"
		}
		rules = append(rules, settings.FirewallRule{Name: RuleName(name), Program: path})
	}

	if len(rules) == 0 {
		return nil, controls.ErrNoSelection
	}
	return settings.Settings{settings.KeyFirewallRules: rules}, nil
}
