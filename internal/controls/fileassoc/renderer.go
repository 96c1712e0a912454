package fileassoc

import (
	"strings"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const (
	extPrefix         = "ext:"
	fieldApp          = "application"
	fieldCustomApp    = "custom_application"
	fieldCustomExt    = "custom_extension"
	fieldCustomExtApp = "custom_extension_application"
	customChoice      = "Custom application"
)

type Renderer struct{}

func NewRenderer() controls.Renderer { return Renderer{} }

func (Renderer) CanRender(c controls.Control) bool {
	_, ok := c.(*Control)
	return ok
}

func (Renderer) Form(c controls.Control) form.Form {
	f := form.Form{Title: c.Metadata().Name}
	for _, e := range dangerousExtensions {
		f.Fields = append(f.Fields, form.Field{
			Key:   extPrefix + e.Ext,
			Label: e.Ext,
			Help:  e.Description,
			Kind:  form.Toggle,
			Group: "Extensions to secure",
		})
	}
	f.Fields = append(f.Fields,
		form.Field{
			Key:     fieldApp,
			Label:   "Open selected extensions with",
			Kind:    form.Choice,
			Choices: append(append([]string(nil), safeApplications...), customChoice),
			Default: safeApplications[0],
		},
		form.Field{Key: fieldCustomApp, Label: "Custom application path", Kind: form.Text},
		form.Field{Key: fieldCustomExt, Label: "Extra extension (e.g. .xyz)", Kind: form.Text, Group: "Custom extension"},
		form.Field{Key: fieldCustomExtApp, Label: "Application for extra extension", Kind: form.Text, Group: "Custom extension"},
	)
	return f
}

func (r Renderer) Settings(c controls.Control, v form.Values) (settings.Settings, error) {
	assoc := map[string]string{}

	app := v.String(fieldApp)
	switch app {
	case BlockExecution:
		app = "notepad.exe"
	case customChoice:
		app = v.String(fieldCustomApp)
	}
	if app != "" {
		for _, ext := range r.Form(c).Enabled(v, extPrefix) {
			assoc[ext] = app
		}
	}

	if ext := v.String(fieldCustomExt); ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if extApp := v.String(fieldCustomExtApp); extApp != "" {
			assoc[ext] = extApp
		}
	}

	if len(assoc) == 0 {
		return nil, controls.ErrNoSelection
	}
	return settings.Settings{settings.KeyFileAssociations: assoc}, nil
}
