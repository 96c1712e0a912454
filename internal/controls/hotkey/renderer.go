package hotkey

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const (
	keyPrefix       = "key:"
	fieldDisableAll = "disable_all"
	fieldCustomKey  = "custom_key"
)

type Renderer struct{}

func NewRenderer() controls.Renderer { return Renderer{} }

func (Renderer) CanRender(c controls.Control) bool {
	_, ok := c.(*Control)
	return ok
}

func (Renderer) Form(c controls.Control) form.Form {
	f := form.Form{Title: c.Metadata().Name}
	f.Fields = append(f.Fields, form.Field{
		Key:     fieldDisableAll,
		Label:   "Disable all Windows key shortcuts",
		Kind:    form.Toggle,
		Default: false,
	})
	for _, h := range commonHotkeys {
		f.Fields = append(f.Fields, form.Field{
			Key:   keyPrefix + h.Key,
			Label: h.Description,
			Help:  h.Risk,
			Kind:  form.Toggle,
			Group: "Individual hotkeys",
		})
	}
	f.Fields = append(f.Fields, form.Field{Key: fieldCustomKey, Label: "Other key (single letter)", Kind: form.Text})
	return f
}

func (r Renderer) Settings(c controls.Control, v form.Values) (settings.Settings, error) {
	disableAll := v.Bool(fieldDisableAll)
	keys := r.Form(c).Enabled(v, keyPrefix)
	if k := strings.ToUpper(v.String(fieldCustomKey)); k != "" {
		if utf8.RuneCountInString(k) != 1 {
			return nil, errors.Errorf("custom hotkey %q must be a single key", k)
		}
		keys = append(keys, k)
	}
	if !disableAll && len(keys) == 0 {
		return nil, controls.ErrNoSelection
	}
	if keys == nil {
		keys = []string{}
	}
	return settings.Settings{
		settings.KeyDisableAllHotkeys: disableAll,
		settings.KeyDisabledHotkeys:   keys,
	}, nil
}
