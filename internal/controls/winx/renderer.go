package winx

import (
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const (
	itemPrefix      = "item:"
	fieldCustomItem = "custom_item"
)

type Renderer struct{}

func NewRenderer() controls.Renderer { return Renderer{} }

func (Renderer) CanRender(c controls.Control) bool {
	_, ok := c.(*Control)
	return ok
}

func (Renderer) Form(c controls.Control) form.Form {
	f := form.Form{Title: c.Metadata().Name}
	for _, it := range menuItems {
		var def any
		for _, d := range defaultRemovals {
			if d == it.MenuName {
				def = true
			}
		}
		f.Fields = append(f.Fields, form.Field{
			Key:     itemPrefix + it.MenuName,
			Label:   it.Label,
			Help:    it.MenuName,
			Kind:    form.Toggle,
			Default: def,
			Group:   "Menu items to remove",
		})
	}
	f.Fields = append(f.Fields, form.Field{Key: fieldCustomItem, Label: "Other menu item", Kind: form.Text})
	return f
}

func (r Renderer) Settings(c controls.Control, v form.Values) (settings.Settings, error) {
	items := r.Form(c).Enabled(v, itemPrefix)
	if extra := v.String(fieldCustomItem); extra != "" {
		items = append(items, extra)
	}
	if len(items) == 0 {
		return nil, controls.ErrNoSelection
	}
	return settings.Settings{settings.KeyWinXRemoval: items}, nil
}
