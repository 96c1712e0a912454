// Package custom is a free-form control for settings none of the bundled
// controls cover. It accepts any mapping and leaves compatibility to the
// generators.
package custom

import (
	"strings"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const (
	Name        = "Custom Control"
	Description = "User-defined security control"
)

type Control struct {
	controls.Base
}

func New() controls.Control {
	return NewNamed(Name, Description)
}

// NewNamed builds a custom control under a user-chosen name. Blank
// arguments fall back to the defaults.
func NewNamed(name, description string) controls.Control {
	if strings.TrimSpace(name) == "" {
		name = Name
	}
	if strings.TrimSpace(description) == "" {
		description = Description
	}
	c := &Control{}
	c.Base = controls.NewBase(controls.Metadata{
		Name:        strings.TrimSpace(name),
		Description: description,
		RiskLevel:   controls.RiskMedium,
		Purpose:     description,
		Category:    "Custom",
	}, nil)
	return c
}

func (c *Control) DefaultSettings() settings.Settings {
	return settings.Settings{}
}

func (c *Control) Schema() controls.Schema {
	return controls.Schema{}
}
