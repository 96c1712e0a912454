// Package hotkey disables Windows key shortcuts that give quick access to
// Run, Quick Link and search.
package hotkey

import (
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const Name = "Windows Hotkey Control"

type shortcut struct {
	Key         string
	Description string
	Risk        string
}

var commonHotkeys = []shortcut{
	{"R", "Windows + R (Run dialog)", "Allows running arbitrary commands"},
	{"X", "Windows + X (Quick Link menu)", "Access to administrative tools"},
	{"S", "Windows + S (Search)", "Can be used to find and launch applications"},
}

type Control struct {
	controls.Base
}

func New() controls.Control {
	targets := make([]string, 0, len(commonHotkeys))
	for _, h := range commonHotkeys {
		targets = append(targets, h.Description)
	}
	c := &Control{}
	c.Base = controls.NewBase(controls.Metadata{
		Name:          Name,
		Description:   "Disable Windows hotkeys that can be used for privilege escalation",
		RiskLevel:     controls.RiskMedium,
		Purpose:       "Disable Windows hotkeys that can be used for privilege escalation or system access",
		CommonTargets: targets,
		Category:      "User Interface Security",
	}, check)
	return c
}

func check(s settings.Settings) error {
	_, err := s.Hotkeys()
	return err
}

func (c *Control) DefaultSettings() settings.Settings {
	return settings.Settings{
		settings.KeyDisableAllHotkeys: false,
		settings.KeyDisabledHotkeys:   []string{"R", "X"},
	}
}

func (c *Control) Schema() controls.Schema {
	m := make(map[string]map[string]string, len(commonHotkeys))
	for _, h := range commonHotkeys {
		m[h.Key] = map[string]string{"description": h.Description, "risk": h.Risk}
	}
	return controls.Schema{"common_hotkeys": m}
}
