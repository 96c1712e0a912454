// Package winx removes administrative shortcuts from the Win+X quick link
// menu so standard users are not one click away from an elevated shell.
package winx

import (
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const Name = "WinX Menu Hardening"

type item struct {
	Label    string
	MenuName string
}

var menuItems = []item{
	{"Command Prompt", "Command Prompt (Admin)"},
	{"PowerShell", "Windows PowerShell (Admin)"},
	{"Computer Management", "Computer Management"},
	{"Event Viewer", "Event Viewer"},
	{"Task Manager", "Task Manager"},
	{"Settings", "Settings"},
	{"File Explorer", "File Explorer"},
	{"Device Manager", "Device Manager"},
	{"Network Connections", "Network Connections"},
	{"Disk Management", "Disk Management"},
}

// defaultRemovals are the elevated shells.
var defaultRemovals = []string{"Command Prompt (Admin)", "Windows PowerShell (Admin)"}

type Control struct {
	controls.Base
}

func New() controls.Control {
	targets := make([]string, 0, len(menuItems))
	for _, it := range menuItems {
		targets = append(targets, it.Label)
	}
	c := &Control{}
	c.Base = controls.NewBase(controls.Metadata{
		Name:          Name,
		Description:   "Remove administrative options from the Windows X menu",
		RiskLevel:     controls.RiskLow,
		Purpose:       "Remove administrative options from Windows X menu to prevent easy access to system tools",
		CommonTargets: targets,
		Category:      "User Interface Security",
	}, check)
	return c
}

// check relies on the decoder, which rejects blank items and characters
// that are not part of a shortcut name.
func check(s settings.Settings) error {
	_, err := s.WinXRemoval()
	return err
}

func (c *Control) DefaultSettings() settings.Settings {
	return settings.Settings{settings.KeyWinXRemoval: append([]string(nil), defaultRemovals...)}
}

func (c *Control) Schema() controls.Schema {
	m := make(map[string]string, len(menuItems))
	for _, it := range menuItems {
		m[it.Label] = it.MenuName
	}
	return controls.Schema{"winx_items": m}
}
