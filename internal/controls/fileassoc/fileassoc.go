// Package fileassoc re-points commonly abused file extensions at a harmless
// application so double-clicking them no longer executes anything.
package fileassoc

import (
	"fmt"
	"strings"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const Name = "File Association Security"

// BlockExecution is offered as an application choice and maps to notepad.exe.
const BlockExecution = "Block execution"

type extension struct {
	Ext         string
	Description string
	DefaultApp  string
}

// Order matters: forms and defaults follow it.
var dangerousExtensions = []extension{
	{".scr", "Screen saver files (often malicious)", "notepad.exe"},
	{".cab", "Cabinet files", "notepad.exe"},
	{".appx", "AppX package files", "notepad.exe"},
	{".ps1", "PowerShell script files", "notepad.exe"},
	{".bat", "Batch files", "notepad.exe"},
	{".cmd", "Command files", "notepad.exe"},
	{".vbs", "VBScript files", "notepad.exe"},
	{".vbe", "VBScript Encoded Script files", "notepad.exe"},
	{".hta", "HTML Application files", "notepad.exe"},
	{".shs", "Shell Scrap Object files", "notepad.exe"},
	{".shb", "Shell Scrap files", "notepad.exe"},
	{".js", "JavaScript files", "notepad.exe"},
	{".jse", "JScript Encoded Script files", "notepad.exe"},
	{".jar", "Java Archive files", "notepad.exe"},
	{".wsh", "Windows Script Host files", "notepad.exe"},
	{".wsc", "Windows Script Component files", "notepad.exe"},
	{".wsf", "Windows Script Files", "notepad.exe"},
	{".sct", "Windows Scriptlet files", "notepad.exe"},
	{".chm", "Compiled HTML Help files", "notepad.exe"},
	{".iso", "ISO image files", "notepad.exe"},
}

var safeApplications = []string{"notepad.exe", "wordpad.exe", BlockExecution}

// Control implements controls.Control.
type Control struct {
	controls.Base
}

func New() controls.Control {
	targets := make([]string, 0, len(dangerousExtensions))
	for _, e := range dangerousExtensions {
		targets = append(targets, e.Ext)
	}
	c := &Control{}
	c.Base = controls.NewBase(controls.Metadata{
		Name:          Name,
		Description:   "Prevent execution of malicious files by changing default applications for commonly abused extensions",
		RiskLevel:     controls.RiskLow,
		Purpose:       "Prevent execution of malicious files by changing default applications for commonly abused extensions",
		CommonTargets: targets,
		Category:      "File System Security",
	}, check)
	return c
}

func check(s settings.Settings) error {
	assoc, err := s.FileAssociations()
	if err != nil {
		return err
	}
	for _, ext := range settings.SortedKeys(assoc) {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
		if strings.TrimSpace(assoc[ext]) == "" {
			return fmt.Errorf("extension %q has no application", ext)
		}
	}
	return nil
}

func (c *Control) DefaultSettings() settings.Settings {
	assoc := make(map[string]string, len(dangerousExtensions))
	for _, e := range dangerousExtensions {
		assoc[e.Ext] = e.DefaultApp
	}
	return settings.Settings{settings.KeyFileAssociations: assoc}
}

func (c *Control) Schema() controls.Schema {
	desc := make(map[string]string, len(dangerousExtensions))
	for _, e := range dangerousExtensions {
		desc[e.Ext] = e.Description
	}
	return controls.Schema{
		"dangerous_extensions": desc,
		"safe_applications":    append([]string(nil), safeApplications...),
	}
}
