// Package network blocks outbound traffic from Windows binaries that are
// commonly abused for download cradles, exfiltration and C2.
package network

import (
	"fmt"
	"strings"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const Name = "Network Traffic Control"

type binary struct {
	Name        string
	Description string
	Path        string
}

var riskyBinaries = []binary{
	{"powershell.exe", "PowerShell executable", `C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`},
	{"cmd.exe", "Command Prompt executable", `C:\Windows\System32\cmd.exe`},
	{"wscript.exe", "Windows Script Host", `C:\Windows\System32\wscript.exe`},
	{"cscript.exe", "Console Script Host", `C:\Windows\System32\cscript.exe`},
	{"regsvr32.exe", "Microsoft Register Server", `C:\Windows\System32\regsvr32.exe`},
	{"rundll32.exe", "Windows Run DLL", `C:\Windows\System32\rundll32.exe`},
	{"mshta.exe", "Microsoft HTML Application Host", `C:\Windows\System32\mshta.exe`},
	{"bitsadmin.exe", "Background Intelligent Transfer Service", `C:\Windows\System32\bitsadmin.exe`},
}

type Control struct {
	controls.Base
}

func New() controls.Control {
	targets := make([]string, 0, len(riskyBinaries))
	for _, b := range riskyBinaries {
		targets = append(targets, b.Name)
	}
	c := &Control{}
	c.Base = controls.NewBase(controls.Metadata{
		Name:          Name,
		Description:   "Block network traffic from commonly abused Windows binaries",
		RiskLevel:     controls.RiskHigh,
		Purpose:       "Block network traffic from commonly abused Windows binaries to prevent data exfiltration and C2 communication",
		CommonTargets: targets,
		Category:      "Network Security",
	}, check)
	return c
}

// check only needs every rule to carry a name and a program; decoding
// enforces both and rejects script metacharacters.
func check(s settings.Settings) error {
	_, err := s.FirewallRules()
	return err
}

// RuleName is the rule name used for a binary such as "cmd.exe".
func RuleName(binaryName string) string {
	return fmt.Sprintf("Block_%s_Outbound", strings.TrimSuffix(binaryName, ".exe"))
}

func (c *Control) DefaultSettings() settings.Settings {
	rules := make([]settings.FirewallRule, 0, len(riskyBinaries))
	for _, b := range riskyBinaries {
		rules = append(rules, settings.FirewallRule{Name: RuleName(b.Name), Program: b.Path})
	}
	return settings.Settings{settings.KeyFirewallRules: rules}
}

func (c *Control) Schema() controls.Schema {
	desc := make(map[string]string, len(riskyBinaries))
	for _, b := range riskyBinaries {
		desc[b.Name] = fmt.Sprintf("%s (%s)", b.Description, b.Path)
	}
	return controls.Schema{"risky_binaries": desc}
}
