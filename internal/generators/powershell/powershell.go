// Package powershell renders settings as a PowerShell deployment script.
package powershell

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const Key = "powershell"

type Generator struct {
	now func() time.Time
}

// New returns a generator stamping scripts with now (time.Now when nil).
func New(now func() time.Time) *Generator {
	return &Generator{now: generators.Clock(now)}
}

func (g *Generator) FileExtension() string { return "ps1" }
func (g *Generator) MimeType() string      { return "text/plain" }

// SupportsSettings is true for any settings; unknown sections are ignored.
func (g *Generator) SupportsSettings(settings.Settings) bool { return true }

// Encode writes CRLF line endings.
func (g *Generator) Encode(text string) ([]byte, error) {
	return []byte(generators.CRLF(text)), nil
}

func (g *Generator) Generate(controlName string, s settings.Settings) (string, error) {
	lines := []string{
		"# Windows Security Control Implementation Script",
		"# Control: " + controlName,
		"# Generated: " + g.now().Format(generators.TimestampLayout),
		"",
		"# Requires Administrator privileges",
		"if (-NOT ([Security.Principal.WindowsPrincipal] [Security.Principal.WindowsIdentity]::GetCurrent()).IsInRole([Security.Principal.WindowsBuiltInRole] 'Administrator')) {",
		"    Write-Error 'This script requires Administrator privileges'",
		"    exit 1",
		"}",
		"",
		"Write-Host 'Implementing security control...' -ForegroundColor Green",
		"",
	}

	if s.Has(settings.KeyFileAssociations) {
		assoc, err := s.FileAssociations()
		if err != nil {
			return "", err
		}
		lines = append(lines, fileAssociations(assoc)...)
	}
	if s.Has(settings.KeyFirewallRules) {
		rules, err := s.FirewallRules()
		if err != nil {
			return "", err
		}
		lines = append(lines, firewall(rules)...)
	}
	if s.Has(settings.KeyWinXRemoval) {
		items, err := s.WinXRemoval()
		if err != nil {
			return "", err
		}
		lines = append(lines, winx(items)...)
	}
	if s.HasAny(settings.KeyDisableAllHotkeys, settings.KeyDisabledHotkeys) {
		h, err := s.Hotkeys()
		if err != nil {
			return "", err
		}
		lines = append(lines, hotkeys(h)...)
	}

	lines = append(lines,
		"Write-Host 'Security control implementation completed!' -ForegroundColor Green",
		"Write-Host 'Please reboot the system to ensure all changes take effect.' -ForegroundColor Cyan",
	)
	return strings.Join(lines, "\n"), nil
}

// quote renders v as a single-quoted PowerShell literal.
func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func fileAssociations(assoc map[string]string) []string {
	lines := []string{
		"# File Association Security Control",
		"Write-Host 'Modifying file associations via registry...' -ForegroundColor Yellow",
		"",
		"# Set up file type handlers",
	}

	seen := map[string]bool{}
	var apps []string
	for _, app := range assoc {
		if !seen[app] {
			seen[app] = true
			apps = append(apps, app)
		}
	}
	sort.Strings(apps)
	for _, app := range apps {
		key := quote(`HKLM:\SOFTWARE\Classes\` + app + `File\shell\open\command`)
		lines = append(lines,
			fmt.Sprintf("New-Item -Path %s -Force | Out-Null", key),
			fmt.Sprintf("Set-ItemProperty -Path %s -Name '(Default)' -Value %s", key, quote(`"`+app+`" "%1"`)),
		)
	}
	lines = append(lines, "", "# Associate extensions with handlers")

	for _, ext := range settings.SortedKeys(assoc) {
		key := quote(`HKLM:\SOFTWARE\Classes\` + ext)
		lines = append(lines,
			fmt.Sprintf("New-Item -Path %s -Force | Out-Null", key),
			fmt.Sprintf("Set-ItemProperty -Path %s -Name '(Default)' -Value %s", key, quote(assoc[ext]+"File")),
		)
	}
	return append(lines, "")
}

func firewall(rules []settings.FirewallRule) []string {
	lines := []string{
		"# Windows Firewall Rules",
		"Write-Host 'Adding firewall rules...' -ForegroundColor Yellow",
		"",
	}
	for _, r := range rules {
		lines = append(lines, fmt.Sprintf(
			"New-NetFirewallRule -DisplayName %s -Direction Outbound -Program %s -Action Block -Protocol TCP",
			quote(r.Name), quote(r.Program)))
	}
	return append(lines, "")
}

func winx(items []string) []string {
	lines := []string{
		"# WinX Menu Modification - Apply to all users and default profile",
		"Write-Host 'Modifying WinX menu for all users...' -ForegroundColor Yellow",
		"",
		"# Get all user profile paths",
		`$userProfiles = Get-ChildItem "C:\Users" -Directory | Where-Object { $_.Name -notin @("Public", "Default", "All Users", "Default User") }`,
		"",
		"# Modify WinX for each existing user",
		"foreach ($userProfile in $userProfiles) {",
		`    $winxPath = Join-Path $userProfile.FullName "AppData\Local\Microsoft\Windows\WinX"`,
		"    if (Test-Path $winxPath) {",
		`        Write-Host "  Processing: $($userProfile.Name)" -ForegroundColor Cyan`,
	}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf(`        Remove-Item -Path (Join-Path $winxPath %s) -Recurse -Force -ErrorAction SilentlyContinue`, quote("*"+item+"*")))
	}
	lines = append(lines,
		"    }",
		"}",
		"",
		"# Modify default user profile for new users",
		`$defaultWinxPath = "C:\Users\Default\AppData\Local\Microsoft\Windows\WinX"`,
		"if (Test-Path $defaultWinxPath) {",
		`    Write-Host "  Processing: Default User Profile" -ForegroundColor Cyan`,
	)
	for _, item := range items {
		lines = append(lines, fmt.Sprintf(`    Remove-Item -Path (Join-Path $defaultWinxPath %s) -Recurse -Force -ErrorAction SilentlyContinue`, quote("*"+item+"*")))
	}
	return append(lines,
		"}",
		"",
		"# Restart Explorer to apply changes",
		"Stop-Process -ProcessName explorer -Force -ErrorAction SilentlyContinue",
		"Start-Process explorer",
		"",
	)
}

func hotkeys(h settings.Hotkeys) []string {
	lines := []string{
		"# Windows Hotkey Control",
		"Write-Host 'Configuring Windows hotkey restrictions...' -ForegroundColor Yellow",
		"",
	}
	if h.DisableAll {
		lines = append(lines,
			"# Disable ALL Windows hotkeys (system-wide)",
			`New-Item -Path 'HKLM:\Software\Microsoft\Windows\CurrentVersion\Policies\Explorer' -Force | Out-Null`,
			`Set-ItemProperty -Path 'HKLM:\Software\Microsoft\Windows\CurrentVersion\Policies\Explorer' -Name 'NoWinKeys' -Value 1 -Type DWord`,
			"",
		)
	}
	if len(h.Disabled) > 0 {
		keys := strings.Join(h.Disabled, "")
		lines = append(lines,
			"# Disable specific Windows hotkeys: "+keys,
			`$hives = Get-ChildItem "C:\Users" -Directory | Where-Object { Test-Path (Join-Path $_.FullName "NTUSER.DAT") }`,
			"foreach ($hive in $hives) {",
			`    $mount = "HKU\TempUser_$($hive.Name)"`,
			`    reg load $mount (Join-Path $hive.FullName "NTUSER.DAT") 2>$null | Out-Null`,
			fmt.Sprintf(`    reg add "$mount\Software\Microsoft\Windows\CurrentVersion\Explorer\Advanced" /v DisabledHotkeys /t REG_SZ /d %s /f 2>$null | Out-Null`, quote(keys)),
			"    [gc]::Collect()",
			"    reg unload $mount 2>$null | Out-Null",
			"}",
			"",
		)
	}
	return lines
}
