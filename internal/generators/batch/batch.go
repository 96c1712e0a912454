// Package batch renders settings as a cmd.exe deployment script.
package batch

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const Key = "batch"

type Generator struct {
	now func() time.Time
}

func New(now func() time.Time) *Generator {
	return &Generator{now: generators.Clock(now)}
}

func (g *Generator) FileExtension() string                   { return "bat" }
func (g *Generator) MimeType() string                        { return "text/plain" }
func (g *Generator) SupportsSettings(settings.Settings) bool { return true }

// Encode writes CRLF line endings; cmd.exe mis-parses labels and blocks
// in LF-only files.
func (g *Generator) Encode(text string) ([]byte, error) {
	return []byte(generators.CRLF(text)), nil
}

func (g *Generator) Generate(controlName string, s settings.Settings) (string, error) {
	lines := []string{
		"@echo off",
		"REM Windows Security Control: " + controlName,
		"REM Generated: " + g.now().Format(generators.TimestampLayout),
		"",
		"REM Check for administrator privileges",
		"net session >nul 2>&1",
		"if %errorLevel% neq 0 (",
		"    echo This script requires Administrator privileges",
		"    pause",
		"    exit /b 1",
		")",
		"",
		"echo Implementing security control...",
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
		// the decoder rejects quotes, percent signs and cmd.exe operators
		lines = append(lines, "REM Windows Firewall Rules")
		for _, r := range rules {
			lines = append(lines, fmt.Sprintf(`netsh advfirewall firewall add rule name="%s" dir=out action=block program="%s"`, r.Name, r.Program))
		}
		lines = append(lines, "")
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
		"echo Security control implementation completed!",
		"echo Please reboot the system to ensure all changes take effect.",
		"pause",
	)
	return strings.Join(lines, "\n"), nil
}

func fileAssociations(assoc map[string]string) []string {
	lines := []string{"REM File Association Changes"}
	apps := map[string]bool{}
	for _, ext := range settings.SortedKeys(assoc) {
		lines = append(lines, fmt.Sprintf("assoc %s=%sFile", ext, assoc[ext]))
		apps[assoc[ext]] = true
	}
	names := make([]string, 0, len(apps))
	for app := range apps {
		names = append(names, app)
	}
	sort.Strings(names)
	for _, app := range names {
		lines = append(lines, fmt.Sprintf(`ftype %sFile="%s" "%%%%1"`, app, app))
	}
	return append(lines, "")
}

func winx(items []string) []string {
	lines := []string{
		"REM WinX Menu Modification - Apply to all users and default profile",
		"echo Modifying WinX menu for all users...",
		"",
		"REM Process each user profile",
		`for /D %%U in (C:\Users\*) do (`,
		`    if exist "%%U\AppData\Local\Microsoft\Windows\WinX" (`,
		`        echo Processing: %%~nxU`,
	}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf(`        del /F /S /Q "%%%%U\AppData\Local\Microsoft\Windows\WinX\*%s*" 2>nul`, item))
	}
	lines = append(lines,
		"    )",
		")",
		"",
		"REM Modify default user profile for new users",
		`if exist "C:\Users\Default\AppData\Local\Microsoft\Windows\WinX" (`,
		"    echo Processing: Default User Profile",
	)
	for _, item := range items {
		lines = append(lines, fmt.Sprintf(`    del /F /S /Q "C:\Users\Default\AppData\Local\Microsoft\Windows\WinX\*%s*" 2>nul`, item))
	}
	return append(lines,
		")",
		"",
		"REM Restart Explorer to apply changes",
		"taskkill /F /IM explorer.exe >nul 2>&1",
		"start explorer.exe",
		"",
	)
}

func hotkeys(h settings.Hotkeys) []string {
	lines := []string{
		"REM Windows Hotkey Control",
		"echo Configuring Windows hotkey restrictions...",
		"",
	}
	if h.DisableAll {
		lines = append(lines,
			"REM Disable ALL Windows hotkeys (system-wide)",
			"echo   Disabling all Windows hotkeys (system-wide)...",
			`reg add "HKLM\Software\Microsoft\Windows\CurrentVersion\Policies\Explorer" /v NoWinKeys /t REG_DWORD /d 1 /f`,
			"",
		)
	}
	if len(h.Disabled) > 0 {
		keys := strings.Join(h.Disabled, "")
		lines = append(lines,
			"REM Disable specific Windows hotkeys: "+keys,
			"echo   Disabling specific hotkeys: "+keys,
			"",
			"REM Process each user profile",
			`for /D %%U in (C:\Users\*) do (`,
			`    if exist "%%U\NTUSER.DAT" (`,
			`        echo     Processing: %%~nxU`,
			`        reg load "HKU\TempUser_%%~nxU" "%%U\NTUSER.DAT" 2>nul`,
			fmt.Sprintf(`        reg add "HKU\TempUser_%%%%~nxU\Software\Microsoft\Windows\CurrentVersion\Explorer\Advanced" /v DisabledHotkeys /t REG_SZ /d "%s" /f 2>nul`, keys),
			`        reg unload "HKU\TempUser_%%~nxU" 2>nul`,
			"    )",
			")",
			"",
			"REM Apply to default user profile for new users",
			`reg load "HKU\DefaultUser" "C:\Users\Default\NTUSER.DAT" 2>nul`,
			fmt.Sprintf(`reg add "HKU\DefaultUser\Software\Microsoft\Windows\CurrentVersion\Explorer\Advanced" /v DisabledHotkeys /t REG_SZ /d "%s" /f 2>nul`, keys),
			`reg unload "HKU\DefaultUser" 2>nul`,
			"",
		)
	}
	return lines
}
