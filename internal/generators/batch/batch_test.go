package batch

import (
	"strings"
	"testing"
	"time"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

func fixedClock() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		in      settings.Settings
		want    []string
		notWant []string
	}{
		{
			name: "file associations",
			in:   settings.Settings{settings.KeyFileAssociations: map[string]string{".js": "notepad.exe", ".vbs": "notepad.exe"}},
			want: []string{
				"REM Generated: 2024-03-01 12:30:00",
				"assoc .js=notepad.exeFile",
				"assoc .vbs=notepad.exeFile",
				`ftype notepad.exeFile="notepad.exe" "%%1"`,
			},
			notWant: []string{"netsh", "WinX", "NoWinKeys"},
		},
		{
			name: "firewall",
			in:   settings.Settings{settings.KeyFirewallRules: []any{map[string]any{"name": "Block_cmd_Outbound", "program": `C:\Windows\System32\cmd.exe`}}},
			want: []string{`netsh advfirewall firewall add rule name="Block_cmd_Outbound" dir=out action=block program="C:\Windows\System32\cmd.exe"`},
		},
		{
			name: "winx",
			in:   settings.Settings{settings.KeyWinXRemoval: []string{"Task Manager"}},
			want: []string{
				`del /F /S /Q "%%U\AppData\Local\Microsoft\Windows\WinX\*Task Manager*" 2>nul`,
				`del /F /S /Q "C:\Users\Default\AppData\Local\Microsoft\Windows\WinX\*Task Manager*" 2>nul`,
				"taskkill /F /IM explorer.exe",
			},
		},
		{
			name: "hotkeys",
			in:   settings.Settings{settings.KeyDisableAllHotkeys: true, settings.KeyDisabledHotkeys: []string{"R", "X"}},
			want: []string{
				"/v NoWinKeys /t REG_DWORD /d 1 /f",
				`reg add "HKU\TempUser_%%~nxU\Software\Microsoft\Windows\CurrentVersion\Explorer\Advanced" /v DisabledHotkeys /t REG_SZ /d "RX" /f 2>nul`,
				`reg load "HKU\DefaultUser"`,
			},
		},
		{
			name:    "hotkey list only",
			in:      settings.Settings{settings.KeyDisabledHotkeys: []string{"S"}},
			want:    []string{`/d "S"`},
			notWant: []string{"NoWinKeys"},
		},
	}

	g := New(fixedClock)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := g.Generate("Test Control", tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(out, "@echo off\nREM Windows Security Control: Test Control") {
				t.Errorf("unexpected header: %q", out[:60])
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output unexpectedly contains %q", w)
				}
			}
		})
	}
}

func TestEncode(t *testing.T) {
	g := New(fixedClock)
	b, _ := g.Encode("a\nb")
	if string(b) != "a\r\nb" {
		t.Errorf("Encode() = %q", b)
	}
}

func TestGenerateRejectsScriptMetacharacters(t *testing.T) {
	tests := []struct {
		name string
		in   settings.Settings
	}{
		{"quote in rule name", settings.Settings{settings.KeyFirewallRules: []settings.FirewallRule{{Name: `a" & calc`, Program: "cmd.exe"}}}},
		{"percent in program", settings.Settings{settings.KeyFirewallRules: []settings.FirewallRule{{Name: "a", Program: `%COMSPEC%`}}}},
		{"ampersand in program", settings.Settings{settings.KeyFirewallRules: []settings.FirewallRule{{Name: "a", Program: "x.exe & calc"}}}},
		{"pipe in rule name", settings.Settings{settings.KeyFirewallRules: []settings.FirewallRule{{Name: "a|b", Program: "cmd.exe"}}}},
		{"caret in rule name", settings.Settings{settings.KeyFirewallRules: []settings.FirewallRule{{Name: "a^b", Program: "cmd.exe"}}}},
		{"quote in winx item", settings.Settings{settings.KeyWinXRemoval: []string{`x"*`}}},
		{"percent in winx item", settings.Settings{settings.KeyWinXRemoval: []string{"%%U"}}},
		{"quote in hotkey", settings.Settings{settings.KeyDisabledHotkeys: []string{`"`}}},
		{"ampersand in association", settings.Settings{settings.KeyFileAssociations: map[string]string{".js": "notepad.exe&calc"}}},
	}
	g := New(fixedClock)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out, err := g.Generate("c", tt.in); err == nil {
				t.Errorf("Generate() accepted unsafe value:\n%s", out)
			}
		})
	}
}
