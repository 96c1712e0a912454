// Package regfile renders file associations (and hotkey policy values that
// accompany them) as a .reg import file.
package regfile

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

// Key is the registry key for this generator; the package name avoids
// clashing with the generator registry.
const Key = "registry"

const header = "Windows Registry Editor Version 5.00"

type Generator struct {
	now func() time.Time
}

func New(now func() time.Time) *Generator {
	return &Generator{now: generators.Clock(now)}
}

func (g *Generator) FileExtension() string { return "reg" }
func (g *Generator) MimeType() string      { return "text/plain" }

func (g *Generator) SupportsSettings(s settings.Settings) bool {
	return s.Has(settings.KeyFileAssociations)
}

// Encode produces what regedit writes itself: UTF-16LE with a BOM and CRLF
// line endings.
func (g *Generator) Encode(text string) ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	return enc.Bytes([]byte(generators.CRLF(text)))
}

func (g *Generator) Generate(controlName string, s settings.Settings) (string, error) {
	assoc, err := s.FileAssociations()
	if err != nil {
		return "", err
	}

	lines := []string{
		header,
		"",
		"; Windows Security Control: " + controlName,
		"; Generated: " + g.now().Format(generators.TimestampLayout),
		"",
		"; File Association Changes",
		`; Using HKLM\SOFTWARE\Classes instead of HKCR to avoid dynamic generation issues`,
	}
	for _, ext := range settings.SortedKeys(assoc) {
		app := assoc[ext]
		lines = append(lines,
			fmt.Sprintf(`[HKEY_LOCAL_MACHINE\SOFTWARE\Classes\%s]`, ext),
			fmt.Sprintf(`@=%s`, quote(app+"File")),
			"",
			fmt.Sprintf(`[HKEY_LOCAL_MACHINE\SOFTWARE\Classes\%sFile\shell\open\command]`, app),
			fmt.Sprintf(`@=%s`, quote(app+` "%1"`)),
			"",
		)
	}

	if s.HasAny(settings.KeyDisableAllHotkeys, settings.KeyDisabledHotkeys) {
		h, err := s.Hotkeys()
		if err != nil {
			return "", err
		}
		lines = append(lines, hotkeys(h)...)
	}
	return strings.Join(lines, "\n"), nil
}

// quote renders v as a .reg string value.
func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}

func hotkeys(h settings.Hotkeys) []string {
	if !h.DisableAll && len(h.Disabled) == 0 {
		return nil
	}
	lines := []string{"; Windows Hotkey Control"}
	if h.DisableAll {
		lines = append(lines,
			`[HKEY_LOCAL_MACHINE\SOFTWARE\Microsoft\Windows\CurrentVersion\Policies\Explorer]`,
			`"NoWinKeys"=dword:00000001`,
			"",
		)
	}
	if len(h.Disabled) > 0 {
		lines = append(lines,
			"; Applies to the importing user only",
			`[HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Explorer\Advanced]`,
			`"DisabledHotkeys"=`+quote(strings.Join(h.Disabled, "")),
			"",
		)
	}
	return lines
}
