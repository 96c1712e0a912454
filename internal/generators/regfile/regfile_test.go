package regfile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

func fixedClock() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

func TestSupportsSettings(t *testing.T) {
	g := New(fixedClock)
	tests := []struct {
		name string
		in   settings.Settings
		want bool
	}{
		{"associations", settings.Settings{settings.KeyFileAssociations: map[string]string{}}, true},
		{"firewall only", settings.Settings{settings.KeyFirewallRules: []any{}}, false},
		{"empty", settings.Settings{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.SupportsSettings(tt.in); got != tt.want {
				t.Errorf("SupportsSettings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	g := New(fixedClock)
	out, err := g.Generate("File Association Security", settings.Settings{
		settings.KeyFileAssociations: map[string]string{".scr": "notepad.exe", ".hta": `C:\Tools\view.exe`},
		settings.KeyDisabledHotkeys:  []string{"R"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, header+"\n") {
		t.Errorf("missing header: %q", out[:40])
	}
	for _, want := range []string{
		"; Generated: 2024-03-01 12:30:00",
		`[HKEY_LOCAL_MACHINE\SOFTWARE\Classes\.scr]`,
		`@="notepad.exeFile"`,
		`[HKEY_LOCAL_MACHINE\SOFTWARE\Classes\notepad.exeFile\shell\open\command]`,
		`@="notepad.exe \"%1\""`,
		`@="C:\\Tools\\view.exe \"%1\""`,
		`"DisabledHotkeys"="R"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "NoWinKeys") {
		t.Error("NoWinKeys written without disable_all_hotkeys")
	}
	if strings.Index(out, `Classes\.hta]`) > strings.Index(out, `Classes\.scr]`) {
		t.Error("extensions not sorted")
	}
}

func TestGenerateRequiresAssociations(t *testing.T) {
	if _, err := New(fixedClock).Generate("c", settings.Settings{}); err == nil {
		t.Error("Generate() without file_associations succeeded")
	}
}

func TestEncodeUTF16(t *testing.T) {
	g := New(fixedClock)
	b, err := g.Encode(header + "\n")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte{0xFF, 0xFE}) {
		t.Fatalf("missing UTF-16LE BOM: % x", b[:4])
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	text, err := dec.Bytes(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != header+"\r\n" {
		t.Errorf("round trip = %q", text)
	}
}
