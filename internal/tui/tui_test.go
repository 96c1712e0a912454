package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/app"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
)

type memWorkspace struct {
	written map[string][]byte
}

func (w *memWorkspace) Path(parts ...string) string { return strings.Join(parts, "/") }

func (w *memWorkspace) WritePackage(name string, data []byte) (string, error) {
	w.written[name] = data
	return "packages/" + name, nil
}

func newTestModel(t *testing.T) (model, *memWorkspace) {
	t.Helper()
	ws := &memWorkspace{written: map[string][]byte{}}
	cfg := app.Config{Workspace: t.TempDir(), GPODomain: "corp.example", Server: app.ServerConfig{Addr: "127.0.0.1:0"}}
	return newModel(app.Context{Config: cfg, Workspace: ws, Services: app.Bootstrap(cfg, nil)}), ws
}

func press(m model, keys ...string) model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestNavigateAndGenerate(t *testing.T) {
	m, ws := newTestModel(t)

	// second control is Network Traffic Control; toggle its first binary
	m = press(m, "down", "enter")
	if m.screen != screenForm {
		t.Fatalf("screen = %v, want form", m.screen)
	}
	if m.control.Metadata().Name != "Network Traffic Control" {
		t.Fatalf("control = %q", m.control.Metadata().Name)
	}

	m = press(m, "g")
	if !errors.Is(m.err, controls.ErrNoSelection) || m.screen != screenForm {
		t.Fatalf("empty form: err = %v, screen = %v", m.err, m.screen)
	}

	m = press(m, "space", "g")
	if m.err != nil {
		t.Fatalf("generate: %v", m.err)
	}
	if m.screen != screenResult {
		t.Fatalf("screen = %v, want result", m.screen)
	}
	data, ok := ws.written["Network_Traffic_Control_Package.zip"]
	if !ok || len(data) == 0 {
		t.Fatalf("package not written: %v", ws.written)
	}
	if !strings.Contains(m.View(), "Network_Traffic_Control_GPO.xml") {
		t.Error("result view does not list the GPO file")
	}

	m = press(m, "enter")
	if m.screen != screenControls {
		t.Errorf("screen = %v, want controls", m.screen)
	}
}

func TestCustomControlUsesFormName(t *testing.T) {
	m, ws := newTestModel(t)

	// Custom Control is last; its first field is the name
	m = press(m, "down", "down", "down", "down", "enter")
	if m.control.Metadata().Name != "Custom Control" {
		t.Fatalf("control = %q", m.control.Metadata().Name)
	}

	// clear the default name and type a new one
	m = press(m, "enter")
	for range []rune("My_Custom_Control") {
		m = press(m, "backspace")
	}
	m = press(m, "K", "i", "o", "s", "k", "space", "P", "C", "enter")
	if got := m.values.String("control_name"); got != "Kiosk PC" {
		t.Fatalf("control_name = %q", got)
	}

	// enable the WinX section and fill in an item
	m = press(m, "down", "down", "down", "down", "down", "down", "down", "down")
	m = press(m, "space", "down", "enter", "X", "enter", "g")
	if m.err != nil {
		t.Fatalf("generate: %v", m.err)
	}
	if _, ok := ws.written["Kiosk_PC_Package.zip"]; !ok {
		t.Errorf("written = %v", ws.written)
	}
}

func TestChoiceCycle(t *testing.T) {
	choices := []string{"a", "b", "c"}
	tests := []struct {
		current string
		step    int
		want    string
	}{
		{"a", 1, "b"},
		{"c", 1, "a"},
		{"a", -1, "c"},
		{"missing", 1, "b"},
	}
	for _, tt := range tests {
		if got := cycle(choices, tt.current, tt.step); got != tt.want {
			t.Errorf("cycle(%q, %d) = %q, want %q", tt.current, tt.step, got, tt.want)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
