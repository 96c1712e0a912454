package settings

import (
	"errors"
	"reflect"
	"testing"
)

func TestFileAssociations(t *testing.T) {
	tests := []struct {
		name    string
		in      Settings
		want    map[string]string
		wantErr bool
	}{
		{
			name: "typed map",
			in:   Settings{KeyFileAssociations: map[string]string{".scr": "notepad.exe"}},
			want: map[string]string{".scr": "notepad.exe"},
		},
		{
			name: "decoded document",
			in:   Settings{KeyFileAssociations: map[string]any{".js": "notepad.exe", ".hta": "wordpad.exe"}},
			want: map[string]string{".js": "notepad.exe", ".hta": "wordpad.exe"},
		},
		{
			name:    "non string application",
			in:      Settings{KeyFileAssociations: map[string]any{".js": 42}},
			wantErr: true,
		},
		{
			name:    "list instead of mapping",
			in:      Settings{KeyFileAssociations: []any{".js"}},
			wantErr: true,
		},
		{
			name:    "null",
			in:      Settings{KeyFileAssociations: nil},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.FileAssociations()
			if (err != nil) != tt.wantErr {
				t.Fatalf("FileAssociations() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FileAssociations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMissingKey(t *testing.T) {
	_, err := Settings{}.FileAssociations()
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}
	_, err = Settings{}.Hotkeys()
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey for hotkeys, got %v", err)
	}
}

func TestFirewallRules(t *testing.T) {
	s := Settings{KeyFirewallRules: []any{
		map[string]any{"name": "Block_cmd_Outbound", "program": `C:\Windows\System32\cmd.exe`},
	}}
	got, err := s.FirewallRules()
	if err != nil {
		t.Fatalf("FirewallRules() error = %v", err)
	}
	want := []FirewallRule{{Name: "Block_cmd_Outbound", Program: `C:\Windows\System32\cmd.exe`}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FirewallRules() = %v, want %v", got, want)
	}

	bad := []struct {
		name string
		rule any
	}{
		{"no program", map[string]string{"name": "no program"}},
		{"null name", map[string]any{"name": nil, "program": "cmd.exe"}},
		{"blank program", map[string]any{"name": "a", "program": " "}},
		{"quote in name", map[string]any{"name": `a"b`, "program": "cmd.exe"}},
		{"percent in program", map[string]any{"name": "a", "program": "%TEMP%\\x.exe"}},
		{"operator in program", map[string]any{"name": "a", "program": "x.exe|calc"}},
	}
	for _, tt := range bad {
		if _, err := (Settings{KeyFirewallRules: []any{tt.rule}}).FirewallRules(); err == nil {
			t.Errorf("%s: rule %v accepted", tt.name, tt.rule)
		}
	}
}

func TestWinXRemoval(t *testing.T) {
	tests := []struct {
		item    string
		wantErr bool
	}{
		{"Event Viewer", false},
		{"Windows PowerShell (Admin)", false},
		{"Bob's Tools", false},
		{" ", true},
		{`x$(Remove-Item C:\ -Recurse)"`, true},
		{"a*b", true},
		{"a?b", true},
		{`..\Desktop`, true},
		{"a/b", true},
		{"a<b", true},
		{"a|b", true},
		{"100%", true},
	}
	for _, tt := range tests {
		_, err := Settings{KeyWinXRemoval: []any{tt.item}}.WinXRemoval()
		if (err != nil) != tt.wantErr {
			t.Errorf("WinXRemoval(%q) error = %v, wantErr %v", tt.item, err, tt.wantErr)
		}
	}
}

func TestHotkeys(t *testing.T) {
	h, err := Settings{KeyDisabledHotkeys: []any{"R", "X"}}.Hotkeys()
	if err != nil {
		t.Fatalf("Hotkeys() error = %v", err)
	}
	if h.DisableAll || !reflect.DeepEqual(h.Disabled, []string{"R", "X"}) {
		t.Errorf("Hotkeys() = %+v", h)
	}

	if _, err := (Settings{KeyDisabledHotkeys: []string{"RX"}}).Hotkeys(); err == nil {
		t.Error("expected error for multi-character hotkey")
	}
	if _, err := (Settings{KeyDisableAllHotkeys: "yes"}).Hotkeys(); err == nil {
		t.Error("expected error for non-bool disable_all_hotkeys")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Settings{
		KeyFileAssociations: map[string]any{".scr": "notepad.exe"},
		KeyWinXRemoval:      []string{"Event Viewer"},
	}
	c := orig.Clone()
	c[KeyFileAssociations].(map[string]any)[".scr"] = "calc.exe"
	c[KeyWinXRemoval].([]string)[0] = "changed"

	if orig[KeyFileAssociations].(map[string]any)[".scr"] != "notepad.exe" {
		t.Error("clone shares nested map with original")
	}
	if orig[KeyWinXRemoval].([]string)[0] != "Event Viewer" {
		t.Error("clone shares nested slice with original")
	}
}

func TestCloneCopiesUnlistedShapes(t *testing.T) {
	flags := map[string]bool{"a": true}
	nested := map[string][]int{"n": {1, 2}}
	orig := Settings{"flags": flags, "nested": nested, "list": []any{map[string]bool{"b": true}}, "none": nil}
	c := orig.Clone()

	flags["a"] = false
	nested["n"][0] = 9
	orig["list"].([]any)[0].(map[string]bool)["b"] = false

	if !c["flags"].(map[string]bool)["a"] {
		t.Error("clone shares map[string]bool with original")
	}
	if c["nested"].(map[string][]int)["n"][0] != 1 {
		t.Error("clone shares nested slice with original")
	}
	if !c["list"].([]any)[0].(map[string]bool)["b"] {
		t.Error("clone shares map inside []any with original")
	}
	if v, ok := c["none"]; !ok || v != nil {
		t.Errorf("nil value = %v, %v", v, ok)
	}
}

func TestParse(t *testing.T) {
	doc := []byte(`
file_associations:
  .scr: notepad.exe
disabled_hotkeys: [R]
`)
	s, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(s.Keys(), []string{KeyDisabledHotkeys, KeyFileAssociations}) {
		t.Errorf("Keys() = %v", s.Keys())
	}
	fa, err := s.FileAssociations()
	if err != nil || fa[".scr"] != "notepad.exe" {
		t.Errorf("FileAssociations() = %v, %v", fa, err)
	}

	json, err := Parse([]byte(`{"winx_removal": ["Event Viewer"]}`))
	if err != nil {
		t.Fatalf("Parse(json) error = %v", err)
	}
	if items, _ := json.WinXRemoval(); !reflect.DeepEqual(items, []string{"Event Viewer"}) {
		t.Errorf("WinXRemoval() = %v", items)
	}

	empty, err := Parse(nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("Parse(nil) = %v, %v", empty, err)
	}
}
