package network

import (
	"errors"
	"testing"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

func TestMetadata(t *testing.T) {
	m := New().Metadata()
	if m.Name != Name || m.RiskLevel != controls.RiskHigh || m.Category != "Network Security" {
		t.Errorf("Metadata() = %+v", m)
	}
}

func TestRuleName(t *testing.T) {
	if got := RuleName("powershell.exe"); got != "Block_powershell_Outbound" {
		t.Errorf("RuleName() = %q", got)
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name string
		in   settings.Settings
		want bool
	}{
		{"typed rules", settings.Settings{settings.KeyFirewallRules: []settings.FirewallRule{{Name: "a", Program: "b"}}}, true},
		{"decoded rules", settings.Settings{settings.KeyFirewallRules: []any{map[string]any{"name": "a", "program": "b"}}}, true},
		{"empty list", settings.Settings{settings.KeyFirewallRules: []any{}}, true},
		{"missing program", settings.Settings{settings.KeyFirewallRules: []any{map[string]any{"name": "a"}}}, false},
		{"null name", settings.Settings{settings.KeyFirewallRules: []any{map[string]any{"name": nil, "program": "cmd.exe"}}}, false},
		{"empty program", settings.Settings{settings.KeyFirewallRules: []any{map[string]any{"name": "a", "program": ""}}}, false},
		{"quote in name", settings.Settings{settings.KeyFirewallRules: []any{map[string]any{"name": `a" & calc & "`, "program": "cmd.exe"}}}, false},
		{"missing key", settings.Settings{}, false},
		{"wrong type", settings.Settings{settings.KeyFirewallRules: "cmd.exe"}, false},
	}
	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ValidateSettings(tt.in); got != tt.want {
				t.Errorf("ValidateSettings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	c := New()
	d := c.DefaultSettings()
	if !c.ValidateSettings(d) {
		t.Fatal("defaults rejected")
	}
	rules, _ := d.FirewallRules()
	if len(rules) != len(riskyBinaries) {
		t.Fatalf("got %d rules", len(rules))
	}
	if rules[1].Name != "Block_cmd_Outbound" || rules[1].Program != `C:\Windows\System32\cmd.exe` {
		t.Errorf("rules[1] = %+v", rules[1])
	}
}

func TestRenderer(t *testing.T) {
	c := New()
	r := NewRenderer()
	if _, err := r.Settings(c, form.Values{}); !errors.Is(err, controls.ErrNoSelection) {
		t.Errorf("empty selection error = %v", err)
	}

	s, err := r.Settings(c, form.Values{
		"bin:mshta.exe":   true,
		fieldCustomBinary: "curl",
		fieldCustomPath:   `C:\Windows\System32\curl.exe`,
	})
	if err != nil {
		t.Fatal(err)
	}
	rules, _ := s.FirewallRules()
	want := []settings.FirewallRule{
		{Name: "Block_mshta_Outbound", Program: `C:\Windows\System32\mshta.exe`},
		{Name: "Block_curl_Outbound", Program: `C:\Windows\System32\curl.exe`},
	}
	if len(rules) != len(want) {
		t.Fatalf("rules = %+v", rules)
	}
	for i := range want {
		if rules[i] != want[i] {
			t.Errorf("rules[%d] = %+v, want %+v", i, rules[i], want[i])
		}
	}
}
