package custom

import (
	"errors"
	"testing"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

func TestNewNamed(t *testing.T) {
	c := NewNamed("  Registry Hardening ", "")
	m := c.Metadata()
	if m.Name != "Registry Hardening" || m.Description != Description || m.Category != "Custom" {
		t.Errorf("Metadata() = %+v", m)
	}
	if m.RiskLevel != controls.RiskMedium {
		t.Errorf("risk = %v", m.RiskLevel)
	}
	if New().Metadata().Name != Name {
		t.Errorf("New() name = %q", New().Metadata().Name)
	}
}

func TestAcceptsAnyMapping(t *testing.T) {
	c := New()
	for _, s := range []settings.Settings{{}, {"anything": []any{1, "two"}}, c.DefaultSettings()} {
		if !c.ValidateSettings(s) {
			t.Errorf("ValidateSettings(%v) = false", s)
		}
	}
	if c.ValidateSettings(nil) {
		t.Error("ValidateSettings(nil) = true")
	}
}

func TestRenderer(t *testing.T) {
	c := New()
	r := NewRenderer()
	if !r.CanRender(c) {
		t.Fatal("CanRender(custom) = false")
	}

	tests := []struct {
		name    string
		values  form.Values
		wantErr bool
		check   func(t *testing.T, s settings.Settings)
	}{
		{
			name:    "no name",
			values:  form.Values{fieldIncludeWinX: true, fieldWinXItem: "Run"},
			wantErr: true,
		},
		{
			name:    "nothing included",
			values:  form.Values{FieldName: "x"},
			wantErr: true,
		},
		{
			name: "all sections",
			values: form.Values{
				FieldName:         "x",
				fieldIncludeAssoc: true, fieldExt: "lnk", fieldApp: "notepad.exe",
				fieldIncludeFW: true, fieldBinary: "curl", fieldBinaryPath: `C:\curl.exe`,
				fieldIncludeWinX: true, fieldWinXItem: "Run",
			},
			check: func(t *testing.T, s settings.Settings) {
				if a, _ := s.FileAssociations(); a[".lnk"] != "notepad.exe" {
					t.Errorf("associations = %v", a)
				}
				if fw, _ := s.FirewallRules(); len(fw) != 1 || fw[0].Name != "Block_curl" {
					t.Errorf("rules = %v", fw)
				}
				if w, _ := s.WinXRemoval(); len(w) != 1 || w[0] != "Run" {
					t.Errorf("winx = %v", w)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := r.Settings(c, tt.values)
			if tt.wantErr {
				if !errors.Is(err, controls.ErrNoSelection) {
					t.Errorf("error = %v, want ErrNoSelection", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, s)
		})
	}
}
