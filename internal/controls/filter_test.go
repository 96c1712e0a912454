package controls

import (
	"reflect"
	"testing"
)

func TestFilter(t *testing.T) {
	names := []string{"File Association Security", "Network Traffic Control", "WinX Menu Hardening", "Windows Hotkey Control"}
	tests := []struct {
		pattern string
		want    []string
	}{
		{"", names},
		{"*control", []string{"Network Traffic Control", "Windows Hotkey Control"}},
		{"WIN*", []string{"WinX Menu Hardening", "Windows Hotkey Control"}},
		{"file_association_*", []string{"File Association Security"}},
		{"nothing*", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Filter(names, tt.pattern)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}

	if _, err := Filter(names, "[unclosed"); err == nil {
		t.Error("invalid pattern accepted")
	}
}
