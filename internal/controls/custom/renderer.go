package custom

import (
	"strings"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

// Form keys. FieldName and FieldDescription are read by callers that want to
// build the control under the submitted name with NewNamed.
const (
	FieldName        = "control_name"
	FieldDescription = "control_description"

	fieldIncludeAssoc = "include_file_associations"
	fieldExt          = "extension"
	fieldApp          = "application"
	fieldIncludeFW    = "include_firewall"
	fieldBinary       = "binary_name"
	fieldBinaryPath   = "binary_path"
	fieldIncludeWinX  = "include_winx"
	fieldWinXItem     = "winx_item"
)

type Renderer struct{}

func NewRenderer() controls.Renderer { return Renderer{} }

func (Renderer) CanRender(c controls.Control) bool {
	_, ok := c.(*Control)
	return ok
}

func (Renderer) Form(c controls.Control) form.Form {
	return form.Form{
		Title: c.Metadata().Name,
		Fields: []form.Field{
			{Key: FieldName, Label: "Control name", Kind: form.Text, Default: "My_Custom_Control"},
			{Key: FieldDescription, Label: "Description", Kind: form.Text},
			{Key: fieldIncludeAssoc, Label: "Include file association change", Kind: form.Toggle, Group: "File associations"},
			{Key: fieldExt, Label: "File extension", Kind: form.Text, Group: "File associations"},
			{Key: fieldApp, Label: "Application", Kind: form.Text, Group: "File associations"},
			{Key: fieldIncludeFW, Label: "Include firewall rule", Kind: form.Toggle, Group: "Firewall"},
			{Key: fieldBinary, Label: "Binary name", Kind: form.Text, Group: "Firewall"},
			{Key: fieldBinaryPath, Label: "Binary path", Kind: form.Text, Group: "Firewall"},
			{Key: fieldIncludeWinX, Label: "Include WinX menu change", Kind: form.Toggle, Group: "WinX menu"},
			{Key: fieldWinXItem, Label: "Item to remove", Kind: form.Text, Group: "WinX menu"},
		},
	}
}

// Settings requires a control name and at least one completed section.
func (Renderer) Settings(_ controls.Control, v form.Values) (settings.Settings, error) {
	if v.String(FieldName) == "" {
		return nil, controls.ErrNoSelection
	}

	s := settings.Settings{}
	if v.Bool(fieldIncludeAssoc) {
		ext, app := v.String(fieldExt), v.String(fieldApp)
		if ext != "" && app != "" {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			s[settings.KeyFileAssociations] = map[string]string{ext: app}
		}
	}
	if v.Bool(fieldIncludeFW) {
		name, path := v.String(fieldBinary), v.String(fieldBinaryPath)
		if name != "" && path != "" {
			s[settings.KeyFirewallRules] = []settings.FirewallRule{{Name: "Block_" + name, Program: path}}
		}
	}
	if v.Bool(fieldIncludeWinX) {
		if item := v.String(fieldWinXItem); item != "" {
			s[settings.KeyWinXRemoval] = []string{item}
		}
	}

	if len(s) == 0 {
		return nil, controls.ErrNoSelection
	}
	return s, nil
}
