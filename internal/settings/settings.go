// Package settings holds the untyped configuration mapping passed between a
// control's validator and the generators that render it, plus strict typed
// accessors for the well-known sections.
package settings

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Well-known setting keys understood by the bundled controls and generators.
const (
	KeyFileAssociations  = "file_associations"
	KeyFirewallRules     = "firewall_rules"
	KeyWinXRemoval       = "winx_removal"
	KeyDisableAllHotkeys = "disable_all_hotkeys"
	KeyDisabledHotkeys   = "disabled_hotkeys"
)

// scriptUnsafe are characters that end or expand inside a quoted cmd.exe or
// PowerShell string. Values rendered into scripts must not contain them.
const scriptUnsafe = "\"%&|^<>`$\r\n"

// winxUnsafe adds the glob and path characters a WinX shortcut name cannot
// carry.
const winxUnsafe = scriptUnsafe + `*?/\:`

// ErrMissingKey is returned by the typed accessors when the section is absent.
var ErrMissingKey = errors.New("settings key missing")

// Settings is an open-ended, control-specific configuration mapping.
type Settings map[string]any

// FirewallRule is one outbound block rule.
type FirewallRule struct {
	Name    string `mapstructure:"name" json:"name" yaml:"name"`
	Program string `mapstructure:"program" json:"program" yaml:"program"`
}

// Hotkeys is the decoded hotkey section. DisableAll and Disabled are
// independent; either may be set without the other.
type Hotkeys struct {
	DisableAll bool
	Disabled   []string
}

// Has reports whether key is present, regardless of its value.
func (s Settings) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// HasAny reports whether at least one of keys is present.
func (s Settings) HasAny(keys ...string) bool {
	for _, k := range keys {
		if s.Has(k) {
			return true
		}
	}
	return false
}

// Keys returns the top-level keys in sorted order.
func (s Settings) Keys() []string {
	return SortedKeys(s)
}

// Clone returns a deep copy of the mapping for the value shapes produced by
// YAML/JSON decoding and by the bundled renderers.
func (s Settings) Clone() Settings {
	if s == nil {
		return Settings{}
	}
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Settings:
		return t.Clone()
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case map[string]string:
		m := make(map[string]string, len(t))
		for k, vv := range t {
			m[k] = vv
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, vv := range t {
			l[i] = cloneValue(vv)
		}
		return l
	case []string:
		return append([]string(nil), t...)
	case []map[string]string:
		l := make([]map[string]string, len(t))
		for i, vv := range t {
			l[i] = cloneValue(vv).(map[string]string)
		}
		return l
	case []map[string]any:
		l := make([]map[string]any, len(t))
		for i, vv := range t {
			l[i] = cloneValue(vv).(map[string]any)
		}
		return l
	case []FirewallRule:
		return append([]FirewallRule(nil), t...)
	case nil:
		return nil
	default:
		return cloneReflect(reflect.ValueOf(v)).Interface()
	}
}

// cloneReflect copies maps and slices of any element type, recursing into
// their values. Other kinds are returned as they are.
func cloneReflect(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		m := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return m
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		l := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			l.Index(i).Set(cloneReflect(rv.Index(i)))
		}
		return l
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		return cloneReflect(rv.Elem())
	}
	return rv
}

// literal rejects values that cannot be placed inside a quoted script string.
func literal(key, v, unsafe string) error {
	if i := strings.IndexAny(v, unsafe); i >= 0 {
		return errors.Errorf("%s: %q contains %q", key, v, v[i:i+1])
	}
	return nil
}

func nonBlank(key, field, v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.Errorf("%s: %s is blank", key, field)
	}
	return nil
}

// FileAssociations decodes the file_associations section (extension -> application).
func (s Settings) FileAssociations() (map[string]string, error) {
	raw, err := s.section(KeyFileAssociations)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	if err := decode(raw, &out); err != nil {
		return nil, errors.Wrap(err, KeyFileAssociations)
	}
	for _, ext := range SortedKeys(out) {
		if err := literal(KeyFileAssociations, ext, scriptUnsafe); err != nil {
			return nil, err
		}
		if err := literal(KeyFileAssociations, out[ext], scriptUnsafe); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FirewallRules decodes the firewall_rules section. Every rule must carry a
// non-blank name and program free of script metacharacters.
func (s Settings) FirewallRules() ([]FirewallRule, error) {
	raw, err := s.section(KeyFirewallRules)
	if err != nil {
		return nil, err
	}
	var out []FirewallRule
	if err := decode(raw, &out); err != nil {
		return nil, errors.Wrap(err, KeyFirewallRules)
	}
	for i, r := range out {
		key := fmt.Sprintf("%s[%d]", KeyFirewallRules, i)
		if err := nonBlank(key, "name", r.Name); err != nil {
			return nil, err
		}
		if err := nonBlank(key, "program", r.Program); err != nil {
			return nil, err
		}
		if err := literal(key, r.Name, scriptUnsafe); err != nil {
			return nil, err
		}
		if err := literal(key, r.Program, scriptUnsafe); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []FirewallRule{}
	}
	return out, nil
}

// WinXRemoval decodes the winx_removal section. Items are matched as part
// of a shortcut file name, so glob and path characters are rejected.
func (s Settings) WinXRemoval() ([]string, error) {
	raw, err := s.section(KeyWinXRemoval)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := decode(raw, &out); err != nil {
		return nil, errors.Wrap(err, KeyWinXRemoval)
	}
	for i, it := range out {
		key := fmt.Sprintf("%s[%d]", KeyWinXRemoval, i)
		if err := nonBlank(key, "item", it); err != nil {
			return nil, err
		}
		if err := literal(key, it, winxUnsafe); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// Hotkeys decodes the hotkey section. ErrMissingKey is returned only when
// neither hotkey key is present.
func (s Settings) Hotkeys() (Hotkeys, error) {
	var h Hotkeys
	if !s.HasAny(KeyDisableAllHotkeys, KeyDisabledHotkeys) {
		return h, errors.Wrapf(ErrMissingKey, "%s/%s", KeyDisableAllHotkeys, KeyDisabledHotkeys)
	}
	if s.Has(KeyDisableAllHotkeys) {
		raw, err := s.section(KeyDisableAllHotkeys)
		if err != nil {
			return h, err
		}
		if err := decode(raw, &h.DisableAll); err != nil {
			return h, errors.Wrap(err, KeyDisableAllHotkeys)
		}
	}
	if s.Has(KeyDisabledHotkeys) {
		raw, err := s.section(KeyDisabledHotkeys)
		if err != nil {
			return h, err
		}
		if err := decode(raw, &h.Disabled); err != nil {
			return h, errors.Wrap(err, KeyDisabledHotkeys)
		}
		for _, k := range h.Disabled {
			if utf8.RuneCountInString(k) != 1 {
				return h, errors.Errorf("%s: %q is not a single key", KeyDisabledHotkeys, k)
			}
			if err := literal(KeyDisabledHotkeys, k, scriptUnsafe); err != nil {
				return h, err
			}
		}
	}
	return h, nil
}

func (s Settings) section(key string) (any, error) {
	raw, ok := s[key]
	if !ok {
		return nil, errors.Wrap(ErrMissingKey, key)
	}
	if raw == nil {
		return nil, errors.Errorf("%s: value is null", key)
	}
	return raw, nil
}

// decode is strict: no weak typing, and every struct field must be set.
func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		ErrorUnset: true,
		TagName:    "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// Parse reads a YAML or JSON settings document.
func Parse(data []byte) (Settings, error) {
	out := Settings{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if out == nil {
		out = Settings{}
	}
	return out, nil
}

// Load reads a settings document from path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	return Parse(data)
}

// Marshal renders settings as YAML with sorted keys.
func Marshal(s Settings) ([]byte, error) {
	return yaml.Marshal(map[string]any(s))
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
