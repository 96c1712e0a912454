package controls

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

// RiskLevel classifies how disruptive a control is. Levels are ordered.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return fmt.Sprintf("RiskLevel(%d)", int(r))
	}
}

// ParseRiskLevel converts "low", "medium" or "high" (any case) to a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	}
	return RiskLow, fmt.Errorf("unknown risk level: %q", s)
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(b []byte) error {
	lvl, err := ParseRiskLevel(string(b))
	if err != nil {
		return err
	}
	*r = lvl
	return nil
}

// Metadata describes a control. It is fixed at construction.
type Metadata struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Purpose       string    `json:"purpose"`
	CommonTargets []string  `json:"common_targets,omitempty"`
	Category      string    `json:"category,omitempty"`
}

func (m Metadata) clone() Metadata {
	m.CommonTargets = append([]string(nil), m.CommonTargets...)
	if len(m.CommonTargets) == 0 {
		m.CommonTargets = nil
	}
	return m
}

// Schema describes valid option ranges for a control, for display.
type Schema map[string]any

// MarshalJSON keeps nil schemas rendering as {}.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(s))
}

// Control is a named security-hardening capability.
type Control interface {
	// Metadata returns a copy of the control's metadata.
	Metadata() Metadata
	// ValidateSettings reports whether s is acceptable for this control.
	ValidateSettings(s settings.Settings) bool
	// DefaultSettings returns a fresh, valid default configuration.
	DefaultSettings() settings.Settings
	// Schema returns the option ranges a form can offer.
	Schema() Schema
	// SafeName returns the name with spaces replaced, for file names.
	SafeName() string
	// Settings returns a copy of the currently held settings.
	Settings() settings.Settings
	// SetSettings replaces the held settings if, and only if, s is valid.
	SetSettings(s settings.Settings) error
}

// Factory constructs a fresh control.
type Factory func() Control

// Renderer builds the configuration form for a control and turns submitted
// values into settings.
type Renderer interface {
	CanRender(c Control) bool
	Form(c Control) form.Form
	// Settings returns ErrNoSelection when the values select nothing.
	Settings(c Control, v form.Values) (settings.Settings, error)
}

// RendererFactory constructs a fresh renderer.
type RendererFactory func() Renderer

// Checker explains why settings are invalid; nil means valid.
type Checker func(s settings.Settings) error

// Base implements the settings and metadata half of Control. Concrete
// controls embed it and add DefaultSettings and Schema.
type Base struct {
	meta     Metadata
	settings settings.Settings
	check    Checker
}

// NewBase returns a Base with empty settings.
func NewBase(meta Metadata, check Checker) Base {
	return Base{
		meta:     meta.clone(),
		settings: settings.Settings{},
		check:    check,
	}
}

func (b *Base) Metadata() Metadata {
	return b.meta.clone()
}

func (b *Base) SafeName() string {
	return SafeName(b.meta.Name)
}

// Check returns the reason s is invalid, or nil.
func (b *Base) Check(s settings.Settings) error {
	if s == nil {
		return fmt.Errorf("settings are nil")
	}
	if b.check == nil {
		return nil
	}
	return b.check(s)
}

func (b *Base) ValidateSettings(s settings.Settings) bool {
	return b.Check(s) == nil
}

func (b *Base) Settings() settings.Settings {
	return b.settings.Clone()
}

func (b *Base) SetSettings(s settings.Settings) error {
	if err := b.Check(s); err != nil {
		return &ValidationError{Control: b.meta.Name, Reason: err.Error()}
	}
	b.settings = s.Clone()
	return nil
}

// SafeName replaces spaces so a control name can be used in file names.
func SafeName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}
