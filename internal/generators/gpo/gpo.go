// Package gpo renders settings as a Group Policy Object XML export.
package gpo

import (
	"encoding/xml"
	"time"

	"github.com/google/uuid"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

const (
	Key           = "gpo"
	DefaultDomain = "example.com"
)

type document struct {
	XMLName    xml.Name `xml:"GroupPolicyObject"`
	Identifier string   `xml:"Identifier"`
	Domain     string   `xml:"Domain"`
	Name       string   `xml:"Name"`
	Generated  string   `xml:"Generated"`
	Computer   computer `xml:"Computer"`
}

type computer struct {
	Enabled       bool          `xml:"Enabled"`
	ExtensionData extensionData `xml:"ExtensionData"`
}

type extensionData struct {
	Registry *registryExtension `xml:"Registry,omitempty"`
	Firewall *firewallExtension `xml:"WindowsDefenderFirewall,omitempty"`
}

type registryExtension struct {
	Policies []policy `xml:"Policy"`
}

type policy struct {
	State     string `xml:"State,attr"`
	Key       string `xml:"Key,attr"`
	ValueName string `xml:"ValueName,attr"`
	Value     string `xml:"Value,attr"`
}

type firewallExtension struct {
	Rules []outboundRule `xml:"OutboundRule"`
}

type outboundRule struct {
	Action  string `xml:"Action,attr"`
	Program string `xml:"Program,attr"`
	Name    string `xml:"Name,attr"`
}

type Generator struct {
	domain string
	now    func() time.Time
}

// New returns a generator for domain (DefaultDomain when empty).
func New(domain string, now func() time.Time) *Generator {
	if domain == "" {
		domain = DefaultDomain
	}
	return &Generator{domain: domain, now: generators.Clock(now)}
}

func (g *Generator) FileExtension() string { return "xml" }
func (g *Generator) MimeType() string      { return "text/xml" }
func (g *Generator) Domain() string        { return g.domain }

func (g *Generator) SupportsSettings(s settings.Settings) bool {
	return s.HasAny(settings.KeyFileAssociations, settings.KeyFirewallRules)
}

// Identifier is stable for a domain and control name, so regenerating a
// package updates the same GPO instead of creating a new one.
func (g *Generator) Identifier(controlName string) string {
	id := uuid.NewSHA1(uuid.NameSpaceDNS, []byte(g.domain+"/"+controlName))
	return "{" + id.String() + "}"
}

func (g *Generator) Generate(controlName string, s settings.Settings) (string, error) {
	doc := document{
		Identifier: g.Identifier(controlName),
		Domain:     g.domain,
		Name:       controlName,
		Generated:  g.now().Format(generators.TimestampLayout),
		Computer:   computer{Enabled: true},
	}

	if s.Has(settings.KeyFileAssociations) {
		assoc, err := s.FileAssociations()
		if err != nil {
			return "", err
		}
		ext := &registryExtension{Policies: []policy{}}
		for _, e := range settings.SortedKeys(assoc) {
			ext.Policies = append(ext.Policies, policy{
				State: "Enabled",
				Key:   `HKEY_CLASSES_ROOT\` + e,
				Value: assoc[e],
			})
		}
		doc.Computer.ExtensionData.Registry = ext
	}

	if s.Has(settings.KeyFirewallRules) {
		rules, err := s.FirewallRules()
		if err != nil {
			return "", err
		}
		ext := &firewallExtension{Rules: []outboundRule{}}
		for _, r := range rules {
			ext.Rules = append(ext.Rules, outboundRule{Action: "Block", Program: r.Program, Name: r.Name})
		}
		doc.Computer.ExtensionData.Firewall = ext
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out) + "\n", nil
}
