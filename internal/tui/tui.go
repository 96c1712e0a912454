// Package tui is an interactive front end: pick a control, fill in its form
// and write the generated package into the workspace.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/app"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/artifacts"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls/custom"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
)

type screen int

const (
	screenControls screen = iota
	screenForm
	screenResult
)

type model struct {
	appCtx app.Context
	styles styles
	screen screen

	names  []string
	cursor int

	control  controls.Control
	renderer controls.Renderer
	form     form.Form
	values   form.Values
	field    int
	editing  bool
	input    string

	result *artifacts.Result
	path   string
	status string
	err    error
}

func newModel(appCtx app.Context) model {
	return model{
		appCtx: appCtx,
		styles: newStyles(),
		names:  appCtx.Services.Controls.Names(),
		status: "Ready.",
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.screen {
	case screenForm:
		if m.editing {
			return m.updateEditing(key)
		}
		return m.updateForm(key)
	case screenResult:
		switch key.String() {
		case "q":
			return m, tea.Quit
		case "enter", "esc":
			m.screen = screenControls
			m.result, m.path = nil, ""
		}
		return m, nil
	default:
		return m.updateControls(key)
	}
}

func (m model) updateControls(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.names) == 0 {
			return m, nil
		}
		m.open(m.names[m.cursor])
	}
	return m, nil
}

// open loads the selected control and its form.
func (m *model) open(name string) {
	c, err := m.appCtx.Services.Controls.Create(name)
	if err != nil {
		m.err = err
		return
	}
	rd, ok := m.appCtx.Services.Controls.Renderer(name)
	if !ok || !rd.CanRender(c) {
		m.err = errors.Errorf("%s has no form", name)
		return
	}
	m.control, m.renderer = c, rd
	m.form = rd.Form(c)
	m.values = m.form.Defaults()
	m.field = 0
	m.err = nil
	m.status = "Editing " + name
	m.screen = screenForm
}

func (m model) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.form.Fields) == 0 {
		if key.String() == "esc" {
			m.screen = screenControls
		}
		return m, nil
	}
	fld := m.form.Fields[m.field]

	switch key.String() {
	case "esc":
		m.screen = screenControls
		m.status = "Ready."
	case "up", "k":
		if m.field > 0 {
			m.field--
		}
	case "down", "j", "tab":
		if m.field < len(m.form.Fields)-1 {
			m.field++
		}
	case " ", "space", "enter":
		switch fld.Kind {
		case form.Toggle:
			m.values[fld.Key] = !m.values.Bool(fld.Key)
		case form.Choice:
			m.values[fld.Key] = cycle(fld.Choices, m.values.String(fld.Key), 1)
		case form.Text:
			m.editing = true
			m.input = m.values.String(fld.Key)
		}
	case "left", "h":
		if fld.Kind == form.Choice {
			m.values[fld.Key] = cycle(fld.Choices, m.values.String(fld.Key), -1)
		}
	case "right", "l":
		if fld.Kind == form.Choice {
			m.values[fld.Key] = cycle(fld.Choices, m.values.String(fld.Key), 1)
		}
	case "d":
		m.values = m.form.Defaults()
		m.status = "Form reset to defaults."
	case "g":
		m.generate()
	}
	return m, nil
}

func (m model) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	fld := m.form.Fields[m.field]
	switch key.Type {
	case tea.KeyEnter:
		m.values[fld.Key] = m.input
		m.editing = false
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(key.Runes)
	}
	return m, nil
}

// generate turns the form into settings, builds the package and writes it
// into the workspace.
func (m *model) generate() {
	c := m.control
	if c.Metadata().Name == custom.Name {
		c = custom.NewNamed(m.values.String(custom.FieldName), m.values.String(custom.FieldDescription))
	}
	st, err := m.renderer.Settings(c, m.values)
	if err != nil {
		m.fail(err)
		return
	}
	if err := c.SetSettings(st); err != nil {
		m.fail(err)
		return
	}
	res, err := m.appCtx.Services.Build(c)
	if err != nil {
		m.fail(err)
		return
	}
	path, err := m.appCtx.Workspace.WritePackage(app.PackageFileName(c), res.Package)
	if err != nil {
		m.fail(err)
		return
	}
	if m.appCtx.Logger != nil {
		m.appCtx.Logger.Info().
			Str("control", c.Metadata().Name).
			Str("path", path).
			Int("artifacts", len(res.Artifacts)).
			Msg("package written")
	}
	m.result, m.path, m.err = res, path, nil
	m.status = "Package written."
	m.screen = screenResult
}

func (m *model) fail(err error) {
	m.err = err
	if errors.Is(err, controls.ErrNoSelection) {
		m.status = "Nothing selected."
		return
	}
	m.status = "Generation failed."
}

func cycle(choices []string, current string, step int) string {
	if len(choices) == 0 {
		return current
	}
	i := 0
	for j, c := range choices {
		if c == current {
			i = j
			break
		}
	}
	i = (i + step + len(choices)) % len(choices)
	return choices[i]
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("hardenkit") + " " + m.styles.Subtitle.Render("Windows security control packages") + "\n\n")

	switch m.screen {
	case screenForm:
		b.WriteString(m.viewForm())
	case screenResult:
		b.WriteString(m.viewResult())
	default:
		b.WriteString(m.viewControls())
	}

	b.WriteString("\n" + m.status + "\n")
	if m.err != nil {
		b.WriteString(m.styles.Error.Render("Error: "+m.err.Error()) + "\n")
	}
	return b.String()
}

func (m model) viewControls() string {
	var b strings.Builder
	for i, name := range m.names {
		c, err := m.appCtx.Services.Controls.Create(name)
		if err != nil {
			continue
		}
		meta := c.Metadata()
		risk := meta.RiskLevel.String()
		line := fmt.Sprintf("%s [%s]", name, m.styles.Risk[risk].Render(risk))
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> "+name) + fmt.Sprintf(" [%s]", m.styles.Risk[risk].Render(risk)) + "\n")
			b.WriteString("    " + m.styles.Muted.Render(meta.Description) + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n" + m.styles.KeyHint.Render("up/down move  enter configure  q quit") + "\n")
	return b.String()
}

func (m model) viewForm() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.form.Title) + "\n")

	group := ""
	for i, fld := range m.form.Fields {
		if fld.Group != "" && fld.Group != group {
			group = fld.Group
			b.WriteString("\n" + m.styles.Group.Render(group) + "\n")
		}
		var value string
		switch fld.Kind {
		case form.Toggle:
			value = "[ ]"
			if m.values.Bool(fld.Key) {
				value = "[x]"
			}
			value += " " + fld.Label
		case form.Choice:
			value = fmt.Sprintf("%s: < %s >", fld.Label, m.values.String(fld.Key))
		case form.Text:
			text := m.values.String(fld.Key)
			if m.editing && i == m.field {
				text = m.input + "_"
			}
			value = fmt.Sprintf("%s: %s", fld.Label, text)
		}
		if i == m.field {
			b.WriteString(m.styles.Selected.Render("> "+value))
			if fld.Help != "" {
				b.WriteString("  " + m.styles.Muted.Render(fld.Help))
			}
			b.WriteString("\n")
			continue
		}
		b.WriteString("  " + value + "\n")
	}

	hint := "up/down move  space toggle  left/right choose  enter edit  d defaults  g generate  esc back"
	if m.editing {
		hint = "type to edit  enter save  esc cancel"
	}
	b.WriteString("\n" + m.styles.KeyHint.Render(hint) + "\n")
	return b.String()
}

func (m model) viewResult() string {
	var lines []string
	lines = append(lines, m.styles.Success.Render("Package: "+m.path))
	for _, f := range m.result.Files {
		lines = append(lines, fmt.Sprintf("  %-40s %-28s %d bytes", f.Name, f.MimeType, f.Size))
	}
	return m.styles.Box.Render(strings.Join(lines, "\n")) + "\n\n" +
		m.styles.KeyHint.Render("enter back  q quit") + "\n"
}

// Run starts the TUI.
func Run(appCtx app.Context) error {
	if appCtx.Services == nil {
		return errors.New("tui: services not initialised")
	}
	_, err := tea.NewProgram(newModel(appCtx)).Run()
	return err
}
