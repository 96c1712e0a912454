package controls

import (
	"errors"
	"testing"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/form"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

type stubControl struct {
	Base
	tag string
}

func newStub(name, tag string) Factory {
	return func() Control {
		c := &stubControl{tag: tag}
		c.Base = NewBase(Metadata{Name: name, RiskLevel: RiskMedium}, func(s settings.Settings) error {
			if !s.Has("required") {
				return errors.New("required key missing")
			}
			return nil
		})
		return c
	}
}

func (c *stubControl) DefaultSettings() settings.Settings { return settings.Settings{"required": true} }
func (c *stubControl) Schema() Schema                     { return Schema{} }

type stubRenderer struct{}

func (stubRenderer) CanRender(c Control) bool {
	_, ok := c.(*stubControl)
	return ok
}

func (stubRenderer) Form(Control) form.Form { return form.Form{Title: "stub"} }

func (stubRenderer) Settings(Control, form.Values) (settings.Settings, error) {
	return nil, ErrNoSelection
}

func TestRegisterAndCreate(t *testing.T) {
	r := NewRegistry(nil)
	name := r.Register(newStub("File Association Security", "a"), nil)
	if name != "File Association Security" {
		t.Fatalf("Register() = %q", name)
	}

	c, err := r.Create(name)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.Metadata().Name != name {
		t.Errorf("Create(%q).Metadata().Name = %q", name, c.Metadata().Name)
	}

	other, _ := r.Create(name)
	if err := c.SetSettings(settings.Settings{"required": 1}); err != nil {
		t.Fatalf("SetSettings() error = %v", err)
	}
	if len(other.Settings()) != 0 {
		t.Error("Create must return independent instances")
	}
}

func TestCreateNotFound(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Create("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Create(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRendererAbsentIsNotError(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(newStub("with", ""), func() Renderer { return stubRenderer{} })
	r.Register(newStub("without", ""), nil)

	if _, ok := r.Renderer("without"); ok {
		t.Error("Renderer(without) reported a renderer")
	}
	if _, ok := r.Renderer("never registered"); ok {
		t.Error("Renderer(never registered) reported a renderer")
	}
	rd, ok := r.Renderer("with")
	if !ok {
		t.Fatal("Renderer(with) missing")
	}
	c, _ := r.Create("with")
	if !rd.CanRender(c) {
		t.Error("renderer cannot render its own control")
	}
}

func TestRegisterCollisionLastWriteWins(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(newStub("dup", "first"), nil)
	r.Register(newStub("second", ""), nil)
	r.Register(newStub("dup", "last"), nil)

	c, err := r.Create("dup")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.(*stubControl).tag; got != "last" {
		t.Errorf("collision kept %q, want last", got)
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "dup" || names[1] != "second" {
		t.Errorf("Names() = %v", names)
	}
}

func TestListAvailableIsCopy(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(newStub("a", ""), nil)

	list := r.ListAvailable()
	delete(list, "a")
	list["injected"] = newStub("injected", "")

	if _, err := r.Create("a"); err != nil {
		t.Errorf("mutating ListAvailable result removed a control: %v", err)
	}
	if _, err := r.Create("injected"); err == nil {
		t.Error("mutating ListAvailable result added a control")
	}
}

func TestResolve(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(newStub("File Association Security", ""), nil)

	for _, in := range []string{"File Association Security", "File_Association_Security", "file_association_security"} {
		got, err := r.Resolve(in)
		if err != nil || got != "File Association Security" {
			t.Errorf("Resolve(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := r.Resolve("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(nope) error = %v", err)
	}
}

func TestSetSettingsAtomic(t *testing.T) {
	c := newStub("atomic", "")()
	good := settings.Settings{"required": "yes"}
	if err := c.SetSettings(good); err != nil {
		t.Fatal(err)
	}

	err := c.SetSettings(settings.Settings{"other": 1})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Control != "atomic" {
		t.Fatalf("SetSettings(invalid) error = %v", err)
	}
	if !errors.Is(err, ErrInvalidSettings) {
		t.Error("ValidationError must match ErrInvalidSettings")
	}
	if got := c.Settings(); got["required"] != "yes" || got.Has("other") {
		t.Errorf("invalid assignment changed settings to %v", got)
	}

	good["required"] = "mutated after assignment"
	if c.Settings()["required"] != "yes" {
		t.Error("control shares settings map with caller")
	}
}

func TestMetadataIsCopy(t *testing.T) {
	f := func() Control {
		c := &stubControl{}
		c.Base = NewBase(Metadata{Name: "m", CommonTargets: []string{".scr"}}, nil)
		return c
	}
	c := f()
	m := c.Metadata()
	m.CommonTargets[0] = "changed"
	if c.Metadata().CommonTargets[0] != ".scr" {
		t.Error("Metadata() exposes internal slice")
	}
}

func TestRiskLevel(t *testing.T) {
	if !(RiskLow < RiskMedium && RiskMedium < RiskHigh) {
		t.Error("risk levels are not ordered")
	}
	for _, lvl := range []RiskLevel{RiskLow, RiskMedium, RiskHigh} {
		got, err := ParseRiskLevel(lvl.String())
		if err != nil || got != lvl {
			t.Errorf("ParseRiskLevel(%s) = %v, %v", lvl, got, err)
		}
	}
	if _, err := ParseRiskLevel("critical"); err == nil {
		t.Error("ParseRiskLevel(critical) should fail")
	}
}

func TestSafeName(t *testing.T) {
	if got := SafeName("WinX Menu Hardening"); got != "WinX_Menu_Hardening" {
		t.Errorf("SafeName() = %q", got)
	}
}
