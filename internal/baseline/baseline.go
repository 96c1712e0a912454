// Package baseline runs a YAML list of controls end to end: configure each
// control, build its package, store it in the workspace and record a JSON
// execution report.
package baseline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/app"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/controls/custom"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Step statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Baseline is a named, ordered set of controls to package together.
type Baseline struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Author      string `yaml:"author,omitempty" json:"author,omitempty"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Steps       []Step `yaml:"steps" json:"steps"`
}

// Step configures one control.
type Step struct {
	ID      string `yaml:"id,omitempty" json:"id,omitempty"`
	Control string `yaml:"control" json:"control"`
	// Name and Description rename a custom control; other controls ignore them.
	Name        string            `yaml:"name,omitempty" json:"name,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Settings    settings.Settings `yaml:"settings,omitempty" json:"settings,omitempty"`
	UseDefaults bool              `yaml:"use_defaults,omitempty" json:"use_defaults,omitempty"`
	Condition   string            `yaml:"condition,omitempty" json:"condition,omitempty"`   // e.g. `fileassoc.status == "completed"`
	OnFailure   string            `yaml:"on_failure,omitempty" json:"on_failure,omitempty"` // continue, stop
}

// StepResult holds the result of a step execution.
type StepResult struct {
	StepID    string        `json:"step_id"`
	Control   string        `json:"control"`
	Status    string        `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Package   string        `json:"package,omitempty"`
	Files     []string      `json:"files,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// ExecutionReport is written to reports/ after every run.
type ExecutionReport struct {
	Baseline       string                 `json:"baseline"`
	StartTime      time.Time              `json:"start_time"`
	EndTime        time.Time              `json:"end_time"`
	Duration       time.Duration          `json:"duration"`
	Status         string                 `json:"status"`
	TotalSteps     int                    `json:"total_steps"`
	CompletedSteps int                    `json:"completed_steps"`
	FailedSteps    int                    `json:"failed_steps"`
	SkippedSteps   int                    `json:"skipped_steps"`
	StepResults    map[string]*StepResult `json:"step_results"`
	ExecutionOrder []string               `json:"execution_order"`
	ReportPath     string                 `json:"-"`
}

// Load reads a baseline from a YAML file.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML baseline and assigns missing step IDs.
func Parse(data []byte) (*Baseline, error) {
	var b Baseline
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline: %w", err)
	}
	if len(b.Steps) == 0 {
		return nil, fmt.Errorf("baseline %q has no steps", b.Name)
	}
	seen := map[string]bool{}
	for i := range b.Steps {
		if b.Steps[i].ID == "" {
			b.Steps[i].ID = fmt.Sprintf("step_%d", i+1)
		}
		if seen[b.Steps[i].ID] {
			return nil, fmt.Errorf("duplicate step id %q", b.Steps[i].ID)
		}
		seen[b.Steps[i].ID] = true
		if strings.TrimSpace(b.Steps[i].Control) == "" {
			return nil, fmt.Errorf("step %s has no control", b.Steps[i].ID)
		}
		switch b.Steps[i].OnFailure {
		case "", "stop", "continue":
		default:
			return nil, fmt.Errorf("step %s: unknown on_failure %q", b.Steps[i].ID, b.Steps[i].OnFailure)
		}
	}
	return &b, nil
}

// Save writes a baseline as YAML.
func Save(b *Baseline, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(b)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

type execution struct {
	ctx     app.Context
	out     io.Writer
	results map[string]*StepResult
}

// Execute runs the steps in order. A failing step stops the run unless its
// on_failure is "continue"; the report is saved either way.
func Execute(ctx app.Context, b *Baseline, out io.Writer) (*ExecutionReport, error) {
	if out == nil {
		out = io.Discard
	}
	if ctx.Services == nil || ctx.Workspace == nil {
		return nil, fmt.Errorf("baseline execution needs services and a workspace")
	}
	ex := &execution{ctx: ctx, out: out, results: make(map[string]*StepResult)}
	start := time.Now()

	fmt.Fprintf(out, "\n╔══════════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(out, "║  Baseline: %-50s║\n", b.Name)
	fmt.Fprintf(out, "║  Steps: %-53d║\n", len(b.Steps))
	fmt.Fprintf(out, "╚══════════════════════════════════════════════════════════════╝\n\n")

	var order []string
	var runErr error
	for _, step := range b.Steps {
		result := ex.executeStep(step)
		order = append(order, step.ID)
		if result.Status == StatusFailed && step.OnFailure != "continue" {
			runErr = fmt.Errorf("step %s failed: %s", step.ID, result.Error)
			break
		}
	}

	report := ex.report(b, start, order)
	path := ctx.Workspace.Path("reports", fmt.Sprintf("baseline-%s-%s.json", sanitizeFilename(b.Name), ctx.Now.Format("20060102-150405")))
	if err := saveReport(report, path); err != nil {
		if ctx.Logger != nil {
			ctx.Logger.Warn().Err(err).Str("path", path).Msg("failed to save baseline report")
		}
	} else {
		report.ReportPath = path
	}
	return report, runErr
}

func (ex *execution) executeStep(step Step) *StepResult {
	result := &StepResult{StepID: step.ID, Control: step.Control, StartTime: time.Now()}
	ex.results[step.ID] = result

	fmt.Fprintf(ex.out, "┌─ Step: %s (%s)\n", step.ID, step.Control)

	finish := func(status string, err error) *StepResult {
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
		switch status {
		case StatusSkipped:
			fmt.Fprintf(ex.out, "│  Status: Skipped (condition not met)\n")
		case StatusFailed:
			result.Error = err.Error()
			fmt.Fprintf(ex.out, "│  Status: Failed - %s\n", err)
		default:
			fmt.Fprintf(ex.out, "│  Status: Completed (%d files, %s)\n", len(result.Files), filepath.Base(result.Package))
		}
		fmt.Fprintf(ex.out, "└─────────────────────────────────────────\n\n")
		return result
	}

	if step.Condition != "" && !ex.evaluateCondition(step.Condition) {
		return finish(StatusSkipped, nil)
	}

	c, err := ex.configure(step)
	if err != nil {
		return finish(StatusFailed, err)
	}
	res, err := ex.ctx.Services.Build(c)
	if err != nil {
		return finish(StatusFailed, err)
	}
	path, err := ex.ctx.Workspace.WritePackage(app.PackageFileName(c), res.Package)
	if err != nil {
		return finish(StatusFailed, err)
	}
	result.Package = path
	for _, f := range res.Files {
		result.Files = append(result.Files, f.Name)
	}
	return finish(StatusCompleted, nil)
}

// configure builds the step's control and applies its settings. With
// use_defaults, explicit settings override the defaults key by key.
func (ex *execution) configure(step Step) (controls.Control, error) {
	svc := ex.ctx.Services
	name, err := svc.Controls.Resolve(step.Control)
	if err != nil {
		return nil, err
	}

	var c controls.Control
	if name == custom.Name && step.Name != "" {
		c = custom.NewNamed(step.Name, step.Description)
	} else if c, err = svc.Controls.Create(name); err != nil {
		return nil, err
	}

	st := step.Settings
	if step.UseDefaults || st == nil {
		merged := c.DefaultSettings()
		for k, v := range step.Settings {
			merged[k] = v
		}
		st = merged
	}
	if err := c.SetSettings(st); err != nil {
		return nil, err
	}
	return c, nil
}

// evaluateCondition supports `<step>.status == "<status>"`, `!=` and
// `<step>.files > N`. Malformed conditions evaluate to true.
func (ex *execution) evaluateCondition(condition string) bool {
	parts := strings.Fields(condition)
	if len(parts) != 3 {
		return true
	}
	left := strings.Split(parts[0], ".")
	if len(left) != 2 {
		return true
	}
	result, ok := ex.results[left[0]]
	if !ok {
		return false
	}
	right := strings.Trim(parts[2], "\"'")

	switch left[1] {
	case "status":
		switch parts[1] {
		case "==":
			return result.Status == right
		case "!=":
			return result.Status != right
		}
	case "files":
		var n int
		if _, err := fmt.Sscanf(right, "%d", &n); err != nil {
			return true
		}
		switch parts[1] {
		case ">":
			return len(result.Files) > n
		case ">=":
			return len(result.Files) >= n
		case "==":
			return len(result.Files) == n
		}
	}
	return true
}

func (ex *execution) report(b *Baseline, start time.Time, order []string) *ExecutionReport {
	report := &ExecutionReport{
		Baseline:       b.Name,
		StartTime:      start,
		EndTime:        time.Now(),
		TotalSteps:     len(b.Steps),
		StepResults:    ex.results,
		ExecutionOrder: order,
	}
	report.Duration = report.EndTime.Sub(report.StartTime)

	report.Status = StatusCompleted
	for _, result := range ex.results {
		switch result.Status {
		case StatusCompleted:
			report.CompletedSteps++
		case StatusFailed:
			report.FailedSteps++
			report.Status = "partial"
		case StatusSkipped:
			report.SkippedSteps++
		}
	}
	if report.FailedSteps > 0 && report.CompletedSteps == 0 {
		report.Status = StatusFailed
	}
	return report
}

func saveReport(report *ExecutionReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	return w.Flush()
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-")
	return strings.ToLower(replacer.Replace(name))
}

// Predefined contains ready-made baselines.
var Predefined = map[string]*Baseline{
	"workstation": {
		Name:        "Standard Workstation",
		Description: "Low-disruption hardening for end-user workstations",
		Steps: []Step{
			{ID: "fileassoc", Control: "File Association Security", UseDefaults: true},
			{ID: "winx", Control: "WinX Menu Hardening", UseDefaults: true, OnFailure: "continue"},
			{ID: "hotkey", Control: "Windows Hotkey Control", UseDefaults: true, OnFailure: "continue"},
		},
	},
	"lockdown": {
		Name:        "Kiosk Lockdown",
		Description: "Every bundled control at its default settings, including outbound blocks",
		Steps: []Step{
			{ID: "fileassoc", Control: "File Association Security", UseDefaults: true},
			{ID: "network", Control: "Network Traffic Control", UseDefaults: true},
			{ID: "winx", Control: "WinX Menu Hardening", UseDefaults: true},
			{ID: "hotkey", Control: "Windows Hotkey Control", Settings: settings.Settings{
				settings.KeyDisableAllHotkeys: true,
				settings.KeyDisabledHotkeys:   []string{"R", "X", "S"},
			}},
		},
	},
}

// GetPredefined returns a predefined baseline by name.
func GetPredefined(name string) (*Baseline, bool) {
	b, ok := Predefined[name]
	return b, ok
}

// ListPredefined returns the predefined baseline names, sorted.
func ListPredefined() []string {
	names := make([]string, 0, len(Predefined))
	for name := range Predefined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
