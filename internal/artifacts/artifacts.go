// Package artifacts generates every compatible artifact for a control's
// settings and packages them into a zip archive.
package artifacts

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/settings"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/logger"
	"github.com/tldr-it-stepankutaj/hardenkit/pkg/version"
)

// ReadmeName is the manifest written into every package.
const ReadmeName = "README.txt"

// Artifacts maps generator name to generated text.
type Artifacts map[string]string

// Names returns the generator names in sorted order.
func (a Artifacts) Names() []string {
	return settings.SortedKeys(a)
}

// GenerationError reports the generator that aborted a batch.
type GenerationError struct {
	Generator string
	Control   string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generator %s failed for %s: %v", e.Generator, e.Control, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// File is one entry of a package.
type File struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int    `json:"size"`
}

// Result is the outcome of Build.
type Result struct {
	Control   string    `json:"control"`
	Artifacts Artifacts `json:"artifacts"`
	Files     []File    `json:"files"`
	Package   []byte    `json:"-"`
}

// Service turns settings into artifacts and packages.
type Service struct {
	registry *generators.Registry
	now      func() time.Time
	logger   *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for README timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(registry *generators.Registry, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Service{
		registry: registry,
		now:      time.Now,
		logger:   log.WithComponent("artifacts"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateAll runs every generator compatible with s. The first failure
// aborts the batch; no partial result is returned.
func (s *Service) GenerateAll(controlName string, st settings.Settings) (Artifacts, error) {
	out := Artifacts{}
	for _, e := range s.registry.CompatibleWith(st) {
		text, err := e.Generator.Generate(controlName, st)
		if err != nil {
			s.logger.Error().Err(err).
				Str("control", controlName).
				Str("generator", e.Name).
				Msg("artifact generation failed")
			return nil, &GenerationError{Generator: e.Name, Control: controlName, Err: err}
		}
		out[e.Name] = text
		s.logger.Debug().
			Str("control", controlName).
			Str("generator", e.Name).
			Int("bytes", len(text)).
			Msg("generated artifact")
	}
	return out, nil
}

// FileName is the name an artifact gets inside a package.
func FileName(controlName, generatorName string, g generators.Generator) string {
	switch generatorName {
	case "gpo":
		return controlName + "_GPO.xml"
	case "powershell":
		return controlName + "_Script.ps1"
	case "registry":
		return controlName + "_Registry.reg"
	case "batch":
		return controlName + "_Deploy.bat"
	}
	return controlName + "." + g.FileExtension()
}

// Package zips artifacts together with a README manifest. Files follow
// generator registration order. Every artifact name must be registered.
func (s *Service) Package(controlName string, a Artifacts) ([]byte, error) {
	data, _, err := s.pack(controlName, a)
	return data, err
}

func (s *Service) pack(controlName string, a Artifacts) ([]byte, []File, error) {
	for _, name := range a.Names() {
		if _, ok := s.registry.Get(name); !ok {
			return nil, nil, errors.Wrapf(generators.ErrNotFound, "artifact %q", name)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []File{}

	for _, e := range s.registry.ListAll() {
		text, ok := a[e.Name]
		if !ok {
			continue
		}
		data, err := generators.Encode(e.Generator, text)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "encode %s", e.Name)
		}
		name := FileName(controlName, e.Name, e.Generator)
		if err := writeFile(zw, name, data); err != nil {
			return nil, nil, err
		}
		files = append(files, File{Name: name, MimeType: e.Generator.MimeType(), Size: len(data)})
	}

	readme, err := s.readme(controlName, files)
	if err != nil {
		return nil, nil, err
	}
	if err := writeFile(zw, ReadmeName, readme); err != nil {
		return nil, nil, err
	}
	files = append(files, File{Name: ReadmeName, MimeType: "text/plain", Size: len(readme)})

	if err := zw.Close(); err != nil {
		return nil, nil, errors.Wrap(err, "finalize zip")
	}

	s.logger.Debug().
		Str("control", controlName).
		Int("files", len(files)).
		Int("bytes", buf.Len()).
		Msg("packaged artifacts")
	return buf.Bytes(), files, nil
}

// Build generates and packages in one step.
func (s *Service) Build(controlName string, st settings.Settings) (*Result, error) {
	a, err := s.GenerateAll(controlName, st)
	if err != nil {
		return nil, err
	}
	data, files, err := s.pack(controlName, a)
	if err != nil {
		return nil, err
	}
	return &Result{Control: controlName, Artifacts: a, Files: files, Package: data}, nil
}

func writeFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return errors.Wrapf(err, "add %s", name)
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrapf(err, "write %s", name)
	}
	return nil
}

var readmeTemplate = template.Must(template.New("readme").Parse(`Windows Security Control Package
=================================

Control Name: {{ .Control }}
Generated: {{ .Generated }}

Files Included:
{{- range .Files }}
- {{ .Name }} ({{ .MimeType }})
{{- else }}
- (no artifacts were generated for these settings)
{{- end }}

IMPORTANT: Always test these configurations in a non-production environment first!
{{ .Disclaimer }}

Implementation Notes:
1. Run scripts with Administrator privileges
2. Backup your system before applying changes
3. Test thoroughly before deploying to production
4. Consider the impact on user workflows
`))

func (s *Service) readme(controlName string, files []File) ([]byte, error) {
	var buf bytes.Buffer
	err := readmeTemplate.Execute(&buf, struct {
		Control    string
		Generated  string
		Files      []File
		Disclaimer string
	}{
		Control:    controlName,
		Generated:  s.now().Format(generators.TimestampLayout),
		Files:      files,
		Disclaimer: version.Disclaimer,
	})
	if err != nil {
		return nil, errors.Wrap(err, "render readme")
	}
	return buf.Bytes(), nil
}
