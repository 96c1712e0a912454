package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/artifacts"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators"
)

// Workspace subdirectories.
const (
	PackagesDir  = "packages"
	ArtifactsDir = "artifacts"
	BaselinesDir = "baselines"
	LogsDir      = "logs"
	ReportsDir   = "reports"
)

// Handle implements app.WorkspaceHandle and provides helper methods.
type Handle struct {
	Root string
}

// Path joins workspace root with provided parts.
func (h Handle) Path(parts ...string) string {
	all := append([]string{h.Root}, parts...)
	return filepath.Join(all...)
}

// Ensure creates the workspace directory structure if missing.
func Ensure(root string) (Handle, error) {
	h := Handle{Root: root}
	dirs := []string{
		root,
		filepath.Join(root, PackagesDir),
		filepath.Join(root, ArtifactsDir),
		filepath.Join(root, BaselinesDir),
		filepath.Join(root, LogsDir),
		filepath.Join(root, ReportsDir),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return h, fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return h, nil
}

// WritePackage stores a zip under packages/ and returns its path.
func (h Handle) WritePackage(fileName string, data []byte) (string, error) {
	path := h.Path(PackagesDir, filepath.Base(fileName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write package: %w", err)
	}
	return path, nil
}

// WriteArtifacts stores each artifact as its own file under
// artifacts/<control>/, encoded the way it would be packaged. Returns the
// written paths in registry order.
func (h Handle) WriteArtifacts(controlName string, a artifacts.Artifacts, reg *generators.Registry) ([]string, error) {
	dir := h.Path(ArtifactsDir, filepath.Base(controlName))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range reg.ListAll() {
		text, ok := a[e.Name]
		if !ok {
			continue
		}
		data, err := generators.Encode(e.Generator, text)
		if err != nil {
			return paths, fmt.Errorf("failed to encode %s: %w", e.Name, err)
		}
		path := filepath.Join(dir, artifacts.FileName(controlName, e.Name, e.Generator))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write artifact: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
