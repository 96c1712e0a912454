package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/artifacts"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators/batch"
	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators/powershell"
)

func TestEnsure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "work")
	h, err := Ensure(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{PackagesDir, ArtifactsDir, BaselinesDir, LogsDir, ReportsDir} {
		if fi, err := os.Stat(h.Path(d)); err != nil || !fi.IsDir() {
			t.Errorf("%s not created: %v", d, err)
		}
	}
}

func TestWritePackage(t *testing.T) {
	h, _ := Ensure(t.TempDir())
	path, err := h.WritePackage("../escape.zip", []byte("PK"))
	if err != nil {
		t.Fatal(err)
	}
	if path != h.Path(PackagesDir, "escape.zip") {
		t.Errorf("path = %s", path)
	}
}

func TestWriteArtifacts(t *testing.T) {
	h, _ := Ensure(t.TempDir())
	reg := generators.NewRegistry(nil)
	reg.Register(powershell.Key, powershell.New(nil))
	reg.Register(batch.Key, batch.New(nil))

	paths, err := h.WriteArtifacts("Demo", artifacts.Artifacts{"batch": "a\nb", "powershell": "c"}, reg)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "Demo_Script.ps1" || filepath.Base(paths[1]) != "Demo_Deploy.bat" {
		t.Fatalf("paths = %v", paths)
	}
	b, _ := os.ReadFile(paths[1])
	if string(b) != "a\r\nb" {
		t.Errorf("batch file = %q", b)
	}
}
