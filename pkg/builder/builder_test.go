package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arc-language/venvod/internal/testutil"
	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/installer"
	"github.com/arc-language/venvod/pkg/requirements"
	"github.com/arc-language/venvod/pkg/snapshot"
)

func newBuilder(fake *testutil.FakePython, backend Backend) *Builder {
	return New(&Config{
		Backend:            backend,
		Python:             "python3",
		SystemSitePackages: true,
		Runner:             fake,
		Installer:          installer.New(&installer.Config{Runner: fake}),
	})
}

func TestBuildBackends(t *testing.T) {
	tests := []struct {
		backend Backend
		prefix  string
	}{
		{BackendVenv, "python3 -m venv --system-site-packages "},
		{BackendVirtualenv, "virtualenv --python python3 --system-site-packages "},
		{BackendUV, "uv venv --seed --python python3 --system-site-packages "},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			fake := testutil.NewFakePython(nil)
			b := newBuilder(fake, tt.backend)
			parent := t.TempDir()

			d, err := b.Build(context.Background(), &core.BuildRequest{ParentDir: parent})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if filepath.Dir(d.Root()) != parent || !strings.HasPrefix(filepath.Base(d.Root()), "venv_") {
				t.Errorf("Root() = %s", d.Root())
			}

			cmds := fake.Commands()
			if len(cmds) != 1 || cmds[0] != tt.prefix+d.Root() {
				t.Errorf("commands = %q", cmds)
			}
		})
	}
}

func TestBuildInstallsPackages(t *testing.T) {
	fake := testutil.NewFakePython(map[string][]string{"requests": {"requests"}})
	b := newBuilder(fake, BackendVenv)

	d, err := b.Build(context.Background(), &core.BuildRequest{
		ParentDir: t.TempDir(),
		Name:      "named",
		Packages:  requirements.List{"requests"},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if filepath.Base(d.Root()) != "named" {
		t.Errorf("Root() = %s", d.Root())
	}
	if _, err := os.Stat(filepath.Join(d.PackageDir(), "requests", "__init__.py")); err != nil {
		t.Error(err)
	}
}

func TestBuildFailures(t *testing.T) {
	t.Run("missing parent", func(t *testing.T) {
		b := newBuilder(testutil.NewFakePython(nil), BackendVenv)
		_, err := b.Build(context.Background(), &core.BuildRequest{ParentDir: filepath.Join(t.TempDir(), "absent")})
		if !errors.Is(err, ErrSetup) {
			t.Errorf("Build() error = %v, want ErrSetup", err)
		}
	})

	t.Run("backend fails", func(t *testing.T) {
		fake := testutil.NewFakePython(nil)
		fake.FailVenv = true
		b := newBuilder(fake, BackendVenv)
		parent := t.TempDir()

		if _, err := b.Build(context.Background(), &core.BuildRequest{ParentDir: parent}); !errors.Is(err, ErrSetup) {
			t.Fatalf("Build() error = %v, want ErrSetup", err)
		}
		if entries, _ := os.ReadDir(parent); len(entries) != 0 {
			t.Errorf("created directory not removed: %v", entries)
		}
	})

	t.Run("install fails", func(t *testing.T) {
		b := newBuilder(testutil.NewFakePython(nil), BackendVenv)
		parent := t.TempDir()

		_, err := b.Build(context.Background(), &core.BuildRequest{ParentDir: parent, Packages: requirements.Raw("nosuchpkg")})
		if !errors.Is(err, ErrSetup) {
			t.Fatalf("Build() error = %v, want ErrSetup", err)
		}
		var failed *installer.InstallFailedError
		if !errors.As(err, &failed) {
			t.Errorf("Build() error should carry the install failure: %v", err)
		}
		if entries, _ := os.ReadDir(parent); len(entries) != 0 {
			t.Errorf("created directory not removed: %v", entries)
		}
	})
}

func TestClose(t *testing.T) {
	b := newBuilder(testutil.NewFakePython(nil), BackendVenv)
	parent := t.TempDir()

	temp, err := b.Build(context.Background(), &core.BuildRequest{ParentDir: parent, DeleteOnClose: true})
	if err != nil {
		t.Fatal(err)
	}
	kept, err := b.Build(context.Background(), &core.BuildRequest{ParentDir: parent})
	if err != nil {
		t.Fatal(err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(temp.Root()); !os.IsNotExist(err) {
		t.Error("DeleteOnClose environment still exists")
	}
	if _, err := os.Stat(kept.Root()); err != nil {
		t.Error("environment without DeleteOnClose was removed")
	}
}

func TestBuildFromTemplate(t *testing.T) {
	source := filepath.Join(t.TempDir(), "source")
	if err := testutil.MakeVenv(source); err != nil {
		t.Fatal(err)
	}
	archive := filepath.Join(t.TempDir(), "template.nar.xz")
	if err := snapshot.ExportFile(source, archive); err != nil {
		t.Fatal(err)
	}

	fake := testutil.NewFakePython(nil)
	b := New(&Config{Backend: BackendVenv, Python: "python3", Template: archive, Runner: fake})

	d, err := b.Build(context.Background(), &core.BuildRequest{ParentDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if d.PythonVersion() != testutil.PythonVersion {
		t.Errorf("PythonVersion() = %q", d.PythonVersion())
	}
	if fake.VenvCount() != 0 {
		t.Error("template build should not run a backend")
	}
}
