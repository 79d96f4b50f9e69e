package installer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/arc-language/venvod/internal/testutil"
	"github.com/arc-language/venvod/pkg/command"
	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/requirements"
)

func newEnv(t *testing.T) *env.Descriptor {
	t.Helper()
	root := filepath.Join(t.TempDir(), "venv_test")
	if err := testutil.MakeVenv(root); err != nil {
		t.Fatal(err)
	}
	d, err := env.Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestInstall(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
	}{
		{"pip", BackendPip},
		{"uv", BackendUV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakePython(map[string][]string{"PyYAML": {"yaml"}})
			inst := New(&Config{Backend: tt.backend, Runner: fake})
			d := newEnv(t)

			text, err := inst.Install(context.Background(), requirements.List{"PyYAML"}, d, nil)
			if err != nil {
				t.Fatalf("Install() error = %v", err)
			}
			if text != "PyYAML\n" {
				t.Errorf("Install() text = %q", text)
			}
			if _, err := os.Stat(filepath.Join(d.PackageDir(), "yaml", "__init__.py")); err != nil {
				t.Errorf("module not installed: %v", err)
			}

			installs := fake.Installs()
			if len(installs) != 1 || installs[0].Root != d.Root() || !slices.Equal(installs[0].Names, []string{"PyYAML"}) {
				t.Errorf("Installs() = %+v", installs)
			}

			leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(d.Root()), "venv_req_*"))
			if len(leftovers) != 0 {
				t.Errorf("requirements file not removed: %v", leftovers)
			}
		})
	}
}

func TestInstallEmptyIsNoop(t *testing.T) {
	fake := testutil.NewFakePython(nil)
	inst := New(&Config{Runner: fake})

	for _, pkgs := range []requirements.Packages{nil, requirements.Raw(""), requirements.List{}} {
		if _, err := inst.Install(context.Background(), pkgs, nil, nil); err != nil {
			t.Errorf("Install(%v) error = %v", pkgs, err)
		}
	}
	if n := len(fake.Commands()); n != 0 {
		t.Errorf("ran %d commands for empty requirements", n)
	}
}

func TestInstallFailed(t *testing.T) {
	fake := testutil.NewFakePython(nil)
	inst := New(&Config{Runner: fake})
	d := newEnv(t)

	_, err := inst.Install(context.Background(), requirements.Raw("nosuchpkg"), d, nil)
	var failed *InstallFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("Install() error = %v, want *InstallFailedError", err)
	}
	if failed.ReturnCode != 1 || failed.Requirements != "nosuchpkg\n" {
		t.Errorf("InstallFailedError = %+v", failed)
	}
}

func TestInstallEnvironmentMissing(t *testing.T) {
	fake := testutil.NewFakePython(nil)
	inst := New(&Config{Runner: fake})

	d := newEnv(t)
	if err := os.Remove(d.Pip()); err != nil {
		t.Fatal(err)
	}
	if _, err := inst.Install(context.Background(), requirements.Raw("x"), d, nil); !errors.Is(err, ErrEnvironmentMissing) {
		t.Errorf("without pip: error = %v, want ErrEnvironmentMissing", err)
	}

	gone := newEnv(t)
	if err := os.RemoveAll(gone.Root()); err != nil {
		t.Fatal(err)
	}
	if _, err := inst.Install(context.Background(), requirements.Raw("x"), gone, nil); !errors.Is(err, ErrEnvironmentMissing) {
		t.Errorf("removed root: error = %v, want ErrEnvironmentMissing", err)
	}
	if n := len(fake.Commands()); n != 0 {
		t.Errorf("ran %d commands against a missing environment", n)
	}
}

type recordingRunner struct {
	cmds []*command.Cmd
}

func (r *recordingRunner) Run(_ context.Context, c *command.Cmd) error {
	r.cmds = append(r.cmds, c)
	return nil
}

func TestInstallStreams(t *testing.T) {
	runner := &recordingRunner{}
	inst := New(&Config{Runner: runner})
	d := newEnv(t)

	var out bytes.Buffer
	if _, err := inst.Install(context.Background(), requirements.Raw("x"), d, &core.InstallOptions{Stdout: &out}); err != nil {
		t.Fatal(err)
	}
	if len(runner.cmds) != 1 {
		t.Fatalf("commands = %d", len(runner.cmds))
	}
	c := runner.cmds[0]
	if c.Stdout != &out {
		t.Error("stdout not passed through")
	}
	if c.Stderr == nil {
		t.Error("nil stderr should be replaced by a discard writer")
	}
	if c.Name != d.Pip() || c.Args[0] != "install" || c.Args[1] != "-r" {
		t.Errorf("command = %s", c)
	}
}
