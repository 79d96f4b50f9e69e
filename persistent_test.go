package venvod

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/requirements"
)

func TestSetupAndActivate(t *testing.T) {
	f := newFixture(t, map[string][]string{"requests": {"requests"}, "PyYAML": {"yaml"}})
	ctx := context.Background()
	pkgs := requirements.List{"requests"}

	d, err := f.c.SetupAndActivate(ctx, f.parent, "app", pkgs, WithVersion("1.0"))
	if err != nil {
		t.Fatalf("SetupAndActivate() error = %v", err)
	}
	if d.Root() != filepath.Join(f.parent, "app") {
		t.Errorf("Root() = %s", d.Root())
	}
	if got, _ := env.ReadMarker(d); got != "1.0" {
		t.Errorf("marker = %q, want 1.0", got)
	}
	if !f.rt.SearchPath().Contains(d.PackageDir()) {
		t.Error("environment not activated")
	}
	if n := f.installCount(); n != 1 {
		t.Fatalf("installs after create = %d, want 1", n)
	}

	steps := []struct {
		name         string
		opts         []SetupOption
		wantInstalls int
		wantMarker   string
	}{
		{"same version reuses", []SetupOption{WithVersion("1.0")}, 1, "1.0"},
		{"lower version reuses", []SetupOption{WithVersion("0.9")}, 1, "1.0"},
		{"no version reuses", nil, 1, "1.0"},
		{"higher version installs", []SetupOption{WithVersion("1.0.1")}, 2, "1.0.1"},
		{"force installs", []SetupOption{WithForceInstall()}, 3, "1.0.1"},
	}
	for _, step := range steps {
		d, err := f.c.SetupAndActivate(ctx, f.parent, "app", pkgs, step.opts...)
		if err != nil {
			t.Fatalf("%s: error = %v", step.name, err)
		}
		if n := f.installCount(); n != step.wantInstalls {
			t.Errorf("%s: installs = %d, want %d", step.name, n, step.wantInstalls)
		}
		if got, _ := env.ReadMarker(d); got != step.wantMarker {
			t.Errorf("%s: marker = %q, want %q", step.name, got, step.wantMarker)
		}
	}
	if n := f.fake.VenvCount(); n != 1 {
		t.Errorf("environments built = %d, want 1", n)
	}
}

func TestSetupAndActivateRecreatesInvalid(t *testing.T) {
	f := newFixture(t, nil)
	root := filepath.Join(f.parent, "broken")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}

	d, err := f.c.SetupAndActivate(context.Background(), f.parent, "broken", nil)
	if err != nil {
		t.Fatalf("SetupAndActivate() error = %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("recreated environment invalid: %v", err)
	}
	if n := f.fake.VenvCount(); n != 1 {
		t.Errorf("environments built = %d, want 1", n)
	}
}

func TestSetupAndActivateEnablesImporter(t *testing.T) {
	f := newFixture(t, nil)
	d, err := f.c.SetupAndActivate(context.Background(), f.parent, "global", nil, WithOnDemandImporter())
	if err != nil {
		t.Fatal(err)
	}
	if !f.c.HookEnabled() {
		t.Error("hook not enabled")
	}
	if f.c.GlobalEnvironmentInfo() != env.Environment(d) {
		t.Error("environment not made global")
	}
}
