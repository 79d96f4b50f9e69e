package env

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func makeVenv(t *testing.T, root, version string) {
	t.Helper()
	layout := GetLayout(runtime.GOOS, version)
	for _, dir := range []string{layout.BinDir, layout.PackageDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, exe := range []string{"python", "pip"} {
		if err := os.WriteFile(ExecutablePath(root, exe), nil, 0755); err != nil {
			t.Fatal(err)
		}
	}
	cfg := "home = /usr/bin\ninclude-system-site-packages = true\nversion = " + version + "\n"
	if err := os.WriteFile(filepath.Join(root, PyvenvConfig), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGetLayout(t *testing.T) {
	tests := []struct {
		goos, version string
		want          Layout
	}{
		{"linux", "3.12.1", Layout{BinDir: "bin", PackageDir: filepath.Join("lib", "python3.12", "site-packages")}},
		{"darwin", "3.9", Layout{BinDir: "bin", PackageDir: filepath.Join("lib", "python3.9", "site-packages")}},
		{"windows", "3.12.1", Layout{BinDir: "Scripts", PackageDir: filepath.Join("Lib", "site-packages"), ExeSuffix: ".exe"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			if got := GetLayout(tt.goos, tt.version); got != tt.want {
				t.Errorf("GetLayout(%q, %q) = %+v, want %+v", tt.goos, tt.version, got, tt.want)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv_test")
	makeVenv(t, root, "3.12.1")

	d, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if d.Root() != root {
		t.Errorf("Root() = %q, want %q", d.Root(), root)
	}
	if d.PythonVersion() != "3.12.1" {
		t.Errorf("PythonVersion() = %q", d.PythonVersion())
	}
	if want := PackageDirFor(root, "3.12.1"); d.PackageDir() != want {
		t.Errorf("PackageDir() = %q, want %q", d.PackageDir(), want)
	}
	if !d.Built() {
		t.Error("descriptor should report Built")
	}
}

func TestDiscoverWithoutPyvenvConfig(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX layout only")
	}
	root := filepath.Join(t.TempDir(), "venv")
	makeVenv(t, root, "3.11.4")
	if err := os.Remove(filepath.Join(root, PyvenvConfig)); err != nil {
		t.Fatal(err)
	}

	d, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if d.PythonVersion() != "3.11" {
		t.Errorf("PythonVersion() = %q, want 3.11", d.PythonVersion())
	}
}

func TestValidate(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv")
	makeVenv(t, root, "3.12.1")

	d, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() on fresh env = %v", err)
	}

	if err := os.Remove(d.Pip()); err != nil {
		t.Fatal(err)
	}
	err = d.Validate()
	if !errors.Is(err, ErrInvalidEnvironment) {
		t.Fatalf("Validate() without pip = %v, want ErrInvalidEnvironment", err)
	}

	if err := os.RemoveAll(root); err != nil {
		t.Fatal(err)
	}
	var verr *ValidationError
	if err := d.Validate(); !errors.As(err, &verr) || verr.Root != root {
		t.Fatalf("Validate() on removed env = %v", err)
	}
}

func TestOpenNotAnEnvironment(t *testing.T) {
	if _, err := Open(t.TempDir()); !errors.Is(err, ErrInvalidEnvironment) {
		t.Fatalf("Open() = %v, want ErrInvalidEnvironment", err)
	}
}

func TestDeferred(t *testing.T) {
	d := NewDeferred("/tmp/parent")
	if d.Built() {
		t.Error("deferred environment should not report Built")
	}
	if d.ParentDir() != "/tmp/parent" {
		t.Errorf("ParentDir() = %q", d.ParentDir())
	}
}

func TestMarker(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv")
	makeVenv(t, root, "3.12.1")
	d, err := Discover(root)
	if err != nil {
		t.Fatal(err)
	}

	got, err := ReadMarker(d)
	if err != nil || got != "" {
		t.Fatalf("ReadMarker() on fresh env = %q, %v", got, err)
	}
	if err := WriteMarker(d, "1.2.0"); err != nil {
		t.Fatal(err)
	}
	if got, _ := ReadMarker(d); got != "1.2.0" {
		t.Errorf("ReadMarker() = %q, want 1.2.0", got)
	}
}

func TestManager(t *testing.T) {
	m := NewManager(t.TempDir())

	specs, err := m.List()
	if err != nil || len(specs) != 0 {
		t.Fatalf("List() on empty root = %v, %v", specs, err)
	}

	for _, name := range []string{"web", "analysis"} {
		makeVenv(t, m.Path(name), "3.12.1")
		d, err := m.Descriptor(name)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Save(m.Record(name, d, "requests\n", "1.0")); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}

	specs, err = m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 || specs[0].Name != "analysis" || specs[1].Name != "web" {
		t.Fatalf("List() = %+v", specs)
	}

	spec, err := m.Load("web")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Requirements != "requests\n" || spec.Version != "1.0" || spec.PythonVersion != "3.12.1" {
		t.Errorf("Load() = %+v", spec)
	}

	if err := m.Remove("web"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load("web"); err == nil {
		t.Error("Load() after Remove should fail")
	}
	if err := m.Remove("../escape"); err == nil {
		t.Error("Remove() should reject names with separators")
	}
}
