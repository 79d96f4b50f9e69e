package activation

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/arc-language/venvod/pkg/env"
)

func TestSearchPath(t *testing.T) {
	p := NewSearchPath("/a", "", "/b", "/a")
	if got := p.Entries(); !slices.Equal(got, []string{"/a", "/b"}) {
		t.Fatalf("NewSearchPath entries = %v", got)
	}

	p.Prepend("/c")
	p.Prepend("/b")
	if got := p.Entries(); !slices.Equal(got, []string{"/b", "/c", "/a"}) {
		t.Fatalf("after Prepend = %v", got)
	}

	if !p.Remove("/c") || p.Remove("/c") {
		t.Error("Remove should report presence exactly once")
	}
	if p.Contains("/c") || !p.Contains("/a") {
		t.Errorf("Contains mismatch: %v", p.Entries())
	}
	if want := "/b" + string(os.PathListSeparator) + "/a"; p.String() != want {
		t.Errorf("String() = %q, want %q", p.String(), want)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("VENVOD_TEST_PATH", "/x"+string(os.PathListSeparator)+"/y")
	if got := FromEnv("VENVOD_TEST_PATH").Entries(); !slices.Equal(got, []string{"/x", "/y"}) {
		t.Errorf("FromEnv() = %v", got)
	}
}

func TestActivate(t *testing.T) {
	d, err := env.New(filepath.Join(t.TempDir(), "venv"), "3.12.1")
	if err != nil {
		t.Fatal(err)
	}
	m := NewManager(NewSearchPath("/site"))

	for i := 0; i < 2; i++ {
		if err := m.Activate(d); err != nil {
			t.Fatalf("Activate() error = %v", err)
		}
	}
	if got := m.SearchPath().Entries(); !slices.Equal(got, []string{d.PackageDir(), "/site"}) {
		t.Fatalf("entries after Activate = %v", got)
	}

	if !m.Deactivate(d) {
		t.Error("Deactivate should report removal")
	}
	if m.SearchPath().Contains(d.PackageDir()) {
		t.Error("package dir still on search path")
	}
}

func TestActivateRejectsUnbuilt(t *testing.T) {
	m := NewManager(NewSearchPath())
	tests := []struct {
		name string
		e    env.Environment
	}{
		{"nil", nil},
		{"deferred", env.NewDeferred(t.TempDir())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.Activate(tt.e); !errors.Is(err, ErrNotActivatable) {
				t.Errorf("Activate() = %v, want ErrNotActivatable", err)
			}
		})
	}
}

func TestEnviron(t *testing.T) {
	d, err := env.New(filepath.Join(t.TempDir(), "venv"), "3.12.1")
	if err != nil {
		t.Fatal(err)
	}
	got := Environ(d, []string{"HOME=/home/u", "PATH=/usr/bin", "PYTHONHOME=/opt/py", "VIRTUAL_ENV=/old"})

	want := []string{
		"HOME=/home/u",
		"VIRTUAL_ENV=" + d.Root(),
		"PATH=" + d.BinDir() + string(os.PathListSeparator) + "/usr/bin",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Environ() =\n%v\nwant\n%v", got, want)
	}
}
